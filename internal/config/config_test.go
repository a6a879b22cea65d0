package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"CacheDir", cfg.CacheDir, ".spaq/cache"},
		{"SocketPath", cfg.SocketPath, "/tmp/spaq.sock"},
		{"IgnoreFileName", cfg.IgnoreFileName, ".spaqignore"},
		{"AffectsCacheSize", cfg.AffectsCacheSize, 4096},
		{"Debug", cfg.Debug, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("DefaultConfig().%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *Config
		wantErr     bool
		errContains string
	}{
		{
			name: "valid config",
			cfg: &Config{
				CacheDir:         ".spaq/cache",
				SocketPath:       "/tmp/spaq.sock",
				IgnoreFileName:   ".spaqignore",
				AffectsCacheSize: 1024,
			},
			wantErr: false,
		},
		{
			name: "missing cache_dir",
			cfg: &Config{
				SocketPath:       "/tmp/spaq.sock",
				IgnoreFileName:   ".spaqignore",
				AffectsCacheSize: 1024,
			},
			wantErr:     true,
			errContains: "cache_dir",
		},
		{
			name: "missing socket_path",
			cfg: &Config{
				CacheDir:         ".spaq/cache",
				IgnoreFileName:   ".spaqignore",
				AffectsCacheSize: 1024,
			},
			wantErr:     true,
			errContains: "socket_path",
		},
		{
			name: "missing ignore_file_name",
			cfg: &Config{
				CacheDir:         ".spaq/cache",
				SocketPath:       "/tmp/spaq.sock",
				AffectsCacheSize: 1024,
			},
			wantErr:     true,
			errContains: "ignore_file_name",
		},
		{
			name: "non-positive affects_cache_size",
			cfg: &Config{
				CacheDir:       ".spaq/cache",
				SocketPath:     "/tmp/spaq.sock",
				IgnoreFileName: ".spaqignore",
			},
			wantErr:     true,
			errContains: "affects_cache_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error containing %q, got nil", tt.errContains)
				} else if !contains(err.Error(), tt.errContains) {
					t.Errorf("Error = %q, should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		configYAML  string
		envVars     map[string]string
		checkCfg    func(*testing.T, *Config)
		wantErr     bool
		errContains string
	}{
		{
			name: "load valid config from file",
			configYAML: `
cache_dir: /custom/cache
socket_path: /custom/path.sock
ignore_file_name: .customignore
affects_cache_size: 8192
debug: true
`,
			checkCfg: func(t *testing.T, cfg *Config) {
				if cfg.CacheDir != "/custom/cache" {
					t.Errorf("CacheDir = %v, want /custom/cache", cfg.CacheDir)
				}
				if cfg.SocketPath != "/custom/path.sock" {
					t.Errorf("SocketPath = %v, want /custom/path.sock", cfg.SocketPath)
				}
				if cfg.IgnoreFileName != ".customignore" {
					t.Errorf("IgnoreFileName = %v, want .customignore", cfg.IgnoreFileName)
				}
				if cfg.AffectsCacheSize != 8192 {
					t.Errorf("AffectsCacheSize = %v, want 8192", cfg.AffectsCacheSize)
				}
				if !cfg.Debug {
					t.Error("Debug = false, want true")
				}
			},
			wantErr: false,
		},
		{
			name: "env var overrides file values",
			configYAML: `
cache_dir: /from-file/cache
socket_path: /from-file/path.sock
`,
			envVars: map[string]string{
				"SPAQ_CACHE_DIR": "/from-env/cache",
			},
			checkCfg: func(t *testing.T, cfg *Config) {
				if cfg.CacheDir != "/from-env/cache" {
					t.Errorf("CacheDir = %v, want /from-env/cache (from env)", cfg.CacheDir)
				}
				if cfg.SocketPath != "/from-file/path.sock" {
					t.Errorf("SocketPath = %v, want /from-file/path.sock (from file)", cfg.SocketPath)
				}
			},
			wantErr: false,
		},
		{
			name: "invalid yaml",
			configYAML: `
cache_dir: /custom/cache
  invalid: indent
`,
			wantErr:     true,
			errContains: "failed to parse",
		},
		{
			name: "invalid config after load",
			configYAML: `
cache_dir: ""
affects_cache_size: -1
`,
			wantErr:     true,
			errContains: "cache_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				os.Setenv(k, v)
				defer os.Unsetenv(k)
			}

			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configPath, []byte(tt.configYAML), 0644)
			if err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}

			cfg, err := LoadFromFile(configPath)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error containing %q, got nil", tt.errContains)
				} else if !contains(err.Error(), tt.errContains) {
					t.Errorf("Error = %q, should contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if tt.checkCfg != nil {
				tt.checkCfg(t, cfg)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	origEnv := os.Environ()
	defer func() {
		os.Unsetenv("SPAQ_CACHE_DIR")
		os.Unsetenv("SPAQ_SOCKET_PATH")
		os.Unsetenv("SPAQ_IGNORE_FILE_NAME")
		os.Unsetenv("SPAQ_AFFECTS_CACHE_SIZE")
		os.Unsetenv("SPAQ_DEBUG")
		for _, e := range origEnv {
			parts := splitEnv(e)
			if len(parts) == 2 {
				os.Setenv(parts[0], parts[1])
			}
		}
	}()

	tests := []struct {
		name    string
		envVars map[string]string
		check   func(*testing.T, *Config)
	}{
		{
			name: "override cache dir",
			envVars: map[string]string{
				"SPAQ_CACHE_DIR": "/custom/cache",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.CacheDir != "/custom/cache" {
					t.Errorf("CacheDir = %v, want /custom/cache", cfg.CacheDir)
				}
			},
		},
		{
			name: "override socket path",
			envVars: map[string]string{
				"SPAQ_SOCKET_PATH": "/my/custom/socket.sock",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.SocketPath != "/my/custom/socket.sock" {
					t.Errorf("SocketPath = %v, want /my/custom/socket.sock", cfg.SocketPath)
				}
			},
		},
		{
			name: "override ignore file name",
			envVars: map[string]string{
				"SPAQ_IGNORE_FILE_NAME": ".customignore",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.IgnoreFileName != ".customignore" {
					t.Errorf("IgnoreFileName = %v, want .customignore", cfg.IgnoreFileName)
				}
			},
		},
		{
			name: "override affects cache size",
			envVars: map[string]string{
				"SPAQ_AFFECTS_CACHE_SIZE": "2048",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.AffectsCacheSize != 2048 {
					t.Errorf("AffectsCacheSize = %v, want 2048", cfg.AffectsCacheSize)
				}
			},
		},
		{
			name: "override debug with various true values",
			envVars: map[string]string{
				"SPAQ_DEBUG": "yes",
			},
			check: func(t *testing.T, cfg *Config) {
				if !cfg.Debug {
					t.Error("Debug = false, want true (from 'yes')")
				}
			},
		},
		{
			name: "invalid int ignored",
			envVars: map[string]string{
				"SPAQ_AFFECTS_CACHE_SIZE": "not-an-int",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.AffectsCacheSize != 4096 {
					t.Errorf("AffectsCacheSize = %v, want 4096 (default)", cfg.AffectsCacheSize)
				}
			},
		},
		{
			name: "negative values ignored",
			envVars: map[string]string{
				"SPAQ_AFFECTS_CACHE_SIZE": "-100",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.AffectsCacheSize != 4096 {
					t.Errorf("AffectsCacheSize = %v, want 4096 (default)", cfg.AffectsCacheSize)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("SPAQ_CACHE_DIR")
			os.Unsetenv("SPAQ_SOCKET_PATH")
			os.Unsetenv("SPAQ_IGNORE_FILE_NAME")
			os.Unsetenv("SPAQ_AFFECTS_CACHE_SIZE")
			os.Unsetenv("SPAQ_DEBUG")

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg := DefaultConfig()
			applyEnvOverrides(cfg)

			tt.check(t, cfg)
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"0", 0},
		{"100", 100},
		{"4096", 4096},
		{"invalid", 0},
		{"", 0},
		{"abc123", 0},
		{"10.5", 10}, // Will parse 10 from 10.5
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseInt(tt.input)
			if result != tt.expected {
				t.Errorf("parseInt(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

// Helper functions

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && containsAt(s, substr))
}

func containsAt(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func splitEnv(e string) []string {
	for i := 0; i < len(e); i++ {
		if e[i] == '=' {
			return []string{e[:i], e[i+1:]}
		}
	}
	return []string{e}
}

func TestConfigSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := &Config{
		CacheDir:         "/tmp/spaq-cache",
		SocketPath:       "/tmp/spaq.sock",
		IgnoreFileName:   ".spaqignore",
		AffectsCacheSize: 2048,
		Debug:            true,
	}

	err := cfg.Save(configPath)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatalf("Config file was not created at %s", configPath)
	}

	loadedCfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if loadedCfg.CacheDir != cfg.CacheDir {
		t.Errorf("CacheDir mismatch: got %s, want %s", loadedCfg.CacheDir, cfg.CacheDir)
	}
	if loadedCfg.SocketPath != cfg.SocketPath {
		t.Errorf("SocketPath mismatch: got %s, want %s", loadedCfg.SocketPath, cfg.SocketPath)
	}
	if loadedCfg.AffectsCacheSize != cfg.AffectsCacheSize {
		t.Errorf("AffectsCacheSize mismatch: got %d, want %d", loadedCfg.AffectsCacheSize, cfg.AffectsCacheSize)
	}
	if loadedCfg.Debug != cfg.Debug {
		t.Errorf("Debug mismatch: got %v, want %v", loadedCfg.Debug, cfg.Debug)
	}
}

func TestConfigSaveCreatesParentDirs(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "dirs", "config.yaml")

	cfg := &Config{
		CacheDir:         ".spaq/cache",
		SocketPath:       "/tmp/spaq.sock",
		IgnoreFileName:   ".spaqignore",
		AffectsCacheSize: 1024,
	}

	err := cfg.Save(configPath)
	if err != nil {
		t.Fatalf("Save() failed to create parent dirs: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatalf("Config file was not created at %s", configPath)
	}
}
