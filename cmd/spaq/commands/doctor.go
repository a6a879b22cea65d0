package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arzin/spaq/internal/daemon"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate config and cache directory, and ping spaqd if it is running",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("config:")
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
	} else {
		fmt.Println("  OK")
	}

	fmt.Println("cache directory:")
	if err := checkCacheDirWritable(cfg.CacheDir); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
	} else {
		fmt.Printf("  OK: %s\n", cfg.CacheDir)
	}

	fmt.Println("daemon:")
	status, err := daemon.CheckStatus()
	switch {
	case err != nil:
		fmt.Printf("  FAIL: %v\n", err)
	case !status.Running:
		fmt.Println("  not running")
	case !status.Ready:
		fmt.Printf("  running (pid=%d) but not responding: %s\n", status.PID, status.Error)
	default:
		fmt.Printf("  OK: running (pid=%d)\n", status.PID)
	}

	return nil
}

func checkCacheDirWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	probe := dir + "/.doctor-probe"
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}
