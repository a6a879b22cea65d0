package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arzin/spaq/internal/daemon"
)

var (
	serveForeground bool
	serveDaemonPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the spaqd daemon",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveForeground, "foreground", false, "run spaqd attached instead of backgrounding it")
	serveCmd.Flags().StringVar(&serveDaemonPath, "daemon-path", "", "path to the spaqd binary (default: search PATH/bin)")
}

func runServe(cmd *cobra.Command, args []string) error {
	result, err := daemon.Start(&daemon.StartOptions{
		DaemonPath:   serveDaemonPath,
		SocketPath:   cfg.SocketPath,
		ConfigPath:   cfgFile,
		Verbose:      cfg.Debug,
		Background:   !serveForeground,
		WaitForReady: true,
		ReadyTimeout: 10 * time.Second,
	})
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("spaqd: %s", result.Error)
	}
	fmt.Printf("spaqd started (pid=%d, socket=%s)\n", result.PID, cfg.SocketPath)
	return nil
}
