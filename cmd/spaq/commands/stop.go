package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arzin/spaq/internal/daemon"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running spaqd daemon",
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	result, err := daemon.Stop()
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("spaqd: %s", result.Error)
	}
	fmt.Printf("spaqd stopped (pid=%d)\n", result.PID)
	return nil
}
