package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arzin/spaq/internal/daemon"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report spaqd's running status",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	result, err := daemon.GetStatus()
	if err != nil {
		return err
	}
	fmt.Printf("status: %s\n", result.Status)
	if result.Running {
		fmt.Printf("pid: %d\n", result.PID)
	}
	if result.Version != "" {
		fmt.Printf("version: %s\n", result.Version)
	}
	if result.Error != "" {
		fmt.Printf("error: %s\n", result.Error)
	}
	return nil
}
