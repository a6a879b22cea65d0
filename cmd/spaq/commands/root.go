// Package commands implements spaq's cobra command tree.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/arzin/spaq/internal/config"
	"github.com/arzin/spaq/internal/log"
)

var (
	cfgFile string
	cfg     *config.Config
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "spaq",
	Short: "spaq analyzes SIMPLE programs and answers PQL queries against them",
	Long: `spaq parses SIMPLE source into a Program Knowledge Base (PKB) — control
flow, data flow, and call relationships — and evaluates PQL queries over it,
either directly or through a long-running spaqd daemon that keeps the PKB
warm across many queries.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFromFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if debug {
			cfg.Debug = true
		}
		if cfg.Debug {
			log.Default().SetLevel(log.DebugLevel)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: ./.spaq/config.yaml or ~/.spaq/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doctorCmd)
}
