package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arzin/spaq/pkg/engine"
)

var (
	queryText string
	queryFile string
)

var queryCmd = &cobra.Command{
	Use:   "query <file.simple>",
	Short: "Parse a SIMPLE source file and evaluate a PQL query against it",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryText, "query", "", "PQL query text")
	queryCmd.Flags().StringVar(&queryFile, "query-file", "", "path to a file containing PQL query text")
}

func runQuery(cmd *cobra.Command, args []string) error {
	pql, err := resolveQuery()
	if err != nil {
		return err
	}

	e := engine.NewWithAffectsCacheSize(cfg.AffectsCacheSize)
	if err := e.Parse(args[0]); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	for _, row := range e.Evaluate(pql) {
		fmt.Println(row)
	}
	return nil
}

func resolveQuery() (string, error) {
	if queryText != "" && queryFile != "" {
		return "", fmt.Errorf("--query and --query-file are mutually exclusive")
	}
	if queryText != "" {
		return queryText, nil
	}
	if queryFile != "" {
		data, err := os.ReadFile(queryFile)
		if err != nil {
			return "", fmt.Errorf("reading query file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", fmt.Errorf("one of --query or --query-file is required")
}
