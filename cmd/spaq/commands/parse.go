package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/arzin/spaq/internal/scanner"
	"github.com/arzin/spaq/internal/snapshot"
	"github.com/arzin/spaq/pkg/dirty"
	"github.com/arzin/spaq/pkg/engine"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.simple|dir>...",
	Short: "Parse one or more SIMPLE source files (or directories of them) and report PKB statistics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

// expandArgs turns each arg into one or more .simple file paths: a file arg
// passes through unchanged, a directory arg is walked with the scanner,
// keeping only files it detects as the "simple" language.
func expandArgs(args []string) ([]string, error) {
	var files []string
	sc := scanner.New(scanner.Options{
		SkipHidden:     true,
		IgnoreFileName: cfg.IgnoreFileName,
	})
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, a)
			continue
		}
		found, err := sc.Scan(a)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", a, err)
		}
		for _, f := range found {
			if f.Language == "simple" {
				files = append(files, f.FullPath)
			}
		}
	}
	return files, nil
}

type parseResult struct {
	path    string
	hash    string
	cached  bool
	changed bool
	sum     *snapshot.Summary
	err     error
}

func runParse(cmd *cobra.Command, args []string) error {
	files, err := expandArgs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .simple files found in %v", args)
	}

	results := make([]parseResult, len(files))
	store := snapshot.NewStore(cfg.CacheDir, len(files))

	tracker := dirty.New(dirty.WithCacheDir(cfg.CacheDir))
	if err := tracker.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: loading dirty-file tracker: %v\n", err)
	}

	var g errgroup.Group
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = parseOne(store, tracker, path)
			return nil
		})
	}
	_ = g.Wait()

	if err := tracker.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: saving dirty-file tracker: %v\n", err)
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.path, r.err)
			continue
		}
		status := "parsed"
		if r.cached {
			status = "cached"
		}
		since := "unchanged since last parse"
		if r.changed {
			since = "changed since last parse"
		}
		fmt.Printf("%s: %s, %s (procedures=%d statements=%d variables=%d constants=%d)\n",
			r.path, status, since, r.sum.Procedures, r.sum.Statements, r.sum.Variables, r.sum.Constants)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(files))
	}
	return nil
}

func parseOne(store *snapshot.Store, tracker *dirty.Tracker, path string) parseResult {
	changed, err := tracker.CheckAndMark(path)
	if err != nil {
		return parseResult{path: path, err: err}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return parseResult{path: path, err: err}
	}

	hash := snapshot.Hash(src)
	if cached, err := store.Load(hash); err == nil && cached != nil {
		return parseResult{path: path, hash: hash, cached: true, changed: changed, sum: cached}
	}

	e := engine.NewWithAffectsCacheSize(cfg.AffectsCacheSize)
	if err := e.ParseSource(string(src)); err != nil {
		return parseResult{path: path, hash: hash, changed: changed, err: err}
	}

	sum := snapshot.Of(hash, e.PKB())
	if err := store.Save(sum); err != nil {
		return parseResult{path: path, hash: hash, changed: changed, err: err}
	}
	return parseResult{path: path, hash: hash, changed: changed, sum: sum}
}
