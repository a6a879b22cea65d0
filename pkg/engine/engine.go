// Package engine is the facade component (C10) that wires the SIMPLE
// parser, the Program Knowledge Base, the PQL parser, and the query
// evaluator behind a single API a CLI or daemon can drive without knowing
// about any of the pieces underneath (spec §6 "Engine API").
package engine

import (
	"fmt"
	"os"
	"sync"

	"github.com/arzin/spaq/internal/log"
	"github.com/arzin/spaq/pkg/eval"
	"github.com/arzin/spaq/pkg/pkb"
	"github.com/arzin/spaq/pkg/pql"
	"github.com/arzin/spaq/pkg/simple"
)

// Engine holds at most one loaded program's PKB. It is safe for concurrent
// use: Parse takes the write lock, Evaluate takes the read lock, matching
// the "single build, many concurrent queries" access pattern the PKB is
// designed for (spec §5 "Concurrency").
type Engine struct {
	mu  sync.RWMutex
	pkb *pkb.PKB

	affectsCacheSize int

	// sourceFailed remembers a fatal parse/extraction failure so repeated
	// Evaluate calls don't re-attempt work against a PKB that never built
	// (spec §7 "Source fatal").
	sourceFailed bool
	lastErr      error
}

// New returns an empty Engine with no program loaded, using the PKB's
// default Affects memoization bound.
func New() *Engine { return &Engine{affectsCacheSize: pkb.DefaultAffectsCacheSize} }

// NewWithAffectsCacheSize is New with an explicit bound on the PKB's
// Affects/Affects* memoization, threaded from internal/config's
// AffectsCacheSize so a long-lived spaqd session can be tuned without a
// rebuild.
func NewWithAffectsCacheSize(n int) *Engine {
	if n <= 0 {
		n = pkb.DefaultAffectsCacheSize
	}
	return &Engine{affectsCacheSize: n}
}

// Parse loads and indexes a SIMPLE source file, replacing any previously
// loaded program. A lexer/parser error or an extraction-time invariant
// violation (undeclared callee, call cycle) is fatal for this load: the
// Engine is left with no usable PKB and subsequent Evaluate calls return
// nothing until Parse succeeds again.
func (e *Engine) Parse(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("engine: read %s: %w", path, err)
	}
	return e.ParseSource(string(src))
}

// ParseSource is Parse over in-memory source text, used by tests and by
// the daemon's in-process session cache.
func (e *Engine) ParseSource(src string) error {
	prog, err := simple.Parse(src)
	if err != nil {
		e.mu.Lock()
		e.sourceFailed = true
		e.lastErr = err
		e.pkb = nil
		e.mu.Unlock()
		log.Default().Error("source parse failed", "error", err)
		return err
	}

	built, err := pkb.ExtractWithCacheSize(prog, e.affectsCacheSize)
	if err != nil {
		e.mu.Lock()
		e.sourceFailed = true
		e.lastErr = err
		e.pkb = nil
		e.mu.Unlock()
		log.Default().Error("design extraction failed", "error", err)
		return err
	}

	e.mu.Lock()
	e.pkb = built
	e.sourceFailed = false
	e.lastErr = nil
	e.mu.Unlock()
	return nil
}

// Evaluate parses and runs a PQL query against the currently loaded
// program. A syntactically or semantically invalid query yields an empty
// result, same as if it matched nothing (spec §4.6). If no program is
// loaded, or the last load failed, Evaluate logs an advisory and returns
// nil rather than panicking.
func (e *Engine) Evaluate(query string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.sourceFailed || e.pkb == nil {
		log.Default().Error("query attempted with no loaded program", "lastErr", e.lastErr)
		return nil
	}
	q := pql.Parse(query)
	return eval.Evaluate(q, e.pkb)
}

// PKB returns the currently loaded Program Knowledge Base, or nil if no
// program is loaded. Used by callers (the CLI's snapshot cache) that need
// to inspect extraction results beyond what Evaluate exposes.
func (e *Engine) PKB() *pkb.PKB {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.sourceFailed {
		return nil
	}
	return e.pkb
}

// Reset discards the loaded program and any failure state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pkb = nil
	e.sourceFailed = false
	e.lastErr = nil
}

// Loaded reports whether a program is currently indexed and queryable.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pkb != nil && !e.sourceFailed
}

// LastError returns the error from the most recent failed Parse/ParseSource
// call, or nil if the last load succeeded (or none was attempted).
func (e *Engine) LastError() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastErr
}
