// Package pkb is the Program Knowledge Base: the design extractor (C2), the
// interprocedural CFG/BIP builder (C3), the on-demand Affects/AffectsBip
// engine (C4), and the read-only facade (C5) over all of it. The PKB is
// built once per source and never mutated afterward (spec §3 "Lifecycle").
package pkb

import (
	"github.com/arzin/spaq/pkg/ast"
	"github.com/arzin/spaq/pkg/cache"
)

// BipEdgeKind tags a NextBip edge with how it affects the call-site stack
// during stack-sensitive traversal (spec §4.1 "NextBip").
type BipEdgeKind int

const (
	BipPlain BipEdgeKind = iota // ordinary intraprocedural edge
	BipPush                     // call-site s -> callee entry, pushes s
	BipPop                      // callee exit -> s's successor, pops s
)

type bipOutEdge struct {
	To       int
	Kind     BipEdgeKind
	CallSite int
}

type bipInEdge struct {
	From     int
	Kind     BipEdgeKind
	CallSite int
}

// PatternEntry is one pattern_map value: the statement that owns the
// canonicalized sub-expression, the assignee variable, and whether the
// matched expression is the full RHS or a strict sub-expression.
type PatternEntry struct {
	AssignStmt      int
	Assignee        string
	IsSubExpression bool
}

// PKB holds every eagerly-built index plus on-demand caches for the lazily
// computed relations (spec §3 "PKB indices", §9 "On-demand vs eager
// graphs").
type PKB struct {
	program *ast.Program

	procOrder  []string
	procByName map[string]*ast.Procedure

	stmtNode   map[int]*ast.TNode
	stmtProc   map[int]string
	stmtKind   map[int]ast.StmtKind
	stmtByKind map[ast.StmtKind][]int
	maxStmt    int

	followsNext map[int]int
	followsPrev map[int]int

	parentOf       map[int]int
	parentChildren map[int][]int

	usesStmt map[int]map[string]bool
	modStmt  map[int]map[string]bool
	usesProc map[string]map[string]bool
	modProc  map[string]map[string]bool

	callsOut map[string]map[string]bool
	callsIn  map[string]map[string]bool

	nextOut map[int][]int
	nextIn  map[int][]int

	bipOut map[int][]bipOutEdge
	bipIn  map[int][]bipInEdge

	patternMap    map[string][]PatternEntry
	conditionVars map[string]map[int]bool

	callTarget map[int]string
	readVar    map[int]string
	printVar   map[int]string

	allVars  []string
	allProcs []string
	allConst []string

	// memoization for on-demand closures (spec §9 "Memoize Affects* and
	// Calls* results per start node"). Affects/Affects* go through a bounded
	// LRU (internal/config's AffectsCacheSize) since their CFG search is the
	// most expensive closure and the one most likely to run over a large
	// program's full statement range; the others stay plain maps since a
	// whole program's Follows*/Parent*/Next*/Calls* results are cheap to
	// keep resident in full.
	callsStarCache   map[string]map[string]bool
	parentStarCache  map[int]map[int]bool
	followsStarCache map[int]map[int]bool
	nextStarCache    map[int]map[int]bool
	affectsCache     *cache.LRUCache
	affectsStarCache *cache.LRUCache
	affectsBipCache     map[int]map[int]bool
	affectsBipStarCache map[int]map[int]bool
}
