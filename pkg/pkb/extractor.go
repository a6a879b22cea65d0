package pkb

import (
	"fmt"
	"sort"

	"github.com/arzin/spaq/pkg/ast"
	"github.com/arzin/spaq/pkg/cache"
)

// DefaultAffectsCacheSize bounds the Affects/Affects* memoization when the
// caller doesn't specify one (Extract, as opposed to ExtractWithCacheSize).
const DefaultAffectsCacheSize = 4096

// Extract builds a PKB from a validated AST (spec §4.1 Design Extractor)
// with the default Affects memoization bound. The AST must already satisfy
// the invariants in spec §3 (simple.Parse enforces them); Extract itself
// only builds indices, it does not re-validate acyclicity or name
// uniqueness.
func Extract(program *ast.Program) (*PKB, error) {
	return ExtractWithCacheSize(program, DefaultAffectsCacheSize)
}

// ExtractWithCacheSize is Extract with an explicit bound on the Affects/
// Affects* memoization (internal/config's AffectsCacheSize), so a caller
// serving many large programs can trade memory for hit rate.
func ExtractWithCacheSize(program *ast.Program, affectsCacheSize int) (*PKB, error) {
	p := &PKB{
		program:        program,
		procByName:     map[string]*ast.Procedure{},
		stmtNode:       map[int]*ast.TNode{},
		stmtProc:       map[int]string{},
		stmtKind:       map[int]ast.StmtKind{},
		stmtByKind:     map[ast.StmtKind][]int{},
		followsNext:    map[int]int{},
		followsPrev:    map[int]int{},
		parentOf:       map[int]int{},
		parentChildren: map[int][]int{},
		usesStmt:       map[int]map[string]bool{},
		modStmt:        map[int]map[string]bool{},
		usesProc:       map[string]map[string]bool{},
		modProc:        map[string]map[string]bool{},
		callsOut:       map[string]map[string]bool{},
		callsIn:        map[string]map[string]bool{},
		nextOut:        map[int][]int{},
		nextIn:         map[int][]int{},
		bipOut:         map[int][]bipOutEdge{},
		bipIn:          map[int][]bipInEdge{},
		patternMap:     map[string][]PatternEntry{},
		conditionVars:  map[string]map[int]bool{},
		callTarget:     map[int]string{},
		readVar:        map[int]string{},
		printVar:       map[int]string{},

		callsStarCache:      map[string]map[string]bool{},
		parentStarCache:     map[int]map[int]bool{},
		followsStarCache:    map[int]map[int]bool{},
		nextStarCache:       map[int]map[int]bool{},
		affectsCache:        cache.New(cache.Options{MaxSize: affectsCacheSize}),
		affectsStarCache:    cache.New(cache.Options{MaxSize: affectsCacheSize}),
		affectsBipCache:     map[int]map[int]bool{},
		affectsBipStarCache: map[int]map[int]bool{},
	}

	for _, proc := range program.Procedures {
		p.procOrder = append(p.procOrder, proc.Name)
		p.procByName[proc.Name] = proc
		p.callsOut[proc.Name] = map[string]bool{}
		p.callsIn[proc.Name] = map[string]bool{}
		p.usesProc[proc.Name] = map[string]bool{}
		p.modProc[proc.Name] = map[string]bool{}
	}
	p.allProcs = append([]string{}, p.procOrder...)

	varSet := map[string]bool{}
	constSet := map[string]bool{}

	for _, proc := range program.Procedures {
		if err := p.walkStmtList(proc.Body, proc.Name, 0, varSet, constSet); err != nil {
			return nil, err
		}
	}

	p.maxStmt = len(p.stmtNode)

	// Calls: direct edges, then procedure-level uses/modifies in
	// reverse-topological (callee-first) order — sound because the call
	// graph is a DAG (spec §4.1 "Uses/Modifies").
	order := p.topoCalleeFirst()
	for _, name := range order {
		proc := p.procByName[name]
		pu, pm := map[string]bool{}, map[string]bool{}
		p.collectLeafUsesMods(proc.Body, pu, pm)
		for k := range pu {
			p.usesProc[name][k] = true
		}
		for k := range pm {
			p.modProc[name][k] = true
		}
	}

	// Propagate Call statement uses/modifies from callee procedures, then
	// re-propagate container statement uses/modifies bottom-up so that
	// `If`/`While` containers that wrap a `Call` pick up the callee's set.
	for stmt, target := range p.callTarget {
		p.usesStmt[stmt] = unionInto(p.usesStmt[stmt], p.usesProc[target])
		p.modStmt[stmt] = unionInto(p.modStmt[stmt], p.modProc[target])
	}
	for _, proc := range program.Procedures {
		p.repropagateContainerUsesMods(proc.Body)
	}

	for v := range varSet {
		p.allVars = append(p.allVars, v)
	}
	sort.Strings(p.allVars)
	for c := range constSet {
		p.allConst = append(p.allConst, c)
	}
	sort.Strings(p.allConst)

	for kind := range p.stmtByKind {
		sort.Ints(p.stmtByKind[kind])
	}

	if err := buildCFG(p, program); err != nil {
		return nil, err
	}

	return p, nil
}

func unionInto(dst, src map[string]bool) map[string]bool {
	if dst == nil {
		dst = map[string]bool{}
	}
	for k := range src {
		dst[k] = true
	}
	return dst
}

// walkStmtList assigns parent/follows relations and recurses into bodies,
// recording per-statement uses/modifies/pattern/condition data as it goes.
// parentStmt is 0 at the top level of a procedure.
func (p *PKB) walkStmtList(lst *ast.TNode, proc string, parentStmt int, vars, consts map[string]bool) error {
	var prev int
	for _, stmt := range lst.Children {
		n := stmt.StmtNo
		if n == 0 {
			return fmt.Errorf("pkb: statement node %v has no statement number", stmt.Kind)
		}
		p.stmtNode[n] = stmt
		p.stmtProc[n] = proc
		kind, ok := ast.KindToStmtKind(stmt.Kind)
		if !ok {
			return fmt.Errorf("pkb: non-statement node flagged as statement: %v", stmt.Kind)
		}
		p.stmtKind[n] = kind
		p.stmtByKind[kind] = append(p.stmtByKind[kind], n)

		if parentStmt != 0 {
			p.parentOf[n] = parentStmt
			p.parentChildren[parentStmt] = append(p.parentChildren[parentStmt], n)
		}
		if prev != 0 {
			p.followsNext[prev] = n
			p.followsPrev[n] = prev
		}
		prev = n

		if err := p.indexStatement(stmt, n, proc, vars, consts); err != nil {
			return err
		}
	}
	return nil
}

func (p *PKB) indexStatement(stmt *ast.TNode, n int, proc string, vars, consts map[string]bool) error {
	p.usesStmt[n] = map[string]bool{}
	p.modStmt[n] = map[string]bool{}

	switch stmt.Kind {
	case ast.Assign:
		varName := stmt.Name
		vars[varName] = true
		p.modStmt[n][varName] = true
		rhs := stmt.Children[1]
		for _, v := range ast.Vars(rhs) {
			vars[v] = true
			p.usesStmt[n][v] = true
		}
		p.indexPattern(stmt, n, rhs)

	case ast.Read:
		vars[stmt.Name] = true
		p.modStmt[n][stmt.Name] = true
		p.readVar[n] = stmt.Name

	case ast.Print:
		vars[stmt.Name] = true
		p.usesStmt[n][stmt.Name] = true
		p.printVar[n] = stmt.Name

	case ast.Call:
		p.callTarget[n] = stmt.Name
		p.callsOut[proc][stmt.Name] = true
		p.callsIn[stmt.Name][proc] = true
		// usesStmt/modStmt for Call is filled in after usesProc/modProc
		// for every procedure has been computed (see Extract).

	case ast.While:
		cond := stmt.Children[0]
		body := stmt.Children[1]
		p.indexCondition(cond, n, vars)
		if err := p.walkStmtList(body, proc, n, vars, consts); err != nil {
			return err
		}
		p.pullUpFromChildren(n, body)

	case ast.If:
		cond := stmt.Children[0]
		thenLst := stmt.Children[1]
		elseLst := stmt.Children[2]
		p.indexCondition(cond, n, vars)
		if err := p.walkStmtList(thenLst, proc, n, vars, consts); err != nil {
			return err
		}
		if err := p.walkStmtList(elseLst, proc, n, vars, consts); err != nil {
			return err
		}
		p.pullUpFromChildren(n, thenLst)
		p.pullUpFromChildren(n, elseLst)

	default:
		return fmt.Errorf("pkb: unexpected statement kind %v", stmt.Kind)
	}

	p.collectConstants(stmt, consts)
	return nil
}

func (p *PKB) indexCondition(cond *ast.TNode, stmtNo int, vars map[string]bool) {
	for _, v := range ast.Vars(cond) {
		vars[v] = true
		p.usesStmt[stmtNo][v] = true
		if p.conditionVars[v] == nil {
			p.conditionVars[v] = map[int]bool{}
		}
		p.conditionVars[v][stmtNo] = true
	}
}

// pullUpFromChildren unions a just-walked child statement list's
// uses/modifies into the container statement n (spec §4.1 "An If/While
// propagates union of children plus its condition's variables").
func (p *PKB) pullUpFromChildren(n int, lst *ast.TNode) {
	for _, child := range lst.Children {
		c := child.StmtNo
		p.usesStmt[n] = unionInto(p.usesStmt[n], p.usesStmt[c])
		p.modStmt[n] = unionInto(p.modStmt[n], p.modStmt[c])
	}
}

// repropagateContainerUsesMods re-runs the pull-up after Call statements
// have picked up their callee's uses/modifies, so containers wrapping a
// Call end up with the right transitive set too.
func (p *PKB) repropagateContainerUsesMods(lst *ast.TNode) {
	for _, stmt := range lst.Children {
		switch stmt.Kind {
		case ast.While:
			body := stmt.Children[1]
			p.repropagateContainerUsesMods(body)
			p.pullUpFromChildren(stmt.StmtNo, body)
		case ast.If:
			thenLst, elseLst := stmt.Children[1], stmt.Children[2]
			p.repropagateContainerUsesMods(thenLst)
			p.repropagateContainerUsesMods(elseLst)
			p.pullUpFromChildren(stmt.StmtNo, thenLst)
			p.pullUpFromChildren(stmt.StmtNo, elseLst)
		}
	}
}

func (p *PKB) collectLeafUsesMods(lst *ast.TNode, uses, mods map[string]bool) {
	for _, stmt := range lst.Children {
		n := stmt.StmtNo
		for v := range p.usesStmt[n] {
			uses[v] = true
		}
		for v := range p.modStmt[n] {
			mods[v] = true
		}
		switch stmt.Kind {
		case ast.While:
			p.collectLeafUsesMods(stmt.Children[1], uses, mods)
		case ast.If:
			p.collectLeafUsesMods(stmt.Children[1], uses, mods)
			p.collectLeafUsesMods(stmt.Children[2], uses, mods)
		case ast.Call:
			// topoCalleeFirst guarantees the callee's usesProc/modProc are
			// already fully aggregated (including its own callees) by the
			// time the caller is visited.
			for v := range p.usesProc[stmt.Name] {
				uses[v] = true
			}
			for v := range p.modProc[stmt.Name] {
				mods[v] = true
			}
		}
	}
}

func (p *PKB) indexPattern(stmt *ast.TNode, stmtNo int, rhs *ast.TNode) {
	assignee := stmt.Name
	full := ast.Canonicalize(rhs)
	p.patternMap[full] = append(p.patternMap[full], PatternEntry{stmtNo, assignee, false})
	for _, sub := range ast.SubExpressions(rhs) {
		key := ast.Canonicalize(sub)
		p.patternMap[key] = append(p.patternMap[key], PatternEntry{stmtNo, assignee, true})
	}
}

func (p *PKB) collectConstants(n *ast.TNode, consts map[string]bool) {
	if n == nil {
		return
	}
	if n.Kind == ast.Constant {
		consts[n.Value] = true
	}
	for _, c := range n.Children {
		p.collectConstants(c, consts)
	}
}

// topoCalleeFirst returns procedure names ordered so that every callee
// precedes its callers (sound because the call graph is acyclic).
func (p *PKB) topoCalleeFirst() []string {
	const (
		white = 0
		black = 1
	)
	color := map[string]int{}
	var order []string
	var visit func(name string)
	visit = func(name string) {
		if color[name] == black {
			return
		}
		color[name] = black
		callees := make([]string, 0, len(p.callsOut[name]))
		for c := range p.callsOut[name] {
			callees = append(callees, c)
		}
		sort.Strings(callees)
		for _, c := range callees {
			visit(c)
		}
		order = append(order, name)
	}
	for _, name := range p.procOrder {
		visit(name)
	}
	return order
}
