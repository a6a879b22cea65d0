package pkb

import (
	"sort"

	"github.com/arzin/spaq/pkg/ast"
)

// This file is the read-only query surface (spec §4.2, C5). Every
// collection return is sorted or built in a deterministic order so
// evaluator joins are reproducible (spec §4.2 "Guarantees").

func (p *PKB) IsAssign(n int) bool { return p.stmtKind[n] == ast.StmtAssign }
func (p *PKB) IsCall(n int) bool   { return p.stmtKind[n] == ast.StmtCall }
func (p *PKB) IsIf(n int) bool     { return p.stmtKind[n] == ast.StmtIf }
func (p *PKB) IsPrint(n int) bool  { return p.stmtKind[n] == ast.StmtPrint }
func (p *PKB) IsRead(n int) bool   { return p.stmtKind[n] == ast.StmtRead }
func (p *PKB) IsWhile(n int) bool  { return p.stmtKind[n] == ast.StmtWhile }

func (p *PKB) StmtExists(n int) bool { _, ok := p.stmtKind[n]; return ok }

func (p *PKB) StmtsOfKind(kind ast.StmtKind) []int {
	out := append([]int{}, p.stmtByKind[kind]...)
	return out
}

func (p *PKB) AllStatements() []int {
	out := make([]int, 0, p.maxStmt)
	for n := 1; n <= p.maxStmt; n++ {
		out = append(out, n)
	}
	return out
}

func (p *PKB) AllVariables() []string  { return append([]string{}, p.allVars...) }
func (p *PKB) AllProcedures() []string { return append([]string{}, p.allProcs...) }
func (p *PKB) AllConstants() []string  { return append([]string{}, p.allConst...) }

func (p *PKB) ProcedureExists(name string) bool { _, ok := p.procByName[name]; return ok }

func (p *PKB) CallTarget(stmt int) (string, bool) { v, ok := p.callTarget[stmt]; return v, ok }
func (p *PKB) ReadVar(stmt int) (string, bool)    { v, ok := p.readVar[stmt]; return v, ok }
func (p *PKB) PrintVar(stmt int) (string, bool)   { v, ok := p.printVar[stmt]; return v, ok }
func (p *PKB) ProcOf(stmt int) string             { return p.stmtProc[stmt] }

// --- Follows ---

func (p *PKB) Follows(a, b int) bool { n, ok := p.followsNext[a]; return ok && n == b }
func (p *PKB) FollowsStar(a, b int) bool {
	return p.followsStarForward(a)[b]
}
func (p *PKB) FollowsSuccessor(a int) (int, bool) { n, ok := p.followsNext[a]; return n, ok }
func (p *PKB) FollowsPredecessor(b int) (int, bool) {
	n, ok := p.followsPrev[b]
	return n, ok
}
func (p *PKB) FollowsStarForward(a int) []int  { return sortedIntSet(p.followsStarForward(a)) }
func (p *PKB) FollowsStarBackward(b int) []int { return sortedIntSet(p.followsStarBackward(b)) }

func (p *PKB) AllFollowsPairs() [][2]int {
	var out [][2]int
	for a, b := range p.followsNext {
		out = append(out, [2]int{a, b})
	}
	sortPairs(out)
	return out
}

func (p *PKB) AllFollowsStarPairs() [][2]int {
	var out [][2]int
	for n := 1; n <= p.maxStmt; n++ {
		for _, b := range p.FollowsStarForward(n) {
			out = append(out, [2]int{n, b})
		}
	}
	sortPairs(out)
	return out
}

// --- Parent ---

func (p *PKB) Parent(a, b int) bool { return p.parentOf[b] == a && p.StmtExists(a) }
func (p *PKB) ParentStar(a, b int) bool {
	return p.parentStarForward(a)[b]
}
func (p *PKB) ParentChildren(a int) []int { return sortedInts(p.parentChildren[a]) }
func (p *PKB) ParentOf(b int) (int, bool) {
	n, ok := p.parentOf[b]
	return n, ok
}
func (p *PKB) ParentStarForward(a int) []int  { return sortedIntSet(p.parentStarForward(a)) }
func (p *PKB) ParentStarBackward(b int) []int { return sortedIntSet(p.parentStarBackward(b)) }

func (p *PKB) AllParentPairs() [][2]int {
	var out [][2]int
	for b, a := range p.parentOf {
		out = append(out, [2]int{a, b})
	}
	sortPairs(out)
	return out
}

func (p *PKB) AllParentStarPairs() [][2]int {
	var out [][2]int
	for a := range p.parentChildren {
		for _, b := range p.ParentStarForward(a) {
			out = append(out, [2]int{a, b})
		}
	}
	sortPairs(out)
	return out
}

// --- Uses / Modifies ---

func (p *PKB) UsesStmt(stmt int) []string      { return sortedStrSet(p.usesStmt[stmt]) }
func (p *PKB) ModifiesStmt(stmt int) []string  { return sortedStrSet(p.modStmt[stmt]) }
func (p *PKB) UsesProc(proc string) []string   { return sortedStrSet(p.usesProc[proc]) }
func (p *PKB) ModifiesProc(proc string) []string { return sortedStrSet(p.modProc[proc]) }

func (p *PKB) StmtUses(stmt int, v string) bool     { return p.usesStmt[stmt][v] }
func (p *PKB) StmtModifies(stmt int, v string) bool { return p.modStmt[stmt][v] }
func (p *PKB) ProcUses(proc, v string) bool         { return p.usesProc[proc][v] }
func (p *PKB) ProcModifies(proc, v string) bool     { return p.modProc[proc][v] }

func (p *PKB) StatementsUsing(v string) []int {
	var out []int
	for n := 1; n <= p.maxStmt; n++ {
		if p.usesStmt[n][v] {
			out = append(out, n)
		}
	}
	return out
}

func (p *PKB) StatementsModifying(v string) []int {
	var out []int
	for n := 1; n <= p.maxStmt; n++ {
		if p.modStmt[n][v] {
			out = append(out, n)
		}
	}
	return out
}

func (p *PKB) ProceduresUsing(v string) []string {
	var out []string
	for _, name := range p.procOrder {
		if p.usesProc[name][v] {
			out = append(out, name)
		}
	}
	return out
}

func (p *PKB) ProceduresModifying(v string) []string {
	var out []string
	for _, name := range p.procOrder {
		if p.modProc[name][v] {
			out = append(out, name)
		}
	}
	return out
}

// --- Calls ---

func (p *PKB) Calls(a, b string) bool     { return p.callsOut[a][b] }
func (p *PKB) CallsStar(a, b string) bool { return p.callsStarForward(a)[b] }
func (p *PKB) CallsOut(proc string) []string { return sortedStrSet(p.callsOut[proc]) }
func (p *PKB) CallsIn(proc string) []string  { return sortedStrSet(p.callsIn[proc]) }
func (p *PKB) CallsStarForward(proc string) []string  { return sortedStrSet(p.callsStarForward(proc)) }
func (p *PKB) CallsStarBackward(proc string) []string { return sortedStrSet(p.callsStarBackward(proc)) }

func (p *PKB) AllCallsPairs() [][2]string {
	var out [][2]string
	for a, set := range p.callsOut {
		for b := range set {
			out = append(out, [2]string{a, b})
		}
	}
	sortStrPairs(out)
	return out
}

func (p *PKB) AllCallsStarPairs() [][2]string {
	var out [][2]string
	for _, a := range p.procOrder {
		for _, b := range p.CallsStarForward(a) {
			out = append(out, [2]string{a, b})
		}
	}
	sortStrPairs(out)
	return out
}

// --- Next ---

func (p *PKB) Next(a, b int) bool {
	for _, s := range p.nextOut[a] {
		if s == b {
			return true
		}
	}
	return false
}
func (p *PKB) NextStar(a, b int) bool   { return p.nextStarForward(a)[b] }
func (p *PKB) NextOut(a int) []int      { return sortedInts(p.nextOut[a]) }
func (p *PKB) NextIn(b int) []int       { return sortedInts(p.nextIn[b]) }
func (p *PKB) NextStarForward(a int) []int  { return sortedIntSet(p.nextStarForward(a)) }
func (p *PKB) NextStarBackward(b int) []int { return sortedIntSet(p.nextStarBackward(b)) }

func (p *PKB) AllNextPairs() [][2]int {
	var out [][2]int
	for a, succs := range p.nextOut {
		for _, b := range succs {
			out = append(out, [2]int{a, b})
		}
	}
	sortPairs(out)
	return out
}

func (p *PKB) AllNextStarPairs() [][2]int {
	var out [][2]int
	for n := 1; n <= p.maxStmt; n++ {
		for _, b := range p.NextStarForward(n) {
			out = append(out, [2]int{n, b})
		}
	}
	sortPairs(out)
	return out
}

// --- NextBip ---

func (p *PKB) NextBip(a, b int) bool {
	for _, s := range p.bipSuccessors(a) {
		if s == b {
			return true
		}
	}
	return false
}
func (p *PKB) NextBipStar(a, b int) bool      { return p.nextBipStarForward(a)[b] }
func (p *PKB) NextBipOut(a int) []int         { return sortedInts(p.bipSuccessors(a)) }
func (p *PKB) NextBipIn(b int) []int          { return sortedInts(p.bipPredecessors(b)) }
func (p *PKB) NextBipStarForward(a int) []int  { return sortedIntSet(p.nextBipStarForward(a)) }
func (p *PKB) NextBipStarBackward(b int) []int { return sortedIntSet(p.nextBipStarBackward(b)) }

func (p *PKB) AllNextBipPairs() [][2]int {
	var out [][2]int
	for n := 1; n <= p.maxStmt; n++ {
		for _, b := range p.NextBipOut(n) {
			out = append(out, [2]int{n, b})
		}
	}
	sortPairs(out)
	return out
}

func (p *PKB) AllNextBipStarPairs() [][2]int {
	var out [][2]int
	for n := 1; n <= p.maxStmt; n++ {
		for _, b := range p.NextBipStarForward(n) {
			out = append(out, [2]int{n, b})
		}
	}
	sortPairs(out)
	return out
}

// --- Affects / AffectsBip ---

func (p *PKB) Affects(a, b int) bool     { return p.affectsForward(a)[b] }
func (p *PKB) AffectsStar(a, b int) bool { return p.affectsStarForward(a)[b] }
func (p *PKB) AffectsForward(a int) []int  { return sortedIntSet(p.affectsForward(a)) }
func (p *PKB) AffectsBackward(b int) []int { return sortedIntSet(p.affectsBackward(b)) }
func (p *PKB) AffectsStarForward(a int) []int  { return sortedIntSet(p.affectsStarForward(a)) }
func (p *PKB) AffectsStarBackward(b int) []int { return sortedIntSet(p.affectsStarBackward(b)) }

func (p *PKB) AllAffectsPairs() [][2]int {
	var out [][2]int
	for _, a := range p.stmtByKind[ast.StmtAssign] {
		for _, b := range p.AffectsForward(a) {
			out = append(out, [2]int{a, b})
		}
	}
	sortPairs(out)
	return out
}

func (p *PKB) AllAffectsStarPairs() [][2]int {
	var out [][2]int
	for _, a := range p.stmtByKind[ast.StmtAssign] {
		for _, b := range p.AffectsStarForward(a) {
			out = append(out, [2]int{a, b})
		}
	}
	sortPairs(out)
	return out
}

func (p *PKB) AffectsBip(a, b int) bool     { return p.affectsBipForward(a)[b] }
func (p *PKB) AffectsBipStar(a, b int) bool { return p.affectsBipStarForward(a)[b] }
func (p *PKB) AffectsBipForward(a int) []int  { return sortedIntSet(p.affectsBipForward(a)) }
func (p *PKB) AffectsBipBackward(b int) []int { return sortedIntSet(p.affectsBipBackward(b)) }
func (p *PKB) AffectsBipStarForward(a int) []int {
	return sortedIntSet(p.affectsBipStarForward(a))
}
func (p *PKB) AffectsBipStarBackward(b int) []int {
	return sortedIntSet(p.affectsBipStarBackward(b))
}

func (p *PKB) AllAffectsBipPairs() [][2]int {
	var out [][2]int
	for _, a := range p.stmtByKind[ast.StmtAssign] {
		for _, b := range p.AffectsBipForward(a) {
			out = append(out, [2]int{a, b})
		}
	}
	sortPairs(out)
	return out
}

func (p *PKB) AllAffectsBipStarPairs() [][2]int {
	var out [][2]int
	for _, a := range p.stmtByKind[ast.StmtAssign] {
		for _, b := range p.AffectsBipStarForward(a) {
			out = append(out, [2]int{a, b})
		}
	}
	sortPairs(out)
	return out
}

// --- Patterns ---

func (p *PKB) PatternMatches(canon string) []PatternEntry {
	entries := p.patternMap[canon]
	out := append([]PatternEntry{}, entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].AssignStmt < out[j].AssignStmt })
	return out
}

func (p *PKB) ConditionVarStmts(v string) []int { return sortedIntSet(p.conditionVars[v]) }

func (p *PKB) StmtConditionVars(stmt int) []string {
	var out []string
	for v, set := range p.conditionVars {
		if set[stmt] {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// --- helpers ---

func sortedInts(s []int) []int {
	out := append([]int{}, s...)
	sort.Ints(out)
	return out
}

func sortedIntSet(s map[int]bool) []int {
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func sortedStrSet(s map[string]bool) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortPairs(p [][2]int) {
	sort.Slice(p, func(i, j int) bool {
		if p[i][0] != p[j][0] {
			return p[i][0] < p[j][0]
		}
		return p[i][1] < p[j][1]
	})
}

func sortStrPairs(p [][2]string) {
	sort.Slice(p, func(i, j int) bool {
		if p[i][0] != p[j][0] {
			return p[i][0] < p[j][0]
		}
		return p[i][1] < p[j][1]
	})
}
