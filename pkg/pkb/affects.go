package pkb

import (
	"strconv"

	"github.com/arzin/spaq/pkg/ast"
)

// This file implements the on-demand Affects engine (spec §4.1 "Affects",
// C4 in SPEC_FULL.md). Affects(a,b) holds iff a and b are both assignments,
// a modifies some v that b uses, and there is a CFG path from a to b along
// which no other statement modifies v. Results are memoized per start node
// (spec §9) in an LRU bounded by internal/config's AffectsCacheSize.

func affectsCacheKey(stmtNo int) string { return strconv.Itoa(stmtNo) }

func (p *PKB) isAssign(n int) bool {
	return p.stmtKind[n] == ast.StmtAssign
}

// affectsForward returns every b such that Affects(a,b), searching the
// intraprocedural CFG outward from a for each variable a modifies.
func (p *PKB) affectsForward(a int) map[int]bool {
	if cached, ok := p.affectsCache.Get(affectsCacheKey(a)); ok {
		return cached.(map[int]bool)
	}
	result := map[int]bool{}
	if p.isAssign(a) {
		for v := range p.modStmt[a] {
			visited := map[int]bool{}
			var dfs func(n int)
			dfs = func(n int) {
				for _, succ := range p.nextOut[n] {
					if visited[succ] {
						continue
					}
					visited[succ] = true
					if p.isAssign(succ) && p.usesStmt[succ][v] {
						result[succ] = true
					}
					// A container's Modifies is the union of its bodies; the
					// header itself assigns nothing, so it does not kill v.
					if p.modStmt[succ][v] && !p.IsWhile(succ) && !p.IsIf(succ) {
						continue
					}
					dfs(succ)
				}
			}
			dfs(a)
		}
	}
	p.affectsCache.Set(affectsCacheKey(a), result)
	return result
}

// affectsBackward returns every a such that Affects(a,b).
func (p *PKB) affectsBackward(b int) map[int]bool {
	result := map[int]bool{}
	if !p.isAssign(b) {
		return result
	}
	for v := range p.usesStmt[b] {
		visited := map[int]bool{}
		var dfs func(n int)
		dfs = func(n int) {
			for _, pred := range p.nextIn[n] {
				if visited[pred] {
					continue
				}
				visited[pred] = true
				if p.isAssign(pred) && p.modStmt[pred][v] {
					result[pred] = true
				}
				if p.modStmt[pred][v] && !p.IsWhile(pred) && !p.IsIf(pred) {
					continue
				}
				dfs(pred)
			}
		}
		dfs(b)
	}
	return result
}

func (p *PKB) affectsStarForward(a int) map[int]bool {
	if cached, ok := p.affectsStarCache.Get(affectsCacheKey(a)); ok {
		return cached.(map[int]bool)
	}
	visited := map[int]bool{}
	queue := []int{}
	for b := range p.affectsForward(a) {
		visited[b] = true
		queue = append(queue, b)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for c := range p.affectsForward(n) {
			if !visited[c] {
				visited[c] = true
				queue = append(queue, c)
			}
		}
	}
	p.affectsStarCache.Set(affectsCacheKey(a), visited)
	return visited
}

func (p *PKB) affectsStarBackward(b int) map[int]bool {
	visited := map[int]bool{}
	queue := []int{}
	for a := range p.affectsBackward(b) {
		visited[a] = true
		queue = append(queue, a)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for c := range p.affectsBackward(n) {
			if !visited[c] {
				visited[c] = true
				queue = append(queue, c)
			}
		}
	}
	return visited
}
