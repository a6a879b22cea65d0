package pkb

import "strconv"

// nextBipStarForward is the stack-sensitive DFS described in spec §4.1
// "NextBip": state is (statement, call-site stack); a Pop edge is only
// followed when its call-site tag matches the top of the stack.
func (p *PKB) nextBipStarForward(start int) map[int]bool {
	visited := map[string]bool{}
	result := map[int]bool{}
	var dfs func(stmt int, stack []int)
	dfs = func(stmt int, stack []int) {
		key := stateKey(stmt, stack)
		if visited[key] {
			return
		}
		visited[key] = true
		for _, e := range p.bipOut[stmt] {
			switch e.Kind {
			case BipPlain:
				result[e.To] = true
				dfs(e.To, stack)
			case BipPush:
				ns := append(append([]int{}, stack...), e.CallSite)
				result[e.To] = true
				dfs(e.To, ns)
			case BipPop:
				if len(stack) == 0 || stack[len(stack)-1] != e.CallSite {
					continue
				}
				ns := stack[:len(stack)-1]
				result[e.To] = true
				dfs(e.To, ns)
			}
		}
	}
	dfs(start, nil)
	return result
}

// nextBipStarBackward walks the reverse BIP automaton: a forward Push
// requires a matching Pop to go backward and vice versa (spec §4.1, same
// state machine run in reverse).
func (p *PKB) nextBipStarBackward(target int) map[int]bool {
	visited := map[string]bool{}
	result := map[int]bool{}
	var dfs func(stmt int, stack []int)
	dfs = func(stmt int, stack []int) {
		key := stateKey(stmt, stack)
		if visited[key] {
			return
		}
		visited[key] = true
		for _, e := range p.bipIn[stmt] {
			switch e.Kind {
			case BipPlain:
				result[e.From] = true
				dfs(e.From, stack)
			case BipPush:
				if len(stack) == 0 || stack[len(stack)-1] != e.CallSite {
					continue
				}
				ns := stack[:len(stack)-1]
				result[e.From] = true
				dfs(e.From, ns)
			case BipPop:
				ns := append(append([]int{}, stack...), e.CallSite)
				result[e.From] = true
				dfs(e.From, ns)
			}
		}
	}
	dfs(target, nil)
	return result
}

func stateKey(stmt int, stack []int) string {
	s := strconv.Itoa(stmt) + "|"
	for _, c := range stack {
		s += strconv.Itoa(c) + ","
	}
	return s
}

// bipSuccessors returns the distinct statements directly reachable from
// stmt in one BIP step, ignoring the stack tag (used for the non-transitive
// NextBip relation, where only existence of an edge matters).
func (p *PKB) bipSuccessors(stmt int) []int {
	seen := map[int]bool{}
	var out []int
	for _, e := range p.bipOut[stmt] {
		if !seen[e.To] {
			seen[e.To] = true
			out = append(out, e.To)
		}
	}
	return out
}

func (p *PKB) bipPredecessors(stmt int) []int {
	seen := map[int]bool{}
	var out []int
	for _, e := range p.bipIn[stmt] {
		if !seen[e.From] {
			seen[e.From] = true
			out = append(out, e.From)
		}
	}
	return out
}
