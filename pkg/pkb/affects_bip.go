package pkb

// AffectsBip is Affects computed over the NextBip graph (spec §4.1
// "AffectsBip"): the same variable-kill pruning as Affects, but traversal
// respects the call-site stack so a modifying statement on any
// interprocedural path (not just the current procedure) kills the flow.

func (p *PKB) affectsBipForward(a int) map[int]bool {
	if cached, ok := p.affectsBipCache[a]; ok {
		return cached
	}
	result := map[int]bool{}
	if p.isAssign(a) {
		for v := range p.modStmt[a] {
			visited := map[string]bool{}
			var dfs func(stmt int, stack []int)
			dfs = func(stmt int, stack []int) {
				for _, e := range p.bipOut[stmt] {
					var to int
					var newStack []int
					switch e.Kind {
					case BipPlain:
						to, newStack = e.To, stack
					case BipPush:
						to = e.To
						newStack = append(append([]int{}, stack...), e.CallSite)
					case BipPop:
						if len(stack) == 0 || stack[len(stack)-1] != e.CallSite {
							continue
						}
						to = e.To
						newStack = stack[:len(stack)-1]
					}
					key := stateKey(to, newStack)
					if visited[key] {
						continue
					}
					visited[key] = true
					if p.isAssign(to) && p.usesStmt[to][v] {
						result[to] = true
					}
					if p.modStmt[to][v] && !p.IsWhile(to) && !p.IsIf(to) {
						continue
					}
					dfs(to, newStack)
				}
			}
			dfs(a, nil)
		}
	}
	p.affectsBipCache[a] = result
	return result
}

func (p *PKB) affectsBipBackward(b int) map[int]bool {
	result := map[int]bool{}
	if !p.isAssign(b) {
		return result
	}
	for v := range p.usesStmt[b] {
		visited := map[string]bool{}
		var dfs func(stmt int, stack []int)
		dfs = func(stmt int, stack []int) {
			for _, e := range p.bipIn[stmt] {
				var from int
				var newStack []int
				switch e.Kind {
				case BipPlain:
					from, newStack = e.From, stack
				case BipPush:
					if len(stack) == 0 || stack[len(stack)-1] != e.CallSite {
						continue
					}
					from = e.From
					newStack = stack[:len(stack)-1]
				case BipPop:
					from = e.From
					newStack = append(append([]int{}, stack...), e.CallSite)
				}
				key := stateKey(from, newStack)
				if visited[key] {
					continue
				}
				visited[key] = true
				if p.isAssign(from) && p.modStmt[from][v] {
					result[from] = true
				}
				if p.modStmt[from][v] && !p.IsWhile(from) && !p.IsIf(from) {
					continue
				}
				dfs(from, newStack)
			}
		}
		dfs(b, nil)
	}
	return result
}

func (p *PKB) affectsBipStarForward(a int) map[int]bool {
	if cached, ok := p.affectsBipStarCache[a]; ok {
		return cached
	}
	visited := map[int]bool{}
	var queue []int
	for b := range p.affectsBipForward(a) {
		visited[b] = true
		queue = append(queue, b)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for c := range p.affectsBipForward(n) {
			if !visited[c] {
				visited[c] = true
				queue = append(queue, c)
			}
		}
	}
	p.affectsBipStarCache[a] = visited
	return visited
}

func (p *PKB) affectsBipStarBackward(b int) map[int]bool {
	visited := map[int]bool{}
	var queue []int
	for a := range p.affectsBipBackward(b) {
		visited[a] = true
		queue = append(queue, a)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for c := range p.affectsBipBackward(n) {
			if !visited[c] {
				visited[c] = true
				queue = append(queue, c)
			}
		}
	}
	return visited
}
