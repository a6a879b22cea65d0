package pkb

// This file computes the on-demand transitive closures spec §9 calls out
// as lazy: Follows*, Parent*, Calls*, Next*. The forward walks are memoized
// per start node; the backward walks are recomputed on every call.

func (p *PKB) followsStarForward(a int) map[int]bool {
	if cached, ok := p.followsStarCache[a]; ok {
		return cached
	}
	res := map[int]bool{}
	cur, ok := p.followsNext[a]
	for ok {
		res[cur] = true
		cur, ok = p.followsNext[cur]
	}
	p.followsStarCache[a] = res
	return res
}

func (p *PKB) followsStarBackward(b int) map[int]bool {
	res := map[int]bool{}
	cur, ok := p.followsPrev[b]
	for ok {
		res[cur] = true
		cur, ok = p.followsPrev[cur]
	}
	return res
}

func (p *PKB) parentStarForward(a int) map[int]bool {
	if cached, ok := p.parentStarCache[a]; ok {
		return cached
	}
	res := map[int]bool{}
	var walk func(int)
	walk = func(n int) {
		for _, c := range p.parentChildren[n] {
			if !res[c] {
				res[c] = true
				walk(c)
			}
		}
	}
	walk(a)
	p.parentStarCache[a] = res
	return res
}

func (p *PKB) parentStarBackward(b int) map[int]bool {
	res := map[int]bool{}
	cur, ok := p.parentOf[b]
	for ok {
		res[cur] = true
		cur, ok = p.parentOf[cur]
	}
	return res
}

func (p *PKB) callsStarForward(proc string) map[string]bool {
	if cached, ok := p.callsStarCache[proc]; ok {
		return cached
	}
	res := map[string]bool{}
	var walk func(string)
	walk = func(n string) {
		for c := range p.callsOut[n] {
			if !res[c] {
				res[c] = true
				walk(c)
			}
		}
	}
	walk(proc)
	p.callsStarCache[proc] = res
	return res
}

func (p *PKB) callsStarBackward(proc string) map[string]bool {
	res := map[string]bool{}
	var walk func(string)
	walk = func(n string) {
		for c := range p.callsIn[n] {
			if !res[c] {
				res[c] = true
				walk(c)
			}
		}
	}
	walk(proc)
	return res
}

func (p *PKB) nextStarForward(a int) map[int]bool {
	if cached, ok := p.nextStarCache[a]; ok {
		return cached
	}
	res := map[int]bool{}
	var walk func(int)
	walk = func(n int) {
		for _, c := range p.nextOut[n] {
			if !res[c] {
				res[c] = true
				walk(c)
			}
		}
	}
	walk(a)
	p.nextStarCache[a] = res
	return res
}

func (p *PKB) nextStarBackward(b int) map[int]bool {
	res := map[int]bool{}
	var walk func(int)
	walk = func(n int) {
		for _, c := range p.nextIn[n] {
			if !res[c] {
				res[c] = true
				walk(c)
			}
		}
	}
	walk(b)
	return res
}
