package pkb

import "github.com/arzin/spaq/pkg/ast"

// buildCFG constructs Next (intraprocedural CFG, spec §4.1 "Next") and then
// NextBip (spec §4.1 "NextBip") by splitting every Call edge at the call
// site and fanning callee exits back to the call's successor, tagged with
// the call site statement number.
func buildCFG(p *PKB, program *ast.Program) error {
	entryOf := map[string]int{}
	for _, proc := range program.Procedures {
		entryOf[proc.Name] = proc.Body.Children[0].StmtNo
		p.linkList(proc.Body, nil)
	}

	exitsOf := map[string][]int{}
	for _, proc := range program.Procedures {
		exitsOf[proc.Name] = p.exitsOfProc(proc.Name)
	}

	for n := 1; n <= p.maxStmt; n++ {
		if p.stmtKind[n] == ast.StmtCall {
			target := p.callTarget[n]
			succs := p.nextOut[n]
			p.addBip(n, entryOf[target], BipPush, n)
			for _, ex := range exitsOf[target] {
				for _, s := range succs {
					p.addBip(ex, s, BipPop, n)
				}
			}
			continue
		}
		for _, succ := range p.nextOut[n] {
			p.addBip(n, succ, BipPlain, 0)
		}
	}
	return nil
}

// linkList wires Next edges for a statement list. after is the set of
// statement numbers control flows to once the list finishes (empty at the
// end of a procedure).
func (p *PKB) linkList(lst *ast.TNode, after []int) {
	children := lst.Children
	for i, stmt := range children {
		n := stmt.StmtNo
		switch stmt.Kind {
		case ast.While:
			body := stmt.Children[1]
			firstBody := body.Children[0].StmtNo
			var afterWhile []int
			if i+1 < len(children) {
				afterWhile = []int{children[i+1].StmtNo}
			} else {
				afterWhile = after
			}
			p.addNext(n, firstBody)
			for _, a := range afterWhile {
				p.addNext(n, a)
			}
			p.linkList(body, []int{n})

		case ast.If:
			thenLst, elseLst := stmt.Children[1], stmt.Children[2]
			firstThen := thenLst.Children[0].StmtNo
			firstElse := elseLst.Children[0].StmtNo
			p.addNext(n, firstThen)
			p.addNext(n, firstElse)
			var afterIf []int
			if i+1 < len(children) {
				afterIf = []int{children[i+1].StmtNo}
			} else {
				afterIf = after
			}
			p.linkList(thenLst, afterIf)
			p.linkList(elseLst, afterIf)

		default:
			if i+1 < len(children) {
				p.addNext(n, children[i+1].StmtNo)
			} else {
				for _, a := range after {
					p.addNext(n, a)
				}
			}
		}
	}
}

func (p *PKB) addNext(from, to int) {
	for _, t := range p.nextOut[from] {
		if t == to {
			return
		}
	}
	p.nextOut[from] = append(p.nextOut[from], to)
	p.nextIn[to] = append(p.nextIn[to], from)
}

func (p *PKB) addBip(from, to int, kind BipEdgeKind, callSite int) {
	p.bipOut[from] = append(p.bipOut[from], bipOutEdge{to, kind, callSite})
	p.bipIn[to] = append(p.bipIn[to], bipInEdge{from, kind, callSite})
}

// exitsOfProc returns every statement belonging to proc with no outgoing
// Next edge, plus any while header in tail position: every CFG path through
// the procedure ends at one of these
// (spec §9 "for procedures with multiple exit points... every exit
// participates").
func (p *PKB) exitsOfProc(proc string) []int {
	var exits []int
	for n, owner := range p.stmtProc {
		if owner == proc && len(p.nextOut[n]) == 0 {
			exits = append(exits, n)
		}
	}
	// A while in tail position ends paths too, but its header always has an
	// edge into its body; walk the tail statements to add such whiles.
	lists := []*ast.TNode{p.procByName[proc].Body}
	for len(lists) > 0 {
		last := lists[0].Children[len(lists[0].Children)-1]
		lists = lists[1:]
		switch last.Kind {
		case ast.While:
			exits = append(exits, last.StmtNo)
		case ast.If:
			lists = append(lists, last.Children[1], last.Children[2])
		}
	}
	return exits
}
