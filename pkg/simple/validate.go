package simple

import (
	"fmt"

	"github.com/arzin/spaq/pkg/ast"
)

// validate checks the AST invariants spec §3 requires before extraction may
// proceed: unique procedure names, every call target declared, and an
// acyclic call graph.
func validate(prog *ast.Program) error {
	byName := map[string]*ast.Procedure{}
	for _, proc := range prog.Procedures {
		if _, dup := byName[proc.Name]; dup {
			return &ParseError{0, 0, fmt.Sprintf("duplicate procedure name %q", proc.Name)}
		}
		byName[proc.Name] = proc
	}

	edges := map[string][]string{}
	var walk func(n *ast.TNode, from string) error
	walk = func(n *ast.TNode, from string) error {
		if n == nil {
			return nil
		}
		if n.Kind == ast.Call {
			if _, ok := byName[n.Name]; !ok {
				return &ParseError{0, 0, fmt.Sprintf("call to undeclared procedure %q", n.Name)}
			}
			edges[from] = append(edges[from], n.Name)
		}
		for _, c := range n.Children {
			if err := walk(c, from); err != nil {
				return err
			}
		}
		return nil
	}
	for _, proc := range prog.Procedures {
		if err := walk(proc.Body, proc.Name); err != nil {
			return err
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var dfs func(name string) error
	dfs = func(name string) error {
		color[name] = gray
		for _, callee := range edges[name] {
			switch color[callee] {
			case gray:
				return &ParseError{0, 0, fmt.Sprintf("recursive call cycle involving %q", callee)}
			case white:
				if err := dfs(callee); err != nil {
					return err
				}
			}
		}
		color[name] = black
		return nil
	}
	for _, proc := range prog.Procedures {
		if color[proc.Name] == white {
			if err := dfs(proc.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
