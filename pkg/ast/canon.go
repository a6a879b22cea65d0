package ast

import "strings"

// Canonicalize renders an expression subtree as its fully parenthesized,
// left-associative, whitespace-free form, e.g. a+b+c -> ((a+b)+c). This is
// the pattern_map lookup key (spec: "Patterns").
func Canonicalize(n *TNode) string {
	var b strings.Builder
	writeCanon(&b, n)
	return b.String()
}

func writeCanon(b *strings.Builder, n *TNode) {
	switch n.Kind {
	case Variable:
		b.WriteString(n.Name)
	case Constant:
		b.WriteString(n.Value)
	default:
		if op, ok := binaryOp(n.Kind); ok {
			b.WriteByte('(')
			writeCanon(b, n.Children[0])
			b.WriteString(op)
			writeCanon(b, n.Children[1])
			b.WriteByte(')')
			return
		}
		if op, ok := unaryOp(n.Kind); ok {
			b.WriteString(op)
			b.WriteByte('(')
			writeCanon(b, n.Children[0])
			b.WriteByte(')')
		}
	}
}

func binaryOp(k Kind) (string, bool) {
	switch k {
	case Plus:
		return "+", true
	case Minus:
		return "-", true
	case Multiply:
		return "*", true
	case Divide:
		return "/", true
	case Modulo:
		return "%", true
	case And:
		return "&&", true
	case Or:
		return "||", true
	case Greater:
		return ">", true
	case GreaterThanOrEqual:
		return ">=", true
	case Lesser:
		return "<", true
	case LesserThanOrEqual:
		return "<=", true
	case Equal:
		return "==", true
	case NotEqual:
		return "!=", true
	default:
		return "", false
	}
}

func unaryOp(k Kind) (string, bool) {
	if k == Not {
		return "!", true
	}
	return "", false
}

// SubExpressions returns every strict sub-expression node of n (not
// including n itself), in a deterministic pre-order.
func SubExpressions(n *TNode) []*TNode {
	var out []*TNode
	for _, c := range n.Children {
		out = append(out, c)
		out = append(out, SubExpressions(c)...)
	}
	return out
}

// Vars returns the set of variable names read within an expression
// subtree, in first-occurrence order.
func Vars(n *TNode) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(*TNode)
	walk = func(n *TNode) {
		if n == nil {
			return
		}
		if n.Kind == Variable && !n.IsProcedureVar {
			if !seen[n.Name] {
				seen[n.Name] = true
				out = append(out, n.Name)
			}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}
