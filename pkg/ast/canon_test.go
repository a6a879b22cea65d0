package ast

import "testing"

func expr(kind Kind, children ...*TNode) *TNode { return New(kind, children...) }
func variable(name string) *TNode               { return &TNode{Kind: Variable, Name: name} }
func constant(value string) *TNode              { return &TNode{Kind: Constant, Value: value} }

func TestCanonicalize_ParenthesizesBinaryOp(t *testing.T) {
	// 23 + another_var
	n := expr(Plus, constant("23"), variable("another_var"))
	got := Canonicalize(n)
	want := "(23+another_var)"
	if got != want {
		t.Errorf("Canonicalize = %q, want %q", got, want)
	}
}

func TestCanonicalize_Deterministic(t *testing.T) {
	// x + y + z -> ((x+y)+z); canonicalizing the same subtree twice must
	// yield the same string both times.
	n := expr(Plus, expr(Plus, variable("x"), variable("y")), variable("z"))
	once := Canonicalize(n)
	twice := Canonicalize(n)
	if twice != once {
		t.Errorf("canon(e) = %q the second time, want %q (same as the first)", twice, once)
	}
}

func TestSubExpressions(t *testing.T) {
	// x * y + 1
	inner := expr(Multiply, variable("x"), variable("y"))
	n := expr(Plus, inner, constant("1"))

	subs := SubExpressions(n)
	if len(subs) != 4 {
		t.Fatalf("SubExpressions returned %d nodes, want 4 (the Multiply node, x, y and the Constant)", len(subs))
	}
	if subs[0] != inner {
		t.Errorf("SubExpressions[0] = %v, want the Multiply subtree", subs[0])
	}
}

func TestVars_DeduplicatesInFirstOccurrenceOrder(t *testing.T) {
	// y + x + y
	n := expr(Plus, expr(Plus, variable("y"), variable("x")), variable("y"))
	got := Vars(n)
	want := []string{"y", "x"}
	if len(got) != len(want) {
		t.Fatalf("Vars = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Vars[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
