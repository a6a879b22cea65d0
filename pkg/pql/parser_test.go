package pql

import "testing"

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"simple select", `stmt s; Select s`},
		{"select boolean", `Select BOOLEAN such that Follows(1, 2)`},
		{"follows star", `stmt s; Select s such that Follows*(1, s)`},
		{"pattern wildcard", `assign a; Select a pattern a(_, _)`},
		{"pattern exact", `assign a; variable v; Select a pattern a(v, "x + 1")`},
		{"pattern subexpr", `assign a; Select a pattern a(_, _"x"_)`},
		{"with procname", `call c; Select c with c.procName = "Foo"`},
		{"multiple declarations one statement", `stmt s1, s2; Select s1 such that Follows(s1, s2)`},
		{"attribute select", `call c; Select c.procName`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(tt.src)
			if q == nil || !q.Valid {
				t.Fatalf("Parse(%q) produced an invalid query: %#v", tt.src, q)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ``},
		{"missing select", `stmt s;`},
		{"undeclared synonym", `Select s`},
		{"garbage", `this is not pql at all`},
		{"unterminated pattern", `assign a; Select a pattern a(_, _`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(tt.src)
			if q != nil && q.Valid {
				t.Fatalf("Parse(%q) = valid query, want invalid", tt.src)
			}
		})
	}
}

func TestParse_RedeclaredSynonymPoisoned(t *testing.T) {
	q := Parse(`stmt s; variable s; Select s`)
	if q == nil {
		t.Fatal("Parse returned nil")
	}
	if kind, ok := q.Declarations["s"]; !ok || kind != KindInvalid {
		t.Errorf("redeclared synonym s should be KindInvalid, got %v (declared=%v)", kind, ok)
	}
}

func TestParse_DeclarationOrderIrrelevant(t *testing.T) {
	a := Parse(`stmt s1, s2; Select s1 such that Follows(s1, s2)`)
	b := Parse(`stmt s2, s1; Select s1 such that Follows(s1, s2)`)
	if a == nil || b == nil || !a.Valid || !b.Valid {
		t.Fatalf("expected both queries to parse validly: a=%#v b=%#v", a, b)
	}
	if len(a.SuchThat) != len(b.SuchThat) {
		t.Errorf("declaration order changed clause count: %d vs %d", len(a.SuchThat), len(b.SuchThat))
	}
}
