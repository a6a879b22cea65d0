package simple

import (
	"os"
	"testing"

	"github.com/arzin/spaq/pkg/ast"
)

func TestParse_Fixtures(t *testing.T) {
	paths := []string{
		"../../testdata/worked_example_1.simple",
		"../../testdata/worked_example_2.simple",
		"../../testdata/call_chain.simple",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading fixture: %v", err)
			}
			if _, err := Parse(string(src)); err != nil {
				t.Fatalf("Parse(%s): %v", path, err)
			}
		})
	}
}

func TestParse_ValidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"minimal assign", `procedure p { x = 1; }`},
		{"read and print", `procedure p { read x; print x; }`},
		{"nested while/if", `procedure p { while (x > 0) { if (x == 1) then { y = 1; } else { y = 2; } x = x - 1; } }`},
		{"call to declared procedure", `procedure a { call b; } procedure b { x = 1; }`},
		{"boolean combo in condition", `procedure p { while ((x == 1) && (y == 2)) { z = 1; } }`},
		{"negated condition", `procedure p { if (!(x == y)) then { z = 1; } else { z = 2; } }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.src); err != nil {
				t.Errorf("Parse(%q) = %v, want success", tt.src, err)
			}
		})
	}
}

func TestParse_InvalidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty program", ``},
		{"missing procedure body", `procedure p`},
		{"call to undeclared procedure", `procedure a { call b; }`},
		{"duplicate procedure name", `procedure p { x = 1; } procedure p { y = 1; }`},
		{"call cycle", `procedure a { call b; } procedure b { call a; }`},
		{"unterminated statement", `procedure p { x = 1 }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.src); err == nil {
				t.Errorf("Parse(%q) succeeded, want an error", tt.src)
			}
		})
	}
}

func TestParseExpr_CanonicalFormIsWhitespaceInsensitive(t *testing.T) {
	spaced, err := ParseExpr("x + y * 2")
	if err != nil {
		t.Fatalf("ParseExpr(spaced): %v", err)
	}
	tight, err := ParseExpr("x+y*2")
	if err != nil {
		t.Fatalf("ParseExpr(tight): %v", err)
	}
	if got, want := ast.Canonicalize(spaced), ast.Canonicalize(tight); got != want {
		t.Errorf("canon(%q) = %q, canon(%q) = %q; want equal", "x + y * 2", got, "x+y*2", want)
	}
}

func TestParse_StatementNumbersAreSequentialAcrossProcedures(t *testing.T) {
	prog, err := Parse(`procedure a { x = 1; call b; } procedure b { y = 2; }`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog.Procedures) != 2 {
		t.Fatalf("expected 2 procedures, got %d", len(prog.Procedures))
	}
	first := prog.Procedures[0].Body.Children
	second := prog.Procedures[1].Body.Children
	if first[0].StmtNo != 1 || first[1].StmtNo != 2 {
		t.Errorf("procedure a statement numbers = [%d %d], want [1 2]", first[0].StmtNo, first[1].StmtNo)
	}
	if second[0].StmtNo != 3 {
		t.Errorf("procedure b statement number = %d, want 3 (continuing the program-wide counter)", second[0].StmtNo)
	}
}
