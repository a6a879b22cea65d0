package eval

import (
	"os"
	"testing"

	"github.com/arzin/spaq/pkg/pkb"
	"github.com/arzin/spaq/pkg/pql"
	"github.com/arzin/spaq/pkg/simple"
)

func extractFixture(t *testing.T, path string) *pkb.PKB {
	t.Helper()
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture %s: %v", path, err)
	}
	prog, err := simple.Parse(string(src))
	if err != nil {
		t.Fatalf("simple.Parse: %v", err)
	}
	p, err := pkb.Extract(prog)
	if err != nil {
		t.Fatalf("pkb.Extract: %v", err)
	}
	return p
}

func TestEvaluate_NilOrInvalidQueryYieldsNil(t *testing.T) {
	p := extractFixture(t, "../../testdata/worked_example_1.simple")
	if got := Evaluate(nil, p); got != nil {
		t.Errorf("Evaluate(nil, p) = %v, want nil", got)
	}
	if got := Evaluate(pql.Parse("not a valid query"), p); got != nil {
		t.Errorf("Evaluate(invalid, p) = %v, want nil", got)
	}
}

func TestEvaluate_FollowsStarAgainstFixture(t *testing.T) {
	p := extractFixture(t, "../../testdata/worked_example_1.simple")
	q := pql.Parse(`stmt s; Select s such that Follows*(1, s)`)
	got := Evaluate(q, p)
	want := []string{"3", "6"}
	if !equalStrs(got, want) {
		t.Errorf("Evaluate(Follows*) = %v, want %v", got, want)
	}
}

func TestEvaluate_EmptyResultSetYieldsNilNotEmptySlice(t *testing.T) {
	p := extractFixture(t, "../../testdata/worked_example_1.simple")
	q := pql.Parse(`stmt s; Select s such that Follows(6, s)`)
	got := Evaluate(q, p)
	if got != nil {
		t.Errorf("Evaluate(no matches) = %#v, want nil", got)
	}
}

func TestEvaluate_ResultsAreSortedAndDeduplicated(t *testing.T) {
	p := extractFixture(t, "../../testdata/call_chain.simple")
	q := pql.Parse(`stmt s; Select s such that Next*(6, s)`)
	got := Evaluate(q, p)
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("Evaluate results not strictly increasing: %v", got)
		}
	}
	seen := map[string]bool{}
	for _, v := range got {
		if seen[v] {
			t.Fatalf("Evaluate results contain a duplicate: %v", got)
		}
		seen[v] = true
	}
}

func equalStrs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
