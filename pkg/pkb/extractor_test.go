package pkb

import (
	"os"
	"testing"

	"github.com/arzin/spaq/pkg/simple"
)

func extractFixture(t *testing.T, path string) *PKB {
	t.Helper()
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture %s: %v", path, err)
	}
	prog, err := simple.Parse(string(src))
	if err != nil {
		t.Fatalf("simple.Parse: %v", err)
	}
	p, err := Extract(prog)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return p
}

func TestExtract_WorkedExample1(t *testing.T) {
	p := extractFixture(t, "../../testdata/worked_example_1.simple")

	if !p.Follows(1, 3) {
		t.Error("Follows(1, 3) should hold: while at 1 is directly followed by if at 3")
	}
	if p.Follows(1, 4) {
		t.Error("Follows(1, 4) should not hold: 4 is nested inside the if at 3, not a sibling")
	}
	if !p.FollowsStar(1, 6) {
		t.Error("Follows*(1, 6) should hold transitively through 3")
	}

	if !p.Parent(3, 4) || !p.Parent(3, 5) {
		t.Error("Parent(3, 4) and Parent(3, 5) should hold: 4 and 5 are the if's then/else bodies")
	}
	if p.Parent(1, 4) {
		t.Error("Parent(1, 4) should not hold: 4 is not a direct child of the while at 1")
	}

	mods := p.ModifiesStmt(3)
	if len(mods) != 2 || mods[0] != "apple" || mods[1] != "armani" {
		t.Errorf("ModifiesStmt(3) = %v, want [apple armani]", mods)
	}

	for _, stmt := range []int{1, 2, 3, 4, 5, 6} {
		if !p.StmtExists(stmt) {
			t.Errorf("statement %d should exist", stmt)
		}
	}
	if p.StmtExists(7) {
		t.Error("statement 7 should not exist; fixture has 6 statements")
	}
}

func TestExtract_StatementKindsAreExclusive(t *testing.T) {
	p := extractFixture(t, "../../testdata/worked_example_1.simple")

	for _, stmt := range p.AllStatements() {
		kinds := 0
		for _, is := range []bool{p.IsAssign(stmt), p.IsCall(stmt), p.IsIf(stmt), p.IsPrint(stmt), p.IsRead(stmt), p.IsWhile(stmt)} {
			if is {
				kinds++
			}
		}
		if kinds != 1 {
			t.Errorf("statement %d matched %d kind predicates, want exactly 1", stmt, kinds)
		}
	}
}

func TestExtract_CallGraph(t *testing.T) {
	p := extractFixture(t, "../../testdata/call_chain.simple")

	if !p.Calls("First", "Second") {
		t.Error(`Calls("First", "Second") should hold`)
	}
	if p.Calls("First", "Third") {
		t.Error(`Calls("First", "Third") should not hold directly`)
	}
	if !p.CallsStar("First", "Third") {
		t.Error(`Calls*("First", "Third") should hold transitively`)
	}

	target, ok := p.CallTarget(2)
	if !ok || target != "Second" {
		t.Errorf("CallTarget(2) = (%q, %v), want (Second, true)", target, ok)
	}
}

func TestExtract_ModifiesUsesPropagateAcrossCallChain(t *testing.T) {
	p := extractFixture(t, "../../testdata/call_chain.simple")

	// Third modifies z and uses x and y directly.
	if !p.ProcModifies("Third", "z") {
		t.Error(`ProcModifies("Third", "z") should hold`)
	}
	if !p.ProcUses("Third", "x") || !p.ProcUses("Third", "y") {
		t.Error(`ProcUses("Third", "x") and ProcUses("Third", "y") should hold`)
	}

	// Second calls Third, so Second's aggregate must include Third's z even
	// though Second never mentions z itself.
	if !p.ProcModifies("Second", "z") {
		t.Error(`ProcModifies("Second", "z") should hold transitively through the call to Third`)
	}
	if !p.ProcModifies("Second", "y") {
		t.Error(`ProcModifies("Second", "y") should hold: Second assigns y directly`)
	}

	// First calls Second, two levels removed from Third, so First's
	// aggregate must include both Second's y and Third's z.
	if !p.ProcModifies("First", "y") {
		t.Error(`ProcModifies("First", "y") should hold transitively through First -> Second`)
	}
	if !p.ProcModifies("First", "z") {
		t.Error(`ProcModifies("First", "z") should hold transitively through First -> Second -> Third`)
	}
	if !p.ProcModifies("First", "x") {
		t.Error(`ProcModifies("First", "x") should hold: First assigns x directly`)
	}

	// The call statement itself (stmt 2, `call Second` inside First) must
	// carry the same propagated set, since Modifies(stmt, v) for a Call is
	// defined as Modifies(callee, v).
	if !p.StmtModifies(2, "z") {
		t.Error(`Modifies(2, "z") should hold: statement 2 is "call Second", which transitively modifies z`)
	}
	if !p.StmtModifies(2, "y") {
		t.Error(`Modifies(2, "y") should hold: statement 2 is "call Second", which modifies y directly`)
	}
}

func TestExtractWithCacheSize_AffectsStillCorrectWhenBoundSmall(t *testing.T) {
	src, err := os.ReadFile("../../testdata/worked_example_2.simple")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	prog, err := simple.Parse(string(src))
	if err != nil {
		t.Fatalf("simple.Parse: %v", err)
	}

	// A cache bound of 1 forces constant eviction; Affects results must
	// still be correct, just recomputed more often.
	p, err := ExtractWithCacheSize(prog, 1)
	if err != nil {
		t.Fatalf("ExtractWithCacheSize: %v", err)
	}

	if !p.Affects(2, 3) {
		t.Error("Affects(2, 3) should hold even with a 1-entry memoization bound")
	}
	if !p.AffectsStar(2, 8) {
		t.Error("Affects*(2, 8) should hold even with a 1-entry memoization bound")
	}
}

func TestExtract_NextWithinProcedure(t *testing.T) {
	p := extractFixture(t, "../../testdata/call_chain.simple")

	if !p.Next(6, 7) {
		t.Error("Next(6, 7) should hold: the if at 6 falls through into its then-branch at 7")
	}
	if !p.NextStar(6, 10) {
		t.Error("Next*(6, 10) should hold: control eventually reaches the print at 10")
	}
}
