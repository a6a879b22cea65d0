package eval

import (
	"sort"
	"strconv"
	"strings"

	"github.com/arzin/spaq/pkg/ast"
	"github.com/arzin/spaq/pkg/pkb"
	"github.com/arzin/spaq/pkg/pql"
	"github.com/arzin/spaq/pkg/simple"
)

// Evaluate runs a parsed query against a PKB and returns its result
// tuples, stringified and deduplicated (spec §4.5). An invalid query (a
// failed parse) always returns nil.
func Evaluate(q *pql.Query, p *pkb.PKB) []string {
	if q == nil || !q.Valid {
		return nil
	}
	ev := &evaluator{q: q, pkb: p, domains: map[string]*Table{}}
	return ev.run()
}

type evaluator struct {
	q       *pql.Query
	pkb     *pkb.PKB
	domains map[string]*Table
}

func (ev *evaluator) run() []string {
	table := Unbound()

	for _, c := range ev.q.SuchThat {
		table = table.Merge(ev.evalSuchThat(c))
		if table.IsEmpty() {
			return ev.finish(table)
		}
	}
	for _, pc := range ev.q.Pattern {
		table = table.Merge(ev.evalPattern(pc))
		if table.IsEmpty() {
			return ev.finish(table)
		}
	}
	for _, wc := range ev.q.With {
		table = table.Merge(ev.evalWith(wc))
		if table.IsEmpty() {
			return ev.finish(table)
		}
	}
	return ev.finish(table)
}

// finish applies the Select projection (or the BOOLEAN marker) to a fully
// merged result table (spec §4.5 steps 6-7).
func (ev *evaluator) finish(table *Table) []string {
	if len(ev.q.Returns) == 1 && ev.q.Returns[0].IsBoolean {
		if table.IsEmpty() {
			return []string{"FALSE"}
		}
		return []string{"TRUE"}
	}
	if table.IsEmpty() {
		return nil
	}

	cols := make([]string, len(ev.q.Returns))
	for i, r := range ev.q.Returns {
		if !table.Contains(r.Synonym) {
			table = table.Merge(ev.domain(r.Synonym))
			if table.IsEmpty() {
				return nil
			}
		}
		col := ev.attrColumn(r.Synonym, r.Attr)
		if r.Attr != "" && !table.Contains(col) {
			kind := ev.q.Declarations[r.Synonym]
			attr := r.Attr
			table = table.WithDerivedColumn(r.Synonym, col, func(raw string) string {
				return ev.attrValue(kind, attr, raw)
			})
		}
		cols[i] = col
	}

	rows := table.ProjectSet(cols)
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = strings.Join(r, " ")
	}
	sort.Strings(out)
	return out
}

// attrColumn names the column an elem/return-target binds to: the bare
// synonym for attribute-less references, or "synonym.attr" when an
// attribute is named, since the same synonym can appear under two
// different attribute projections in one query (e.g. a.procName and a
// itself are different values for a call synonym).
func (ev *evaluator) attrColumn(synonym, attr string) string {
	if attr == "" {
		return synonym
	}
	return synonym + "." + attr
}

// attrValue maps a raw domain value (a statement number, variable name,
// procedure name, or constant text) to the string form of the requested
// attribute.
func (ev *evaluator) attrValue(kind pql.EntityKind, attr, raw string) string {
	switch attr {
	case "":
		return raw
	case "stmt#":
		return raw
	case "value":
		return raw
	case "procName":
		if kind == pql.KindProcedure {
			return raw
		}
		stmt, _ := strconv.Atoi(raw)
		v, _ := ev.pkb.CallTarget(stmt)
		return v
	case "varName":
		if kind == pql.KindVariable {
			return raw
		}
		stmt, _ := strconv.Atoi(raw)
		if kind == pql.KindRead {
			v, _ := ev.pkb.ReadVar(stmt)
			return v
		}
		v, _ := ev.pkb.PrintVar(stmt)
		return v
	}
	return raw
}

// domain returns (and caches) the synonym's full candidate set per its
// declared design entity (spec §4.5 step 2).
func (ev *evaluator) domain(synonym string) *Table {
	if t, ok := ev.domains[synonym]; ok {
		return t
	}
	kind := ev.q.Declarations[synonym]
	var vals []string
	switch kind {
	case pql.KindVariable:
		vals = ev.pkb.AllVariables()
	case pql.KindConstant:
		vals = ev.pkb.AllConstants()
	case pql.KindProcedure:
		vals = ev.pkb.AllProcedures()
	default:
		vals = intsToStrs(stmtsForKind(kind, ev.pkb))
	}
	t := NewColumn(synonym, vals)
	ev.domains[synonym] = t
	return t
}

func stmtsForKind(kind pql.EntityKind, p *pkb.PKB) []int {
	switch kind {
	case pql.KindStmt, pql.KindProgLine:
		return p.AllStatements()
	case pql.KindRead:
		return p.StmtsOfKind(ast.StmtRead)
	case pql.KindPrint:
		return p.StmtsOfKind(ast.StmtPrint)
	case pql.KindCall:
		return p.StmtsOfKind(ast.StmtCall)
	case pql.KindWhile:
		return p.StmtsOfKind(ast.StmtWhile)
	case pql.KindIf:
		return p.StmtsOfKind(ast.StmtIf)
	case pql.KindAssign:
		return p.StmtsOfKind(ast.StmtAssign)
	}
	return nil
}

func intsToStrs(xs []int) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = strconv.Itoa(x)
	}
	return out
}

// ---- such-that clauses ----

type relIntRel struct {
	test     func(a, b int) bool
	fwd      func(a int) []int
	bwd      func(b int) []int
	allPairs func() [][2]int
}

type relStrRel struct {
	test     func(a, b string) bool
	fwd      func(a string) []string
	bwd      func(b string) []string
	allPairs func() [][2]string
}

func (ev *evaluator) intRelations() map[string]relIntRel {
	p := ev.pkb
	return map[string]relIntRel{
		pql.RelFollows: {
			test: p.Follows,
			fwd:  func(a int) []int { if b, ok := p.FollowsSuccessor(a); ok { return []int{b} }; return nil },
			bwd:  func(b int) []int { if a, ok := p.FollowsPredecessor(b); ok { return []int{a} }; return nil },
			allPairs: p.AllFollowsPairs,
		},
		pql.RelFollowsStar: {test: p.FollowsStar, fwd: p.FollowsStarForward, bwd: p.FollowsStarBackward, allPairs: p.AllFollowsStarPairs},
		pql.RelParent: {
			test: p.Parent,
			fwd:  p.ParentChildren,
			bwd:  func(b int) []int { if a, ok := p.ParentOf(b); ok { return []int{a} }; return nil },
			allPairs: p.AllParentPairs,
		},
		pql.RelParentStar: {test: p.ParentStar, fwd: p.ParentStarForward, bwd: p.ParentStarBackward, allPairs: p.AllParentStarPairs},
		pql.RelNext:        {test: p.Next, fwd: p.NextOut, bwd: p.NextIn, allPairs: p.AllNextPairs},
		pql.RelNextStar:    {test: p.NextStar, fwd: p.NextStarForward, bwd: p.NextStarBackward, allPairs: p.AllNextStarPairs},
		pql.RelNextBip:     {test: p.NextBip, fwd: p.NextBipOut, bwd: p.NextBipIn, allPairs: p.AllNextBipPairs},
		pql.RelNextBipStar: {test: p.NextBipStar, fwd: p.NextBipStarForward, bwd: p.NextBipStarBackward, allPairs: p.AllNextBipStarPairs},
		pql.RelAffects:        {test: p.Affects, fwd: p.AffectsForward, bwd: p.AffectsBackward, allPairs: p.AllAffectsPairs},
		pql.RelAffectsStar:    {test: p.AffectsStar, fwd: p.AffectsStarForward, bwd: p.AffectsStarBackward, allPairs: p.AllAffectsStarPairs},
		pql.RelAffectsBip:     {test: p.AffectsBip, fwd: p.AffectsBipForward, bwd: p.AffectsBipBackward, allPairs: p.AllAffectsBipPairs},
		pql.RelAffectsBipStar: {test: p.AffectsBipStar, fwd: p.AffectsBipStarForward, bwd: p.AffectsBipStarBackward, allPairs: p.AllAffectsBipStarPairs},
	}
}

func (ev *evaluator) strRelations() map[string]relStrRel {
	p := ev.pkb
	return map[string]relStrRel{
		pql.RelCalls:     {test: p.Calls, fwd: p.CallsOut, bwd: p.CallsIn, allPairs: p.AllCallsPairs},
		pql.RelCallsStar: {test: p.CallsStar, fwd: p.CallsStarForward, bwd: p.CallsStarBackward, allPairs: p.AllCallsStarPairs},
	}
}

func (ev *evaluator) evalSuchThat(c pql.Clause) *Table {
	if !c.Valid {
		return Empty()
	}
	if r, ok := ev.intRelations()[c.Relation]; ok {
		return evalIntRel(c, r)
	}
	if r, ok := ev.strRelations()[c.Relation]; ok {
		return evalStrRel(c, r)
	}
	if c.Relation == pql.RelUses || c.Relation == pql.RelModifies {
		return ev.evalUsesModifies(c)
	}
	return Empty()
}

func argInfo(a pql.Arg) (synonym string, literal int, hasLiteral, wildcard bool) {
	switch a.Kind {
	case pql.ArgSynonym:
		return a.Synonym, 0, false, false
	case pql.ArgInteger:
		return "", a.Int, true, false
	case pql.ArgWildcard:
		return "", 0, false, true
	}
	return "", 0, false, false
}

func evalIntRel(c pql.Clause, r relIntRel) *Table {
	s1, lit1, hasLit1, wc1 := argInfo(c.Arg1)
	s2, lit2, hasLit2, wc2 := argInfo(c.Arg2)

	switch {
	case hasLit1 && hasLit2:
		return boolTable(r.test(lit1, lit2))
	case hasLit1 && wc2:
		return boolTable(len(r.fwd(lit1)) > 0)
	case wc1 && hasLit2:
		return boolTable(len(r.bwd(lit2)) > 0)
	case wc1 && wc2:
		return boolTable(len(r.allPairs()) > 0)
	case hasLit1 && s2 != "":
		return NewColumn(s2, intsToStrs(r.fwd(lit1)))
	case s1 != "" && hasLit2:
		return NewColumn(s1, intsToStrs(r.bwd(lit2)))
	case wc1 && s2 != "":
		set := map[int]bool{}
		for _, pr := range r.allPairs() {
			set[pr[1]] = true
		}
		return NewColumn(s2, intsToStrs(intSetSorted(set)))
	case s1 != "" && wc2:
		set := map[int]bool{}
		for _, pr := range r.allPairs() {
			set[pr[0]] = true
		}
		return NewColumn(s1, intsToStrs(intSetSorted(set)))
	case s1 != "" && s2 != "":
		pairs := r.allPairs()
		if s1 == s2 {
			var vals []int
			for _, pr := range pairs {
				if pr[0] == pr[1] {
					vals = append(vals, pr[0])
				}
			}
			return NewColumn(s1, intsToStrs(vals))
		}
		rows := make([][]string, len(pairs))
		for i, pr := range pairs {
			rows[i] = []string{strconv.Itoa(pr[0]), strconv.Itoa(pr[1])}
		}
		return NewRows([]string{s1, s2}, rows)
	}
	return Empty()
}

func argInfoStr(a pql.Arg) (synonym, literal string, hasLiteral, wildcard bool) {
	switch a.Kind {
	case pql.ArgSynonym:
		return a.Synonym, "", false, false
	case pql.ArgString:
		return "", a.Str, true, false
	case pql.ArgWildcard:
		return "", "", false, true
	}
	return "", "", false, false
}

func evalStrRel(c pql.Clause, r relStrRel) *Table {
	s1, lit1, hasLit1, wc1 := argInfoStr(c.Arg1)
	s2, lit2, hasLit2, wc2 := argInfoStr(c.Arg2)

	switch {
	case hasLit1 && hasLit2:
		return boolTable(r.test(lit1, lit2))
	case hasLit1 && wc2:
		return boolTable(len(r.fwd(lit1)) > 0)
	case wc1 && hasLit2:
		return boolTable(len(r.bwd(lit2)) > 0)
	case wc1 && wc2:
		return boolTable(len(r.allPairs()) > 0)
	case hasLit1 && s2 != "":
		return NewColumn(s2, r.fwd(lit1))
	case s1 != "" && hasLit2:
		return NewColumn(s1, r.bwd(lit2))
	case wc1 && s2 != "":
		set := map[string]bool{}
		for _, pr := range r.allPairs() {
			set[pr[1]] = true
		}
		return NewColumn(s2, strSetSorted(set))
	case s1 != "" && wc2:
		set := map[string]bool{}
		for _, pr := range r.allPairs() {
			set[pr[0]] = true
		}
		return NewColumn(s1, strSetSorted(set))
	case s1 != "" && s2 != "":
		pairs := r.allPairs()
		if s1 == s2 {
			var vals []string
			for _, pr := range pairs {
				if pr[0] == pr[1] {
					vals = append(vals, pr[0])
				}
			}
			return NewColumn(s1, vals)
		}
		rows := make([][]string, len(pairs))
		for i, pr := range pairs {
			rows[i] = []string{pr[0], pr[1]}
		}
		return NewRows([]string{s1, s2}, rows)
	}
	return Empty()
}

func boolTable(ok bool) *Table {
	if ok {
		return Unbound()
	}
	return Empty()
}

func intSetSorted(s map[int]bool) []int {
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func strSetSorted(s map[string]bool) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ---- Uses / Modifies ----

type usesModOps struct {
	stmtVars func(int) []string
	stmtHas  func(int, string) bool
	procVars func(string) []string
	procHas  func(string, string) bool
}

func (ev *evaluator) usesModOps(relation string) usesModOps {
	p := ev.pkb
	if relation == pql.RelUses {
		return usesModOps{stmtVars: p.UsesStmt, stmtHas: p.StmtUses, procVars: p.UsesProc, procHas: p.ProcUses}
	}
	return usesModOps{stmtVars: p.ModifiesStmt, stmtHas: p.StmtModifies, procVars: p.ModifiesProc, procHas: p.ProcModifies}
}

func (ev *evaluator) evalUsesModifies(c pql.Clause) *Table {
	ops := ev.usesModOps(c.Relation)

	isProc, a1lit, a1hasLit, a1syn, a1wild := ev.resolveEntityArg(c.Arg1)
	s2, a2lit, a2hasLit, a2wild := argInfoStr(c.Arg2)

	if a1hasLit {
		if isProc {
			return usesModOneEntity(ops.procVars(a1lit), ops.procHas, a1lit, s2, a2lit, a2hasLit, a2wild)
		}
		stmt, _ := strconv.Atoi(a1lit)
		return usesModOneStmtEntity(ops.stmtVars(stmt), ops.stmtHas, stmt, s2, a2lit, a2hasLit, a2wild)
	}

	var entities []string
	if isProc {
		entities = ev.pkb.AllProcedures()
	} else {
		entities = intsToStrs(stmtsForKind(ev.q.Declarations[a1syn], ev.pkb))
		if a1wild && a1syn == "" {
			entities = intsToStrs(ev.pkb.AllStatements())
		}
	}

	var rows [][]string
	var col1vals []string
	for _, e := range entities {
		var vars []string
		if isProc {
			vars = ops.procVars(e)
		} else {
			n, _ := strconv.Atoi(e)
			vars = ops.stmtVars(n)
		}
		switch {
		case a2hasLit:
			if containsStr(vars, a2lit) {
				col1vals = append(col1vals, e)
			}
		case a2wild:
			if len(vars) > 0 {
				col1vals = append(col1vals, e)
			}
		case s2 != "":
			for _, v := range vars {
				rows = append(rows, []string{e, v})
			}
		}
	}

	switch {
	case a2hasLit, a2wild:
		if a1syn == "" && a1wild {
			if len(col1vals) > 0 {
				return Unbound()
			}
			return Empty()
		}
		return NewColumn(a1syn, col1vals)
	case s2 != "":
		if a1syn == "" && a1wild {
			set := map[string]bool{}
			for _, r := range rows {
				set[r[1]] = true
			}
			return NewColumn(s2, strSetSorted(set))
		}
		return NewRows([]string{a1syn, s2}, rows)
	}
	return Empty()
}

func usesModOneStmtEntity(vars []string, has func(int, string) bool, stmt int, s2, a2lit string, a2hasLit, a2wild bool) *Table {
	switch {
	case a2hasLit:
		return boolTable(has(stmt, a2lit))
	case a2wild:
		return boolTable(len(vars) > 0)
	case s2 != "":
		return NewColumn(s2, vars)
	}
	return Empty()
}

func usesModOneEntity(vars []string, has func(string, string) bool, proc, s2, a2lit string, a2hasLit, a2wild bool) *Table {
	switch {
	case a2hasLit:
		return boolTable(has(proc, a2lit))
	case a2wild:
		return boolTable(len(vars) > 0)
	case s2 != "":
		return NewColumn(s2, vars)
	}
	return Empty()
}

// resolveEntityArg classifies a Uses/Modifies arg1 as procedure-mode or
// statement-mode, per its literal kind or declared synonym kind.
func (ev *evaluator) resolveEntityArg(a pql.Arg) (isProc bool, literal string, hasLiteral bool, synonym string, wildcard bool) {
	switch a.Kind {
	case pql.ArgString:
		return true, a.Str, true, "", false
	case pql.ArgInteger:
		return false, strconv.Itoa(a.Int), true, "", false
	case pql.ArgWildcard:
		return false, "", false, "", true
	case pql.ArgSynonym:
		return ev.q.Declarations[a.Synonym] == pql.KindProcedure, "", false, a.Synonym, false
	}
	return false, "", false, "", false
}

func containsStr(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// ---- pattern clauses ----

func (ev *evaluator) evalPattern(pc pql.PatternClause) *Table {
	if !pc.Valid {
		return Empty()
	}
	switch pc.Kind {
	case pql.PatternAssign:
		return ev.assignPatternTable(pc)
	case pql.PatternIf:
		return ev.evalCondPattern(pc, ast.StmtIf)
	case pql.PatternWhile:
		return ev.evalCondPattern(pc, ast.StmtWhile)
	}
	return Empty()
}

// assignPatternTable resolves a `pattern a(entRef, spec)` clause by
// canonicalizing the quoted expression (if any) and consulting the PKB's
// pattern index; a bare wildcard matches every assign statement.
func (ev *evaluator) assignPatternTable(pc pql.PatternClause) *Table {
	var stmts []int
	var assignees map[int]string

	if pc.Wildcard {
		stmts = ev.pkb.StmtsOfKind(ast.StmtAssign)
		assignees = map[int]string{}
		for _, s := range stmts {
			v, _ := ev.assigneeOf(s)
			assignees[s] = v
		}
	} else {
		canon, ok := ev.canonicalize(pc.Expr)
		if !ok {
			return Empty()
		}
		entries := ev.pkb.PatternMatches(canon)
		stmts = make([]int, 0, len(entries))
		assignees = map[int]string{}
		for _, e := range entries {
			if pc.Exact && e.IsSubExpression {
				continue
			}
			stmts = append(stmts, e.AssignStmt)
			assignees[e.AssignStmt] = e.Assignee
		}
	}

	stmts = ev.filterByEntRef(pc.EntRef, stmts, assignees)
	return ev.patternResultTable(pc, stmts)
}

func (ev *evaluator) assigneeOf(stmt int) (string, bool) {
	vars := ev.pkb.ModifiesStmt(stmt)
	if len(vars) == 1 {
		return vars[0], true
	}
	return "", false
}

func (ev *evaluator) canonicalize(expr string) (string, bool) {
	n, err := simple.ParseExpr(expr)
	if err != nil {
		return "", false
	}
	return ast.Canonicalize(n), true
}

func (ev *evaluator) filterByEntRef(ref pql.Arg, stmts []int, assignees map[int]string) []int {
	switch ref.Kind {
	case pql.ArgWildcard:
		return stmts
	case pql.ArgString:
		var out []int
		for _, s := range stmts {
			if assignees[s] == ref.Str {
				out = append(out, s)
			}
		}
		return out
	case pql.ArgSynonym:
		return stmts // the variable side is joined in patternResultTable
	}
	return stmts
}

func (ev *evaluator) patternResultTable(pc pql.PatternClause, stmts []int) *Table {
	if pc.EntRef.Kind == pql.ArgSynonym {
		assignees := map[int]string{}
		for _, s := range stmts {
			v, _ := ev.assigneeOf(s)
			assignees[s] = v
		}
		rows := make([][]string, 0, len(stmts))
		for _, s := range stmts {
			rows = append(rows, []string{strconv.Itoa(s), assignees[s]})
		}
		return NewRows([]string{pc.Synonym, pc.EntRef.Synonym}, rows)
	}
	return NewColumn(pc.Synonym, intsToStrs(stmts))
}

// evalCondPattern handles pattern clauses over if/while synonyms. Both
// require a wildcard body per grammar (spec's Open Question decision); the
// only work left is matching the conditional's variable set against entRef
// when it pins down a specific variable.
func (ev *evaluator) evalCondPattern(pc pql.PatternClause, kind ast.StmtKind) *Table {
	stmts := ev.pkb.StmtsOfKind(kind)
	if pc.EntRef.Kind == pql.ArgString {
		var out []int
		for _, s := range stmts {
			if containsStr(ev.pkb.StmtConditionVars(s), pc.EntRef.Str) {
				out = append(out, s)
			}
		}
		return NewColumn(pc.Synonym, intsToStrs(out))
	}
	if pc.EntRef.Kind == pql.ArgSynonym {
		var rows [][]string
		for _, s := range stmts {
			for _, v := range ev.pkb.StmtConditionVars(s) {
				rows = append(rows, []string{strconv.Itoa(s), v})
			}
		}
		return NewRows([]string{pc.Synonym, pc.EntRef.Synonym}, rows)
	}
	return NewColumn(pc.Synonym, intsToStrs(stmts))
}

// ---- with clauses ----

func (ev *evaluator) evalWith(wc pql.WithClause) *Table {
	if !wc.Valid {
		return Empty()
	}
	l := ev.withSide(wc.Left)
	r := ev.withSide(wc.Right)

	if l.isLiteral && r.isLiteral {
		return boolTable(l.literal == r.literal)
	}
	if l.isLiteral {
		return ev.filterDomainByLiteral(r.synonym, r.attr, l.literal)
	}
	if r.isLiteral {
		return ev.filterDomainByLiteral(l.synonym, l.attr, r.literal)
	}
	return ev.joinDomainsByAttr(l.synonym, l.attr, r.synonym, r.attr)
}

type withSide struct {
	isLiteral bool
	literal   string
	synonym   string
	attr      string
}

func (ev *evaluator) withSide(a pql.AttrRef) withSide {
	if a.IsInt {
		return withSide{isLiteral: true, literal: strconv.Itoa(a.Int)}
	}
	if a.IsStr {
		return withSide{isLiteral: true, literal: a.Str}
	}
	return withSide{synonym: a.Synonym, attr: a.Attr}
}

func (ev *evaluator) filterDomainByLiteral(synonym, attr, literal string) *Table {
	dom := ev.domain(synonym)
	kind := ev.q.Declarations[synonym]
	var vals []string
	for _, row := range dom.Rows {
		if ev.attrValue(kind, attr, row[0]) == literal {
			vals = append(vals, row[0])
		}
	}
	return NewColumn(synonym, vals)
}

func (ev *evaluator) joinDomainsByAttr(s1, a1, s2, a2 string) *Table {
	dom1 := ev.domain(s1)
	dom2 := ev.domain(s2)
	k1 := ev.q.Declarations[s1]
	k2 := ev.q.Declarations[s2]

	if s1 == s2 {
		var vals []string
		for _, row := range dom1.Rows {
			if ev.attrValue(k1, a1, row[0]) == ev.attrValue(k2, a2, row[0]) {
				vals = append(vals, row[0])
			}
		}
		return NewColumn(s1, vals)
	}

	index := map[string][]string{}
	for _, row := range dom2.Rows {
		index[ev.attrValue(k2, a2, row[0])] = append(index[ev.attrValue(k2, a2, row[0])], row[0])
	}

	var rows [][]string
	for _, row1 := range dom1.Rows {
		key := ev.attrValue(k1, a1, row1[0])
		for _, v2 := range index[key] {
			rows = append(rows, []string{row1[0], v2})
		}
	}
	return NewRows([]string{s1, s2}, rows)
}
