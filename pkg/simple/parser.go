package simple

import (
	"fmt"

	"github.com/arzin/spaq/pkg/ast"
)

var reserved = map[string]bool{
	"procedure": true, "read": true, "print": true, "while": true,
	"call": true, "if": true, "then": true, "else": true,
}

// Parser consumes a token stream and builds the TNode AST, assigning dense
// statement numbers in source order as each statement header is parsed.
type Parser struct {
	lex    *lexer
	cur    token
	nextNo int
}

// Parse lexes and parses SIMPLE source into a Program. Failure is fatal
// per spec §4.1/§7 and is always a *ParseError.
func Parse(src string) (*ast.Program, error) {
	p := &Parser{lex: newLexer(src), nextNo: 1}
	if err := p.advance(); err != nil {
		return nil, err
	}
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if err := validate(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

func (p *Parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return &ParseError{p.cur.line, p.cur.col, fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(k tokenKind) (token, error) {
	if p.cur.kind != k {
		return token{}, p.errf("unexpected token %q", p.cur.text)
	}
	t := p.cur
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return t, nil
}

func (p *Parser) expectKeyword(kw string) error {
	if p.cur.kind != tokIdent || p.cur.text != kw {
		return p.errf("expected keyword %q, got %q", kw, p.cur.text)
	}
	return p.advance()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur.kind != tokEOF {
		proc, err := p.parseProcedure()
		if err != nil {
			return nil, err
		}
		prog.Procedures = append(prog.Procedures, proc)
	}
	if len(prog.Procedures) == 0 {
		return nil, p.errf("program has no procedures")
	}
	return prog, nil
}

func (p *Parser) parseProcedure() (*ast.Procedure, error) {
	if err := p.expectKeyword("procedure"); err != nil {
		return nil, err
	}
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	body, err := p.parseStmtLst()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	node := ast.New(ast.ProcedureKind, body)
	node.Name = name
	return &ast.Procedure{Name: name, Body: body, Node: node}, nil
}

func (p *Parser) parseName() (string, error) {
	if p.cur.kind != tokIdent {
		return "", p.errf("expected identifier, got %q", p.cur.text)
	}
	if reserved[p.cur.text] {
		return "", p.errf("reserved word %q cannot be used as a name", p.cur.text)
	}
	name := p.cur.text
	return name, p.advance()
}

func (p *Parser) parseStmtLst() (*ast.TNode, error) {
	lst := ast.New(ast.StatementList)
	for {
		if p.cur.kind == tokRBrace || p.cur.kind == tokEOF {
			break
		}
		if p.cur.kind == tokIdent && p.cur.text == "else" {
			break
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		lst.Children = append(lst.Children, stmt)
	}
	if len(lst.Children) == 0 {
		return nil, p.errf("statement list must not be empty")
	}
	return lst, nil
}

func (p *Parser) parseStmt() (*ast.TNode, error) {
	if p.cur.kind != tokIdent {
		return nil, p.errf("expected statement, got %q", p.cur.text)
	}
	switch p.cur.text {
	case "read":
		return p.parseRead()
	case "print":
		return p.parsePrint()
	case "call":
		return p.parseCall()
	case "while":
		return p.parseWhile()
	case "if":
		return p.parseIf()
	default:
		return p.parseAssign()
	}
}

func (p *Parser) takeStmtNo() int {
	n := p.nextNo
	p.nextNo++
	return n
}

func (p *Parser) parseRead() (*ast.TNode, error) {
	stmtNo := p.takeStmtNo()
	if err := p.expectKeyword("read"); err != nil {
		return nil, err
	}
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	n := ast.New(ast.Read)
	n.StmtNo = stmtNo
	n.Name = name
	return n, nil
}

func (p *Parser) parsePrint() (*ast.TNode, error) {
	stmtNo := p.takeStmtNo()
	if err := p.expectKeyword("print"); err != nil {
		return nil, err
	}
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	n := ast.New(ast.Print)
	n.StmtNo = stmtNo
	n.Name = name
	return n, nil
}

func (p *Parser) parseCall() (*ast.TNode, error) {
	stmtNo := p.takeStmtNo()
	if err := p.expectKeyword("call"); err != nil {
		return nil, err
	}
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	proc := ast.New(ast.Variable)
	proc.Name = name
	proc.IsProcedureVar = true
	n := ast.New(ast.Call, proc)
	n.StmtNo = stmtNo
	n.Name = name
	return n, nil
}

func (p *Parser) parseWhile() (*ast.TNode, error) {
	stmtNo := p.takeStmtNo()
	if err := p.expectKeyword("while"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseCondExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	body, err := p.parseStmtLst()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	n := ast.New(ast.While, cond, body)
	n.StmtNo = stmtNo
	return n, nil
}

func (p *Parser) parseIf() (*ast.TNode, error) {
	stmtNo := p.takeStmtNo()
	if err := p.expectKeyword("if"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseCondExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	thenLst, err := p.parseStmtLst()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("else"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	elseLst, err := p.parseStmtLst()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	n := ast.New(ast.If, cond, thenLst, elseLst)
	n.StmtNo = stmtNo
	return n, nil
}

func (p *Parser) parseAssign() (*ast.TNode, error) {
	stmtNo := p.takeStmtNo()
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokAssign); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	lhs := ast.New(ast.Variable)
	lhs.Name = name
	n := ast.New(ast.Assign, lhs, rhs)
	n.StmtNo = stmtNo
	n.Name = name
	return n, nil
}

// ParseExpr parses a single SIMPLE arithmetic expression in isolation, with
// no statement numbering. Used by the query engine to canonicalize a
// pattern clause's quoted expression text into the same form PKB pattern
// entries were indexed under.
func ParseExpr(src string) (*ast.TNode, error) {
	p := &Parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, p.errf("unexpected trailing input %q", p.cur.text)
	}
	return e, nil
}

// condExpr := rel_expr | '!' '(' cond_expr ')'
//
//	| '(' cond_expr ')' '&&' '(' cond_expr ')'
//	| '(' cond_expr ')' '||' '(' cond_expr ')'
func (p *Parser) parseCondExpr() (*ast.TNode, error) {
	if p.cur.kind == tokNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		inner, err := p.parseCondExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return ast.New(ast.Not, inner), nil
	}
	if p.cur.kind == tokLParen {
		savedTok, savedLex := p.cur, p.lex.save()
		if n, err := p.tryParseBoolCombo(); err == nil {
			return n, nil
		}
		p.lex.restore(savedLex)
		p.cur = savedTok
	}
	return p.parseRelExpr()
}

func (p *Parser) tryParseBoolCombo() (*ast.TNode, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	lhs, err := p.parseCondExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	var kind ast.Kind
	switch p.cur.kind {
	case tokAnd:
		kind = ast.And
	case tokOr:
		kind = ast.Or
	default:
		return nil, p.errf("expected && or ||")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	rhs, err := p.parseCondExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return ast.New(kind, lhs, rhs), nil
}

func (p *Parser) parseRelExpr() (*ast.TNode, error) {
	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var kind ast.Kind
	switch p.cur.kind {
	case tokGt:
		kind = ast.Greater
	case tokGe:
		kind = ast.GreaterThanOrEqual
	case tokLt:
		kind = ast.Lesser
	case tokLe:
		kind = ast.LesserThanOrEqual
	case tokEq:
		kind = ast.Equal
	case tokNeq:
		kind = ast.NotEqual
	default:
		return nil, p.errf("expected relational operator, got %q", p.cur.text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.New(kind, lhs, rhs), nil
}

func (p *Parser) parseExpr() (*ast.TNode, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		kind := ast.Plus
		if p.cur.kind == tokMinus {
			kind = ast.Minus
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = ast.New(kind, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseTerm() (*ast.TNode, error) {
	lhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash || p.cur.kind == tokPercent {
		var kind ast.Kind
		switch p.cur.kind {
		case tokStar:
			kind = ast.Multiply
		case tokSlash:
			kind = ast.Divide
		case tokPercent:
			kind = ast.Modulo
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		lhs = ast.New(kind, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseFactor() (*ast.TNode, error) {
	switch p.cur.kind {
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return e, nil
	case tokNumber:
		n := ast.New(ast.Constant)
		n.Value = p.cur.text
		return n, p.advance()
	case tokIdent:
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		n := ast.New(ast.Variable)
		n.Name = name
		return n, nil
	default:
		return nil, p.errf("expected expression, got %q", p.cur.text)
	}
}
