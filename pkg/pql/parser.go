package pql

import (
	"fmt"
	"strconv"
)

type parseErr string

func (e parseErr) Error() string { return string(e) }

// Parser consumes a pre-lexed token slice with an explicit, saveable
// position so productions can backtrack on failure (spec §4.3
// "Backtracking protocol": immutable parser state, restart from the saved
// state on failure, try the next alternative, one token of lookahead).
type Parser struct {
	toks []token
	pos  int
}

func (p *Parser) cur() token { return p.toks[p.pos] }

func (p *Parser) advance() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

func (p *Parser) save() int       { return p.pos }
func (p *Parser) restore(s int)   { p.pos = s }

func (p *Parser) expect(k tokenKind) (token, error) {
	if p.cur().kind != k {
		return token{}, parseErr(fmt.Sprintf("pql: unexpected token %q", p.cur().text))
	}
	t := p.cur()
	p.advance()
	return t, nil
}

func (p *Parser) expectKeyword(kw string) error {
	if p.cur().kind != tIdent || p.cur().text != kw {
		return parseErr(fmt.Sprintf("pql: expected %q, got %q", kw, p.cur().text))
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	if p.cur().kind != tIdent {
		return "", parseErr("pql: expected identifier")
	}
	name := p.cur().text
	p.advance()
	return name, nil
}

// Parse tokenizes and parses PQL text into a structured Query. Any
// irrecoverable syntax error yields an empty, invalid Query (spec §4.3
// "Failure") rather than an error value — the evaluator is the only
// consumer and treats Valid == false as "return nothing".
func Parse(src string) *Query {
	toks, err := tokenize(src)
	if err != nil {
		return emptyQuery()
	}
	p := &Parser{toks: toks}
	q, err := p.parseSelectCl()
	if err != nil {
		return emptyQuery()
	}
	if p.cur().kind != tEOF {
		return emptyQuery()
	}
	q.Valid = validateSemantics(q)
	return q
}

func (p *Parser) parseSelectCl() (*Query, error) {
	q := &Query{Declarations: map[string]EntityKind{}}
	for p.cur().kind == tIdent && p.cur().text != "Select" {
		if err := p.parseDeclaration(q); err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("Select"); err != nil {
		return nil, err
	}
	if err := p.parseResultCl(q); err != nil {
		return nil, err
	}
	for {
		switch {
		case p.cur().kind == tIdent && p.cur().text == "such":
			if err := p.parseSuchThat(q); err != nil {
				return nil, err
			}
		case p.cur().kind == tIdent && p.cur().text == "pattern":
			if err := p.parsePattern(q); err != nil {
				return nil, err
			}
		case p.cur().kind == tIdent && p.cur().text == "with":
			if err := p.parseWith(q); err != nil {
				return nil, err
			}
		default:
			return q, nil
		}
	}
}

func (p *Parser) parseDeclaration(q *Query) error {
	kw, err := p.expectIdent()
	if err != nil {
		return err
	}
	kind, ok := entityKeywords[kw]
	if !ok {
		return parseErr("pql: unknown design entity " + kw)
	}
	for {
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		if _, exists := q.Declarations[name]; exists {
			q.Declarations[name] = KindInvalid // redeclaration poisons (spec §4.3)
		} else {
			q.Declarations[name] = kind
			q.DeclOrder = append(q.DeclOrder, name)
		}
		if p.cur().kind == tComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tSemi); err != nil {
		return err
	}
	return nil
}

func (p *Parser) parseResultCl(q *Query) error {
	if p.cur().kind == tIdent && p.cur().text == "BOOLEAN" {
		if _, declared := q.Declarations["BOOLEAN"]; !declared {
			p.advance()
			q.Returns = []ReturnTarget{{IsBoolean: true}}
			return nil
		}
	}
	if p.cur().kind == tLAngle {
		p.advance()
		for {
			elem, err := p.parseElem()
			if err != nil {
				return err
			}
			q.Returns = append(q.Returns, elem)
			if p.cur().kind == tComma {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(tRAngle); err != nil {
			return err
		}
		return nil
	}
	elem, err := p.parseElem()
	if err != nil {
		return err
	}
	q.Returns = []ReturnTarget{elem}
	return nil
}

func (p *Parser) parseElem() (ReturnTarget, error) {
	name, err := p.expectIdent()
	if err != nil {
		return ReturnTarget{}, err
	}
	if p.cur().kind == tDot {
		p.advance()
		attr, err := p.parseAttrName()
		if err != nil {
			return ReturnTarget{}, err
		}
		return ReturnTarget{Synonym: name, Attr: attr}, nil
	}
	return ReturnTarget{Synonym: name}, nil
}

func (p *Parser) parseAttrName() (string, error) {
	if p.cur().kind != tIdent {
		return "", parseErr("pql: expected attribute name")
	}
	switch p.cur().text {
	case "procName", "varName", "value":
		name := p.cur().text
		p.advance()
		return name, nil
	case "stmt":
		p.advance()
		if p.cur().kind != tHash {
			return "", parseErr("pql: expected # after stmt")
		}
		p.advance()
		return "stmt#", nil
	default:
		return "", parseErr("pql: unknown attribute name " + p.cur().text)
	}
}

func (p *Parser) parseSuchThat(q *Query) error {
	if err := p.expectKeyword("such"); err != nil {
		return err
	}
	if err := p.expectKeyword("that"); err != nil {
		return err
	}
	rel, err := p.parseRelName()
	if err != nil {
		return err
	}
	if _, err := p.expect(tLParen); err != nil {
		return err
	}
	arg1, err := p.parseArg()
	if err != nil {
		return err
	}
	if _, err := p.expect(tComma); err != nil {
		return err
	}
	arg2, err := p.parseArg()
	if err != nil {
		return err
	}
	if _, err := p.expect(tRParen); err != nil {
		return err
	}
	q.SuchThat = append(q.SuchThat, Clause{Relation: rel, Arg1: arg1, Arg2: arg2, Valid: true})
	return nil
}

func (p *Parser) parseRelName() (string, error) {
	name, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	base, ok := relationKeywords[name]
	if !ok {
		return "", parseErr("pql: unknown relation " + name)
	}
	if p.cur().kind == tStar {
		p.advance()
		return base + "*", nil
	}
	return base, nil
}

func (p *Parser) parseArg() (Arg, error) {
	switch p.cur().kind {
	case tUnderscore:
		p.advance()
		return Wildcard(), nil
	case tNumber:
		n, err := strconv.Atoi(p.cur().text)
		if err != nil {
			return Arg{}, parseErr("pql: bad integer literal")
		}
		p.advance()
		return Arg{Kind: ArgInteger, Int: n}, nil
	case tString:
		s := p.cur().text
		p.advance()
		return Arg{Kind: ArgString, Str: s}, nil
	case tIdent:
		name := p.cur().text
		p.advance()
		return Arg{Kind: ArgSynonym, Synonym: name}, nil
	default:
		return Arg{}, parseErr("pql: expected an argument")
	}
}

func (p *Parser) parsePattern(q *Query) error {
	if err := p.expectKeyword("pattern"); err != nil {
		return err
	}
	synonym, err := p.expectIdent()
	if err != nil {
		return err
	}
	if _, err := p.expect(tLParen); err != nil {
		return err
	}
	entRef, err := p.parseArg()
	if err != nil {
		return err
	}
	if _, err := p.expect(tComma); err != nil {
		return err
	}
	wildcard, exact, expr, err := p.parsePatternSpec()
	if err != nil {
		return err
	}
	if p.cur().kind == tComma {
		p.advance()
		if _, err := p.expect(tUnderscore); err != nil {
			return err
		}
	}
	if _, err := p.expect(tRParen); err != nil {
		return err
	}
	q.Pattern = append(q.Pattern, PatternClause{
		Synonym:  synonym,
		EntRef:   entRef,
		Wildcard: wildcard,
		Exact:    exact,
		Expr:     expr,
		Valid:    true,
	})
	return nil
}

// parsePatternSpec := '_' | '"' expr '"' | '_' '"' expr '"' '_'
func (p *Parser) parsePatternSpec() (wildcard, exact bool, expr string, err error) {
	if p.cur().kind == tUnderscore {
		p.advance()
		if p.cur().kind == tString {
			expr = p.cur().text
			p.advance()
			if _, e := p.expect(tUnderscore); e != nil {
				return false, false, "", e
			}
			return false, false, expr, nil
		}
		return true, false, "", nil
	}
	if p.cur().kind == tString {
		expr = p.cur().text
		p.advance()
		return false, true, expr, nil
	}
	return false, false, "", parseErr("pql: expected pattern spec")
}

func (p *Parser) parseWith(q *Query) error {
	if err := p.expectKeyword("with"); err != nil {
		return err
	}
	left, err := p.parseAttrRef()
	if err != nil {
		return err
	}
	if _, err := p.expect(tEq); err != nil {
		return err
	}
	right, err := p.parseAttrRef()
	if err != nil {
		return err
	}
	q.With = append(q.With, WithClause{Left: left, Right: right, Valid: true})
	return nil
}

func (p *Parser) parseAttrRef() (AttrRef, error) {
	switch p.cur().kind {
	case tNumber:
		n, err := strconv.Atoi(p.cur().text)
		if err != nil {
			return AttrRef{}, parseErr("pql: bad integer literal")
		}
		p.advance()
		return AttrRef{IsInt: true, Int: n}, nil
	case tString:
		s := p.cur().text
		p.advance()
		return AttrRef{IsStr: true, Str: s}, nil
	case tIdent:
		name := p.cur().text
		p.advance()
		if p.cur().kind == tDot {
			p.advance()
			attr, err := p.parseAttrName()
			if err != nil {
				return AttrRef{}, err
			}
			return AttrRef{Synonym: name, Attr: attr}, nil
		}
		return AttrRef{Synonym: name}, nil
	default:
		return AttrRef{}, parseErr("pql: expected an attrRef")
	}
}
