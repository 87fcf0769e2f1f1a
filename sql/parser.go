package sql

import (
	"strconv"

	"celect/celecterr"
)

// Parser is a recursive-descent parser over the §6 grammar, grounded
// on original_source/src/parser.rs's precedence climbing structure
// (or_expr -> and_expr -> not_expr -> cmp_expr -> prim).
type Parser struct {
	lex  *lexer
	cur  token
	peek *token
}

// Parse parses a single select_stmt.
func Parse(query string) (*SelectStmt, error) {
	p := &Parser{lex: newLexer(query)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseSelect()
}

func (p *Parser) advance() error {
	if p.peek != nil {
		p.cur = *p.peek
		p.peek = nil
		return nil
	}
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *Parser) expectKeyword(kw string) error {
	if p.cur.kind != tokKeyword || p.cur.text != kw {
		return celecterr.Parse("expected %s, got %q", kw, p.cur.text)
	}
	return p.advance()
}

func (p *Parser) isKeyword(kw string) bool {
	return p.cur.kind == tokKeyword && p.cur.text == kw
}

func (p *Parser) parseSelect() (*SelectStmt, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	items, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}

	file, err := p.parseFileRef()
	if err != nil {
		return nil, err
	}

	stmt := &SelectStmt{Items: items, File: file}

	if p.isKeyword("WHERE") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		where, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.isKeyword("LIMIT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseIntLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Limit = &n
	}

	if p.isKeyword("OFFSET") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseIntLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Offset = &n
	}

	if p.cur.kind != tokEOF {
		return nil, celecterr.Parse("unexpected trailing token %q", p.cur.text)
	}

	return stmt, nil
}

func (p *Parser) parseIntLiteral() (int64, error) {
	if p.cur.kind != tokNumber {
		return 0, celecterr.Parse("expected a number, got %q", p.cur.text)
	}
	n, err := strconv.ParseInt(p.cur.text, 10, 64)
	if err != nil {
		return 0, celecterr.Parse("invalid integer %q", p.cur.text)
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *Parser) parseFileRef() (string, error) {
	switch p.cur.kind {
	case tokString:
		s := p.cur.text
		return s, p.advance()
	case tokIdent:
		s := p.cur.text
		return s, p.advance()
	default:
		return "", celecterr.Parse("expected a file reference, got %q", p.cur.text)
	}
}

func (p *Parser) parseSelectList() ([]SelectItem, error) {
	var items []SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (p *Parser) parseSelectItem() (SelectItem, error) {
	if p.cur.kind == tokStar {
		if err := p.advance(); err != nil {
			return SelectItem{}, err
		}
		return SelectItem{Star: true}, nil
	}
	if p.isKeyword("COUNT") {
		if err := p.advance(); err != nil {
			return SelectItem{}, err
		}
		if p.cur.kind != tokLParen {
			return SelectItem{}, celecterr.Parse("expected '(' after COUNT")
		}
		if err := p.advance(); err != nil {
			return SelectItem{}, err
		}
		item := SelectItem{IsCount: true}
		if p.cur.kind == tokStar {
			item.CountStar = true
			if err := p.advance(); err != nil {
				return SelectItem{}, err
			}
		} else if p.cur.kind == tokIdent {
			item.Column = p.cur.text
			if err := p.advance(); err != nil {
				return SelectItem{}, err
			}
		} else {
			return SelectItem{}, celecterr.Parse("expected '*' or a column inside COUNT(), got %q", p.cur.text)
		}
		if p.cur.kind != tokRParen {
			return SelectItem{}, celecterr.Parse("expected ')' to close COUNT(")
		}
		return item, p.advance()
	}
	if p.cur.kind == tokIdent {
		name := p.cur.text
		return SelectItem{Column: name}, p.advance()
	}
	return SelectItem{}, celecterr.Parse("expected a select item, got %q", p.cur.text)
}

func (p *Parser) parseOrExpr() (*Expr, error) {
	lhs, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("OR") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		lhs = &Expr{Kind: ExprOr, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseAndExpr() (*Expr, error) {
	lhs, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("AND") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		lhs = &Expr{Kind: ExprAnd, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseNotExpr() (*Expr, error) {
	if p.isKeyword("NOT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprNot, Inner: inner}, nil
	}
	return p.parseCmpExpr()
}

func (p *Parser) parseCmpExpr() (*Expr, error) {
	lhs, err := p.parsePrim()
	if err != nil {
		return nil, err
	}

	op, ok := cmpOpFor(p.cur.kind)
	if !ok {
		return lhs, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	rhs, err := p.parsePrim()
	if err != nil {
		return nil, err
	}
	return &Expr{Kind: ExprCmp, Op: op, Lhs: lhs, Rhs: rhs}, nil
}

func cmpOpFor(k tokenKind) (CmpOp, bool) {
	switch k {
	case tokEq:
		return OpEq, true
	case tokNe:
		return OpNe, true
	case tokLt:
		return OpLt, true
	case tokLe:
		return OpLe, true
	case tokGt:
		return OpGt, true
	case tokGe:
		return OpGe, true
	default:
		return 0, false
	}
}

func (p *Parser) parsePrim() (*Expr, error) {
	switch {
	case p.cur.kind == tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, celecterr.Parse("expected ')', got %q", p.cur.text)
		}
		return inner, p.advance()
	case p.cur.kind == tokIdent:
		name := p.cur.text
		return &Expr{Kind: ExprColumn, Column: name}, p.advance()
	case p.isKeyword("NULL"):
		return &Expr{Kind: ExprLit, Lit: Literal{Kind: LitNull}}, p.advance()
	case p.isKeyword("TRUE"):
		return &Expr{Kind: ExprLit, Lit: Literal{Kind: LitBool, Bool: true}}, p.advance()
	case p.isKeyword("FALSE"):
		return &Expr{Kind: ExprLit, Lit: Literal{Kind: LitBool, Bool: false}}, p.advance()
	case p.cur.kind == tokNumber:
		text := p.cur.text
		return &Expr{Kind: ExprLit, Lit: Literal{Kind: LitNumber, Text: text}}, p.advance()
	case p.cur.kind == tokString:
		text := p.cur.text
		return &Expr{Kind: ExprLit, Lit: Literal{Kind: LitString, Text: text}}, p.advance()
	default:
		return nil, celecterr.Parse("expected an expression, got %q", p.cur.text)
	}
}
