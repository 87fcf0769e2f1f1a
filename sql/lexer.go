package sql

import (
	"strings"

	"celect/celecterr"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokStar
	tokComma
	tokLParen
	tokRParen
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
	tokKeyword
)

type token struct {
	kind tokenKind
	text string // original text; for tokKeyword, upper-cased keyword
}

// lexer is a hand-written scanner over the §6 grammar's token set,
// grounded on Vegasq-parcat/query/lexer.go's token-type enumeration
// style.
type lexer struct {
	src []byte
	pos int
}

var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "LIMIT": true, "OFFSET": true,
	"AND": true, "OR": true, "NOT": true, "COUNT": true, "NULL": true,
	"TRUE": true, "FALSE": true,
}

func newLexer(src string) *lexer { return &lexer{src: []byte(src)} }

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.pos++
			continue
		}
		break
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == '*':
		l.pos++
		return token{kind: tokStar, text: "*"}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ","}, nil
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "("}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")"}, nil
	case c == '=':
		l.pos++
		return token{kind: tokEq, text: "="}, nil
	case c == '!':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			l.pos += 2
			return token{kind: tokNe, text: "!="}, nil
		}
		return token{}, celecterr.Parse("unexpected '!' at offset %d", l.pos)
	case c == '<':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			l.pos += 2
			return token{kind: tokLe, text: "<="}, nil
		}
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '>' {
			l.pos += 2
			return token{kind: tokNe, text: "<>"}, nil
		}
		l.pos++
		return token{kind: tokLt, text: "<"}, nil
	case c == '>':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			l.pos += 2
			return token{kind: tokGe, text: ">="}, nil
		}
		l.pos++
		return token{kind: tokGt, text: ">"}, nil
	case c == '\'':
		return l.lexString()
	case c == '-' || (c >= '0' && c <= '9'):
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdentOrKeyword()
	default:
		return token{}, celecterr.Parse("unexpected byte %q at offset %d", c, l.pos)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (l *lexer) lexString() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.src) && l.src[l.pos] != '\'' {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{}, celecterr.Parse("unterminated string literal starting at offset %d", start)
	}
	text := string(l.src[start+1 : l.pos])
	l.pos++ // closing quote
	return token{kind: tokString, text: text}, nil
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.pos++
		}
	}
	return token{kind: tokNumber, text: string(l.src[start:l.pos])}, nil
}

func (l *lexer) lexIdentOrKeyword() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := string(l.src[start:l.pos])
	upper := strings.ToUpper(text)
	if keywords[upper] {
		return token{kind: tokKeyword, text: upper}, nil
	}
	return token{kind: tokIdent, text: text}, nil
}
