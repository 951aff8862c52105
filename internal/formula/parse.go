package formula

import (
	"fmt"
	"strings"
	"unicode"

	"knower/internal/term"
)

// Parse reads a formula from its surface syntax:
//
//	~F   F & G   F | G   F => G   F <=> G
//	A = B   A != B
//	forall X, Y: F     exists X: F
//	knows(agent, F)
//	true   false
//	pred(args...)  with lowercase constants and Uppercase variables
//
// Quantifier bodies extend as far right as possible. Variables are scoped
// to their quantifier; a free (unquantified) variable is a parse error so
// that malformed axioms fail loudly at load time rather than deep inside
// a proof.
func Parse(src string) (*Formula, error) {
	p := &parser{lex: newLexer(src), scopes: nil}
	if err := p.next(); err != nil {
		return nil, err
	}
	f, err := p.formula()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("parse %q: unexpected %q at offset %d", src, p.tok.text, p.tok.pos)
	}
	return f, nil
}

// MustParse parses src and panics on error. Test helper.
func MustParse(src string) *Formula {
	f, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return f
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokVariable
	tokLParen
	tokRParen
	tokComma
	tokColon
	tokNot
	tokAnd
	tokOr
	tokImplies
	tokIff
	tokEq
	tokNeq
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer { return &lexer{src: src} }

func (l *lexer) lex() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == '(':
		l.pos++
		return token{tokLParen, "(", start}, nil
	case c == ')':
		l.pos++
		return token{tokRParen, ")", start}, nil
	case c == ',':
		l.pos++
		return token{tokComma, ",", start}, nil
	case c == ':':
		l.pos++
		return token{tokColon, ":", start}, nil
	case c == '~':
		l.pos++
		return token{tokNot, "~", start}, nil
	case c == '&':
		l.pos++
		return token{tokAnd, "&", start}, nil
	case c == '|':
		l.pos++
		return token{tokOr, "|", start}, nil
	case c == '=':
		if strings.HasPrefix(l.src[l.pos:], "=>") {
			l.pos += 2
			return token{tokImplies, "=>", start}, nil
		}
		l.pos++
		return token{tokEq, "=", start}, nil
	case c == '<':
		if strings.HasPrefix(l.src[l.pos:], "<=>") {
			l.pos += 3
			return token{tokIff, "<=>", start}, nil
		}
		return token{}, fmt.Errorf("unexpected %q at offset %d", c, start)
	case c == '!':
		if strings.HasPrefix(l.src[l.pos:], "!=") {
			l.pos += 2
			return token{tokNeq, "!=", start}, nil
		}
		return token{}, fmt.Errorf("unexpected %q at offset %d", c, start)
	case isIdentStart(rune(c)):
		for l.pos < len(l.src) && isIdentPart(rune(l.src[l.pos])) {
			l.pos++
		}
		text := l.src[start:l.pos]
		if isVariableName(text) {
			return token{tokVariable, text, start}, nil
		}
		return token{tokIdent, text, start}, nil
	default:
		return token{}, fmt.Errorf("unexpected %q at offset %d", c, start)
	}
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdentPart(r rune) bool  { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }

func isVariableName(s string) bool {
	r := rune(s[0])
	return unicode.IsUpper(r) || r == '_'
}

type parser struct {
	lex    *lexer
	tok    token
	scopes []map[string]*term.Term
}

func (p *parser) next() error {
	t, err := p.lex.lex()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(kind tokKind, what string) error {
	if p.tok.kind != kind {
		return fmt.Errorf("expected %s at offset %d, got %q", what, p.tok.pos, p.tok.text)
	}
	return p.next()
}

// formula := iff
func (p *parser) formula() (*Formula, error) {
	return p.iff()
}

// iff := implies ('<=>' implies)*
func (p *parser) iff() (*Formula, error) {
	left, err := p.implies()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokIff {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.implies()
		if err != nil {
			return nil, err
		}
		left = Iff(left, right)
	}
	return left, nil
}

// implies := or ('=>' implies)?   right-associative
func (p *parser) implies() (*Formula, error) {
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokImplies {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.implies()
		if err != nil {
			return nil, err
		}
		return Implies(left, right), nil
	}
	return left, nil
}

// or := and ('|' and)*
func (p *parser) or() (*Formula, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOr {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = Or(left, right)
	}
	return left, nil
}

// and := unary ('&' unary)*
func (p *parser) and() (*Formula, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokAnd {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = And(left, right)
	}
	return left, nil
}

// unary := '~' unary | quantifier | primary
func (p *parser) unary() (*Formula, error) {
	switch {
	case p.tok.kind == tokNot:
		if err := p.next(); err != nil {
			return nil, err
		}
		f, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Not(f), nil
	case p.tok.kind == tokIdent && (p.tok.text == "forall" || p.tok.text == "exists"):
		return p.quantifier()
	default:
		return p.primary()
	}
}

// quantifier := ('forall'|'exists') varlist ':' formula
func (p *parser) quantifier() (*Formula, error) {
	universal := p.tok.text == "forall"
	if err := p.next(); err != nil {
		return nil, err
	}

	scope := make(map[string]*term.Term)
	var vars []*term.Term
	for {
		if p.tok.kind != tokVariable {
			return nil, fmt.Errorf("expected quantified variable at offset %d, got %q", p.tok.pos, p.tok.text)
		}
		if _, dup := scope[p.tok.text]; dup {
			return nil, fmt.Errorf("duplicate quantified variable %q at offset %d", p.tok.text, p.tok.pos)
		}
		v := term.NewVar(p.tok.text)
		scope[p.tok.text] = v
		vars = append(vars, v)
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokComma {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}

	p.scopes = append(p.scopes, scope)
	body, err := p.formula()
	p.scopes = p.scopes[:len(p.scopes)-1]
	if err != nil {
		return nil, err
	}
	if universal {
		return Forall(vars, body), nil
	}
	return Exists(vars, body), nil
}

// primary := 'true' | 'false' | '(' formula ')' | 'knows' '(' agent ',' formula ')' | atom
func (p *parser) primary() (*Formula, error) {
	switch p.tok.kind {
	case tokLParen:
		if err := p.next(); err != nil {
			return nil, err
		}
		f, err := p.formula()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return f, nil
	case tokIdent:
		switch p.tok.text {
		case "true":
			if err := p.next(); err != nil {
				return nil, err
			}
			return True(), nil
		case "false":
			if err := p.next(); err != nil {
				return nil, err
			}
			return False(), nil
		case "knows":
			return p.knows()
		}
		return p.atom()
	case tokVariable:
		return p.atom()
	default:
		return nil, fmt.Errorf("expected formula at offset %d, got %q", p.tok.pos, p.tok.text)
	}
}

// knows := 'knows' '(' ident ',' formula ')'
func (p *parser) knows() (*Formula, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	if p.tok.kind != tokIdent {
		return nil, fmt.Errorf("expected agent name at offset %d, got %q", p.tok.pos, p.tok.text)
	}
	agent := p.tok.text
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.expect(tokComma, "','"); err != nil {
		return nil, err
	}
	body, err := p.formula()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return Knows(agent, body), nil
}

// atom := term (('='|'!=') term)?
// A standalone constant or compound term is a predicate literal; a
// standalone variable is not a formula.
func (p *parser) atom() (*Formula, error) {
	pos := p.tok.pos
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	switch p.tok.kind {
	case tokEq:
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		return Eq(left, right), nil
	case tokNeq:
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		return Neq(left, right), nil
	}
	if left.IsVar() {
		return nil, fmt.Errorf("variable %q is not a formula at offset %d", left.Name, pos)
	}
	// Reinterpret the term as a predicate literal.
	if left.Kind == term.KindCompound {
		return Lit(left.Name, left.Args...), nil
	}
	return Lit(left.Name), nil
}

// term := VAR | ident ('(' term (',' term)* ')')?
func (p *parser) term() (*term.Term, error) {
	switch p.tok.kind {
	case tokVariable:
		v, ok := p.lookup(p.tok.text)
		if !ok {
			return nil, fmt.Errorf("unquantified variable %q at offset %d", p.tok.text, p.tok.pos)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		return v, nil
	case tokIdent:
		name := p.tok.text
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokLParen {
			return term.Const(name), nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		var args []*term.Term
		for {
			a, err := p.term()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.tok.kind != tokComma {
				break
			}
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return term.Compound(name, args...), nil
	default:
		return nil, fmt.Errorf("expected term at offset %d, got %q", p.tok.pos, p.tok.text)
	}
}

// lookup resolves a variable name against the enclosing quantifier
// scopes, innermost first.
func (p *parser) lookup(name string) (*term.Term, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if v, ok := p.scopes[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}
