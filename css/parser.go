package css

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser compiles selector text into SelectorList.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new selector parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

var nopParser = NewParser(nil)

// Compile parses selector list using parser without logging.
func Compile(text string) (*SelectorList, error) {
	return nopParser.Compile(text)
}

// MustCompile is like Compile but panics on error. It simplifies
// initialization of package level selectors.
func MustCompile(text string) *SelectorList {
	l, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return l
}

// Compile parses selector list. Any construct which is not supported,
// pseudo-elements and namespace prefixes included, results in *SyntaxError.
func (p *Parser) Compile(text string) (*SelectorList, error) {
	toks, err := tokenize(text)
	if err != nil {
		p.log.Debug("Unable to tokenize selector", zap.String("selector", text), zap.Error(err))
		return nil, err
	}
	sp := &selectorParser{src: text, toks: toks, end: len(text)}
	list, err := sp.selectorList(false)
	if err != nil {
		p.log.Debug("Unable to parse selector", zap.String("selector", text), zap.Error(err))
		return nil, err
	}
	p.log.Debug("Compiled selector", zap.String("selector", text), zap.Int("complex", len(list.Selectors)))
	return list, nil
}

type selectorParser struct {
	src  string
	toks []token
	pos  int
	// offset reported for errors at the end of input
	end int
}

func (p *selectorParser) atEnd() bool {
	return p.pos >= len(p.toks)
}

func (p *selectorParser) peek() token {
	if p.atEnd() {
		return token{typ: css.ErrorToken, off: p.end}
	}
	return p.toks[p.pos]
}

func (p *selectorParser) next() token {
	t := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *selectorParser) skipWS() bool {
	skipped := false
	for !p.atEnd() && p.toks[p.pos].typ == css.WhitespaceToken {
		p.pos++
		skipped = true
	}
	return skipped
}

func (p *selectorParser) errorf(off int, format string, args ...any) error {
	return &SyntaxError{Selector: p.src, Offset: off, Msg: fmt.Sprintf(format, args...)}
}

func (p *selectorParser) unexpected(t token) error {
	if t.typ == css.ErrorToken {
		return p.errorf(t.off, "unexpected end of selector")
	}
	return p.errorf(t.off, "unexpected %q", t.data)
}

// sub returns parser for argument tokens of a functional pseudo-class.
func (p *selectorParser) sub(toks []token, end int) *selectorParser {
	return &selectorParser{src: p.src, toks: toks, end: end}
}

func (p *selectorParser) selectorList(relative bool) (*SelectorList, error) {
	list := &SelectorList{}
	p.skipWS()
	start := p.peek().off
	for {
		p.skipWS()
		from := p.peek().off
		c, err := p.complex(relative)
		if err != nil {
			return nil, err
		}
		c.source = strings.TrimSpace(p.src[from:p.peek().off])
		list.Selectors = append(list.Selectors, c)

		t := p.next()
		switch {
		case t.typ == css.CommaToken:
			continue
		case t.typ == css.ErrorToken:
			list.source = strings.TrimSpace(p.src[start:p.end])
			return list, nil
		default:
			return nil, p.unexpected(t)
		}
	}
}

func combinatorOf(t token) (Combinator, bool) {
	if t.typ != css.DelimToken {
		return Descendant, false
	}
	switch t.data {
	case ">":
		return Child, true
	case "+":
		return NextSibling, true
	case "~":
		return SubsequentSibling, true
	}
	return Descendant, false
}

func (p *selectorParser) complex(relative bool) (*Complex, error) {
	c := &Complex{relative: relative}
	if relative {
		if comb, ok := combinatorOf(p.peek()); ok {
			p.next()
			p.skipWS()
			c.Lead = comb
		}
	}
	for {
		comp, err := p.compound()
		if err != nil {
			return nil, err
		}
		c.Compounds = append(c.Compounds, comp)

		ws := p.skipWS()
		t := p.peek()
		if t.typ == css.ErrorToken || t.typ == css.CommaToken {
			return c, nil
		}
		if t.typ == css.ColumnToken {
			return nil, p.errorf(t.off, "column combinator is not supported")
		}
		if comb, ok := combinatorOf(t); ok {
			p.next()
			p.skipWS()
			comp.Next = comb
			continue
		}
		if !ws {
			return nil, p.unexpected(t)
		}
		comp.Next = Descendant
	}
}

func (p *selectorParser) compound() (*Compound, error) {
	comp := &Compound{}
	consumed := false

	switch t := p.peek(); {
	case t.typ == css.IdentToken:
		p.next()
		comp.Tag = strings.ToLower(unescape(t.data))
		consumed = true
	case t.isDelim("*"):
		p.next()
		consumed = true
	}
	if t := p.peek(); t.isDelim("|") || t.typ == css.DashMatchToken {
		return nil, p.errorf(t.off, "namespace prefixes are not supported")
	}

	for {
		t := p.peek()
		switch {
		case t.typ == css.HashToken:
			p.next()
			comp.IDs = append(comp.IDs, unescape(t.data[1:]))
		case t.isDelim("."):
			p.next()
			n := p.next()
			if n.typ != css.IdentToken {
				return nil, p.errorf(n.off, "expected class name")
			}
			comp.Classes = append(comp.Classes, unescape(n.data))
		case t.typ == css.LeftBracketToken:
			a, err := p.attr()
			if err != nil {
				return nil, err
			}
			comp.Attrs = append(comp.Attrs, a)
		case t.typ == css.ColonToken:
			pc, err := p.pseudo()
			if err != nil {
				return nil, err
			}
			comp.Pseudo = append(comp.Pseudo, pc)
		default:
			if !consumed {
				if t.typ == css.ErrorToken {
					return nil, p.errorf(t.off, "expected selector")
				}
				return nil, p.unexpected(t)
			}
			return comp, nil
		}
		consumed = true
	}
}

func (p *selectorParser) attr() (AttrSelector, error) {
	var a AttrSelector

	p.next() // [
	p.skipWS()
	n := p.next()
	if n.typ != css.IdentToken {
		return a, p.errorf(n.off, "expected attribute name")
	}
	a.Name = strings.ToLower(unescape(n.data))
	p.skipWS()

	t := p.next()
	switch {
	case t.typ == css.RightBracketToken:
		a.Op = AttrExists
		return a, nil
	case t.isDelim("="):
		a.Op = AttrEquals
	case t.typ == css.IncludeMatchToken:
		a.Op = AttrIncludes
	case t.typ == css.DashMatchToken:
		a.Op = AttrDashMatch
	case t.typ == css.PrefixMatchToken:
		a.Op = AttrPrefix
	case t.typ == css.SuffixMatchToken:
		a.Op = AttrSuffix
	case t.typ == css.SubstringMatchToken:
		a.Op = AttrSubstring
	case t.isDelim("|"):
		return a, p.errorf(t.off, "namespace prefixes are not supported")
	default:
		return a, p.errorf(t.off, "expected attribute operator or ]")
	}

	p.skipWS()
	v := p.next()
	switch v.typ {
	case css.IdentToken:
		a.Value = unescape(v.data)
	case css.StringToken:
		a.Value = unquote(v.data)
	default:
		return a, p.errorf(v.off, "expected attribute value")
	}

	p.skipWS()
	t = p.next()
	if t.typ == css.IdentToken {
		switch strings.ToLower(t.data) {
		case "i":
			a.Fold = true
		case "s":
		default:
			return a, p.errorf(t.off, "unknown attribute modifier %q", t.data)
		}
		p.skipWS()
		t = p.next()
	}
	if t.typ != css.RightBracketToken {
		return a, p.errorf(t.off, "expected ]")
	}
	return a, nil
}

// args collects tokens up to the parenthesis closing already consumed
// function token and returns them with the offset of the closing one.
func (p *selectorParser) args(open token) ([]token, int, error) {
	start := p.pos
	depth := 1
	for {
		t := p.next()
		switch t.typ {
		case css.ErrorToken:
			return nil, 0, p.errorf(open.off, "unclosed %q", open.data)
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			if depth--; depth == 0 {
				return p.toks[start : p.pos-1], t.off, nil
			}
		}
	}
}

func (p *selectorParser) pseudo() (PseudoClass, error) {
	colon := p.next()
	t := p.next()
	switch t.typ {
	case css.ColonToken:
		return PseudoClass{}, p.errorf(colon.off, "pseudo-elements are not supported")

	case css.IdentToken:
		name := strings.ToLower(unescape(t.data))
		if legacyPseudoElements[name] {
			return PseudoClass{}, p.errorf(colon.off, "pseudo-elements are not supported")
		}
		kind, ok := simplePseudo[name]
		if !ok {
			if _, fn := functionalPseudo[name]; fn {
				return PseudoClass{}, p.errorf(t.off, "pseudo-class :%s requires an argument", name)
			}
			return PseudoClass{}, p.errorf(t.off, "unsupported pseudo-class :%s", name)
		}
		return PseudoClass{Name: name, kind: kind}, nil

	case css.FunctionToken:
		name := strings.ToLower(unescape(strings.TrimSuffix(t.data, "(")))
		kind, ok := functionalPseudo[name]
		if !ok {
			return PseudoClass{}, p.errorf(t.off, "unsupported pseudo-class :%s()", name)
		}
		toks, end, err := p.args(t)
		if err != nil {
			return PseudoClass{}, err
		}
		pc := PseudoClass{Name: name, kind: kind}
		sub := p.sub(toks, end)
		switch kind {
		case pcNot, pcIs, pcWhere:
			pc.List, err = sub.selectorList(false)
		case pcHas:
			pc.List, err = sub.selectorList(true)
		case pcNthChild, pcNthLastChild:
			pc.nth, pc.List, err = sub.nthOf(true)
		case pcNthOfType, pcNthLastOfType:
			pc.nth, _, err = sub.nthOf(false)
		case pcContains, pcHasText:
			pc.Arg, err = sub.text()
		case pcLang:
			pc.Langs, err = sub.langs()
		}
		if err != nil {
			return PseudoClass{}, err
		}
		return pc, nil

	default:
		return PseudoClass{}, p.unexpected(t)
	}
}

// nthOf parses An+B optionally followed by "of S" when allowed.
func (p *selectorParser) nthOf(allowOf bool) (nth, *SelectorList, error) {
	p.skipWS()
	start := p.peek().off
	var raw strings.Builder
	for !p.atEnd() {
		t := p.peek()
		if t.typ == css.IdentToken && strings.EqualFold(t.data, "of") && raw.Len() > 0 {
			break
		}
		p.next()
		if t.typ != css.WhitespaceToken {
			raw.WriteString(t.data)
		}
	}
	n, err := parseNth(raw.String())
	if err != nil {
		return n, nil, p.errorf(start, "%v", err)
	}
	if p.atEnd() {
		return n, nil, nil
	}
	of := p.next()
	if !allowOf {
		return n, nil, p.errorf(of.off, "\"of\" is not allowed here")
	}
	list, err := p.selectorList(false)
	if err != nil {
		return n, nil, err
	}
	return n, list, nil
}

// text parses single string or identifier argument.
func (p *selectorParser) text() (string, error) {
	p.skipWS()
	t := p.next()
	var s string
	switch t.typ {
	case css.StringToken:
		s = unquote(t.data)
	case css.IdentToken:
		s = unescape(t.data)
	default:
		return "", p.errorf(t.off, "expected string")
	}
	p.skipWS()
	if !p.atEnd() {
		return "", p.unexpected(p.peek())
	}
	return s, nil
}

// langs parses comma separated list of language ranges.
func (p *selectorParser) langs() ([]string, error) {
	var res []string
	for {
		p.skipWS()
		t := p.next()
		switch t.typ {
		case css.StringToken:
			res = append(res, unquote(t.data))
		case css.IdentToken:
			res = append(res, unescape(t.data))
		default:
			return nil, p.errorf(t.off, "expected language range")
		}
		p.skipWS()
		t = p.next()
		switch t.typ {
		case css.ErrorToken:
			return res, nil
		case css.CommaToken:
		default:
			return nil, p.unexpected(t)
		}
	}
}

// nth is An+B expression.
type nth struct {
	a, b int
}

// matches reports whether 1-based position satisfies An+B for some n >= 0.
func (n nth) matches(pos int) bool {
	if n.a == 0 {
		return pos == n.b
	}
	diff := pos - n.b
	return diff/n.a >= 0 && diff%n.a == 0
}

func parseNth(s string) (nth, error) {
	s = strings.ToLower(s)
	switch s {
	case "odd":
		return nth{2, 1}, nil
	case "even":
		return nth{2, 0}, nil
	case "":
		return nth{}, fmt.Errorf("missing An+B expression")
	}
	before, after, found := strings.Cut(s, "n")
	if !found {
		b, err := strconv.Atoi(s)
		if err != nil {
			return nth{}, fmt.Errorf("invalid An+B expression %q", s)
		}
		return nth{0, b}, nil
	}

	var n nth
	switch before {
	case "", "+":
		n.a = 1
	case "-":
		n.a = -1
	default:
		a, err := strconv.Atoi(before)
		if err != nil {
			return nth{}, fmt.Errorf("invalid An+B expression %q", s)
		}
		n.a = a
	}
	if after != "" {
		if after[0] != '+' && after[0] != '-' {
			return nth{}, fmt.Errorf("invalid An+B expression %q", s)
		}
		b, err := strconv.Atoi(after)
		if err != nil {
			return nth{}, fmt.Errorf("invalid An+B expression %q", s)
		}
		n.b = b
	}
	return n, nil
}
