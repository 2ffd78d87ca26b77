package mini

import (
	"fmt"
	"strings"
)

// SyntaxError is returned by Compile for text outside of reduced grammar.
type SyntaxError struct {
	Selector string
	Offset   int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid selector %q at offset %d: %s", e.Selector, e.Offset, e.Msg)
}

// Compile parses text into reduced selector.
func Compile(text string) (*Selector, error) {
	p := &parser{src: text}
	steps, err := p.steps()
	if err != nil {
		return nil, err
	}
	return &Selector{Steps: steps, source: strings.TrimSpace(text)}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(text string) *Selector {
	s, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return s
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(off int, format string, args ...any) error {
	return &SyntaxError{Selector: p.src, Offset: off, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) skipWS() bool {
	start := p.pos
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
	return p.pos > start
}

func (p *parser) steps() ([]Step, error) {
	var steps []Step
	p.skipWS()
	for {
		s, err := p.step()
		if err != nil {
			return nil, err
		}
		ws := p.skipWS()
		if p.eof() {
			return append(steps, s), nil
		}
		switch {
		case p.src[p.pos] == '>':
			p.pos++
			p.skipWS()
			s.Next = Child
		case ws:
			s.Next = Descendant
		default:
			return nil, p.errorf(p.pos, "unexpected %q", p.src[p.pos])
		}
		if p.eof() {
			return nil, p.errorf(p.pos, "selector ends with combinator")
		}
		steps = append(steps, s)
	}
}

func (p *parser) step() (Step, error) {
	var s Step
	start := p.pos
	if !p.eof() && isNameStart(p.src[p.pos]) {
		s.Name = p.ident()
	}
	if !p.eof() && p.src[p.pos] == '#' {
		p.pos++
		if s.ID = p.ident(); s.ID == "" {
			return s, p.errorf(p.pos, "id expected")
		}
	}
	for !p.eof() && p.src[p.pos] == '.' {
		p.pos++
		if p.eof() || !isNameStart(p.src[p.pos]) {
			return s, p.errorf(p.pos, "class name expected")
		}
		s.Classes = append(s.Classes, p.ident())
	}
	for !p.eof() && p.src[p.pos] == '[' {
		a, err := p.attr()
		if err != nil {
			return s, err
		}
		s.Attrs = append(s.Attrs, a)
	}
	if p.pos == start {
		if p.eof() {
			return s, p.errorf(p.pos, "selector expected")
		}
		return s, p.errorf(p.pos, "unexpected %q", p.src[p.pos])
	}
	return s, nil
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() && isNameChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) attr() (Attr, error) {
	var a Attr
	p.pos++ // [
	p.skipWS()
	if a.Name = p.ident(); a.Name == "" {
		return a, p.errorf(p.pos, "attribute name expected")
	}
	p.skipWS()
	if p.eof() {
		return a, p.errorf(p.pos, "unterminated attribute selector")
	}
	if p.src[p.pos] == ']' {
		p.pos++
		return a, nil
	}

	opStart := p.pos
	if c := p.src[p.pos]; c != '=' {
		if p.pos+1 >= len(p.src) || p.src[p.pos+1] != '=' {
			return a, p.errorf(opStart, "attribute operator expected")
		}
		switch c {
		case '~':
			a.Op = AttrIncludes
		case '|':
			a.Op = AttrDashMatch
		case '^':
			a.Op = AttrPrefix
		case '$':
			a.Op = AttrSuffix
		case '*':
			a.Op = AttrSubstring
		default:
			return a, p.errorf(opStart, "unknown attribute operator %q", p.src[p.pos:p.pos+2])
		}
		p.pos += 2
	} else {
		a.Op = AttrEquals
		p.pos++
	}
	p.skipWS()

	valStart := p.pos
	if p.eof() {
		return a, p.errorf(p.pos, "attribute value expected")
	}
	if q := p.src[p.pos]; q == '"' || q == '\'' {
		end := strings.IndexByte(p.src[p.pos+1:], q)
		if end < 0 {
			return a, p.errorf(valStart, "unterminated string")
		}
		a.Value = p.src[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
		p.skipWS()
		if p.eof() || p.src[p.pos] != ']' {
			return a, p.errorf(p.pos, "']' expected")
		}
	} else {
		end := strings.IndexByte(p.src[p.pos:], ']')
		if end < 0 {
			return a, p.errorf(len(p.src), "unterminated attribute selector")
		}
		a.Value = strings.TrimRight(p.src[p.pos:p.pos+end], " \t\n\r\f")
		p.pos += end
	}
	if a.Value == "" {
		return a, p.errorf(valStart, "empty attribute value")
	}
	p.pos++ // ]
	return a, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '-'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9'
}
