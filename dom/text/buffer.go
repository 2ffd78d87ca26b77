package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Buffer accumulates normalized text. Zero value is ready to use.
type Buffer struct {
	b []byte
}

func (b *Buffer) String() string { return string(b.b) }
func (b *Buffer) Len() int       { return len(b.b) }

func (b *Buffer) Push(s string)   { b.b = append(b.b, s...) }
func (b *Buffer) PushByte(c byte) { b.b = append(b.b, c) }

func (b *Buffer) EndsWith(s string) bool {
	return strings.HasSuffix(string(b.b), s)
}

func (b *Buffer) endsWithSpace() bool {
	r, _ := utf8.DecodeLastRune(b.b)
	return len(b.b) > 0 && unicode.IsSpace(r)
}

// TrimRightSpaces drops trailing ASCII spaces, line breaks stay.
func (b *Buffer) TrimRightSpaces() {
	for len(b.b) > 0 && b.b[len(b.b)-1] == ' ' {
		b.b = b.b[:len(b.b)-1]
	}
}

// TrimSpace drops leading and trailing white space.
func (b *Buffer) TrimSpace() {
	b.b = []byte(strings.TrimSpace(string(b.b)))
}

// PushNormalized appends s with white space runs collapsed into single
// space. Buffer never gets space at the start of the line. Runes for which
// escape returns true get backslash in front unless already escaped.
func (b *Buffer) PushNormalized(s string, escape func(rune) bool) {
	followsBreak := len(b.b) == 0 || b.EndsWith("\n") || b.EndsWith(" ")
	words := strings.Fields(s)
	if len(words) == 0 && followsBreak {
		return
	}
	for i, w := range words {
		if i > 0 || (!followsBreak && startsWithSpace(s)) {
			b.b = append(b.b, ' ')
		}
		b.pushEscaped(w, escape)
	}
	if endsWithSpace(s) && !b.endsWithSpace() {
		b.b = append(b.b, ' ')
	}
}

func (b *Buffer) pushEscaped(s string, escape func(rune) bool) {
	if escape == nil {
		b.b = append(b.b, s...)
		return
	}
	var prev rune
	for _, r := range s {
		if escape(r) && prev != '\\' {
			b.b = append(b.b, '\\')
		}
		b.b = utf8.AppendRune(b.b, r)
		prev = r
	}
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return s != "" && unicode.IsSpace(r)
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return s != "" && unicode.IsSpace(r)
}
