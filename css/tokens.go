package css

import (
	"errors"
	"io"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

type token struct {
	typ  css.TokenType
	data string
	off  int
}

func (t token) isDelim(c string) bool {
	return t.typ == css.DelimToken && t.data == c
}

// tokenize splits selector text into CSS tokens dropping comments. Token
// offsets are byte positions in text.
func tokenize(text string) ([]token, error) {
	l := css.NewLexer(parse.NewInput(strings.NewReader(text)))
	var (
		toks []token
		off  int
	)
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, &SyntaxError{Selector: text, Offset: off, Msg: err.Error()}
			}
			return toks, nil
		}
		if tt != css.CommentToken {
			toks = append(toks, token{typ: tt, data: string(data), off: off})
		}
		off += len(data)
	}
}

// unescape resolves CSS escapes in identifiers and string bodies.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		if s[i] == '\n' {
			// escaped newline in strings is a line continuation
			continue
		}
		j := i
		for j < len(s) && j-i < 6 && isHex(s[j]) {
			j++
		}
		if j == i {
			b.WriteByte(s[i])
			continue
		}
		code, _ := strconv.ParseUint(s[i:j], 16, 32)
		if code == 0 || code > 0x10FFFF || code >= 0xD800 && code <= 0xDFFF {
			code = 0xFFFD
		}
		b.WriteRune(rune(code))
		if j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n') {
			j++
		}
		i = j - 1
	}
	return b.String()
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// unquote strips quotes of a string token and resolves escapes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return unescape(s)
}
