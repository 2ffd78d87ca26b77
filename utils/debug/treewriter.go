// Package debug has helpers producing human readable dumps of tree
// structures, for logging and manual inspection.
package debug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TreeWriter accumulates indented lines, one per tree node.
type TreeWriter struct {
	w *strings.Builder
	// maximum number of runes of text values kept, 0 - unlimited
	limit int
}

func NewTreeWriter(limit int) *TreeWriter {
	return &TreeWriter{
		w:     &strings.Builder{},
		limit: max(limit, 0),
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

// Line writes formatted line at depth.
func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label followed by quoted (and possibly shortened) value.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(tw.encodeText(value))
	tw.w.WriteByte('\n')
}

// Pairs formats key/value pairs as space separated key="value" list.
func Pairs(kv ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(kv[i])
		b.WriteByte('=')
		b.WriteString(strconv.Quote(kv[i+1]))
	}
	return b.String()
}

func (tw TreeWriter) encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	if tw.limit > 0 {
		if n := utf8.RuneCountInString(raw); n > tw.limit {
			cut := 0
			for range tw.limit {
				_, size := utf8.DecodeRuneInString(raw[cut:])
				cut += size
			}
			return strconv.Quote(raw[:cut]) + fmt.Sprintf("...(+%d)", n-tw.limit)
		}
	}
	return strconv.Quote(raw)
}
