// Package mini implements reduced CSS selectors: type, id, class and
// attribute tests joined by child and descendant combinators. Matching
// narrows candidate set step by step and walks dom tree directly.
package mini

import (
	"fmt"
	"strings"
)

// Combinator joins step with the next one.
type Combinator int

const (
	Descendant Combinator = iota
	Child
)

// AttrOp is attribute value test.
type AttrOp int

const (
	AttrExists AttrOp = iota
	AttrEquals
	AttrIncludes
	AttrDashMatch
	AttrPrefix
	AttrSuffix
	AttrSubstring
)

var attrOps = [...]string{"", "=", "~=", "|=", "^=", "$=", "*="}

func (op AttrOp) String() string {
	if op < 0 || int(op) >= len(attrOps) {
		return fmt.Sprintf("AttrOp(%d)", int(op))
	}
	return attrOps[op]
}

// Attr is single attribute test, Value is never empty when Op is not
// AttrExists.
type Attr struct {
	Name  string
	Op    AttrOp
	Value string
}

func (a Attr) match(v string) bool {
	if a.Op == AttrExists {
		return true
	}
	if v == "" {
		return false
	}
	switch a.Op {
	case AttrEquals:
		return v == a.Value
	case AttrIncludes:
		for w := range strings.FieldsSeq(v) {
			if w == a.Value {
				return true
			}
		}
	case AttrDashMatch:
		return v == a.Value || strings.HasPrefix(v, a.Value+"-")
	case AttrPrefix:
		return strings.HasPrefix(v, a.Value)
	case AttrSuffix:
		return strings.HasSuffix(v, a.Value)
	case AttrSubstring:
		return strings.Contains(v, a.Value)
	}
	return false
}

// Step is one compound of the selector. Next tells how following step is
// related to this one and is meaningless for the last step.
type Step struct {
	Name    string
	ID      string
	Classes []string
	Attrs   []Attr
	Next    Combinator
}

// Selector is compiled reduced selector.
type Selector struct {
	Steps  []Step
	source string
}

// String returns selector source text.
func (s *Selector) String() string {
	return s.source
}
