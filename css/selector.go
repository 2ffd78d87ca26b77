// Package css compiles CSS selectors (Selectors level 4 subset plus a few
// jQuery style text pseudo-classes) and matches them against any tree
// exposing the Element interface.
package css

// Combinator joins two compound selectors.
type Combinator int

const (
	Descendant        Combinator = iota // whitespace
	Child                               // >
	NextSibling                         // +
	SubsequentSibling                   // ~
)

func (c Combinator) String() string {
	switch c {
	case Child:
		return ">"
	case NextSibling:
		return "+"
	case SubsequentSibling:
		return "~"
	default:
		return " "
	}
}

// AttrOp is attribute selector operator.
type AttrOp int

const (
	AttrExists    AttrOp = iota // [a]
	AttrEquals                  // [a=v]
	AttrIncludes                // [a~=v]
	AttrDashMatch               // [a|=v]
	AttrPrefix                  // [a^=v]
	AttrSuffix                  // [a$=v]
	AttrSubstring               // [a*=v]
)

// AttrSelector is a single [name op value modifier] test.
type AttrSelector struct {
	Name  string
	Op    AttrOp
	Value string
	// Fold is set by the "i" modifier, values are compared ignoring case.
	Fold bool
}

type pseudoKind int

const (
	pcNever pseudoKind = iota
	pcRoot
	pcEmpty
	pcFirstChild
	pcLastChild
	pcOnlyChild
	pcFirstOfType
	pcLastOfType
	pcOnlyOfType
	pcNthChild
	pcNthLastChild
	pcNthOfType
	pcNthLastOfType
	pcNot
	pcIs
	pcWhere
	pcHas
	pcLink
	pcOnlyText
	pcContains
	pcHasText
	pcLang
)

// simplePseudo lists pseudo-classes without arguments.
var simplePseudo = map[string]pseudoKind{
	"root":          pcRoot,
	"empty":         pcEmpty,
	"first-child":   pcFirstChild,
	"last-child":    pcLastChild,
	"only-child":    pcOnlyChild,
	"first-of-type": pcFirstOfType,
	"last-of-type":  pcLastOfType,
	"only-of-type":  pcOnlyOfType,
	"link":          pcLink,
	"any-link":      pcLink,
	"only-text":     pcOnlyText,

	// user action and form states, static document never is in any of them
	"hover":             pcNever,
	"active":            pcNever,
	"focus":             pcNever,
	"focus-within":      pcNever,
	"focus-visible":     pcNever,
	"visited":           pcNever,
	"target":            pcNever,
	"checked":           pcNever,
	"disabled":          pcNever,
	"enabled":           pcNever,
	"required":          pcNever,
	"optional":          pcNever,
	"read-only":         pcNever,
	"read-write":        pcNever,
	"placeholder-shown": pcNever,
	"default":           pcNever,
	"indeterminate":     pcNever,
	"valid":             pcNever,
	"invalid":           pcNever,
}

// functionalPseudo lists pseudo-classes taking an argument.
var functionalPseudo = map[string]pseudoKind{
	"not":              pcNot,
	"is":               pcIs,
	"matches":          pcIs,
	"where":            pcWhere,
	"has":              pcHas,
	"nth-child":        pcNthChild,
	"nth-last-child":   pcNthLastChild,
	"nth-of-type":      pcNthOfType,
	"nth-last-of-type": pcNthLastOfType,
	"contains":         pcContains,
	"has-text":         pcHasText,
	"lang":             pcLang,
}

// legacyPseudoElements may be written with a single colon.
var legacyPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

// PseudoClass is a single :name or :name(argument) test.
type PseudoClass struct {
	Name string
	kind pseudoKind
	// text argument of :contains and :has-text
	Arg string
	// languages of :lang
	Langs []string
	nth   nth
	// argument of logical pseudo-classes and "of S" part of :nth-child
	List *SelectorList
}

// Compound is a sequence of simple selectors applying to one element.
type Compound struct {
	// Tag is lower case element name, empty for universal selector.
	Tag     string
	IDs     []string
	Classes []string
	Attrs   []AttrSelector
	Pseudo  []PseudoClass
	// Next is combinator between this compound and the following one.
	Next Combinator
}

// Complex is a chain of compound selectors, the last one is the subject.
type Complex struct {
	Compounds []*Compound
	// Lead is the combinator relating relative selector (inside :has) to its
	// anchor element.
	Lead     Combinator
	relative bool
	source   string
}

func (c *Complex) String() string {
	return c.source
}

// SelectorList is a compiled comma separated group of complex selectors.
type SelectorList struct {
	Selectors []*Complex
	source    string
}

func (l *SelectorList) String() string {
	if l == nil {
		return ""
	}
	return l.source
}

// Specificity is (ids, classes, types) triplet.
type Specificity struct {
	A, B, C int
}

// Compare returns -1, 0 or 1.
func (s Specificity) Compare(o Specificity) int {
	switch {
	case s.A != o.A:
		return sign(s.A - o.A)
	case s.B != o.B:
		return sign(s.B - o.B)
	default:
		return sign(s.C - o.C)
	}
}

func (s Specificity) Less(o Specificity) bool {
	return s.Compare(o) < 0
}

func (s Specificity) add(o Specificity) Specificity {
	return Specificity{s.A + o.A, s.B + o.B, s.C + o.C}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// Specificity returns the highest specificity among list selectors.
func (l *SelectorList) Specificity() Specificity {
	var res Specificity
	if l == nil {
		return res
	}
	for _, c := range l.Selectors {
		if s := c.Specificity(); res.Less(s) {
			res = s
		}
	}
	return res
}

// Specificity computes specificity of the complex selector. Arguments of
// :is, :not and :has contribute their most specific selector, :where
// contributes nothing.
func (c *Complex) Specificity() Specificity {
	var s Specificity
	for _, comp := range c.Compounds {
		s.A += len(comp.IDs)
		s.B += len(comp.Classes) + len(comp.Attrs)
		if comp.Tag != "" {
			s.C++
		}
		for _, p := range comp.Pseudo {
			switch p.kind {
			case pcWhere:
			case pcIs, pcNot, pcHas:
				s = s.add(p.List.Specificity())
			case pcNthChild, pcNthLastChild:
				s.B++
				s = s.add(p.List.Specificity())
			default:
				s.B++
			}
		}
	}
	return s
}

// IsSimple reports whether every compound of every selector consists only of
// a tag, ids, classes and attribute tests joined by descendant or child
// combinators.
func (l *SelectorList) IsSimple() bool {
	for _, c := range l.Selectors {
		for _, comp := range c.Compounds {
			if len(comp.Pseudo) > 0 || comp.Next == NextSibling || comp.Next == SubsequentSibling {
				return false
			}
		}
	}
	return true
}
