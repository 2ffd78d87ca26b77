package query

import (
	"domq/common"
	"domq/css"
	"domq/dom"
	"domq/mini"
)

// Matcher is compiled selector. It is immutable and may be reused with any
// number of documents concurrently.
type Matcher struct {
	source   string
	strategy common.Strategy
	full     *css.SelectorList
	mini     *mini.Selector
}

// Compile compiles selector picking the strategy automatically: reduced
// selectors are matched by stepwise narrowing wherever the result is the
// same as with ascending matching, everything else uses full grammar.
func Compile(sel string) (*Matcher, error) {
	return CompileStrategy(sel, common.StrategyAuto)
}

// CompileFull compiles selector for ascending matching only.
func CompileFull(sel string) (*Matcher, error) {
	return CompileStrategy(sel, common.StrategyFull)
}

// CompileMini compiles reduced selector. Every step of the selector,
// including the leftmost, is searched below query roots.
func CompileMini(sel string) (*Matcher, error) {
	return CompileStrategy(sel, common.StrategyMini)
}

// CompileStrategy compiles selector with requested strategy.
func CompileStrategy(sel string, strategy common.Strategy) (*Matcher, error) {
	m := &Matcher{source: sel, strategy: strategy}
	var err error
	switch strategy {
	case common.StrategyFull:
		m.full, err = css.Compile(sel)
	case common.StrategyMini:
		m.mini, err = mini.Compile(sel)
	default:
		m.strategy = common.StrategyAuto
		var merr error
		m.mini, merr = mini.Compile(sel)
		m.full, err = css.Compile(sel)
		if err != nil && merr == nil {
			// bare attribute values and similar are accepted only by reduced
			// grammar
			err = nil
		}
	}
	if err != nil {
		return nil, wrapSyntaxError(err)
	}
	return m, nil
}

// MustCompile is like Compile but panics if selector cannot be compiled.
func MustCompile(sel string) *Matcher {
	return must(Compile(sel))
}

// MustCompileFull is like CompileFull but panics on error.
func MustCompileFull(sel string) *Matcher {
	return must(CompileFull(sel))
}

// MustCompileMini is like CompileMini but panics on error.
func MustCompileMini(sel string) *Matcher {
	return must(CompileMini(sel))
}

func must(m *Matcher, err error) *Matcher {
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Matcher) String() string {
	return m.source
}

// Strategy returns strategy matcher was compiled with.
func (m *Matcher) Strategy() common.Strategy {
	return m.strategy
}

// Specificity returns specificity of the most specific selector in the
// list, zero for reduced only matchers.
func (m *Matcher) Specificity() css.Specificity {
	if m.full == nil {
		return css.Specificity{}
	}
	return m.full.Specificity()
}

// Match reports whether n is an element matched by the selector. Ancestors
// are checked up to the tree root.
func (m *Matcher) Match(n dom.Node) bool {
	if !n.Exists() || !n.IsElement() {
		return false
	}
	if m.full != nil {
		return m.full.Match(Element{n})
	}
	return m.mini.Match(n.Tree(), n.ID())
}

// narrowing reports whether stepwise narrowing gives the same result as
// ascending matching for this query. It does when there is nothing to match
// above the roots or the roots themselves.
func (m *Matcher) narrowing(t *dom.Tree, roots []dom.NodeID) bool {
	if m.mini == nil {
		return false
	}
	if m.full == nil || len(m.mini.Steps) == 1 {
		return true
	}
	for _, r := range roots {
		if t.Parent(r) != dom.None || t.IsElement(r) {
			return false
		}
	}
	return true
}
