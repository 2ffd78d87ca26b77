package css

import (
	"strings"

	"golang.org/x/text/language"
)

// Element is the view of a document element selectors are matched against.
// Navigation methods return only elements, skipping text and other nodes,
// and report false when there is no such element.
type Element interface {
	LocalName() string
	Namespace() string
	// Attr returns attribute value, attribute names of HTML elements are
	// compared ignoring ASCII case.
	Attr(name string) (string, bool)
	ID() string
	HasClass(name string) bool

	Parent() (Element, bool)
	PrevSibling() (Element, bool)
	NextSibling() (Element, bool)
	FirstChild() (Element, bool)
	// IsRoot reports whether element is the top level element of its tree.
	IsRoot() bool

	// IsEmpty reports absence of element and non empty text children.
	IsEmpty() bool
	// Text is concatenated text of all descendants.
	Text() string
	// HasText reports whether one of descendant text nodes contains needle.
	HasText(needle string) bool
	// HasOnlyText reports whether the only child is a non blank text node.
	HasOnlyText() bool

	Equal(other Element) bool
}

// Match reports whether any selector of the list matches e.
func (l *SelectorList) Match(e Element) bool {
	for _, c := range l.Selectors {
		if c.Match(e) {
			return true
		}
	}
	return false
}

// Match reports whether e is the subject of the complex selector. Relative
// selectors never match on their own.
func (c *Complex) Match(e Element) bool {
	if c.relative {
		return false
	}
	return c.matchAt(len(c.Compounds)-1, e, nil)
}

// matchAt checks compounds[0..i] right to left with e as the candidate for
// compound i. Every combinator is tried against all possible elements so
// that earlier partial matches do not hide later ones. When scope is set the
// leftmost compound must be related to it by Lead.
func (c *Complex) matchAt(i int, e Element, scope Element) bool {
	if !c.Compounds[i].match(e) {
		return false
	}
	if i == 0 {
		return scope == nil || related(c.Lead, scope, e)
	}
	switch c.Compounds[i-1].Next {
	case Child:
		p, ok := e.Parent()
		return ok && c.matchAt(i-1, p, scope)
	case NextSibling:
		s, ok := e.PrevSibling()
		return ok && c.matchAt(i-1, s, scope)
	case SubsequentSibling:
		for s, ok := e.PrevSibling(); ok; s, ok = s.PrevSibling() {
			if c.matchAt(i-1, s, scope) {
				return true
			}
		}
	default:
		for p, ok := e.Parent(); ok; p, ok = p.Parent() {
			if c.matchAt(i-1, p, scope) {
				return true
			}
			if scope != nil && p.Equal(scope) {
				// nothing above the anchor can be related to it
				break
			}
		}
	}
	return false
}

// related reports whether x stands in relation comb to anchor.
func related(comb Combinator, anchor, x Element) bool {
	switch comb {
	case Child:
		p, ok := x.Parent()
		return ok && p.Equal(anchor)
	case NextSibling:
		s, ok := x.PrevSibling()
		return ok && s.Equal(anchor)
	case SubsequentSibling:
		for s, ok := x.PrevSibling(); ok; s, ok = s.PrevSibling() {
			if s.Equal(anchor) {
				return true
			}
		}
	default:
		for p, ok := x.Parent(); ok; p, ok = p.Parent() {
			if p.Equal(anchor) {
				return true
			}
		}
	}
	return false
}

func (c *Compound) match(e Element) bool {
	if c.Tag != "" && !strings.EqualFold(e.LocalName(), c.Tag) {
		return false
	}
	if len(c.IDs) > 0 {
		id := e.ID()
		for _, want := range c.IDs {
			if id != want {
				return false
			}
		}
	}
	for _, class := range c.Classes {
		if !e.HasClass(class) {
			return false
		}
	}
	for i := range c.Attrs {
		if !c.Attrs[i].match(e) {
			return false
		}
	}
	for i := range c.Pseudo {
		if !c.Pseudo[i].match(e) {
			return false
		}
	}
	return true
}

func (a *AttrSelector) match(e Element) bool {
	v, ok := e.Attr(a.Name)
	if !ok {
		return false
	}
	if a.Op == AttrExists {
		return true
	}
	want := a.Value
	if a.Fold {
		v, want = strings.ToLower(v), strings.ToLower(want)
	}
	switch a.Op {
	case AttrEquals:
		return v == want
	case AttrIncludes:
		if want == "" || strings.ContainsAny(want, " \t\n\r\f") {
			return false
		}
		for w := range strings.FieldsSeq(v) {
			if w == want {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return v == want || strings.HasPrefix(v, want+"-")
	case AttrPrefix:
		return want != "" && strings.HasPrefix(v, want)
	case AttrSuffix:
		return want != "" && strings.HasSuffix(v, want)
	case AttrSubstring:
		return want != "" && strings.Contains(v, want)
	}
	return false
}

func sameType(a, b Element) bool {
	return a.LocalName() == b.LocalName() && a.Namespace() == b.Namespace()
}

func (p *PseudoClass) match(e Element) bool {
	switch p.kind {
	case pcRoot:
		return e.IsRoot()
	case pcEmpty:
		return e.IsEmpty()
	case pcFirstChild:
		_, ok := e.PrevSibling()
		return !ok
	case pcLastChild:
		_, ok := e.NextSibling()
		return !ok
	case pcOnlyChild:
		_, prev := e.PrevSibling()
		_, next := e.NextSibling()
		return !prev && !next
	case pcFirstOfType:
		return position(e, false, true, nil) == 1
	case pcLastOfType:
		return position(e, true, true, nil) == 1
	case pcOnlyOfType:
		return position(e, false, true, nil) == 1 && position(e, true, true, nil) == 1
	case pcNthChild, pcNthLastChild:
		if p.List != nil && !p.List.Match(e) {
			return false
		}
		return p.nth.matches(position(e, p.kind == pcNthLastChild, false, p.List))
	case pcNthOfType, pcNthLastOfType:
		return p.nth.matches(position(e, p.kind == pcNthLastOfType, true, nil))
	case pcNot:
		return !p.List.Match(e)
	case pcIs, pcWhere:
		return p.List.Match(e)
	case pcHas:
		return p.hasMatch(e)
	case pcLink:
		switch e.LocalName() {
		case "a", "area", "link":
			_, ok := e.Attr("href")
			return ok
		}
		return false
	case pcOnlyText:
		return e.HasOnlyText()
	case pcContains:
		return strings.Contains(e.Text(), p.Arg)
	case pcHasText:
		return e.HasText(p.Arg)
	case pcLang:
		return matchLang(p.Langs, e)
	}
	return false
}

// position returns 1-based index of e among its element siblings counting
// from the end when fromLast is set. Only siblings of the same type or, when
// of is not nil, matching it are counted.
func position(e Element, fromLast, ofType bool, of *SelectorList) int {
	step := Element.PrevSibling
	if fromLast {
		step = Element.NextSibling
	}
	pos := 1
	for s, ok := step(e); ok; s, ok = step(s) {
		switch {
		case ofType && !sameType(s, e):
		case of != nil && !of.Match(s):
		default:
			pos++
		}
	}
	return pos
}

// hasMatch checks relative selectors against descendants (and following
// siblings with their descendants for sibling combinators) of the anchor.
func (p *PseudoClass) hasMatch(anchor Element) bool {
	for _, c := range p.List.Selectors {
		last := len(c.Compounds) - 1
		found := false
		visit := func(x Element) bool {
			if c.matchAt(last, x, anchor) {
				found = true
				return false
			}
			return true
		}
		switch c.Lead {
		case NextSibling, SubsequentSibling:
			for s, ok := anchor.NextSibling(); ok && !found; s, ok = s.NextSibling() {
				if visit(s) {
					walkDescendants(s, visit)
				}
			}
		default:
			walkDescendants(anchor, visit)
		}
		if found {
			return true
		}
	}
	return false
}

// walkDescendants calls visit for every descendant element of e in document
// order until visit returns false. It reports whether walk completed.
func walkDescendants(e Element, visit func(Element) bool) bool {
	for c, ok := e.FirstChild(); ok; c, ok = c.NextSibling() {
		if !visit(c) || !walkDescendants(c, visit) {
			return false
		}
	}
	return true
}

func canonicalLang(tag string) string {
	if t, err := language.Parse(tag); err == nil {
		tag = t.String()
	}
	return strings.ToLower(strings.ReplaceAll(tag, "_", "-"))
}

// matchLang uses language of the closest element with lang attribute.
func matchLang(ranges []string, e Element) bool {
	var lang string
	found := false
	for cur, ok := e, true; ok; cur, ok = cur.Parent() {
		if v, has := cur.Attr("lang"); has {
			lang, found = v, true
			break
		}
		if v, has := cur.Attr("xml:lang"); has {
			lang, found = v, true
			break
		}
	}
	if !found || lang == "" {
		return false
	}
	lang = canonicalLang(lang)
	for _, r := range ranges {
		if r == "*" {
			return true
		}
		r = canonicalLang(r)
		if lang == r || strings.HasPrefix(lang, r+"-") {
			return true
		}
	}
	return false
}
