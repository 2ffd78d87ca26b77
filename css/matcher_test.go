package css

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"domq/dom"
)

// element adapts dom.Node for matcher tests.
type element struct {
	n dom.Node
}

func asElement(n dom.Node, ok bool) (Element, bool) {
	if !ok || !n.IsElement() {
		return nil, false
	}
	return element{n}, true
}

func (e element) LocalName() string {
	name, _ := e.n.Name()
	return name.Local
}

func (e element) Namespace() string {
	name, _ := e.n.Name()
	return name.Space
}

func (e element) Attr(name string) (string, bool) { return e.n.Tree().AttrFold(e.n.ID(), name) }
func (e element) ID() string                      { return e.n.IDAttr() }
func (e element) HasClass(name string) bool       { return e.n.HasClass(name) }
func (e element) Parent() (Element, bool)         { return asElement(e.n.Parent()) }
func (e element) PrevSibling() (Element, bool)    { return asElement(e.n.PrevElementSibling()) }
func (e element) NextSibling() (Element, bool)    { return asElement(e.n.NextElementSibling()) }
func (e element) FirstChild() (Element, bool)     { return asElement(e.n.FirstElementChild()) }
func (e element) IsEmpty() bool                   { return e.n.IsEmpty() }
func (e element) Text() string                    { return e.n.Text() }
func (e element) HasText(needle string) bool      { return e.n.HasText(needle) }
func (e element) HasOnlyText() bool               { return e.n.HasOnlyText() }

func (e element) IsRoot() bool {
	p, ok := e.n.Parent()
	return ok && p.Kind().IsRoot()
}

func (e element) Equal(other Element) bool {
	o, ok := other.(element)
	return ok && o.n == e.n
}

const testPage = `<!DOCTYPE html>
<html lang="en-US">
<head><title>t</title></head>
<body>
<div id="main" class="content wide">
  <h1>Title</h1>
  <p class="intro">First <a href="/one">one</a></p>
  <p>Second <b>bold</b></p>
  <p lang="de">Dritte</p>
  <ul>
    <li class="x">1</li>
    <li>2 <a name="anchor">no link</a></li>
    <li class="x">3</li>
    <li>4</li>
    <li class="x"><a href="http://example.com/doc.pdf" title="Doc File">5</a></li>
  </ul>
  <section><p></p><span>only</span></section>
  <input type="checkbox" checked>
</div>
</body>
</html>`

// selectAll returns whitespace collapsed text (or tag name for empty
// elements) of all matching elements in document order.
func selectAll(t *testing.T, tree *dom.Tree, src string) []string {
	t.Helper()
	list, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	var res []string
	for _, d := range tree.Root().Descendants() {
		if !d.IsElement() || !list.Match(element{d}) {
			continue
		}
		text := strings.Join(strings.Fields(d.Text()), " ")
		if text == "" {
			text = "<" + d.NodeName() + ">"
		}
		res = append(res, text)
	}
	return res
}

func TestMatch(t *testing.T) {
	tree, err := dom.ParseString(testPage, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		sel  string
		want string
	}{
		{"h1", "Title"},
		{"H1", "Title"},
		{"#main > h1", "Title"},
		{"p.intro", "First one"},
		{"div.content.wide h1", "Title"},
		{"div.content.narrow h1", ""},
		{"li.x", "1|3|5"},
		{"ul > li:first-child", "1"},
		{"li:last-child", "5"},
		{"li:nth-child(2n)", "2 no link|4"},
		{"li:nth-child(odd)", "1|3|5"},
		{"li:nth-last-child(2)", "4"},
		{"li:nth-child(2 of .x)", "3"},
		{"li:nth-child(-n+2)", "1|2 no link"},
		{"p:nth-of-type(2)", "Second bold"},
		{"p:first-of-type", "First one|<p>"},
		{"p:last-of-type", "Dritte|<p>"},
		{"span:only-of-type", "only"},
		{"section > :only-child", ""},
		{"h1 + p", "First one"},
		{"h1 ~ p", "First one|Second bold|Dritte"},
		{"h1 ~ ul li:not(.x)", "2 no link|4"},
		{"a[href]", "one|5"},
		{"a:link", "one|5"},
		{"a[href^=http]", "5"},
		{"a[href$='.pdf']", "5"},
		{"a[href*=example]", "5"},
		{"a[title~=File]", "5"},
		{"a[title=\"doc file\" i]", "5"},
		{"a[title=\"doc file\"]", ""},
		{"[HREF='/one']", "one"},
		{"a[href^='']", ""},
		{"[lang|=en]", "t Title First one Second bold Dritte 1 2 no link 3 4 5 only"},
		{"li:has(a)", "2 no link|5"},
		{"li:has(> a[href])", "5"},
		{"h1:has(+ p.intro)", "Title"},
		{"h1:has(~ ul li.x)", "Title"},
		{"ul:has(li b)", ""},
		{"p:has(b)", "Second bold"},
		{"p:is(.intro, :lang(de))", "First one|Dritte"},
		{":where(section) p", "<p>"},
		{"p:lang(en)", "First one|Second bold|<p>"},
		{"p:lang(de-DE)", ""},
		{"p:empty", "<p>"},
		{"section :only-text", "only"},
		{"p:contains('Second b')", "Second bold"},
		{"p:has-text('Second b')", ""},
		{"p:has-text(bold)", "Second bold"},
		{"html:root", "t Title First one Second bold Dritte 1 2 no link 3 4 5 only"},
		{"body:root", ""},
		{"input:checked", ""},
		{"input:not(:checked)", "<input>"},
		{"div p b, h1", "Title|bold"},
		{"ul li a", "no link|5"},
		{"div > ul > li > a[name]", "no link"},
		{"body > p", ""},
	}

	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			got := strings.Join(selectAll(t, tree, tt.sel), "|")
			if got != tt.want {
				t.Errorf("%q matched %q, want %q", tt.sel, got, tt.want)
			}
		})
	}
}

func TestMatch_DescendantBacktracking(t *testing.T) {
	// first "div" ancestor found is not the one under .a, matcher must keep
	// looking further up
	tree, err := dom.ParseString(`<div class="a"><div><p><span>x</span></p></div></div>`, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := selectAll(t, tree, ".a > div span"); strings.Join(got, "|") != "x" {
		t.Errorf("matched %v, want [x]", got)
	}
	if got := selectAll(t, tree, ".a > div > span"); len(got) != 0 {
		t.Errorf("matched %v, want nothing", got)
	}
}

func TestRelativeSelectorDoesNotMatchAlone(t *testing.T) {
	list := MustCompile("div:has(> p)")
	rel := list.Selectors[0].Compounds[0].Pseudo[0].List.Selectors[0]
	tree, err := dom.ParseString(`<div><p>x</p></div>`, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := tree.Root().FindPath("p")[0]
	if rel.Match(element{p}) {
		t.Error("relative selector matched without anchor")
	}
}
