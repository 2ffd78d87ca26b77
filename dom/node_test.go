package dom

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func parse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := ParseString(src, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}
	return tree
}

func first(t *testing.T, n Node, path ...string) Node {
	t.Helper()
	found := n.FindPath(path...)
	if len(found) == 0 {
		t.Fatalf("FindPath(%v) found nothing", path)
	}
	return found[0]
}

func TestStripElements(t *testing.T) {
	tree := parse(t, "<p>a<b>bold</b>c</p>")
	p := first(t, tree.Root(), "p")

	p.StripElements("b")
	if got, want := p.HTML(), "<p>aboldc</p>"; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	if got := p.ChildCount(); got != 3 {
		t.Errorf("ChildCount before Normalize = %d, want 3", got)
	}

	p.Normalize()
	children := p.Children()
	if len(children) != 1 || !children[0].IsText() || children[0].Data() != "aboldc" {
		t.Errorf("children after Normalize = %d, want single text %q", len(children), "aboldc")
	}
	mustValid(t, tree)
}

func TestStripElements_Nested(t *testing.T) {
	tree := parse(t, "<div><span>1<span>2</span></span><i>3</i></div>")
	div := first(t, tree.Root(), "div")

	div.StripElements("span", "i")
	if got, want := div.HTML(), "<div>123</div>"; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	mustValid(t, tree)
}

func TestNormalize(t *testing.T) {
	tree := NewFragment(zaptest.NewLogger(t))
	root := tree.Root()
	p := tree.NewElement("p")
	if err := root.AppendChild(p); err != nil {
		t.Fatal(err)
	}
	for _, n := range []Node{tree.NewText("a"), tree.NewText(""), tree.NewText("b"), tree.NewComment("c"), tree.NewText("d")} {
		if err := p.AppendChild(n); err != nil {
			t.Fatal(err)
		}
	}

	p.Normalize()

	var got []string
	for _, c := range p.Children() {
		got = append(got, c.NodeName()+":"+c.Data())
	}
	want := "#text:ab|#comment:c|#text:d"
	if strings.Join(got, "|") != want {
		t.Errorf("children = %q, want %q", strings.Join(got, "|"), want)
	}
	mustValid(t, tree)
}

func TestTextHelpers(t *testing.T) {
	tree := parse(t, "<div id=d>  Hello <b>big</b>\n\n world  <!-- c --></div><p></p><p><!-- only --></p>")
	div := first(t, tree.Root(), "div")

	if got, want := div.Text(), "  Hello big\n\n world  "; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if got, want := div.ImmediateText(), "  Hello \n\n world  "; got != want {
		t.Errorf("ImmediateText() = %q, want %q", got, want)
	}
	if got, want := div.NormalizedCharCount(), len("Hello big world"); got != want {
		t.Errorf("NormalizedCharCount() = %d, want %d", got, want)
	}
	if !div.HasText("big") || div.HasText("Hello big") {
		t.Error("HasText must search single text nodes only")
	}
	if div.HasOnlyText() {
		t.Error("HasOnlyText() = true for mixed content")
	}
	b := first(t, div, "b")
	if !b.HasOnlyText() {
		t.Error("HasOnlyText() = false for <b>big</b>")
	}
	ps := tree.Root().FindPath("p")
	if len(ps) != 2 || !ps[0].IsEmpty() || !ps[1].IsEmpty() {
		t.Error("empty paragraphs are not reported as empty")
	}
	if div.IsEmpty() {
		t.Error("IsEmpty() = true for div with content")
	}

	b.SetText("small")
	if got, want := b.HTML(), "<b>small</b>"; got != want {
		t.Errorf("after SetText HTML = %q, want %q", got, want)
	}
}

func TestAttributes(t *testing.T) {
	tree := parse(t, `<a href="/x" class="one two" data-k="v">link</a>`)
	a := first(t, tree.Root(), "a")

	if v, ok := a.Attr("href"); !ok || v != "/x" {
		t.Errorf("Attr(href) = %q, %v", v, ok)
	}
	if _, ok := a.Attr("title"); ok {
		t.Error("Attr(title) reported present")
	}
	if got := a.AttrOr("title", "none"); got != "none" {
		t.Errorf("AttrOr = %q, want none", got)
	}
	if !a.HasClass("two") || a.HasClass("three") {
		t.Error("HasClass mismatch")
	}

	a.AddClass("three one")
	if got, want := a.Class(), "one two three"; got != want {
		t.Errorf("Class() after AddClass = %q, want %q", got, want)
	}
	a.RemoveClass("one")
	if got, want := a.Class(), "two three"; got != want {
		t.Errorf("Class() after RemoveClass = %q, want %q", got, want)
	}
	a.RemoveClass("two three")
	if v, ok := a.Attr("class"); ok {
		t.Errorf("class attribute left after removing every class: %q", v)
	}

	a.SetAttr("title", "t")
	a.SetAttr("href", "/y")
	a.RetainAttrs("href", "title")
	if got, want := a.HTML(), `<a href="/y" title="t">link</a>`; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	a.RemoveAttr("title")
	a.Rename("span")
	if got, want := a.HTML(), `<span href="/y">link</span>`; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	a.RemoveAllAttrs()
	if len(a.Attrs()) != 0 {
		t.Error("RemoveAllAttrs left attributes")
	}
}

func TestNavigation(t *testing.T) {
	tree := parse(t, "<ul><li>1</li> <li>2</li> <li>3</li></ul>")
	ul := first(t, tree.Root(), "ul")
	items := ul.ElementChildren()
	if len(items) != 3 {
		t.Fatalf("ElementChildren = %d, want 3", len(items))
	}
	if len(ul.Children()) != 5 {
		t.Errorf("Children = %d, want 5", len(ul.Children()))
	}
	if next, ok := items[0].NextElementSibling(); !ok || next != items[1] {
		t.Error("NextElementSibling mismatch")
	}
	if prev, ok := items[2].PrevElementSibling(); !ok || prev != items[1] {
		t.Error("PrevElementSibling mismatch")
	}
	if _, ok := items[0].PrevElementSibling(); ok {
		t.Error("first item has previous element sibling")
	}
	if fc, ok := ul.FirstElementChild(); !ok || fc != items[0] {
		t.Error("FirstElementChild mismatch")
	}
	if got := items[1].LastSibling(); got != items[2] {
		t.Errorf("LastSibling = %d, want %d", got.ID(), items[2].ID())
	}

	var names []string
	for _, a := range items[0].Ancestors(0) {
		names = append(names, a.NodeName())
	}
	if got, want := strings.Join(names, ","), "ul,body,html,#document"; got != want {
		t.Errorf("Ancestors = %q, want %q", got, want)
	}
	if got := items[0].Ancestors(2); len(got) != 2 {
		t.Errorf("Ancestors(2) = %d nodes, want 2", len(got))
	}
}

func TestFindPath(t *testing.T) {
	tree := parse(t, "<div><div><p>1</p></div><p>2</p></div><section><p>3</p></section>")

	var got []string
	for _, p := range tree.Root().FindPath("div", "p") {
		got = append(got, p.Text())
	}
	if strings.Join(got, ",") != "1,2" {
		t.Errorf("FindPath(div, p) = %v, want [1 2]", got)
	}
	if n := len(tree.Root().FindPath("p")); n != 3 {
		t.Errorf("FindPath(p) = %d nodes, want 3", n)
	}
	// the last step keeps searching inside matched elements
	divs := tree.Root().FindPath("div")
	if len(divs) != 2 {
		t.Fatalf("FindPath(div) = %d nodes, want 2", len(divs))
	}
	if p, ok := divs[1].Parent(); !ok || p.ID() != divs[0].ID() {
		t.Errorf("FindPath(div) second match %s is not nested in the first", divs[1].CSSPath())
	}
	if tree.Root().FindPath() != nil {
		t.Error("FindPath() with empty path must return nil")
	}
}

func TestHTMLMutations(t *testing.T) {
	tests := []struct {
		name string
		op   func(n Node) error
		want string
	}{
		{"set", func(n Node) error { return n.SetHTML("<i>x</i>y") }, "<div><p><i>x</i>y</p></div>"},
		{"set empty", func(n Node) error { return n.SetHTML("") }, "<div><p></p></div>"},
		{"append", func(n Node) error { return n.AppendHTML("<i>x</i>") }, "<div><p>old<i>x</i></p></div>"},
		{"prepend", func(n Node) error { return n.PrependHTML("<i>x</i>") }, "<div><p><i>x</i>old</p></div>"},
		{"before", func(n Node) error { return n.BeforeHTML("<hr>") }, "<div><hr/><p>old</p></div>"},
		{"after", func(n Node) error { return n.AfterHTML("<hr>t") }, "<div><p>old</p><hr/>t</div>"},
		{"replace", func(n Node) error { return n.ReplaceWithHTML("<span>a</span><span>b</span>") }, "<div><span>a</span><span>b</span></div>"},
		{"replace empty", func(n Node) error { return n.ReplaceWithHTML("") }, "<div></div>"},
		{"wrap", func(n Node) error { return n.WrapHTML(`<section class="w"></section>`) }, `<div><section class="w"><p>old</p></section></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, "<div><p>old</p></div>")
			div := first(t, tree.Root(), "div")
			p := first(t, div, "p")
			if err := tt.op(p); err != nil {
				t.Fatalf("operation failed: %v", err)
			}
			if got := div.HTML(); got != tt.want {
				t.Errorf("HTML = %q, want %q", got, tt.want)
			}
			mustValid(t, tree)
		})
	}
}

func TestHTMLMutations_Detached(t *testing.T) {
	tree := NewFragment(zaptest.NewLogger(t))
	p := tree.NewElement("p")
	if err := p.AfterHTML("<i>x</i>"); err != ErrDetached {
		t.Errorf("AfterHTML on detached node error = %v, want ErrDetached", err)
	}
	if err := p.AppendHTML("<i>x</i>"); err != nil {
		t.Errorf("AppendHTML on detached node: %v", err)
	}
	if got, want := p.HTML(), "<p><i>x</i></p>"; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}

func TestSetHTML_TableContext(t *testing.T) {
	tree := parse(t, "<table><tbody><tr><td>1</td></tr></tbody></table>")
	tr := first(t, tree.Root(), "tr")
	if err := tr.SetHTML("<td>a</td><td>b</td>"); err != nil {
		t.Fatal(err)
	}
	if got, want := tr.InnerHTML(), "<td>a</td><td>b</td>"; got != want {
		t.Errorf("InnerHTML = %q, want %q", got, want)
	}
}

func TestCloneAndMerge(t *testing.T) {
	tree := parse(t, "<div id=a><p>1</p><p>2</p></div>")
	div := first(t, tree.Root(), "div")

	c := div.Clone()
	if _, ok := c.Parent(); ok {
		t.Error("clone is attached")
	}
	if c.HTML() != div.HTML() {
		t.Errorf("clone HTML = %q, want %q", c.HTML(), div.HTML())
	}
	// clone ids follow clone document order
	prev := c.ID()
	for _, d := range c.Descendants() {
		if d.ID() <= prev {
			t.Errorf("descendant id %d after %d", d.ID(), prev)
		}
		prev = d.ID()
	}
	c.SetAttr("id", "b")
	if div.AttrOr("id", "") != "a" {
		t.Error("clone shares attributes with original")
	}

	other := parse(t, "<span>s</span>")
	span := first(t, other.Root(), "span")
	copied := tree.Node(tree.Merge(other, span.ID()))
	if err := div.AppendChild(copied); err != nil {
		t.Fatal(err)
	}
	if got, want := div.HTML(), `<div id="a"><p>1</p><p>2</p><span>s</span></div>`; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}

	holder := tree.Node(tree.Merge(other, other.RootID()))
	if !holder.IsFragment() {
		t.Errorf("merged document root kind = %s, want fragment", holder.Kind())
	}
	if got, want := holder.InnerHTML(), "<html><head></head><body><span>s</span></body></html>"; got != want {
		t.Errorf("merged InnerHTML = %q, want %q", got, want)
	}
	mustValid(t, tree)
}

func TestBaseURI(t *testing.T) {
	tree := parse(t, `<html><head><base target="_top"><base href="http://example.com/"></head><body><p>x</p></body></html>`)
	p := first(t, tree.Root(), "p")
	if got, ok := p.BaseURI(); !ok || got != "http://example.com/" {
		t.Errorf("BaseURI() = %q, %v", got, ok)
	}
	if _, ok := parse(t, "<p>x</p>").Root().BaseURI(); ok {
		t.Error("BaseURI() found in document without <base>")
	}
}

func TestDump(t *testing.T) {
	tree := parse(t, `<p class="c">text</p>`)
	got := tree.Dump(tree.RootID())
	for _, want := range []string{"#0 document", `<p> class="c"`, `text: "text"`} {
		if !strings.Contains(got, want) {
			t.Errorf("Dump() does not contain %q:\n%s", want, got)
		}
	}
}

func TestCSSPath(t *testing.T) {
	tree := parse(t, `<div id="main"><p>a</p><p>b</p></div><div id="dup"><i>x</i></div><div id="dup"></div>`)
	ps := tree.Root().FindPath("p")
	if got, want := ps[1].CSSPath(), "#main > p:nth-child(2)"; got != want {
		t.Errorf("CSSPath() = %q, want %q", got, want)
	}
	i := first(t, tree.Root(), "i")
	if got, want := i.CSSPath(), "html > body:nth-child(2) > div:nth-child(2) > i"; got != want {
		t.Errorf("CSSPath() = %q, want %q", got, want)
	}
	if got := tree.Root().CSSPath(); got != "" {
		t.Errorf("CSSPath() of document = %q, want empty", got)
	}
}
