package dom

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

// countingSink wraps Builder and records event counts.
type countingSink struct {
	*Builder
	elements, texts, attrs int
}

func (s *countingSink) CreateElement(name QualName, attrs []Attr) NodeID {
	s.elements++
	return s.Builder.CreateElement(name, attrs)
}

func (s *countingSink) CreateText(text string) NodeID {
	s.texts++
	return s.Builder.CreateText(text)
}

func (s *countingSink) SetAttribute(id NodeID, name QualName, value string) {
	s.attrs++
	s.Builder.SetAttribute(id, name, value)
}

func TestFeed_CustomSink(t *testing.T) {
	sink := &countingSink{Builder: NewBuilder(NewDocument(zaptest.NewLogger(t)))}
	root, err := Feed(strings.NewReader(`<p class=a id=b>x</p>`), sink)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if root != sink.Tree().RootID() {
		t.Errorf("Feed returned %d, want root id", root)
	}
	// html, head, body, p
	if sink.elements != 4 || sink.texts != 1 || sink.attrs != 2 {
		t.Errorf("events elements=%d texts=%d attrs=%d, want 4/1/2", sink.elements, sink.texts, sink.attrs)
	}
}

func TestBuilder_MergesAdjacentText(t *testing.T) {
	tree := NewFragment(zaptest.NewLogger(t))
	b := NewBuilder(tree)
	p := b.CreateElement(HTMLName("p"), nil)
	b.Append(b.Root(), p)
	b.Append(p, b.CreateText("a"))
	b.Append(p, b.CreateText("b"))
	b.Append(p, b.CreateComment("c"))
	b.Append(p, b.CreateText("d"))
	b.SetAttribute(p, HTMLName("id"), "1")
	b.SetAttribute(p, HTMLName("id"), "2")
	b.Finish()

	if got, want := tree.HTML(p), `<p id="1">ab<!--c-->d</p>`; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	if n := tree.ChildCount(p); n != 3 {
		t.Errorf("ChildCount = %d, want 3", n)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	tests := []string{
		`<!DOCTYPE html><html><head><title>t</title></head><body><p class="x">a &amp; b</p></body></html>`,
		`<!DOCTYPE html><html><head></head><body><script>if (a < b) {}</script><!--note--></body></html>`,
	}
	for _, src := range tests {
		tree := parse(t, src)
		if got := tree.HTML(tree.RootID()); got != src {
			t.Errorf("round trip:\n got %q\nwant %q", got, src)
		}
		mustValid(t, tree)
	}
}

func TestParse_Doctype(t *testing.T) {
	tree := parse(t, `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd"><p>x</p>`)
	dt, ok := tree.Root().FirstChild()
	if !ok || !dt.IsDoctype() {
		t.Fatal("first child is not doctype")
	}
	name, public, system, _ := dt.Doctype()
	if name != "html" || public != "-//W3C//DTD HTML 4.01//EN" || system != "http://www.w3.org/TR/html4/strict.dtd" {
		t.Errorf("doctype = %q %q %q", name, public, system)
	}
}

func TestParseFragment(t *testing.T) {
	tests := []struct {
		context QualName
		src     string
		want    string
	}{
		{QualName{}, "<p>a</p>b", "<p>a</p>b"},
		{HTMLName("tr"), "<td>1</td><td>2</td>", "<td>1</td><td>2</td>"},
		{HTMLName("ul"), "<li>x<li>y", "<li>x</li><li>y</li>"},
	}
	for _, tt := range tests {
		frag, err := ParseFragmentString(tt.src, tt.context, zaptest.NewLogger(t))
		if err != nil {
			t.Fatalf("ParseFragmentString(%q): %v", tt.src, err)
		}
		if !frag.Root().IsFragment() {
			t.Errorf("fragment root kind = %s", frag.Root().Kind())
		}
		if got := frag.HTML(frag.RootID()); got != tt.want {
			t.Errorf("ParseFragmentString(%q) in %q = %q, want %q", tt.src, tt.context, got, tt.want)
		}
	}
}

func TestParseWithCharset(t *testing.T) {
	// "Привет" in windows-1251
	src := []byte("<html><head><meta charset=\"windows-1251\"></head><body><p>\xcf\xf0\xe8\xe2\xe5\xf2</p></body></html>")
	tree, err := ParseWithCharset(bytes.NewReader(src), "", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseWithCharset: %v", err)
	}
	p := first(t, tree.Root(), "p")
	if got := p.Text(); got != "Привет" {
		t.Errorf("Text() = %q, want %q", got, "Привет")
	}
}

func TestRender_Inner(t *testing.T) {
	tree := parse(t, "<div><style>a > b {}</style><p>x</p></div>")
	style := first(t, tree.Root(), "style")
	if got, want := style.InnerHTML(), "a > b {}"; got != want {
		t.Errorf("InnerHTML(style) = %q, want %q", got, want)
	}
	var buf bytes.Buffer
	if err := tree.Render(&buf, first(t, tree.Root(), "div").ID(), true); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "<style>a > b {}</style><p>x</p>"; got != want {
		t.Errorf("Render inner = %q, want %q", got, want)
	}

	pi := tree.NewProcessingInstruction("xml-stylesheet", `href="a.css"`)
	if got, want := pi.HTML(), `<?xml-stylesheet href="a.css">`; got != want {
		t.Errorf("HTML(pi) = %q, want %q", got, want)
	}
}
