package xhtml

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"domq/dom"
)

func TestSerialize_Fragment(t *testing.T) {
	tree, err := dom.ParseFragmentString(`<p class="a">x &amp; y<br></p>`, dom.HTMLName("body"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := Serialize(tree.Root(), 0)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !strings.HasPrefix(got, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing xml declaration: %q", got)
	}
	want := `<p xmlns="http://www.w3.org/1999/xhtml" class="a">x &amp; y<br/></p>`
	if !strings.Contains(got, want) {
		t.Errorf("Serialize = %q, want it to contain %q", got, want)
	}
}

func TestSerialize_ForeignContent(t *testing.T) {
	tree, err := dom.ParseFragmentString(`<div><svg viewBox="0 0 1 1"><use xlink:href="#a"></use></svg></div>`, dom.HTMLName("body"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := Serialize(tree.Root(), 0)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1 1">`,
		`xmlns:xlink="http://www.w3.org/1999/xlink"`,
		`xlink:href="#a"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Serialize = %q, want it to contain %q", got, want)
		}
	}
}

func TestSerialize_DropsInvalidAttributes(t *testing.T) {
	tree, err := dom.ParseFragmentString(`<p @click="go" data-x="1">x</p>`, dom.HTMLName("body"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := Serialize(tree.Root(), 0)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if strings.Contains(got, "@click") || !strings.Contains(got, `data-x="1"`) {
		t.Errorf("Serialize = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	log := zaptest.NewLogger(t)
	src := `<!DOCTYPE html><html><head><title>T</title></head><body><p id="x">a<b>b</b></p><!-- c --></body></html>`
	tree, err := dom.ParseString(src, log)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	xml, err := Serialize(tree.Root(), 0)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	back, err := ParseString(xml, log)
	if err != nil {
		t.Fatalf("parse xhtml: %v", err)
	}
	if got, want := back.Root().HTML(), tree.Root().HTML(); got != want {
		t.Errorf("round trip mismatch\ngot:  %s\nwant: %s", got, want)
	}
	if err := back.Root().Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParse_Entities(t *testing.T) {
	tree, err := ParseString(`<p xmlns="http://www.w3.org/1999/xhtml">a&nbsp;b&mdash;c&amp;</p>`, nil)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	p, ok := tree.Root().FirstElementChild()
	if !ok {
		t.Fatal("no element")
	}
	if name, _ := p.Name(); name != dom.HTMLName("p") {
		t.Errorf("name = %v", name)
	}
	if got, want := p.Text(), "a\u00a0b\u2014c&"; got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}
