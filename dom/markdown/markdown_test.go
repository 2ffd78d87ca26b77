package markdown

import (
	"testing"

	"domq/dom"
)

func fragment(t *testing.T, markup string) dom.Node {
	t.Helper()
	tree, err := dom.ParseFragmentString(markup, dom.HTMLName("body"), nil)
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return tree.Root()
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"italic heading", `<h4><i>Italic Text</i></h4>`, "#### *Italic Text*"},
		{"span italic", "<span>It`s like <i>that</i></span>", "It\\`s like *that*"},
		{"bold italic", "<span>It`s like <b><i>that</i></b></span>", "It\\`s like ***that***"},
		{"inline code", "<span>It`s like <code>that</code></span>", "It\\`s like `that`"},
		{"escaping", `<p>1 + 1 = 2!</p>`, `1 \+ 1 = 2\!`},
		{
			"paragraphs",
			"<p>I really like using Markdown.</p>\n\n<p>I think I'll use it.</p>",
			"I really like using Markdown\\.\n\nI think I'll use it\\.",
		},
		{"headings", "<h1>One</h1>\n<h2>Two</h2>\n<hr>", "# One\n\n## Two\n\n---"},
		{"rule between paragraphs", `<p>a</p><hr><p>b</p>`, "a\n\n---\n\nb"},
		{
			"unordered list",
			"<h3>Ingredients</h3><ul><li>Pizza Dough</li><li>Tomatoes</li><li><i>Basil</i></li><li><b>Salt</b></li></ul>",
			"### Ingredients\n\n- Pizza Dough\n- Tomatoes\n- *Basil*\n- **Salt**",
		},
		{
			"ordered list",
			`<ol><li>One</li><li>Two</li></ol>`,
			"1. One\n1. Two",
		},
		{
			"nested list",
			`<ul><li>One</li><li>Two<ul><li>A</li><li>B</li></ul></li></ul>`,
			"- One\n- Two\n\n    - A\n    - B",
		},
		{
			"list item with blocks",
			`<ol><li><p>First</p><p>Second</p></li></ol>`,
			"1. First\n\n   Second",
		},
		{
			"link",
			`<p>My favorite search engine is <a href="https://duckduckgo.com">Duck Duck Go</a>.</p>`,
			`My favorite search engine is [Duck Duck Go](https://duckduckgo.com)\.`,
		},
		{
			"link with title",
			`<p>Search with <a href="https://duckduckgo.com" title="Duck Duck Go">Duck Duck Go</a>.</p>`,
			`Search with [Duck Duck Go](https://duckduckgo.com "Duck Duck Go")\.`,
		},
		{
			"bold link",
			`<p>Search with <b><a href="https://duckduckgo.com">Duck Duck Go</a></b>.</p>`,
			`Search with **[Duck Duck Go](https://duckduckgo.com)**\.`,
		},
		{
			"markup inside link is dropped",
			`<p>Search with <a href="https://duckduckgo.com"><b>Duck Duck Go</b></a>.</p>`,
			`Search with [Duck Duck Go](https://duckduckgo.com)\.`,
		},
		{
			"link without href",
			`<p>My favorite search engine is <a>Duck Duck Go</a>.</p>`,
			`My favorite search engine is Duck Duck Go\.`,
		},
		{"image", `<p>Image: <img src="/path/to/img.jpg" alt="Alt text"></p>`, "Image: ![Alt text](/path/to/img.jpg)"},
		{"image with title", `<p>Image: <img src="/img.jpg" alt="Alt" title="Title"></p>`, `Image: ![Alt](/img.jpg "Title")`},
		{"image without alt", `<p>Image: <img src="/img.jpg"></p>`, "Image: ![](/img.jpg)"},
		{"image without src", `<p>Image:  <img alt="Alt text" title="Title"></p>`, "Image:"},
		{
			"pre",
			"<pre>fn main() {\n    println!(\"hi\");\n}</pre>",
			"```\nfn main() {\n    println!(\"hi\");\n}\n```",
		},
		{
			"pre with language class",
			`<pre><code class="hl language-go">x := 1</code></pre>`,
			"```go\nx := 1\n```",
		},
		{
			"pre with language attribute",
			`<div data-lang="rust extra"><pre>let x = 1;</pre></div>`,
			"```rust\nlet x = 1;\n```",
		},
		{"multiline code", "<code>line1\nline2</code>", "```\nline1\nline2\n```"},
		{"blockquote", `<blockquote><p>Quoted text</p></blockquote>`, "> Quoted text"},
		{
			"blockquote with paragraphs",
			`<blockquote><p>a<br>b</p><p>c</p></blockquote>`,
			"> a  \n> b\n> \n> c",
		},
		{"empty blockquote", `<blockquote></blockquote>`, ""},
		{
			"table",
			`<table><tr><th>Column 1</th><th>Column 2</th></tr><tr><td>R 1, <i>C 1</i></td><td>R 1, <i>C 2</i></td></tr></table>`,
			"| Column 1 | Column 2 |\n| -------- | -------- |\n| R 1, *C 1* | R 1, *C 2* |",
		},
		{
			"table without headings",
			`<table><tr><td>a</td><td>b</td></tr></table>`,
			"|   |   |\n| - | - |\n| a | b |",
		},
		{
			"uneven table is flattened",
			`<table><tr><td>a</td><td>b</td></tr><tr><td>c</td></tr></table>`,
			"ab  \nc",
		},
		{"empty table", `<table><tr></tr><tr></tr></table>`, ""},
		{
			"default skip tags",
			"<style>p {color: blue;}</style><p>I really like using <b>Markdown</b>.</p>",
			`I really like using **Markdown**\.`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serialize(fragment(t, tt.html), nil)
			if got != tt.want {
				t.Errorf("Serialize(%q)\ngot:  %q\nwant: %q", tt.html, got, tt.want)
			}
		})
	}
}

func TestSerialize_SkipTags(t *testing.T) {
	root := fragment(t, `<style>p {color: blue;}</style><div><h1>Heading</h1></div><p>Text.</p>`)

	got := Serialize(root, []string{"div"})
	want := "p \\{color: blue;\\}\n\nText\\."
	if got != want {
		t.Errorf("Serialize(skip div) = %q, want %q", got, want)
	}

	got = Serialize(root, []string{})
	want = "p \\{color: blue;\\}\n\n# Heading\n\nText\\."
	if got != want {
		t.Errorf("Serialize(skip nothing) = %q, want %q", got, want)
	}
}

func TestSerializeNode(t *testing.T) {
	root := fragment(t, `<p>x</p>`)
	p, ok := root.FirstElementChild()
	if !ok {
		t.Fatal("no paragraph")
	}
	if got, want := SerializeNode(p, nil), "\n\nx\n\n"; got != want {
		t.Errorf("SerializeNode = %q, want %q", got, want)
	}
	if got, want := Serialize(p, nil), "x"; got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}
