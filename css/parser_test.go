package css

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestCompile_Structure(t *testing.T) {
	list, err := NewParser(zaptest.NewLogger(t)).Compile(`div.a.b#main > p[data-x="1" i] + span ~ em, li:nth-child(2n+1 of .x)`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(list.Selectors) != 2 {
		t.Fatalf("got %d selectors, want 2", len(list.Selectors))
	}

	first := list.Selectors[0]
	if len(first.Compounds) != 4 {
		t.Fatalf("got %d compounds, want 4", len(first.Compounds))
	}
	div := first.Compounds[0]
	if div.Tag != "div" || len(div.Classes) != 2 || len(div.IDs) != 1 || div.IDs[0] != "main" || div.Next != Child {
		t.Errorf("unexpected first compound %+v", div)
	}
	p := first.Compounds[1]
	if len(p.Attrs) != 1 || p.Attrs[0] != (AttrSelector{Name: "data-x", Op: AttrEquals, Value: "1", Fold: true}) || p.Next != NextSibling {
		t.Errorf("unexpected second compound %+v", p)
	}
	if first.Compounds[2].Next != SubsequentSibling {
		t.Errorf("third combinator = %v, want ~", first.Compounds[2].Next)
	}
	if got := first.String(); got != `div.a.b#main > p[data-x="1" i] + span ~ em` {
		t.Errorf("source = %q", got)
	}

	li := list.Selectors[1].Compounds[0]
	if len(li.Pseudo) != 1 || li.Pseudo[0].nth != (nth{2, 1}) || li.Pseudo[0].List == nil {
		t.Errorf("unexpected nth-child compound %+v", li)
	}
}

func TestCompile_Valid(t *testing.T) {
	tests := []string{
		"*",
		"a",
		"  a  ",
		"a b",
		"a>b",
		"a /* comment */ b",
		"#id",
		".c1.c2",
		"[href]",
		"[href^='http']",
		"[ lang |= en ]",
		`[title~="x"]`,
		"[a$=b s]",
		"[a*=b]",
		`.\31 23`,
		"p:first-child:last-child",
		"li:nth-child(odd)",
		"li:nth-last-child(-n+3)",
		"li:nth-of-type(3)",
		"p:not(.a, .b)",
		"p:is(.a) :where(b)",
		"div:has(> p, + span, ~ em, a)",
		`p:contains("x y")`,
		"p:has-text(word)",
		"p:lang(en, 'de')",
		"a:hover, input:disabled",
		"p:only-text",
		":root",
		"a:any-link",
		"p:matches(.a)",
	}
	for _, src := range tests {
		if _, err := Compile(src); err != nil {
			t.Errorf("Compile(%q): %v", src, err)
		}
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		src    string
		offset int
	}{
		{"", 0},
		{"a,", 2},
		{",a", 0},
		{"a >", 3},
		{"> a", 0},
		{"p::before", 1},
		{"p:before", 1},
		{"p:unknown", 2},
		{"p:not()", 6},
		{"p:nth-child(x)", 12},
		{"p:nth-of-type(1 of p)", 16},
		{"[", 1},
		{"[a=]", 3},
		{"[a=b x]", 5},
		{"[a=b", 4},
		{"svg|circle", 3},
		{"a || b", 2},
		{"p:not(a", 2},
		{"p.", 2},
		{"a:nth-child", 2},
		{"a{}", 1},
	}
	for _, tt := range tests {
		_, err := Compile(tt.src)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Compile(%q) error = %v, want SyntaxError", tt.src, err)
			continue
		}
		if se.Selector != tt.src {
			t.Errorf("Compile(%q) error selector = %q", tt.src, se.Selector)
		}
		if se.Offset != tt.offset {
			t.Errorf("Compile(%q) error offset = %d, want %d (%v)", tt.src, se.Offset, tt.offset, se)
		}
	}
}

func TestParseNth(t *testing.T) {
	tests := []struct {
		src  string
		want nth
		err  bool
	}{
		{"odd", nth{2, 1}, false},
		{"EVEN", nth{2, 0}, false},
		{"3", nth{0, 3}, false},
		{"-1", nth{0, -1}, false},
		{"n", nth{1, 0}, false},
		{"+n", nth{1, 0}, false},
		{"-n+3", nth{-1, 3}, false},
		{"2n+1", nth{2, 1}, false},
		{"2n-1", nth{2, -1}, false},
		{"10n", nth{10, 0}, false},
		{"", nth{}, true},
		{"n3", nth{}, true},
		{"xn", nth{}, true},
		{"2n+x", nth{}, true},
	}
	for _, tt := range tests {
		got, err := parseNth(tt.src)
		if (err != nil) != tt.err {
			t.Errorf("parseNth(%q) error = %v, want error %v", tt.src, err, tt.err)
			continue
		}
		if !tt.err && got != tt.want {
			t.Errorf("parseNth(%q) = %+v, want %+v", tt.src, got, tt.want)
		}
	}
}

func TestNthMatches(t *testing.T) {
	tests := []struct {
		n    nth
		want []int
	}{
		{nth{2, 1}, []int{1, 3, 5, 7}},
		{nth{2, 0}, []int{2, 4, 6, 8}},
		{nth{0, 3}, []int{3}},
		{nth{-1, 3}, []int{1, 2, 3}},
		{nth{3, -1}, []int{2, 5, 8}},
	}
	for _, tt := range tests {
		var got []int
		for pos := 1; pos <= 8; pos++ {
			if tt.n.matches(pos) {
				got = append(got, pos)
			}
		}
		if len(got) != len(tt.want) {
			t.Errorf("%+v matched %v, want %v", tt.n, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%+v matched %v, want %v", tt.n, got, tt.want)
				break
			}
		}
	}
}

func TestSpecificity(t *testing.T) {
	tests := []struct {
		src  string
		want Specificity
	}{
		{"*", Specificity{0, 0, 0}},
		{"li", Specificity{0, 0, 1}},
		{"ul li", Specificity{0, 0, 2}},
		{"ul ol+li", Specificity{0, 0, 3}},
		{"h1 + *[rel=up]", Specificity{0, 1, 1}},
		{"ul ol li.red", Specificity{0, 1, 3}},
		{"li.red.level", Specificity{0, 2, 1}},
		{"#x34y", Specificity{1, 0, 0}},
		{"#s12:not(FOO)", Specificity{1, 0, 1}},
		{":is(#a, .b) p", Specificity{1, 0, 1}},
		{":where(#a) p", Specificity{0, 0, 1}},
		{"li:nth-child(2 of .x)", Specificity{0, 2, 1}},
		{"a:hover", Specificity{0, 1, 1}},
		{"a, #b", Specificity{1, 0, 0}},
	}
	for _, tt := range tests {
		list, err := Compile(tt.src)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tt.src, err)
		}
		if got := list.Specificity(); got != tt.want {
			t.Errorf("Specificity(%q) = %+v, want %+v", tt.src, got, tt.want)
		}
	}
	if !(Specificity{0, 1, 0}).Less(Specificity{1, 0, 0}) || (Specificity{0, 2, 0}).Less(Specificity{0, 1, 9}) {
		t.Error("Specificity ordering mismatch")
	}
}

func TestIsSimple(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"div > p.a[href] span#x", true},
		{"a, b", true},
		{"a + b", false},
		{"a ~ b", false},
		{"a:first-child", false},
	}
	for _, tt := range tests {
		if got := MustCompile(tt.src).IsSimple(); got != tt.want {
			t.Errorf("IsSimple(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestUnescape(t *testing.T) {
	tests := map[string]string{
		`plain`:     "plain",
		`\31 23`:    "123",
		`a\.b`:      "a.b",
		`\000041`:   "A",
		`\0`:        "�",
		`\D800 x`:   "�x",
		"line\\\nx": "linex",
	}
	for in, want := range tests {
		if got := unescape(in); got != want {
			t.Errorf("unescape(%q) = %q, want %q", in, got, want)
		}
	}
}
