package dom

import (
	"errors"
	"math/rand/v2"
	"testing"

	"go.uber.org/zap/zaptest"
)

func mustValid(t *testing.T, tree *Tree) {
	t.Helper()
	for id := range NodeID(tree.Len()) {
		if tree.Parent(id) != None {
			continue
		}
		if err := tree.Validate(id); err != nil {
			t.Fatalf("Validate(%d): %v\n%s", id, err, tree.Dump(id))
		}
	}
}

func childIDs(tree *Tree, id NodeID) []NodeID {
	var res []NodeID
	for c := range tree.Children(id) {
		res = append(res, c)
	}
	return res
}

func equalIDs(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAppendChild_DetachesFromOldParent(t *testing.T) {
	tree := NewDocument(zaptest.NewLogger(t))
	root := tree.RootID()
	a := tree.NewElement("a").ID()
	b := tree.NewElement("b").ID()
	x := tree.NewText("x").ID()
	tree.AppendChild(root, a)
	tree.AppendChild(root, b)
	tree.AppendChild(a, x)

	tree.AppendChild(b, x)

	if got := childIDs(tree, a); len(got) != 0 {
		t.Errorf("old parent children = %v, want none", got)
	}
	if got := childIDs(tree, b); !equalIDs(got, []NodeID{x}) {
		t.Errorf("new parent children = %v, want [%d]", got, x)
	}
	if tree.Parent(x) != b {
		t.Errorf("Parent(x) = %d, want %d", tree.Parent(x), b)
	}
	mustValid(t, tree)
}

func TestAppendChild_SameParentMovesToEnd(t *testing.T) {
	tree := NewFragment(zaptest.NewLogger(t))
	root := tree.RootID()
	a := tree.NewElement("a").ID()
	b := tree.NewElement("b").ID()
	c := tree.NewElement("c").ID()
	tree.AppendChild(root, a)
	tree.AppendChild(root, b)
	tree.AppendChild(root, c)

	tree.AppendChild(root, a)
	if got := childIDs(tree, root); !equalIDs(got, []NodeID{b, c, a}) {
		t.Errorf("children = %v, want [%d %d %d]", got, b, c, a)
	}
	tree.PrependChild(root, a)
	if got := childIDs(tree, root); !equalIDs(got, []NodeID{a, b, c}) {
		t.Errorf("children = %v, want [%d %d %d]", got, a, b, c)
	}
	mustValid(t, tree)
}

func TestInsertSiblings(t *testing.T) {
	tree := NewFragment(zaptest.NewLogger(t))
	root := tree.RootID()
	anchor := tree.NewElement("anchor").ID()
	tree.AppendChild(root, anchor)

	holder := tree.NewElement("div").ID()
	x := tree.NewText("x").ID()
	y := tree.NewText("y").ID()
	z := tree.NewText("z").ID()
	tree.AppendChild(holder, x)
	tree.AppendChild(holder, y)
	tree.AppendChild(holder, z)

	// y and its following siblings only
	tree.InsertSiblingsBefore(anchor, y)
	if got := childIDs(tree, root); !equalIDs(got, []NodeID{y, z, anchor}) {
		t.Errorf("children = %v, want [%d %d %d]", got, y, z, anchor)
	}
	if got := childIDs(tree, holder); !equalIDs(got, []NodeID{x}) {
		t.Errorf("holder children = %v, want [%d]", got, x)
	}

	tree.InsertSiblingsAfter(anchor, x)
	if got := childIDs(tree, root); !equalIDs(got, []NodeID{y, z, anchor, x}) {
		t.Errorf("children = %v, want [%d %d %d %d]", got, y, z, anchor, x)
	}
	mustValid(t, tree)
}

func TestRefusedOperationsLeaveTreeUntouched(t *testing.T) {
	tree := NewDocument(zaptest.NewLogger(t))
	root := tree.RootID()
	outer := tree.NewElement("div").ID()
	inner := tree.NewElement("span").ID()
	text := tree.NewText("leaf").ID()
	tree.AppendChild(root, outer)
	tree.AppendChild(outer, inner)
	tree.AppendChild(inner, text)

	before := tree.HTML(root)

	tree.AppendChild(inner, outer)                 // cycle
	tree.AppendChild(outer, outer)                 // self
	tree.AppendChild(text, tree.NewText("x").ID()) // leaf parent
	tree.AppendChild(outer, root)                  // root as child
	tree.InsertBefore(root, inner)                 // anchor without parent
	tree.Unwrap(root)
	tree.Wrap(inner, outer) // wrapper is ancestor

	if got := tree.HTML(root); got != before {
		t.Errorf("HTML after refused operations = %q, want %q", got, before)
	}
	mustValid(t, tree)
}

func TestNodeErrors(t *testing.T) {
	tree, err := ParseString("<div><span>x</span></div>", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	div := tree.Root().FindPath("div")[0]
	span := div.FindPath("span")[0]

	if err := span.AppendChild(div); !errors.Is(err, ErrHierarchy) {
		t.Errorf("AppendChild(ancestor) error = %v, want ErrHierarchy", err)
	}
	if err := tree.Root().InsertBefore(span); !errors.Is(err, ErrDetached) {
		t.Errorf("InsertBefore on root error = %v, want ErrDetached", err)
	}

	other := NewFragment(nil)
	foreign := other.NewElement("p")
	err = div.AppendChild(foreign)
	var cross *CrossTreeError
	if !errors.As(err, &cross) {
		t.Fatalf("AppendChild(foreign) error = %v, want CrossTreeError", err)
	}
	if cross.Op != "append child" {
		t.Errorf("CrossTreeError.Op = %q, want %q", cross.Op, "append child")
	}
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	tree, err := ParseString("<div><span>x</span>tail</div>", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	div := tree.Root().FindPath("div")[0]
	span := div.FindPath("span")[0]
	original := div.HTML()

	em := tree.NewElement("em")
	if err := span.Wrap(em); err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if got, want := div.HTML(), "<div><em><span>x</span></em>tail</div>"; got != want {
		t.Errorf("after Wrap HTML = %q, want %q", got, want)
	}
	if err := em.Unwrap(); err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if got := div.HTML(); got != original {
		t.Errorf("after Unwrap HTML = %q, want %q", got, original)
	}
	if p, ok := em.Parent(); ok {
		t.Errorf("unwrapped element still has parent %d", p.ID())
	}
	mustValid(t, tree)
}

func TestReplace(t *testing.T) {
	tree, err := ParseString("<p>a<b>b</b>c</p>", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	p := tree.Root().FindPath("p")[0]
	b := p.FindPath("b")[0]

	i := tree.NewElement("i")
	i.SetText("new")
	if err := b.ReplaceWith(i); err != nil {
		t.Fatalf("ReplaceWith: %v", err)
	}
	if got, want := p.HTML(), "<p>a<i>new</i>c</p>"; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	if _, ok := b.Parent(); ok {
		t.Error("replaced node still attached")
	}
	if err := i.ReplaceWith(i); err != nil {
		t.Errorf("ReplaceWith(self) error = %v", err)
	}
	mustValid(t, tree)
}

func TestRandomMutationsKeepTreeConsistent(t *testing.T) {
	for seed := range uint64(50) {
		randomMutations(t, seed, 300)
	}
}

func randomMutations(t *testing.T, seed uint64, steps int) {
	t.Helper()

	log := zaptest.NewLogger(t)
	tree := NewDocument(log)
	ids := []NodeID{tree.RootID()}
	for i := range 40 {
		var n Node
		if i%4 == 3 {
			n = tree.NewText("t")
		} else {
			n = tree.NewElement([]string{"e", "s"}[i%2])
		}
		ids = append(ids, n.ID())
	}

	other := NewFragment(log)
	ob := other.NewElement("s")
	other.AppendChild(other.RootID(), ob.ID())
	other.AppendChild(ob.ID(), other.NewText("o").ID())

	rnd := rand.New(rand.NewPCG(seed, 11))
	pick := func() NodeID { return ids[rnd.IntN(len(ids))] }
	grow := func(id NodeID) {
		if id != None {
			ids = append(ids, id)
		}
	}

	for step := range steps {
		a, b := pick(), pick()
		op := rnd.IntN(17)
		switch op {
		case 0:
			tree.AppendChild(a, b)
		case 1:
			tree.PrependChild(a, b)
		case 2:
			tree.InsertBefore(a, b)
		case 3:
			tree.InsertAfter(a, b)
		case 4:
			tree.Replace(a, b)
		case 5:
			tree.Wrap(a, b)
		case 6:
			tree.Unwrap(a)
		case 7:
			tree.Detach(a)
		case 8:
			tree.InsertSiblingsAfter(a, b)
		case 9:
			tree.AppendChildren(a, b)
		case 10:
			if tree.Len() < 2000 {
				grow(tree.Clone(a))
			}
		case 11:
			tree.PrependChildren(a, b)
		case 12:
			tree.InsertSiblingsBefore(a, b)
		case 13:
			tree.ReplaceWithRun(a, b)
		case 14:
			tree.ReparentChildren(a, b)
		case 15:
			if rnd.IntN(2) == 0 {
				tree.Normalize(a)
			} else {
				tree.StripElements(a, "s")
			}
		case 16:
			if tree.Len() < 2000 {
				src := other.RootID()
				if rnd.IntN(2) == 0 {
					src = ob.ID()
				}
				grow(tree.Merge(other, src))
			}
		}
		for id := range NodeID(tree.Len()) {
			if tree.Parent(id) != None {
				continue
			}
			if err := tree.Validate(id); err != nil {
				t.Fatalf("seed %d step %d op %d: Validate(%d): %v\n%s", seed, step, op, id, err, tree.Dump(id))
			}
		}
	}
}

func TestCompareFollowsLinksNotIDs(t *testing.T) {
	tree := parse(t, "<ul><li>n</li><li>z</li></ul>")
	ul := first(t, tree.Root(), "ul")
	if err := ul.PrependHTML("<li>a</li>"); err != nil {
		t.Fatalf("PrependHTML: %v", err)
	}
	items := ul.Children()
	if len(items) != 3 {
		t.Fatalf("ul has %d children, want 3", len(items))
	}
	if items[0].ID() < items[1].ID() {
		t.Fatalf("prepended node got lower id %d than %d", items[0].ID(), items[1].ID())
	}

	tests := []struct {
		name string
		a, b NodeID
		want int
	}{
		{"same", items[0].ID(), items[0].ID(), 0},
		{"siblings", items[0].ID(), items[1].ID(), -1},
		{"siblings reversed", items[2].ID(), items[0].ID(), 1},
		{"ancestor first", ul.ID(), items[0].ID(), -1},
		{"descendant of earlier sibling", tree.FirstChild(items[0].ID()), items[1].ID(), -1},
		{"root first", tree.RootID(), tree.FirstChild(items[2].ID()), -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tree.Compare(tc.a, tc.b); got != tc.want {
				t.Errorf("Compare(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}

	ids := []NodeID{items[2].ID(), items[0].ID(), items[1].ID(), items[0].ID()}
	if got, want := tree.SortDocumentOrder(ids), []NodeID{items[0].ID(), items[1].ID(), items[2].ID()}; !equalIDs(got, want) {
		t.Errorf("SortDocumentOrder = %v, want %v", got, want)
	}

	// detached subtrees order after the tree they were created in
	loose := tree.NewElement("p")
	if got := tree.Compare(loose.ID(), items[0].ID()); got != 1 {
		t.Errorf("Compare(detached, attached) = %d, want 1", got)
	}
}
