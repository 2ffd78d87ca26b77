package dom

import (
	"slices"

	"go.uber.org/zap"
)

// Structural operations on ids. Every attach first detaches incoming node(s)
// from their previous position, so a node can never end up with two parents.
// Operations which would break tree invariants (cycles, roots with parents,
// children under leaf kinds) are refused and leave the tree untouched. Node
// view counterparts report such refusals as errors.

func (t *Tree) refused(op string, err error, ids ...NodeID) {
	if err == nil {
		return
	}
	t.log.Debug("Structural operation refused", zap.String("op", op), zap.Ints("ids", idsToInts(ids)), zap.Error(err))
}

func idsToInts(ids []NodeID) []int {
	res := make([]int, len(ids))
	for i, id := range ids {
		res[i] = int(id)
	}
	return res
}

func (t *Tree) checkAttach(parent NodeID, ids ...NodeID) error {
	if !t.nodes[parent].kind.MayHaveChildren() {
		return ErrHierarchy
	}
	for _, id := range ids {
		if t.nodes[id].kind.IsRoot() {
			return ErrHierarchy
		}
		if id == parent || t.IsAncestor(id, parent) {
			return ErrHierarchy
		}
	}
	return nil
}

// run returns node followed by all of its next siblings.
func (t *Tree) run(first NodeID) []NodeID {
	var ids []NodeID
	for c := first; c != None; c = t.nodes[c].next {
		ids = append(ids, c)
	}
	return ids
}

func (t *Tree) detach(id NodeID) {
	n := &t.nodes[id]
	if n.parent == None {
		return
	}
	p := &t.nodes[n.parent]
	if n.prev != None {
		t.nodes[n.prev].next = n.next
	} else {
		p.first = n.next
	}
	if n.next != None {
		t.nodes[n.next].prev = n.prev
	} else {
		p.last = n.prev
	}
	n.parent, n.prev, n.next = None, None, None
}

func (t *Tree) linkLast(parent, child NodeID) {
	p, c := &t.nodes[parent], &t.nodes[child]
	c.parent, c.prev, c.next = parent, p.last, None
	if p.last != None {
		t.nodes[p.last].next = child
	} else {
		p.first = child
	}
	p.last = child
}

func (t *Tree) linkFirst(parent, child NodeID) {
	p, c := &t.nodes[parent], &t.nodes[child]
	c.parent, c.prev, c.next = parent, None, p.first
	if p.first != None {
		t.nodes[p.first].prev = child
	} else {
		p.last = child
	}
	p.first = child
}

func (t *Tree) linkBefore(anchor, id NodeID) {
	a, n := &t.nodes[anchor], &t.nodes[id]
	n.parent, n.prev, n.next = a.parent, a.prev, anchor
	if a.prev != None {
		t.nodes[a.prev].next = id
	} else {
		t.nodes[a.parent].first = id
	}
	a.prev = id
}

func (t *Tree) linkAfter(anchor, id NodeID) {
	a, n := &t.nodes[anchor], &t.nodes[id]
	n.parent, n.prev, n.next = a.parent, anchor, a.next
	if a.next != None {
		t.nodes[a.next].prev = id
	} else {
		t.nodes[a.parent].last = id
	}
	a.next = id
}

func (t *Tree) appendChildren(parent NodeID, ids []NodeID) error {
	if err := t.checkAttach(parent, ids...); err != nil {
		return err
	}
	for _, id := range ids {
		t.detach(id)
		t.linkLast(parent, id)
	}
	return nil
}

func (t *Tree) prependChildren(parent NodeID, ids []NodeID) error {
	if err := t.checkAttach(parent, ids...); err != nil {
		return err
	}
	for _, id := range slices.Backward(ids) {
		t.detach(id)
		t.linkFirst(parent, id)
	}
	return nil
}

func (t *Tree) insertBefore(anchor NodeID, ids []NodeID) error {
	parent := t.nodes[anchor].parent
	if parent == None {
		return ErrDetached
	}
	if slices.Contains(ids, anchor) {
		return ErrHierarchy
	}
	if err := t.checkAttach(parent, ids...); err != nil {
		return err
	}
	for _, id := range ids {
		t.detach(id)
		t.linkBefore(anchor, id)
	}
	return nil
}

func (t *Tree) insertAfter(anchor NodeID, ids []NodeID) error {
	parent := t.nodes[anchor].parent
	if parent == None {
		return ErrDetached
	}
	if slices.Contains(ids, anchor) {
		return ErrHierarchy
	}
	if err := t.checkAttach(parent, ids...); err != nil {
		return err
	}
	prev := anchor
	for _, id := range ids {
		t.detach(id)
		t.linkAfter(prev, id)
		prev = id
	}
	return nil
}

func (t *Tree) replace(old NodeID, ids []NodeID) error {
	if len(ids) == 1 && ids[0] == old {
		return nil
	}
	if err := t.insertBefore(old, ids); err != nil {
		return err
	}
	t.detach(old)
	return nil
}

func (t *Tree) wrap(id, wrapper NodeID) error {
	if t.nodes[id].parent == None {
		return ErrDetached
	}
	if t.nodes[wrapper].kind != NodeKindElement || wrapper == id || t.IsAncestor(id, wrapper) {
		return ErrHierarchy
	}
	if err := t.insertBefore(id, []NodeID{wrapper}); err != nil {
		return err
	}
	t.detach(id)
	t.linkLast(wrapper, id)
	return nil
}

func (t *Tree) unwrap(id NodeID) error {
	if t.nodes[id].parent == None {
		return ErrDetached
	}
	if first := t.nodes[id].first; first != None {
		if err := t.insertBefore(id, t.run(first)); err != nil {
			return err
		}
	}
	t.detach(id)
	return nil
}

// Detach removes node from its parent. Children stay attached to the node so
// detaching subtree root removes the whole subtree from the document.
func (t *Tree) Detach(id NodeID) {
	t.detach(id)
}

// RemoveChildren detaches all children of the node.
func (t *Tree) RemoveChildren(id NodeID) {
	for c := t.nodes[id].first; c != None; c = t.nodes[id].first {
		t.detach(c)
	}
}

// AppendChild moves child to the end of parent children list.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.refused("append child", t.appendChildren(parent, []NodeID{child}), parent, child)
}

// PrependChild moves child to the start of parent children list.
func (t *Tree) PrependChild(parent, child NodeID) {
	t.refused("prepend child", t.prependChildren(parent, []NodeID{child}), parent, child)
}

// AppendChildren moves first and all of its following siblings to the end
// of parent children list preserving their order.
func (t *Tree) AppendChildren(parent, first NodeID) {
	t.refused("append children", t.appendChildren(parent, t.run(first)), parent, first)
}

// PrependChildren moves first and all of its following siblings to the
// start of parent children list preserving their order.
func (t *Tree) PrependChildren(parent, first NodeID) {
	t.refused("prepend children", t.prependChildren(parent, t.run(first)), parent, first)
}

// InsertBefore moves id to become previous sibling of anchor.
func (t *Tree) InsertBefore(anchor, id NodeID) {
	if anchor == id {
		return
	}
	t.refused("insert before", t.insertBefore(anchor, []NodeID{id}), anchor, id)
}

// InsertAfter moves id to become next sibling of anchor.
func (t *Tree) InsertAfter(anchor, id NodeID) {
	if anchor == id {
		return
	}
	t.refused("insert after", t.insertAfter(anchor, []NodeID{id}), anchor, id)
}

// InsertSiblingsBefore moves first and its following siblings in front of
// anchor.
func (t *Tree) InsertSiblingsBefore(anchor, first NodeID) {
	t.refused("insert siblings before", t.insertBefore(anchor, t.run(first)), anchor, first)
}

// InsertSiblingsAfter moves first and its following siblings right after
// anchor.
func (t *Tree) InsertSiblingsAfter(anchor, first NodeID) {
	t.refused("insert siblings after", t.insertAfter(anchor, t.run(first)), anchor, first)
}

// Replace puts id at the position of old and detaches old.
func (t *Tree) Replace(old, id NodeID) {
	t.refused("replace", t.replace(old, []NodeID{id}), old, id)
}

// ReplaceWithRun puts first and its following siblings at the position of
// old and detaches old.
func (t *Tree) ReplaceWithRun(old, first NodeID) {
	t.refused("replace with run", t.replace(old, t.run(first)), old, first)
}

// Wrap inserts wrapper at the position of id and moves id inside wrapper as
// its last child.
func (t *Tree) Wrap(id, wrapper NodeID) {
	t.refused("wrap", t.wrap(id, wrapper), id, wrapper)
}

// Unwrap replaces node with its children.
func (t *Tree) Unwrap(id NodeID) {
	t.refused("unwrap", t.unwrap(id), id)
}

// ReparentChildren moves all children of from to the end of to.
func (t *Tree) ReparentChildren(from, to NodeID) {
	if first := t.nodes[from].first; first != None {
		t.refused("reparent children", t.appendChildren(to, t.run(first)), from, to)
	}
}
