package dom

//go:generate go tool go-enum --names

// Variant of a node stored in the arena.
// ENUM(document, doctype, fragment, element, text, comment, processing-instruction)
type NodeKind int

// IsRoot reports whether nodes of this kind may only exist as tree roots.
func (x NodeKind) IsRoot() bool {
	return x == NodeKindDocument || x == NodeKindFragment
}

// MayHaveChildren reports whether nodes of this kind can hold a child chain.
func (x NodeKind) MayHaveChildren() bool {
	return x == NodeKindDocument || x == NodeKindFragment || x == NodeKindElement
}
