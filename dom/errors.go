package dom

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHierarchy is returned when requested attach would make a node its
	// own ancestor, give a root node a parent or add children to a node kind
	// which cannot hold them.
	ErrHierarchy = errors.New("hierarchy request error")
	// ErrDetached is returned by sibling relative operations when the anchor
	// node has no parent.
	ErrDetached = errors.New("node is not attached")
)

// CrossTreeError is returned when structural operation is given nodes which
// belong to different trees. Such nodes must be moved with Tree.Merge.
type CrossTreeError struct {
	Op string
}

func (e *CrossTreeError) Error() string {
	return fmt.Sprintf("%s: nodes belong to different trees", e.Op)
}

// ValidationError lists every structural problem found by Tree.Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tree is inconsistent: %s", strings.Join(e.Problems, "; "))
}
