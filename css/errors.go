package css

import (
	"fmt"
)

// SyntaxError describes selector which could not be compiled.
type SyntaxError struct {
	Selector string
	// Offset is byte offset of the offending token in Selector.
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid selector %q at offset %d: %s", e.Selector, e.Offset, e.Msg)
}
