package query

import (
	"errors"

	"domq/css"
	"domq/mini"
)

// SelectorSyntaxError is returned when selector text cannot be compiled by
// any of the requested strategies. It wraps css.SyntaxError or
// mini.SyntaxError.
type SelectorSyntaxError struct {
	Selector string
	Offset   int
	err      error
}

func (e *SelectorSyntaxError) Error() string {
	return e.err.Error()
}

func (e *SelectorSyntaxError) Unwrap() error {
	return e.err
}

func wrapSyntaxError(err error) error {
	if err == nil {
		return nil
	}
	var ce *css.SyntaxError
	if errors.As(err, &ce) {
		return &SelectorSyntaxError{Selector: ce.Selector, Offset: ce.Offset, err: err}
	}
	var me *mini.SyntaxError
	if errors.As(err, &me) {
		return &SelectorSyntaxError{Selector: me.Selector, Offset: me.Offset, err: err}
	}
	return err
}
