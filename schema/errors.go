package schema

import (
	"errors"
	"fmt"

	"github.com/samber/oops"

	"github.com/dotconf/confiture/tree"
)

// ValidationError is raised for every schema-validation failure: a
// required value missing, a type mismatch, a list where a scalar was
// expected, a choice mismatch, an array size mismatch, a section taking
// args it shouldn't, a repeat-count violation, a non-unique section, or an
// unknown key. Error() renders exactly the message text SPEC_FULL.md's
// testable properties specify; Unwrap exposes an oops-enriched form
// (structured code/context) for callers that want to log it richly
// without that structure leaking into the wire-format message.
type ValidationError struct {
	Msg   string
	Pos   *tree.Position
	cause error
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return e.cause }

func newValidationError(pos *tree.Position, format string, args ...any) *ValidationError {
	msg := fmt.Sprintf(format, args...)
	builder := oops.Code("schema_validation").With("message", msg)
	if pos != nil {
		builder = builder.With("position", pos.String())
	}
	return &ValidationError{Msg: msg, Pos: pos, cause: builder.Errorf("%s", msg)}
}

// wrapError builds a new ValidationError whose message is
// fmt.Sprintf(format, args...), while preserving the innermost Position
// carried by err (per SPEC_FULL.md §7: wrapping adds context but never
// relocates the position of the original failure).
func wrapError(err error, format string, args ...any) *ValidationError {
	msg := fmt.Sprintf(format, args...)
	var pos *tree.Position
	var ve *ValidationError
	if errors.As(err, &ve) {
		pos = ve.Pos
	}
	return &ValidationError{Msg: msg, Pos: pos, cause: oops.Wrapf(err, "%s", msg)}
}
