package parser

import (
	"fmt"

	"github.com/dotconf/confiture/tree"
)

// ParsingError is raised for illegal characters, unexpected tokens,
// unexpected end of input, the newline-missing guard, and include file
// read failures. Position is nil for "unexpected end of file" and for
// include errors (bad pattern, unreadable file, include nesting too deep).
type ParsingError struct {
	Msg string
	Pos *tree.Position
}

func (e *ParsingError) Error() string { return e.Msg }

func newParsingError(pos tree.Position, format string, args ...any) *ParsingError {
	return &ParsingError{Msg: fmt.Sprintf(format, args...), Pos: &pos}
}

func newParsingErrorNoPos(format string, args ...any) *ParsingError {
	return &ParsingError{Msg: fmt.Sprintf(format, args...)}
}
