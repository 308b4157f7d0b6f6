// Package tree defines the three entity kinds that make up a parsed or
// validated configuration: Position, Value and Section.
package tree

import (
	"fmt"

	participleLexer "github.com/alecthomas/participle/v2/lexer"
)

// Position locates a token in source. It wraps participle's lexer.Position
// (the same type every node in a participle grammar embeds as Pos) rather
// than redefining file/line/column bookkeeping from scratch.
type Position struct {
	inner participleLexer.Position
}

// ZeroPosition is the sentinel position for synthesized nodes: defaulted
// values, the top-level section (which keeps it after parsing), etc.
var ZeroPosition = NewPosition("<unknown>", 0, 0)

// NewPosition builds a Position from a file name, 1-based line and column.
func NewPosition(file string, line, column int) Position {
	return Position{inner: participleLexer.Position{
		Filename: file,
		Line:     line,
		Column:   column,
	}}
}

// File is the source file name, or "<unknown>" for synthesized positions.
func (p Position) File() string { return p.inner.Filename }

// Line is the 1-based source line, or 0 for synthesized positions.
func (p Position) Line() int { return p.inner.Line }

// Column is the 1-based source column, or 0 for synthesized positions.
func (p Position) Column() int { return p.inner.Column }

// IsZero reports whether this is the synthesized sentinel position.
func (p Position) IsZero() bool {
	return p.inner.Filename == "<unknown>" && p.inner.Line == 0 && p.inner.Column == 0
}

// String renders the position the way the toolkit reports it in error
// messages: "in <file>, line <L>, position <C>".
func (p Position) String() string {
	return fmt.Sprintf("in %s, line %d, position %d", p.inner.Filename, p.inner.Line, p.inner.Column)
}
