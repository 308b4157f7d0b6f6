// Package lexer tokenizes confiture source text. It is modeled on the
// teacher's ordered-rule-table lexer (grammar.liftLexer, a
// participle/v2/lexer.MustSimple rule list) but hand-executed: unit and
// reserved-word reclassification, quote-specific string escaping, and
// column-via-lookback computation are stateful behaviors a static
// struct-tag grammar cannot express.
package lexer

import "github.com/dotconf/confiture/tree"

// Kind identifies a token's grammatical class.
type Kind int

const (
	EOF Kind = iota
	LBRACE
	RBRACE
	ASSIGN
	LIST_SEP
	NAME
	TEXT
	NUMBER
	YES
	NO
	INCLUDE
	UNIT
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case LBRACE:
		return "{"
	case RBRACE:
		return "}"
	case ASSIGN:
		return "="
	case LIST_SEP:
		return ","
	case NAME:
		return "NAME"
	case TEXT:
		return "TEXT"
	case NUMBER:
		return "NUMBER"
	case YES:
		return "yes"
	case NO:
		return "no"
	case INCLUDE:
		return "include"
	case UNIT:
		return "UNIT"
	default:
		return "?"
	}
}

// Token is one lexical unit. Literal is the raw source text (used in error
// messages); Payload is populated for TEXT, NUMBER, YES, NO and UNIT, whose
// decoded value the grammar consumes directly.
type Token struct {
	Kind    Kind
	Literal string
	Payload tree.Payload
	Line    int
	Column  int
}

func (t Token) Pos(inputName string) tree.Position {
	return tree.NewPosition(inputName, t.Line, t.Column)
}
