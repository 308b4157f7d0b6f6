package lexer

import (
	"strconv"
	"strings"

	"github.com/dotconf/confiture/tree"
)

// IllegalCharacterError is returned when a byte at the current position
// matches none of the lexer's rules.
type IllegalCharacterError struct {
	Char   byte
	Line   int
	Column int
}

func (e *IllegalCharacterError) Error() string {
	return "Illegal character '" + string(e.Char) + "'"
}

// Lexer produces a lazy token sequence from input text.
type Lexer struct {
	input string
	pos   int
	line  int
}

// New builds a Lexer over input. Line numbering starts at 1.
func New(input string) *Lexer {
	return &Lexer{input: input, pos: 0, line: 1}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.input) }

func (l *Lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.input) {
		return 0
	}
	return l.input[l.pos+off]
}

// column computes the 1-based column of a byte offset: offset minus the
// position of the last preceding newline, or offset plus one if there is
// none (see SPEC_FULL.md §4.1).
func (l *Lexer) column(offset int) int {
	lastNL := strings.LastIndexByte(l.input[:offset], '\n')
	if lastNL < 0 {
		lastNL = -1
	}
	return offset - lastNL
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameCont(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Next scans and returns the next token, or an *IllegalCharacterError if
// the current position matches no rule. Returns a Kind == EOF token when
// input is exhausted.
func (l *Lexer) Next() (Token, error) {
	for {
		if l.eof() {
			return Token{Kind: EOF, Line: l.line, Column: l.column(l.pos)}, nil
		}
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
			continue
		case c == '\n':
			for !l.eof() && l.peek() == '\n' {
				l.pos++
				l.line++
			}
			continue
		case c == '#':
			for !l.eof() && l.peek() != '\n' {
				l.pos++
			}
			continue
		}
		break
	}

	start := l.pos
	line := l.line
	column := l.column(start)
	c := l.peek()

	switch {
	case c == '{':
		l.pos++
		return Token{Kind: LBRACE, Literal: "{", Line: line, Column: column}, nil
	case c == '}':
		l.pos++
		return Token{Kind: RBRACE, Literal: "}", Line: line, Column: column}, nil
	case c == '=':
		l.pos++
		return Token{Kind: ASSIGN, Literal: "=", Line: line, Column: column}, nil
	case c == ',':
		l.pos++
		return Token{Kind: LIST_SEP, Literal: ",", Line: line, Column: column}, nil
	case c == '"' || c == '\'':
		return l.scanText(line, column)
	case isNameStart(c):
		return l.scanName(line, column)
	case isDigit(c) || ((c == '+' || c == '-') && isDigit(l.peekAt(1))):
		return l.scanNumber(line, column)
	default:
		l.pos++
		return Token{}, &IllegalCharacterError{Char: c, Line: line, Column: column}
	}
}

func (l *Lexer) scanName(line, column int) (Token, error) {
	start := l.pos
	l.pos++
	for !l.eof() && isNameCont(l.peek()) {
		l.pos++
	}
	word := l.input[start:l.pos]
	kind, reservedWord := reserved[word]
	if !reservedWord {
		return Token{Kind: NAME, Literal: word, Line: line, Column: column}, nil
	}
	tok := Token{Kind: kind, Literal: word, Line: line, Column: column}
	switch kind {
	case YES:
		tok.Payload = tree.Bool(true)
	case NO:
		tok.Payload = tree.Bool(false)
	case UNIT:
		tok.Payload = tree.Float(units[word])
	}
	return tok, nil
}

// scanText consumes a single- or double-quoted string. The enclosing
// quote determines the only escape recognized: \" inside a double-quoted
// string, \' inside a single-quoted one. Embedded newlines advance the
// line counter.
func (l *Lexer) scanText(line, column int) (Token, error) {
	quote := l.peek()
	startLine := line
	l.pos++ // consume opening quote
	var sb strings.Builder
	for {
		if l.eof() {
			return Token{}, &IllegalCharacterError{Char: quote, Line: startLine, Column: column}
		}
		c := l.peek()
		if c == '\\' && l.peekAt(1) == quote {
			sb.WriteByte(quote)
			l.pos += 2
			continue
		}
		if c == quote {
			l.pos++
			break
		}
		if c == '\n' {
			l.line++
		}
		sb.WriteByte(c)
		l.pos++
	}
	return Token{Kind: TEXT, Literal: sb.String(), Payload: tree.String(sb.String()), Line: startLine, Column: column}, nil
}

func (l *Lexer) scanNumber(line, column int) (Token, error) {
	start := l.pos
	if l.peek() == '+' || l.peek() == '-' {
		l.pos++
	}
	for !l.eof() && isDigit(l.peek()) {
		l.pos++
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.pos++
		for !l.eof() && isDigit(l.peek()) {
			l.pos++
		}
	}
	literal := l.input[start:l.pos]
	if isFloat {
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return Token{}, &IllegalCharacterError{Char: literal[0], Line: line, Column: column}
		}
		return Token{Kind: NUMBER, Literal: literal, Payload: tree.Float(f), Line: line, Column: column}, nil
	}
	i, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return Token{}, &IllegalCharacterError{Char: literal[0], Line: line, Column: column}
	}
	return Token{Kind: NUMBER, Literal: literal, Payload: tree.Int(i), Line: line, Column: column}, nil
}
