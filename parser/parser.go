// Package parser implements the recursive-descent grammar from
// SPEC_FULL.md §4.2: it turns a lexer.Lexer token stream into a
// tree.Section, resolving include directives inline and enforcing the
// newline-missing guard and a configurable recursion depth limit.
package parser

import (
	"github.com/dotconf/confiture/lexer"
	"github.com/dotconf/confiture/tree"
)

// DefaultMaxDepth bounds section/include nesting, per SPEC_FULL.md §5.
const DefaultMaxDepth = 64

// Options configures a Parser.
type Options struct {
	// InputName is attached to every Position produced while parsing this
	// input (and defaults to "<unknown>").
	InputName string
	// Opener resolves `include "pattern"` directives. Defaults to
	// GlobOpener(MaxDepth).
	Opener Opener
	// MaxDepth bounds section/include nesting depth. Defaults to
	// DefaultMaxDepth.
	MaxDepth int
}

// Parser turns confiture source text into a tree.Section.
type Parser struct {
	lex       *lexer.Lexer
	inputName string
	opener    Opener
	maxDepth  int
	depth     int

	cur lexer.Token
}

// New builds a Parser over input with the given options.
func New(input string, opts Options) *Parser {
	if opts.InputName == "" {
		opts.InputName = "<unknown>"
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	p := &Parser{
		lex:       lexer.New(input),
		inputName: opts.InputName,
		opener:    opts.Opener,
		maxDepth:  opts.MaxDepth,
	}
	if p.opener == nil {
		p.opener = GlobOpener(p.maxDepth)
	}
	return p
}

func (p *Parser) pos(tok lexer.Token) tree.Position {
	return tree.NewPosition(p.inputName, tok.Line, tok.Column)
}

// advance fetches the next token into p.cur, translating lexer errors into
// ParsingErrors.
func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		if ice, ok := err.(*lexer.IllegalCharacterError); ok {
			return newParsingError(tree.NewPosition(p.inputName, ice.Line, ice.Column),
				"Illegal character %s", quoteChar(ice.Char))
		}
		return err
	}
	p.cur = tok
	return nil
}

func quoteChar(c byte) string {
	return "'" + string(c) + "'"
}

// pendingChild pairs a parsed child with whether it arrived via include
// flattening, so registration can apply the right collision policy
// (RegisterFromInclude's last-wins vs Register's strict error).
type pendingChild struct {
	child       tree.Child
	fromInclude bool
}

func registerAll(section *tree.Section, children []pendingChild, wrap func(error, tree.Child) error) error {
	for _, pc := range children {
		if sub, ok := pc.child.(*tree.Section); ok {
			sub.SetParent(section)
		}
		var err error
		if pc.fromInclude {
			err = section.RegisterFromInclude(pc.child)
		} else {
			err = section.Register(pc.child)
		}
		if err != nil {
			return wrap(err, pc.child)
		}
	}
	return nil
}

// Parse runs the grammar's start production (top) and returns the
// resulting root section, named tree.TopName.
func (p *Parser) Parse() (*tree.Section, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	top := tree.NewTop()
	children, err := p.parseSectionContent()
	if err != nil {
		return nil, err
	}
	if err := registerAll(top, children, p.wrapRegisterErr); err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.EOF {
		return nil, p.unexpectedToken()
	}
	return top, nil
}

func (p *Parser) wrapRegisterErr(err error, child tree.Child) error {
	return newParsingError(child.Position(), "%s", err.Error())
}

func (p *Parser) unexpectedToken() *ParsingError {
	return newParsingError(p.pos(p.cur), `Syntax error near of "%s"`, p.cur.Literal)
}

func (p *Parser) unexpectedEOF() *ParsingError {
	return newParsingErrorNoPos("Unexpected end of file")
}

// parseSectionContent parses `section_content` : a sequence of
// assignments, sections and includes, stopping at RBRACE or EOF.
func (p *Parser) parseSectionContent() ([]pendingChild, error) {
	var children []pendingChild
	for {
		switch p.cur.Kind {
		case lexer.RBRACE, lexer.EOF:
			return children, nil
		case lexer.INCLUDE:
			included, err := p.parseInclude()
			if err != nil {
				return nil, err
			}
			for _, c := range included {
				children = append(children, pendingChild{child: c, fromInclude: true})
			}
		case lexer.NAME:
			child, err := p.parseAssignmentOrSection()
			if err != nil {
				return nil, err
			}
			if err := p.checkNewline(child); err != nil {
				return nil, err
			}
			children = append(children, pendingChild{child: child})
		default:
			if p.cur.Kind == lexer.EOF {
				return nil, p.unexpectedEOF()
			}
			return nil, p.unexpectedToken()
		}
	}
}

// checkNewline implements the newline-missing guard: a statement (NAME)
// that follows justParsed on the line where justParsed starts indicates a
// missing newline between statements, so "a = 1 b = 2" fails near "b".
func (p *Parser) checkNewline(justParsed tree.Child) error {
	if p.cur.Kind == lexer.NAME && p.cur.Line == justParsed.Position().Line() {
		return newParsingError(p.pos(p.cur), `Syntax error near of "%s", newline missing?`, p.cur.Literal)
	}
	return nil
}

func (p *Parser) parseInclude() ([]tree.Child, error) {
	if err := p.advance(); err != nil { // consume INCLUDE
		return nil, err
	}
	if p.cur.Kind != lexer.TEXT {
		return nil, p.unexpectedToken()
	}
	pattern := p.cur.Literal
	if err := p.advance(); err != nil { // consume TEXT
		return nil, err
	}
	if p.depth+1 > p.maxDepth {
		return nil, newParsingErrorNoPos("include nesting exceeds maximum depth (%d)", p.maxDepth)
	}
	p.depth++
	externals, err := p.opener(pattern)
	p.depth--
	if err != nil {
		return nil, err
	}
	var flattened []tree.Child
	for _, external := range externals {
		flattened = append(flattened, external.ExpandedChildren()...)
	}
	return flattened, nil
}

func (p *Parser) parseAssignmentOrSection() (tree.Child, error) {
	name := p.cur.Literal
	namePos := p.pos(p.cur)
	if err := p.advance(); err != nil { // consume NAME
		return nil, err
	}
	switch p.cur.Kind {
	case lexer.ASSIGN:
		return p.parseAssignment(name)
	case lexer.LBRACE:
		return p.parseSection(name, namePos, nil)
	default:
		args, err := p.parseSectionArgs()
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != lexer.LBRACE {
			return nil, p.unexpectedToken()
		}
		return p.parseSection(name, namePos, args)
	}
}

func (p *Parser) parseAssignment(name string) (*tree.Value, error) {
	if err := p.advance(); err != nil { // consume ASSIGN
		return nil, err
	}
	payload, pos, err := p.parseValueOrList()
	if err != nil {
		return nil, err
	}
	return tree.NewValue(name, payload, pos), nil
}

// parseValueOrList parses `value | list` and returns the decoded payload
// plus the position of its first token.
func (p *Parser) parseValueOrList() (tree.Payload, tree.Position, error) {
	first, firstPos, err := p.parseScalarValue()
	if err != nil {
		return tree.Payload{}, tree.Position{}, err
	}
	if p.cur.Kind != lexer.LIST_SEP {
		return first, firstPos, nil
	}
	items := []tree.Payload{first}
	for p.cur.Kind == lexer.LIST_SEP {
		if err := p.advance(); err != nil { // consume ','
			return tree.Payload{}, tree.Position{}, err
		}
		if !isScalarStart(p.cur.Kind) {
			break // trailing comma
		}
		item, _, err := p.parseScalarValue()
		if err != nil {
			return tree.Payload{}, tree.Position{}, err
		}
		items = append(items, item)
	}
	return tree.List(items), firstPos, nil
}

func isScalarStart(k lexer.Kind) bool {
	switch k {
	case lexer.TEXT, lexer.YES, lexer.NO, lexer.NUMBER:
		return true
	default:
		return false
	}
}

// parseScalarValue parses `value : TEXT | YES | NO | number`.
func (p *Parser) parseScalarValue() (tree.Payload, tree.Position, error) {
	pos := p.pos(p.cur)
	switch p.cur.Kind {
	case lexer.TEXT, lexer.YES, lexer.NO:
		payload := p.cur.Payload
		if err := p.advance(); err != nil {
			return tree.Payload{}, tree.Position{}, err
		}
		return payload, pos, nil
	case lexer.NUMBER:
		return p.parseNumber()
	default:
		return tree.Payload{}, tree.Position{}, p.unexpectedToken()
	}
}

// parseNumber parses `number : NUMBER | NUMBER UNIT`.
func (p *Parser) parseNumber() (tree.Payload, tree.Position, error) {
	pos := p.pos(p.cur)
	numberTok := p.cur
	if err := p.advance(); err != nil { // consume NUMBER
		return tree.Payload{}, tree.Position{}, err
	}
	if p.cur.Kind != lexer.UNIT {
		return numberTok.Payload, pos, nil
	}
	unitWord := p.cur.Literal
	unitFloat := p.cur.Payload.Float()
	if err := p.advance(); err != nil { // consume UNIT
		return tree.Payload{}, tree.Position{}, err
	}
	if numberTok.Payload.Kind == tree.KindInt {
		if intMul, ok := lexer.UnitIntMultiplier(unitWord); ok {
			return tree.Int(numberTok.Payload.Int() * intMul), pos, nil
		}
	}
	return tree.Float(numberTok.Payload.AsFloat64() * unitFloat), pos, nil
}

func (p *Parser) parseSectionArgs() (*tree.Value, error) {
	var items []tree.Payload
	var firstPos tree.Position
	for i := 0; ; i++ {
		val, pos, err := p.parseScalarValue()
		if err != nil {
			return nil, err
		}
		if i == 0 {
			firstPos = pos
		}
		items = append(items, val)
		if p.cur.Kind != lexer.LIST_SEP {
			break
		}
		if err := p.advance(); err != nil { // consume ','
			return nil, err
		}
		if !isScalarStart(p.cur.Kind) {
			break
		}
	}
	return tree.NewValue("<args>", tree.List(items), firstPos), nil
}

func (p *Parser) parseSection(name string, namePos tree.Position, args *tree.Value) (*tree.Section, error) {
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}
	if p.depth+1 > p.maxDepth {
		return nil, newParsingError(namePos, "section nesting exceeds maximum depth (%d)", p.maxDepth)
	}
	p.depth++
	section := tree.NewSection(name, namePos)
	section.Args = args
	children, err := p.parseSectionContent()
	p.depth--
	if err != nil {
		return nil, err
	}
	if err := registerAll(section, children, p.wrapRegisterErr); err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.RBRACE {
		if p.cur.Kind == lexer.EOF {
			return nil, p.unexpectedEOF()
		}
		return nil, p.unexpectedToken()
	}
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}
	return section, nil
}

// Parse is a convenience function: parse input with default options.
func Parse(input string, opts Options) (*tree.Section, error) {
	return New(input, opts).Parse()
}
