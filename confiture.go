// Package confiture is the orchestrator façade: it drives the lexer and
// parser over a string or file and, when a schema is supplied, validates
// the resulting tree, returning the final tree.Section.
package confiture

import (
	"context"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/dotconf/confiture/parser"
	"github.com/dotconf/confiture/schema"
	"github.com/dotconf/confiture/tree"
)

// config holds the resolved settings an Option mutates.
type config struct {
	inputName string
	opener    parser.Opener
	maxDepth  int
	schema    *schema.SectionSchema
	overrides schema.OverrideMap
	logger    hclog.Logger
}

// Option configures a Parse or ParseFile call.
type Option func(*config)

// WithSchema attaches a schema to validate the parsed tree against; when
// unset, Parse/ParseFile return the raw parsed tree unvalidated.
func WithSchema(s schema.SectionSchema) Option {
	return func(c *config) { c.schema = &s }
}

// WithOverrides supplies the external (e.g. CLI-flag) override map used
// during schema validation. Has no effect without WithSchema.
func WithOverrides(o schema.OverrideMap) Option {
	return func(c *config) { c.overrides = o }
}

// WithInputName sets the name attached to every Position produced while
// parsing (defaults to "<unknown>" for Parse, or the filename for
// ParseFile).
func WithInputName(name string) Option {
	return func(c *config) { c.inputName = name }
}

// WithOpener overrides the include-resolution strategy (defaults to
// parser.GlobOpener resolved against the process cwd).
func WithOpener(o parser.Opener) Option {
	return func(c *config) { c.opener = o }
}

// WithMaxDepth overrides the section/include nesting depth bound
// (defaults to parser.DefaultMaxDepth).
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithLogger attaches an hclog.Logger used for Trace/Debug entry-exit
// logging of the parse and validate phases (defaults to a discarding
// logger).
func WithLogger(l hclog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func resolve(opts []Option) *config {
	c := &config{
		maxDepth: parser.DefaultMaxDepth,
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse parses input and, if a schema was supplied via WithSchema,
// validates the result, returning the final tree.Section.
func Parse(input string, opts ...Option) (*tree.Section, error) {
	c := resolve(opts)
	if c.inputName == "" {
		c.inputName = "<unknown>"
	}
	return c.run(input)
}

// ParseFile reads filename and parses (and optionally validates) its
// contents, defaulting the input name to filename.
func ParseFile(filename string, opts ...Option) (*tree.Section, error) {
	c := resolve(opts)
	if c.inputName == "" {
		c.inputName = filename
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return c.run(string(data))
}

func (c *config) run(input string) (*tree.Section, error) {
	c.logger.Debug("parsing", "input", c.inputName)
	tr, err := parser.Parse(input, parser.Options{
		InputName: c.inputName,
		Opener:    c.opener,
		MaxDepth:  c.maxDepth,
	})
	if err != nil {
		c.logger.Trace("parse failed", "input", c.inputName, "error", err)
		return nil, err
	}
	c.logger.Debug("parsed", "input", c.inputName)

	if c.schema == nil {
		return tr, nil
	}

	c.logger.Debug("validating", "input", c.inputName)
	validated, err := c.schema.Validate(context.Background(), tr, c.overrides)
	if err != nil {
		c.logger.Trace("validation failed", "input", c.inputName, "error", err)
		return nil, err
	}
	c.logger.Debug("validated", "input", c.inputName)
	return validated, nil
}
