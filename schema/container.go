// Package schema implements the declarative validator of SPEC_FULL.md
// §4.3: containers describing the expected shape of a parsed tree.Section,
// each exposing Validate(input) -> output | error, rebuilding a new,
// validated tree as a side-effect-free transformation of the parsed one.
package schema

import (
	"fmt"

	"github.com/dotconf/confiture/schema/types"
	"github.com/dotconf/confiture/tree"
)

// Container is implemented by every schema node that validates a single
// tree.Value slot: Value, Choice, List, Array and TypedArray. Section is
// validated separately (ValidateSection) since it operates on a whole
// tree.Section rather than one raw value.
type Container interface {
	// validateValue validates the raw value registered under name in S (or
	// its absence), returning the new *tree.Value to register in the
	// output, or an error with no position attached (the caller, which
	// knows the field name and S, attaches position and "key <name>"
	// framing).
	validateValue(name string, raw *tree.Value, pos tree.Position) (*tree.Value, error)
}

// required is the sentinel default signaling "no default; this value must
// be present in the input", spec.md §4.3's `default=required`.
var required = &struct{}{}

// Required is exported so schema authors outside this package can write
// `Value{Type: ..., Default: schema.Required}` for the "value is
// mandatory" case, which is also the zero-value behavior when Default is
// left nil.
var Required = required

func isRequired(def any) bool {
	return def == nil || def == required
}

// unwrapSingleton implements the "accepts a single scalar" absence/list
// rule shared by Value and Choice: a one-element list payload unwraps to
// its element; a multi-element list fails.
func unwrapSingleton(p tree.Payload) (tree.Payload, error) {
	if !p.IsList() {
		return p, nil
	}
	items := p.Items()
	if len(items) == 1 {
		return items[0], nil
	}
	return tree.Payload{}, fmt.Errorf("%s is a list", p.Repr())
}

// Value accepts a single scalar of the declared Type.
type Value struct {
	Type    types.Type
	Default any
}

func (v Value) cast(raw string) (tree.Payload, error) { return v.Type.Cast(raw) }

func (v Value) validateValue(_ string, raw *tree.Value, _ tree.Position) (*tree.Value, error) {
	if raw == nil {
		if isRequired(v.Default) {
			return nil, fmt.Errorf("this value is required")
		}
		payload, err := defaultPayload(v.Default)
		if err != nil {
			return nil, err
		}
		return tree.NewValue("", payload, tree.ZeroPosition), nil
	}
	scalar, err := unwrapSingleton(raw.Payload)
	if err != nil {
		return nil, err
	}
	validated, err := v.Type.Validate(scalar)
	if err != nil {
		return nil, err
	}
	return tree.NewValue("", validated, raw.Pos), nil
}

// defaultPayload turns a schema-authored Go default value into a
// tree.Payload, so Default can be written as a plain Go literal (7,
// "x", true, 3.5; list containers take a []any of those, see defaultList)
// rather than requiring callers to build tree.Payload values by hand.
func defaultPayload(def any) (tree.Payload, error) {
	switch v := def.(type) {
	case tree.Payload:
		return v, nil
	case string:
		return tree.String(v), nil
	case int:
		return tree.Int(int64(v)), nil
	case int64:
		return tree.Int(v), nil
	case float64:
		return tree.Float(v), nil
	case bool:
		return tree.Bool(v), nil
	default:
		return tree.Payload{}, fmt.Errorf("unsupported default value %#v", def)
	}
}

// Choice accepts a single scalar that must equal one of Choices' keys;
// the output payload is the mapped value.
type Choice struct {
	Choices map[string]any
	Default any
}

func (c Choice) validateValue(_ string, raw *tree.Value, _ tree.Position) (*tree.Value, error) {
	if raw == nil {
		if isRequired(c.Default) {
			return nil, fmt.Errorf("this value is required")
		}
		payload, err := defaultPayload(c.Default)
		if err != nil {
			return nil, err
		}
		return tree.NewValue("", payload, tree.ZeroPosition), nil
	}
	scalar, err := unwrapSingleton(raw.Payload)
	if err != nil {
		return nil, err
	}
	if scalar.Kind != tree.KindString {
		return nil, c.badChoice()
	}
	mapped, ok := c.Choices[scalar.Str()]
	if !ok {
		return nil, c.badChoice()
	}
	payload, err := defaultPayload(mapped)
	if err != nil {
		return nil, err
	}
	return tree.NewValue("", payload, raw.Pos), nil
}

func (c Choice) cast(raw string) (tree.Payload, error) { return tree.String(raw), nil }

func (c Choice) badChoice() error {
	keys := make([]string, 0, len(c.Choices))
	for k := range c.Choices {
		keys = append(keys, k)
	}
	return fmt.Errorf("bad choice (must be one of %v)", keys)
}

// List accepts zero or more scalars of the declared Type. A non-list
// input is coerced to a one-element list before validation.
type List struct {
	Type    types.Type
	Default any
}

func (l List) cast(raw string) (tree.Payload, error) { return l.Type.Cast(raw) }

func (l List) validateValue(_ string, raw *tree.Value, _ tree.Position) (*tree.Value, error) {
	if raw == nil {
		if isRequired(l.Default) {
			return nil, fmt.Errorf("this value is required")
		}
		items, err := defaultList(l.Default)
		if err != nil {
			return nil, err
		}
		return tree.NewValue("", tree.List(items), tree.ZeroPosition), nil
	}
	items := asItems(raw.Payload)
	validated, err := validateItems(items, l.Type)
	if err != nil {
		return nil, err
	}
	return tree.NewValue("", tree.List(validated), raw.Pos), nil
}

func asItems(p tree.Payload) []tree.Payload {
	if p.IsList() {
		return p.Items()
	}
	return []tree.Payload{p}
}

func validateItems(items []tree.Payload, t types.Type) ([]tree.Payload, error) {
	out := make([]tree.Payload, len(items))
	for i, item := range items {
		validated, err := t.Validate(item)
		if err != nil {
			return nil, fmt.Errorf("item #%d, %s", i, err)
		}
		out[i] = validated
	}
	return out, nil
}

func defaultList(def any) ([]tree.Payload, error) {
	if def == nil {
		return nil, nil
	}
	raws, ok := def.([]any)
	if !ok {
		return nil, fmt.Errorf("unsupported list default value %#v", def)
	}
	out := make([]tree.Payload, len(raws))
	for i, r := range raws {
		p, err := defaultPayload(r)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// Array is a List that requires exactly Size elements.
type Array struct {
	Size    int
	Type    types.Type
	Default any
}

func (a Array) cast(raw string) (tree.Payload, error) { return a.Type.Cast(raw) }

func (a Array) validateValue(name string, raw *tree.Value, pos tree.Position) (*tree.Value, error) {
	if raw == nil {
		if isRequired(a.Default) {
			return nil, fmt.Errorf("this value is required")
		}
		items, err := defaultList(a.Default)
		if err != nil {
			return nil, err
		}
		return tree.NewValue("", tree.List(items), tree.ZeroPosition), nil
	}
	items := asItems(raw.Payload)
	if len(items) != a.Size {
		return nil, fmt.Errorf("bad array size (should be %d, found %d items)", a.Size, len(items))
	}
	validated, err := validateItems(items, a.Type)
	if err != nil {
		return nil, err
	}
	return tree.NewValue("", tree.List(validated), raw.Pos), nil
}

// TypedArray is an Array where each position has its own Type.
type TypedArray struct {
	Types   []types.Type
	Default any
}

func (t TypedArray) cast(raw string) (tree.Payload, error) {
	if len(t.Types) == 0 {
		return tree.String(raw), nil
	}
	return t.Types[0].Cast(raw)
}

func (t TypedArray) validateValue(name string, raw *tree.Value, pos tree.Position) (*tree.Value, error) {
	if raw == nil {
		if isRequired(t.Default) {
			return nil, fmt.Errorf("this value is required")
		}
		items, err := defaultList(t.Default)
		if err != nil {
			return nil, err
		}
		return tree.NewValue("", tree.List(items), tree.ZeroPosition), nil
	}
	items := asItems(raw.Payload)
	if len(items) != len(t.Types) {
		return nil, fmt.Errorf("bad array size (should be %d, found %d items)", len(t.Types), len(items))
	}
	out := make([]tree.Payload, len(items))
	for i, item := range items {
		validated, err := t.Types[i].Validate(item)
		if err != nil {
			return nil, fmt.Errorf("item #%d, %s", i, err)
		}
		out[i] = validated
	}
	return tree.NewValue("", tree.List(out), raw.Pos), nil
}
