// Package types implements the scalar type validators of SPEC_FULL.md
// §4.4: pure functions from a decoded tree.Payload to a validated
// tree.Payload (or a validation error message), plus a Cast from a raw
// command-line string for the optional external CLI-override coupling.
package types

import (
	"fmt"

	"github.com/dotconf/confiture/tree"
)

// Type is implemented by every scalar schema type.
type Type interface {
	// Validate checks and/or coerces payload, returning the validated
	// payload or an error whose message is the exact validation failure
	// text (no position — the caller attaches that).
	Validate(payload tree.Payload) (tree.Payload, error)

	// Cast converts a raw string (as a CLI flag would supply) into a
	// payload suitable for Validate. Used only for the optional external
	// CLI-override coupling described in SPEC_FULL.md §4.3: schema
	// validation calls it on each OverrideMap entry that applies.
	Cast(raw string) (tree.Payload, error)

	// IsFlag reports whether an external CLI binding should treat this
	// type as a zero-argument boolean flag (only Boolean is).
	IsFlag() bool
}

// baseType gives every Type a Cast/IsFlag default so concrete types only
// need to implement Validate (and override Cast/IsFlag when relevant).
type baseType struct{}

func (baseType) IsFlag() bool { return false }

// Number accepts any numeric payload (int or float) unchanged.
type Number struct{ baseType }

func (Number) Validate(p tree.Payload) (tree.Payload, error) {
	if !p.IsNumeric() {
		return tree.Payload{}, fmt.Errorf("%s is not a number", p.Repr())
	}
	return p, nil
}

func (Number) Cast(raw string) (tree.Payload, error) {
	var f float64
	if _, err := fmt.Sscanf(raw, "%g", &f); err != nil {
		return tree.Payload{}, err
	}
	return tree.Float(f), nil
}

// Integer accepts a numeric payload whose value has no fractional part,
// optionally bounded by Min/Max.
type Integer struct {
	baseType
	Min *int64
	Max *int64
}

func NewInteger(min, max *int64) Integer { return Integer{Min: min, Max: max} }

func (t Integer) Validate(p tree.Payload) (tree.Payload, error) {
	n := Number{}
	validated, err := n.Validate(p)
	if err != nil {
		return tree.Payload{}, err
	}
	f := validated.AsFloat64()
	asInt := int64(f)
	if float64(asInt) != f {
		return tree.Payload{}, fmt.Errorf("%s is not an integer value", p.Repr())
	}
	if t.Min != nil && asInt < *t.Min {
		return tree.Payload{}, fmt.Errorf("%d is lower than the minimum (%d)", asInt, *t.Min)
	}
	if t.Max != nil && asInt > *t.Max {
		return tree.Payload{}, fmt.Errorf("%d is greater than the maximum (%d)", asInt, *t.Max)
	}
	return tree.Int(asInt), nil
}

func (Integer) Cast(raw string) (tree.Payload, error) {
	var i int64
	if _, err := fmt.Sscanf(raw, "%d", &i); err != nil {
		return tree.Payload{}, err
	}
	return tree.Int(i), nil
}

// Float accepts any numeric payload and coerces it to a float, whatever
// integer or float form it arrived in — the intended semantics per
// SPEC_FULL.md §9 (the source's Float.validate has a known argument-order
// bug in its super() call; we implement the intended behavior directly).
type Float struct{ baseType }

func (Float) Validate(p tree.Payload) (tree.Payload, error) {
	n := Number{}
	validated, err := n.Validate(p)
	if err != nil {
		return tree.Payload{}, fmt.Errorf("not a number")
	}
	return tree.Float(validated.AsFloat64()), nil
}

func (Float) Cast(raw string) (tree.Payload, error) {
	return Number{}.Cast(raw)
}

// Boolean accepts only a boolean payload. It is reported as a CLI flag
// type (is_argparse_flag in the source).
type Boolean struct{ baseType }

func (Boolean) Validate(p tree.Payload) (tree.Payload, error) {
	if p.Kind != tree.KindBool {
		return tree.Payload{}, fmt.Errorf("%s is not a boolean value", p.Repr())
	}
	return p, nil
}

func (Boolean) Cast(raw string) (tree.Payload, error) {
	return tree.Bool(raw == "true" || raw == "yes" || raw == "1"), nil
}

func (Boolean) IsFlag() bool { return true }

// String accepts a string payload unchanged (encoding transforms, where
// the source supports them, are not meaningful for Go's native UTF-8
// strings and are therefore omitted).
type String struct{ baseType }

func (String) Validate(p tree.Payload) (tree.Payload, error) {
	if p.Kind != tree.KindString {
		return tree.Payload{}, fmt.Errorf("%s is not a string", p.Repr())
	}
	return p, nil
}

func (String) Cast(raw string) (tree.Payload, error) {
	return tree.String(raw), nil
}
