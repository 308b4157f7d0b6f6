package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotconf/confiture/tree"
)

// Repeat bounds how many times a named subsection may appear within its
// parent. Max == nil means unbounded.
type Repeat struct {
	Min int
	Max *int
}

func intPtr(n int) *int { return &n }

// Once requires exactly one occurrence — the default when Meta.Repeat is
// left unset.
var Once = Repeat{Min: 1, Max: intPtr(1)}

// Many requires at least one occurrence, with no upper bound.
var Many = Repeat{Min: 1, Max: nil}

func (r Repeat) orDefault() Repeat {
	if r == (Repeat{}) {
		return Once
	}
	return r
}

// Meta holds a Section schema's cardinality/uniqueness/unknown-key policy.
type Meta struct {
	// Args validates the section's own arguments; nil means the section
	// must appear with no arguments at all.
	Args Container
	// Unique requires the tuple of args to be distinct across sibling
	// occurrences of this section name.
	Unique bool
	// Repeat bounds occurrence count; the zero value means Once.
	Repeat Repeat
	// AllowUnknown passes undeclared children through into the validated
	// output instead of failing.
	AllowUnknown bool
}

// Field is one named member of a SectionSchema: either a value-shaped
// Container (Value, Choice, List, Array, TypedArray) or a nested
// SectionSchema describing a subsection.
type Field struct {
	Name      string
	Container Container
	Section   *SectionSchema
}

// SectionSchema is the central composite schema container: a meta policy
// plus an ordered list of declared fields.
type SectionSchema struct {
	Meta   Meta
	Fields []Field
}

// Derive composes a child schema from parent: the child's own Meta fully
// replaces parent's (the "parent first, child overrides" merge resolves,
// for this struct-of-options meta, to "the child's explicit Meta wins in
// full" rather than a field-by-field merge, since Go zero values can't
// distinguish "inherit" from "explicitly false") and the child's
// overrides shadow parent fields by name, with new fields appended.
func Derive(parent SectionSchema, childMeta Meta, overrides ...Field) SectionSchema {
	fields := make([]Field, len(parent.Fields))
	copy(fields, parent.Fields)
	for _, ov := range overrides {
		replaced := false
		for i, f := range fields {
			if f.Name == ov.Name {
				fields[i] = ov
				replaced = true
				break
			}
		}
		if !replaced {
			fields = append(fields, ov)
		}
	}
	return SectionSchema{Meta: childMeta, Fields: fields}
}

// OverrideMap supplies external (e.g. CLI-flag) overrides for leaf
// fields, keyed by the dotted path of field names from the root (e.g.
// "server.port"). It is the sole coupling point a CLI-binding layer
// needs; the core library never populates or reads one on its own.
type OverrideMap map[string]string

func (o OverrideMap) lookup(path []string) (string, bool) {
	if o == nil {
		return "", false
	}
	v, ok := o[strings.Join(path, ".")]
	return v, ok
}

// Validate runs the Section validation algorithm of SPEC_FULL.md §4.3
// against S, producing a new tree.Section or the first *ValidationError
// encountered (validation is fail-fast). ctx allows a caller to cancel a
// very large validation; it is otherwise unused since validation is a
// synchronous, deterministic, CPU-bound transform.
func (s SectionSchema) Validate(ctx context.Context, S *tree.Section, overrides OverrideMap) (*tree.Section, error) {
	return s.validate(ctx, S, overrides, nil)
}

func (s SectionSchema) validate(ctx context.Context, S *tree.Section, overrides OverrideMap, path []string) (*tree.Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := tree.NewSection(S.Name, S.Pos)
	out.SetParent(S.Parent())

	if s.Meta.Args == nil {
		if S.Args != nil {
			return nil, newValidationError(&S.Pos, "this section does not take any argument")
		}
	} else {
		var raw *tree.Value
		if S.Args != nil {
			raw = S.Args
		}
		validated, err := s.Meta.Args.validateValue("<args>", raw, S.Pos)
		if err != nil {
			pos := &S.Pos
			if raw != nil {
				pos = &raw.Pos
			}
			return nil, newValidationError(pos, "%s", err.Error())
		}
		validated.Name = "<args>"
		out.Args = validated
	}

	declared := make(map[string]bool, len(s.Fields))

	for _, field := range s.Fields {
		declared[field.Name] = true
		fieldPath := append(append([]string(nil), path...), field.Name)

		if field.Section != nil {
			if err := validateSubsections(ctx, field, S, out, overrides, fieldPath); err != nil {
				return nil, err
			}
			continue
		}

		raw, hasRaw := S.Get(field.Name)
		var rawValue *tree.Value
		if hasRaw {
			rawValue = raw
		}
		if override, ok := overrides.lookup(fieldPath); ok {
			casted, err := castOverride(field.Container, override)
			if err != nil {
				return nil, wrapFieldError(S, field.Name, &S.Pos, err)
			}
			rawValue = tree.NewValue(field.Name, casted, tree.ZeroPosition)
		}
		validated, err := field.Container.validateValue(field.Name, rawValue, S.Pos)
		if err != nil {
			pos := &S.Pos
			if rawValue != nil {
				pos = &rawValue.Pos
			}
			return nil, wrapFieldError(S, field.Name, pos, err)
		}
		validated.Name = field.Name
		if err := out.Register(validated); err != nil {
			return nil, newValidationError(&S.Pos, "%s", err.Error())
		}
	}

	for _, child := range S.ExpandedChildren() {
		name := child.ChildName()
		if declared[name] {
			continue
		}
		if s.Meta.AllowUnknown {
			if sub, ok := child.(*tree.Section); ok {
				cp := *sub
				cp.SetParent(out)
				child = &cp
			}
			if err := out.Register(child); err != nil {
				return nil, newValidationError(&S.Pos, "%s", err.Error())
			}
			continue
		}
		return nil, newValidationError(&S.Pos, "section %s, unknown key %s", S.Name, name)
	}

	return out, nil
}

func castOverride(c Container, raw string) (tree.Payload, error) {
	type caster interface {
		cast(string) (tree.Payload, error)
	}
	if cc, ok := c.(caster); ok {
		return cc.cast(raw)
	}
	return tree.String(raw), nil
}

func wrapFieldError(S *tree.Section, name string, pos *tree.Position, inner error) *ValidationError {
	return newValidationError(pos, "section %s, key %s, %s", S.Name, name, inner.Error())
}

func validateSubsections(ctx context.Context, field Field, S, out *tree.Section, overrides OverrideMap, fieldPath []string) error {
	name := field.Name
	subSchema := *field.Section
	repeat := subSchema.Meta.Repeat.orDefault()

	subs := S.Subsections(name)
	count := len(subs)
	if repeat.Max != nil && repeat.Min > *repeat.Max {
		return newValidationError(&S.Pos, "rmin > rmax")
	}
	if count < repeat.Min || (repeat.Max != nil && count > *repeat.Max) {
		return newValidationError(&S.Pos, "section %s must appear %s", name, repeatDescription(repeat))
	}

	var seen map[string]tree.Position
	if subSchema.Meta.Unique {
		seen = make(map[string]tree.Position)
	}

	for _, sub := range subs {
		if subSchema.Meta.Unique {
			key := argsKey(sub.Args)
			if _, ok := seen[key]; ok {
				return newValidationError(&sub.Pos, "section must be unique")
			}
			seen[key] = sub.Pos
		}
		validated, err := subSchema.validate(ctx, sub, overrides, fieldPath)
		if err != nil {
			return err
		}
		validated.SetParent(out)
		if err := out.Register(validated); err != nil {
			return newValidationError(&sub.Pos, "%s", err.Error())
		}
	}
	return nil
}

func repeatDescription(r Repeat) string {
	if r.Max == nil {
		return fmt.Sprintf("at least %d time(s)", r.Min)
	}
	if r.Min == *r.Max {
		return fmt.Sprintf("exactly %d time(s)", r.Min)
	}
	return fmt.Sprintf("between %d and %d times", r.Min, *r.Max)
}

// argsKey renders a section's args as a comparable string: no args (nil)
// maps to the same key for every argless occurrence, matching spec.md
// §4.3's "both compare equal as None".
func argsKey(args *tree.Value) string {
	if args == nil {
		return "\x00none"
	}
	return args.Payload.Repr()
}
