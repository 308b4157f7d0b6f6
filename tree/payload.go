package tree

import (
	"strconv"
	"strings"
)

// PayloadKind identifies which variant of the Payload sum type is active.
type PayloadKind int

const (
	KindString PayloadKind = iota
	KindInt
	KindFloat
	KindBool
	KindList
)

// Payload is the tagged sum type a Value's right-hand side can hold:
// string, integer, float, boolean, or a list of any of those (lists never
// nest further — the grammar only produces flat lists).
type Payload struct {
	Kind PayloadKind

	str   string
	i     int64
	f     float64
	b     bool
	items []Payload
}

func String(s string) Payload  { return Payload{Kind: KindString, str: s} }
func Int(i int64) Payload      { return Payload{Kind: KindInt, i: i} }
func Float(f float64) Payload  { return Payload{Kind: KindFloat, f: f} }
func Bool(b bool) Payload      { return Payload{Kind: KindBool, b: b} }
func List(items []Payload) Payload {
	return Payload{Kind: KindList, items: items}
}

func (p Payload) IsList() bool { return p.Kind == KindList }

func (p Payload) Str() string { return p.str }
func (p Payload) Int() int64  { return p.i }
func (p Payload) Float() float64 { return p.f }
func (p Payload) Bool() bool  { return p.b }
func (p Payload) Items() []Payload { return p.items }

// Raw converts the Payload to a native Go value, used by Section.Map for
// the to_dict contract: string, int64, float64, bool or []any.
func (p Payload) Raw() any {
	switch p.Kind {
	case KindString:
		return p.str
	case KindInt:
		return p.i
	case KindFloat:
		return p.f
	case KindBool:
		return p.b
	case KindList:
		out := make([]any, len(p.items))
		for i, it := range p.items {
			out[i] = it.Raw()
		}
		return out
	default:
		return nil
	}
}

// IsNumeric reports whether the payload is an Int or a Float — the Go
// analogue of Python's numbers.Number check used by the Number type.
func (p Payload) IsNumeric() bool {
	return p.Kind == KindInt || p.Kind == KindFloat
}

// AsFloat64 returns the numeric value as a float64. Only valid when
// IsNumeric() is true.
func (p Payload) AsFloat64() float64 {
	if p.Kind == KindInt {
		return float64(p.i)
	}
	return p.f
}

// Repr renders a Python-repr-like representation of the payload, used to
// build validation error messages such as "'[1,2,3] is a list'".
func (p Payload) Repr() string {
	switch p.Kind {
	case KindString:
		return strconv.Quote(p.str)
	case KindInt:
		return strconv.FormatInt(p.i, 10)
	case KindFloat:
		return strconv.FormatFloat(p.f, 'g', -1, 64)
	case KindBool:
		if p.b {
			return "True"
		}
		return "False"
	case KindList:
		parts := make([]string, len(p.items))
		for i, it := range p.items {
			parts[i] = it.Repr()
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return "<invalid>"
	}
}
