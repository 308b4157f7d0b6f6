package tree

// Value is a leaf of the configuration tree: a name, a payload, and the
// source position of the right-hand side that produced it.
type Value struct {
	Name    string
	Payload Payload
	Pos     Position
}

// NewValue builds a Value. Use ZeroPosition for synthesized (default)
// values.
func NewValue(name string, payload Payload, pos Position) *Value {
	return &Value{Name: name, Payload: payload, Pos: pos}
}
