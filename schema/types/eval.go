package types

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dotconf/confiture/tree"
)

// Eval validates a string payload as an arithmetic expression, evaluates
// it against an optional variable context, and returns the resulting
// number. It is sandboxed to the base and math libraries only (io and os
// are never opened, and base's loading/printing globals are removed),
// built on gopher-lua (wired from the holomush example, replacing the
// source's ad hoc AST-walking evaluator).
type Eval struct {
	baseType
	// Vars is merged into the Lua global table before evaluation, letting
	// an expression reference sibling values (e.g. "width * height").
	Vars map[string]float64
}

func (t Eval) Validate(p tree.Payload) (tree.Payload, error) {
	s, err := (String{}).Validate(p)
	if err != nil {
		return tree.Payload{}, err
	}
	result, err := t.evaluate(s.Str())
	if err != nil {
		return tree.Payload{}, fmt.Errorf("could not evaluate expression %q: %s", s.Str(), err)
	}
	return tree.Float(result), nil
}

func (t Eval) evaluate(expr string) (float64, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, fn := range []lua.LGFunction{lua.OpenBase, lua.OpenMath} {
		L.Push(L.NewFunction(fn))
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return 0, err
		}
	}
	// OpenBase pulls in print/require/etc; strip everything but the
	// handful of pure functions an arithmetic expression could need.
	for _, name := range []string{"print", "require", "dofile", "loadfile", "load", "loadstring", "collectgarbage", "io", "os"} {
		L.SetGlobal(name, lua.LNil)
	}

	for name, val := range t.Vars {
		L.SetGlobal(name, lua.LNumber(val))
	}

	if err := L.DoString("return (" + expr + ")"); err != nil {
		return 0, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	num, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("expression did not evaluate to a number")
	}
	return float64(num), nil
}

func (Eval) Cast(raw string) (tree.Payload, error) { return tree.String(raw), nil }
