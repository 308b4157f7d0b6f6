package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotconf/confiture/tree"
)

func TestIntegerCoercesFloatWithoutFraction(t *testing.T) {
	i := Integer{}
	v, err := i.Validate(tree.Int(42))
	require.NoError(t, err)
	require.Equal(t, int64(42), v.Int())

	v, err = i.Validate(tree.Float(42.0))
	require.NoError(t, err)
	require.Equal(t, int64(42), v.Int())

	_, err = i.Validate(tree.Float(42.5))
	require.Error(t, err)
}

func TestIntegerBounds(t *testing.T) {
	min := int64(0)
	max := int64(10)
	i := NewInteger(&min, &max)
	_, err := i.Validate(tree.Int(-1))
	require.Error(t, err)
	_, err = i.Validate(tree.Int(11))
	require.Error(t, err)
	v, err := i.Validate(tree.Int(5))
	require.NoError(t, err)
	require.Equal(t, int64(5), v.Int())
}

func TestFloatAlwaysCoercesToFloat64(t *testing.T) {
	f := Float{}
	v, err := f.Validate(tree.Int(3))
	require.NoError(t, err)
	require.Equal(t, tree.KindFloat, v.Kind)
	require.Equal(t, 3.0, v.Float())
}

func TestBooleanRejectsNonBoolean(t *testing.T) {
	b := Boolean{}
	_, err := b.Validate(tree.String("yes"))
	require.Error(t, err)
	v, err := b.Validate(tree.Bool(true))
	require.NoError(t, err)
	require.True(t, v.Bool())
	require.True(t, b.IsFlag())
}

func TestStringRejectsNonString(t *testing.T) {
	s := String{}
	_, err := s.Validate(tree.Int(1))
	require.Error(t, err)
	v, err := s.Validate(tree.String("hi"))
	require.NoError(t, err)
	require.Equal(t, "hi", v.Str())
}

func TestRegexValidate(t *testing.T) {
	re, err := NewRegex(`^[a-z]+$`, "")
	require.NoError(t, err)
	_, err = re.Validate(tree.String("abc"))
	require.NoError(t, err)
	_, err = re.Validate(tree.String("ABC"))
	require.Error(t, err)
}

func TestNamedRegexGroups(t *testing.T) {
	nr, err := NewNamedRegex(`^(?P<host>[^:]+):(?P<port>\d+)$`, "")
	require.NoError(t, err)
	groups, err := nr.Groups(tree.String("localhost:8080"))
	require.NoError(t, err)
	require.Equal(t, "localhost", groups["host"])
	require.Equal(t, "8080", groups["port"])
}

func TestNamedRegexValidateRejectsScalarUse(t *testing.T) {
	nr, err := NewNamedRegex(`^(?P<host>[^:]+):(?P<port>\d+)$`, "")
	require.NoError(t, err)
	_, err = nr.Validate(tree.String("localhost:8080"))
	require.Error(t, err)
}

func TestRegexPatternCompiles(t *testing.T) {
	rp := RegexPattern{}
	cp, err := rp.CompiledPatternOf(tree.String(`^\d+$`))
	require.NoError(t, err)
	require.True(t, cp.Regexp.MatchString("123"))

	_, err = rp.CompiledPatternOf(tree.String(`(unterminated`))
	require.Error(t, err)
}

func TestIPAddressValidate(t *testing.T) {
	a := IPAddress{}
	v, err := a.Validate(tree.String("10.0.0.1"))
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1", v.Str())

	_, err = a.Validate(tree.String("not-an-ip"))
	require.Error(t, err)
}

func TestIPAddressVersionFilter(t *testing.T) {
	a := IPAddress{Version: IPv6}
	_, err := a.Validate(tree.String("10.0.0.1"))
	require.Error(t, err)
}

func TestIPNetworkRequiresBits(t *testing.T) {
	n := IPNetwork{}
	_, err := n.Validate(tree.String("10.0.0.0"))
	require.Error(t, err)
	v, err := n.Validate(tree.String("10.0.0.0/8"))
	require.NoError(t, err)
	require.Contains(t, v.Str(), "/8")
}

func TestIPSocketAddressDefaults(t *testing.T) {
	defaultPort := 8080
	sock := IPSocketAddress{DefaultAddr: "0.0.0.0", DefaultPort: &defaultPort}
	addr, err := sock.SocketAddressOf(tree.String(":9000"))
	require.NoError(t, err)
	require.Equal(t, 9000, addr.Port)

	addr, err = sock.SocketAddressOf(tree.String("127.0.0.1"))
	require.NoError(t, err)
	require.Equal(t, 8080, addr.Port)

	_, err = sock.SocketAddressOf(tree.String("127.0.0.1:not-a-port"))
	require.Error(t, err)
}

func TestUrlValidatesSchemeAndHost(t *testing.T) {
	u := Url{Schemes: []string{"https"}}
	_, err := u.Validate(tree.String("not a url"))
	require.Error(t, err)
	_, err = u.Validate(tree.String("http://example.com"))
	require.Error(t, err)
	v, err := u.Validate(tree.String("https://example.com/path"))
	require.NoError(t, err)
	require.Equal(t, "https://example.com/path", v.Str())
}

func TestEvalArithmetic(t *testing.T) {
	e := Eval{Vars: map[string]float64{"width": 4, "height": 5}}
	v, err := e.Validate(tree.String("width * height"))
	require.NoError(t, err)
	require.Equal(t, 20.0, v.Float())
}

func TestEvalSandboxRejectsNonArithmeticGlobals(t *testing.T) {
	e := Eval{}
	_, err := e.Validate(tree.String("os.exit(1)"))
	require.Error(t, err)
}

func TestPathExpandsTilde(t *testing.T) {
	p := Path{}
	v, err := p.Validate(tree.String("~/config.conf"))
	require.NoError(t, err)
	require.NotContains(t, v.Str(), "~")
	require.True(t, v.Str() != "")
}

func TestPathMustExist(t *testing.T) {
	p := Path{MustExist: true}
	_, err := p.Validate(tree.String("/this/path/does/not/exist/at/all"))
	require.Error(t, err)
}
