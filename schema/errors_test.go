package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotconf/confiture/tree"
)

func TestValidationErrorMessageIsExactText(t *testing.T) {
	pos := tree.NewPosition("f", 1, 1)
	err := newValidationError(&pos, "section %s, unknown key %s", "s", "extra")
	require.Equal(t, "section s, unknown key extra", err.Error())
}

func TestValidationErrorUnwrapsToEnrichedCause(t *testing.T) {
	err := newValidationError(nil, "this value is required")
	require.Error(t, errors.Unwrap(err))
}

func TestWrapErrorPreservesInnermostPosition(t *testing.T) {
	pos := tree.NewPosition("f", 4, 2)
	inner := newValidationError(&pos, "this value is required")
	outer := wrapError(inner, "section s, key n, %s", inner.Error())
	require.Equal(t, &pos, outer.Pos)
	require.Equal(t, "section s, key n, this value is required", outer.Error())
}
