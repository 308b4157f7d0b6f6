package types

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotconf/confiture/tree"
)

// Path validates a string payload as a filesystem path, expanding a
// leading "~" to the user's home directory and resolving the result to
// an absolute path. Home-directory and absolute-path resolution have no
// dedicated dependency anywhere in the pack, so this stays on the
// standard library (os, path/filepath) — see DESIGN.md.
type Path struct {
	baseType
	// MustExist requires the resolved path to exist on disk.
	MustExist bool
}

func (t Path) resolve(p tree.Payload) (string, error) {
	s, err := (String{}).Validate(p)
	if err != nil {
		return "", err
	}
	raw := s.Str()
	if raw == "~" || strings.HasPrefix(raw, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not resolve home directory: %s", err)
		}
		raw = filepath.Join(home, strings.TrimPrefix(raw, "~"))
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("%q is not a valid path", raw)
	}
	if t.MustExist {
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("path %q does not exist", abs)
		}
	}
	return abs, nil
}

func (t Path) Validate(p tree.Payload) (tree.Payload, error) {
	abs, err := t.resolve(p)
	if err != nil {
		return tree.Payload{}, err
	}
	return tree.String(abs), nil
}

func (Path) Cast(raw string) (tree.Payload, error) { return tree.String(raw), nil }
