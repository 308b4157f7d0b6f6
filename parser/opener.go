package parser

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"github.com/dotconf/confiture/tree"
)

// Opener resolves an include pattern to the parsed top sections of every
// file it matches. The default, GlobOpener, resolves patterns relative to
// the process working directory.
type Opener func(pattern string) ([]*tree.Section, error)

// GlobOpener is the default external opener: it walks the process cwd,
// matches each candidate path against pattern using gobwas/glob (chosen
// over a hand-rolled matcher — see DESIGN.md), reads every match, and
// parses it with a fresh Parser sharing this same opener so nested
// includes keep working. Include nesting across files is bounded by
// maxDepth.
func GlobOpener(maxDepth int) Opener {
	var open Opener
	depth := 0
	open = func(pattern string) ([]*tree.Section, error) {
		if maxDepth > 0 && depth >= maxDepth {
			return nil, newParsingErrorNoPos("include nesting exceeds maximum depth (%d)", maxDepth)
		}
		depth++
		defer func() { depth-- }()
		matches, err := globMatches(pattern)
		if err != nil {
			return nil, err
		}
		out := make([]*tree.Section, 0, len(matches))
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, newParsingErrorNoPos("Unable to open %s (%s)", path, err)
			}
			p := New(string(data), Options{
				InputName: path,
				Opener:    open,
				MaxDepth:  maxDepth,
			})
			section, err := p.Parse()
			if err != nil {
				return nil, err
			}
			out = append(out, section)
		}
		return out, nil
	}
	return open
}

// globMatches enumerates the process working directory and returns every
// path matching pattern, in a deterministic (lexicographic) order.
func globMatches(pattern string) ([]string, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, newParsingErrorNoPos("bad include pattern %q (%s)", pattern, err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, newParsingErrorNoPos("unable to resolve working directory (%s)", err)
	}
	var matches []string
	walkErr := filepath.WalkDir(cwd, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(cwd, path)
		if relErr != nil {
			return nil
		}
		if g.Match(rel) || g.Match(path) {
			matches = append(matches, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, newParsingErrorNoPos("unable to resolve include pattern %q (%s)", pattern, walkErr)
	}
	sort.Strings(matches)
	return matches, nil
}
