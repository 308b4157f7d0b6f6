package types

import (
	"fmt"
	"net/url"

	"github.com/dotconf/confiture/tree"
)

// Url validates a string payload as an absolute URL using the standard
// library's net/url (no pack repo carries a dedicated URL-parsing
// dependency, so this is a deliberate stdlib exception — see DESIGN.md).
type Url struct {
	baseType
	// Schemes restricts the accepted scheme set (empty means any scheme).
	Schemes []string
}

func (t Url) urlOf(p tree.Payload) (*url.URL, error) {
	s, err := (String{}).Validate(p)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(s.Str())
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not a valid URL", s.Str())
	}
	if len(t.Schemes) > 0 {
		ok := false
		for _, sc := range t.Schemes {
			if u.Scheme == sc {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("%q does not use one of the allowed schemes %v", s.Str(), t.Schemes)
		}
	}
	return u, nil
}

func (t Url) Validate(p tree.Payload) (tree.Payload, error) {
	u, err := t.urlOf(p)
	if err != nil {
		return tree.Payload{}, err
	}
	return tree.String(u.String()), nil
}

func (Url) Cast(raw string) (tree.Payload, error) { return tree.String(raw), nil }

// UrlOf exposes the parsed *url.URL for callers that need more than the
// canonicalized string form Validate returns.
func (t Url) UrlOf(p tree.Payload) (*url.URL, error) { return t.urlOf(p) }
