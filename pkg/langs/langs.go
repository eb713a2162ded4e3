// Package langs resolves caller-supplied language parameters against the
// configured display-name vocabulary and carries the Unicode plumbing used
// on node names (case folding for search, NFC normalization on insert).
package langs

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// wellKnown maps the display names the org chart historically uses onto
// BCP-47 tags, so callers may also pass "en", "it-IT" and friends.
var wellKnown = map[string]language.Tag{
	"english":    language.English,
	"italian":    language.Italian,
	"french":     language.French,
	"german":     language.German,
	"spanish":    language.Spanish,
	"portuguese": language.Portuguese,
}

// Registry is the configured language vocabulary. At minimum two display
// names are supported; the fallback name is used when a node has no
// translation for the requested language.
type Registry struct {
	names    []string
	fallback string
	byLower  map[string]string

	matcher  language.Matcher
	tagNames []string
}

func NewRegistry(supported []string, fallback string) (*Registry, error) {
	if len(supported) < 2 {
		return nil, fmt.Errorf("langs: at least two supported languages required, got %d", len(supported))
	}

	r := &Registry{
		names:    append([]string(nil), supported...),
		fallback: fallback,
		byLower:  make(map[string]string, len(supported)),
	}

	var tags []language.Tag
	for _, name := range supported {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("langs: blank language name in configuration")
		}
		lower := strings.ToLower(name)
		if _, dup := r.byLower[lower]; dup {
			return nil, fmt.Errorf("langs: duplicate language %q", name)
		}
		r.byLower[lower] = name
		if tag, ok := wellKnown[lower]; ok {
			tags = append(tags, tag)
			r.tagNames = append(r.tagNames, name)
		}
	}

	if _, ok := r.byLower[strings.ToLower(fallback)]; !ok {
		return nil, fmt.Errorf("langs: fallback language %q not in supported set", fallback)
	}
	if len(tags) > 0 {
		r.matcher = language.NewMatcher(tags)
	}
	return r, nil
}

// Supported returns the configured display names in configuration order.
func (r *Registry) Supported() []string {
	return append([]string(nil), r.names...)
}

// Fallback returns the display name used when a translation is missing.
func (r *Registry) Fallback() string {
	return r.fallback
}

// Canonical maps a caller-supplied language parameter onto a configured
// display name: first by case-insensitive display-name match, then by
// BCP-47 matching for vocabularies with known tags. Input that matches
// nothing is returned unchanged; name lookups then miss and fall back.
func (r *Registry) Canonical(param string) string {
	param = strings.TrimSpace(param)
	if name, ok := r.byLower[strings.ToLower(param)]; ok {
		return name
	}
	if r.matcher != nil {
		if tag, err := language.Parse(param); err == nil {
			if _, idx, conf := r.matcher.Match(tag); conf >= language.High {
				return r.tagNames[idx]
			}
		}
	}
	return param
}

// Fold case-folds s for caseless comparison. A fresh caser per call: a
// cases.Caser is stateful and not safe for concurrent use.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether needle occurs in haystack under Unicode
// case folding.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// NormalizeName trims and NFC-normalizes a display name before storage,
// so equal-looking names compare equal byte-wise.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
