package search

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Selection holds the currently active facet values. It is ephemeral request
// state: hydrated from URL query parameters, mutated by Set/Remove, never
// persisted.
type Selection struct {
	values map[Key][]string
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{values: make(map[Key][]string)}
}

// Set assigns a single value to a facet, replacing whatever was selected.
// An empty value clears the facet. Unknown keys and values outside the
// facet's allowed set are rejected.
func (s *Selection) Set(key Key, value string) error {
	facet, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("unknown facet %q", key)
	}
	if value == "" {
		delete(s.ensure(), key)
		return nil
	}
	if !facet.allows(value) {
		return fmt.Errorf("value %q not allowed for facet %q", value, key)
	}
	s.ensure()[key] = []string{value}
	return nil
}

// SetAll replaces the whole selected-values list for a multi-value facet.
func (s *Selection) SetAll(key Key, values []string) error {
	facet, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("unknown facet %q", key)
	}
	if facet.Mode != MultiValue {
		return fmt.Errorf("facet %q is single-value", key)
	}
	if len(values) == 0 {
		delete(s.ensure(), key)
		return nil
	}
	deduped := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if !facet.allows(v) {
			return fmt.Errorf("value %q not allowed for facet %q", v, key)
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		deduped = append(deduped, v)
	}
	s.ensure()[key] = deduped
	return nil
}

// Remove drops exactly one value from a multi-value facet. Removing the last
// value clears the facet entirely.
func (s *Selection) Remove(key Key, value string) error {
	facet, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("unknown facet %q", key)
	}
	if facet.Mode != MultiValue {
		return fmt.Errorf("facet %q is single-value", key)
	}
	current := s.values[key]
	remaining := make([]string, 0, len(current))
	for _, v := range current {
		if v != value {
			remaining = append(remaining, v)
		}
	}
	if len(remaining) == 0 {
		delete(s.ensure(), key)
		return nil
	}
	s.ensure()[key] = remaining
	return nil
}

// Clear resets every facet to empty.
func (s *Selection) Clear() {
	s.values = make(map[Key][]string)
}

// Values returns the selected values for a facet.
func (s Selection) Values(key Key) []string {
	return s.values[key]
}

// Value returns the single selected value for a facet, or empty.
func (s Selection) Value(key Key) string {
	if vs := s.values[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.values) == 0
}

// Active returns the keys with at least one selected value, in registry order.
func (s Selection) Active() []Key {
	var keys []Key
	for _, f := range registry {
		if len(s.values[f.Key]) > 0 {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// WithoutPremium returns a copy with every premium facet cleared. The query
// builder receives this copy when the caller lacks entitlement.
func (s Selection) WithoutPremium() Selection {
	out := NewSelection()
	for key, vs := range s.values {
		if facet, ok := Lookup(key); ok && facet.Premium {
			continue
		}
		out.values[key] = append([]string(nil), vs...)
	}
	return out
}

// Canonical renders the selection as a stable string, used for cache keys.
func (s Selection) Canonical() string {
	if len(s.values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		vs := append([]string(nil), s.values[Key(key)]...)
		sort.Strings(vs)
		parts = append(parts, key+"="+strings.Join(vs, ","))
	}
	return strings.Join(parts, ";")
}

// FromQuery hydrates a selection from URL query parameters. Multi-value
// facets accept both repeated parameters and comma-separated lists. Unknown
// parameters and invalid values are ignored rather than rejected, matching
// how the browse page treats a stale or hand-edited address bar.
func FromQuery(params url.Values) Selection {
	s := NewSelection()
	for _, facet := range registry {
		raw, ok := params[string(facet.Key)]
		if !ok {
			continue
		}
		var values []string
		for _, entry := range raw {
			for _, v := range strings.Split(entry, ",") {
				v = strings.TrimSpace(v)
				if v != "" && facet.allows(v) {
					values = append(values, v)
				}
			}
		}
		if len(values) == 0 {
			continue
		}
		if facet.Mode == SingleValue {
			_ = s.Set(facet.Key, values[0])
			continue
		}
		_ = s.SetAll(facet.Key, values)
	}
	return s
}

func (s *Selection) ensure() map[Key][]string {
	if s.values == nil {
		s.values = make(map[Key][]string)
	}
	return s.values
}
