package checker

import (
	"bytes"
)

// Filter rejects 200 responses whose body carries a known false-positive marker
type Filter struct {
	markers [][]byte
	names   []string
}

// NewFilter builds a filter from the configured unacceptable substrings.
// Empty entries are ignored.
func NewFilter(unacceptable []string) *Filter {
	f := &Filter{}
	for _, s := range unacceptable {
		if s == "" {
			continue
		}
		f.markers = append(f.markers, []byte(s))
		f.names = append(f.names, s)
	}
	return f
}

// Match returns the first marker found in body
func (f *Filter) Match(body []byte) (string, bool) {
	for i, marker := range f.markers {
		if bytes.Contains(body, marker) {
			return f.names[i], true
		}
	}
	return "", false
}
