// Package browse holds the client-side browsing state machine: the active
// category/text filter with stale-result rejection, and the debouncer that
// gates search suggestion requests.
package browse

import (
	"sort"
	"strings"
	"sync"
)

// Filter is a browse selection: zero or more category slugs plus an optional
// title query. Both dimensions compose with AND.
type Filter struct {
	CategorySlugs []string
	Query         string
}

// Key returns a canonical identity for the filter. Two filters with the same
// categories (in any order) and the same query have the same key.
func (f Filter) Key() string {
	slugs := make([]string, len(f.CategorySlugs))
	copy(slugs, f.CategorySlugs)
	sort.Strings(slugs)
	return strings.Join(slugs, ",") + "|" + f.Query
}

// ToggleCategory returns a copy of the filter with the slug added if absent
// or removed if present.
func (f Filter) ToggleCategory(slug string) Filter {
	next := Filter{Query: f.Query}
	removed := false
	for _, s := range f.CategorySlugs {
		if s == slug {
			removed = true
			continue
		}
		next.CategorySlugs = append(next.CategorySlugs, s)
	}
	if !removed {
		next.CategorySlugs = append(next.CategorySlugs, slug)
	}
	return next
}

// Session tracks the active filter across overlapping result fetches.
// Every filter change issues a new token; results fetched under an older
// token are rejected, so a slow response for a superseded filter can never
// overwrite the list the user is looking at.
type Session struct {
	mu      sync.Mutex
	token   uint64
	current Filter
}

// NewSession creates a session with an empty filter.
func NewSession() *Session {
	return &Session{}
}

// SetFilter makes f the active filter and returns the token a fetch for it
// should carry. Setting a filter with the same key still returns the
// latest token but does not invalidate in-flight fetches.
func (s *Session) SetFilter(f Filter) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Key() != s.current.Key() {
		s.token++
	}
	s.current = f
	return s.token
}

// Filter returns the active filter.
func (s *Session) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Admit reports whether results fetched under the given token are still
// current and should be applied.
func (s *Session) Admit(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token == s.token
}
