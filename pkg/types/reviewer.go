// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// DefaultWindowYears is the number of trailing years, including the current
// year, over which coauthorship is tracked.
const DefaultWindowYears = 6

// ReviewerIdentity is a known program-committee member together with the
// bibliography aliases matched to them and their coauthor window.
type ReviewerIdentity struct {
	// Name is the display name from the roster (e.g. "Jon Snow").
	Name string `json:"name" yaml:"name"`

	// Email is the roster email; it is the lookup key for review assignments.
	Email string `json:"email" yaml:"email"`

	// ORCID is the optional external identifier.
	ORCID string `json:"orcid,omitempty" yaml:"orcid,omitempty"`

	// Aliases lists bibliography author strings matched to this reviewer,
	// in discovery order.
	Aliases []string `json:"aliases" yaml:"aliases"`

	// Coauthors holds the year-partitioned coauthor sets. Nil until a
	// coauthor graph has been built or loaded.
	Coauthors CoauthorWindow `json:"-" yaml:"-"`
}

// Key returns the stable identifier used to persist the reviewer: the email
// when known, otherwise the display name.
func (r *ReviewerIdentity) Key() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Name
}

// HasAlias reports whether alias has already been recorded.
func (r *ReviewerIdentity) HasAlias(alias string) bool {
	for _, a := range r.Aliases {
		if a == alias {
			return true
		}
	}
	return false
}

// AddAlias records alias if it is not present yet and reports whether it was added.
func (r *ReviewerIdentity) AddAlias(alias string) bool {
	if alias == "" || r.HasAlias(alias) {
		return false
	}
	r.Aliases = append(r.Aliases, alias)
	return true
}

// CoauthorWindow maps a publication year to the distinct coauthor names
// observed that year. The year keys are fixed when the window is created;
// names for any other year are never recorded.
type CoauthorWindow map[int]map[string]struct{}

// NewCoauthorWindow returns a window with span empty year keys ending at
// currentYear. A non-positive span uses DefaultWindowYears.
func NewCoauthorWindow(currentYear, span int) CoauthorWindow {
	if span <= 0 {
		span = DefaultWindowYears
	}
	w := make(CoauthorWindow, span)
	for i := 0; i < span; i++ {
		w[currentYear-i] = map[string]struct{}{}
	}
	return w
}

// Tracks reports whether year is one of the window's keys.
func (w CoauthorWindow) Tracks(year int) bool {
	_, ok := w[year]
	return ok
}

// Add records name under year. It returns false when the year is outside
// the window or the name was already present.
func (w CoauthorWindow) Add(year int, name string) bool {
	set, ok := w[year]
	if !ok {
		return false
	}
	if _, dup := set[name]; dup {
		return false
	}
	set[name] = struct{}{}
	return true
}

// Contains reports whether name was recorded under year.
func (w CoauthorWindow) Contains(year int, name string) bool {
	_, ok := w[year][name]
	return ok
}

// Len returns the number of coauthors recorded under year.
func (w CoauthorWindow) Len(year int) int {
	return len(w[year])
}

// Years returns the window's year keys, most recent first.
func (w CoauthorWindow) Years() []int {
	years := make([]int, 0, len(w))
	for y := range w {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Names returns the coauthors recorded under year in sorted order.
func (w CoauthorWindow) Names(year int) []string {
	set := w[year]
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
