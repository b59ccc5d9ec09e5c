// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match associates bibliography author strings with known reviewers.
//
// A bibliography string denotes a reviewer when it starts with the reviewer's
// display name and the name is followed by nothing or by a space. DBLP
// disambiguates homonyms with numeric suffixes ("Jon Snow 0001"), which this
// rule accepts, while "Jon Snowden" is rejected for "Jon Snow". Matching is
// case-sensitive and does not normalize diacritics or name order.
package match

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/reviewer-conflicts/internal/dblp"
	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

// Matches reports whether candidate denotes the reviewer called name.
func Matches(name, candidate string) bool {
	if name == "" || !strings.HasPrefix(candidate, name) {
		return false
	}
	return len(candidate) == len(name) || candidate[len(name)] == ' '
}

// firstToken returns s up to its first space. Any candidate matching a name
// shares the name's first token, which makes it a sound bucket key.
func firstToken(s string) string {
	tok, _, _ := strings.Cut(s, " ")
	return tok
}

// Index is the set of known reviewers with direct lookups by display name,
// email, name prefix and recorded alias.
type Index struct {
	reviewers []*types.ReviewerIdentity
	byName    map[string]*types.ReviewerIdentity
	byEmail   map[string]*types.ReviewerIdentity
	byToken   map[string][]*types.ReviewerIdentity
	byAlias   map[string][]*types.ReviewerIdentity
}

// NewIndex builds an index over reviewers. Reviewers are shared, not copied:
// aliases discovered through the index are recorded on them directly.
func NewIndex(reviewers []*types.ReviewerIdentity) *Index {
	idx := &Index{
		byName:  make(map[string]*types.ReviewerIdentity, len(reviewers)),
		byEmail: make(map[string]*types.ReviewerIdentity, len(reviewers)),
		byToken: make(map[string][]*types.ReviewerIdentity),
		byAlias: make(map[string][]*types.ReviewerIdentity),
	}
	for _, r := range reviewers {
		idx.add(r)
	}
	return idx
}

func (idx *Index) add(r *types.ReviewerIdentity) {
	idx.reviewers = append(idx.reviewers, r)
	if _, dup := idx.byName[r.Name]; !dup {
		idx.byName[r.Name] = r
	}
	if r.Email != "" {
		if _, dup := idx.byEmail[r.Email]; !dup {
			idx.byEmail[r.Email] = r
		}
	}
	if r.Name != "" {
		tok := firstToken(r.Name)
		idx.byToken[tok] = append(idx.byToken[tok], r)
	}
	for _, a := range r.Aliases {
		idx.indexAlias(a, r)
	}
}

func (idx *Index) indexAlias(alias string, r *types.ReviewerIdentity) {
	for _, existing := range idx.byAlias[alias] {
		if existing == r {
			return
		}
	}
	idx.byAlias[alias] = append(idx.byAlias[alias], r)
}

// Reviewers returns the indexed reviewers in roster order.
func (idx *Index) Reviewers() []*types.ReviewerIdentity {
	return idx.reviewers
}

// ByName returns the reviewer with the given display name.
func (idx *Index) ByName(name string) (*types.ReviewerIdentity, bool) {
	r, ok := idx.byName[name]
	return r, ok
}

// ByEmail returns the reviewer with the given roster email.
func (idx *Index) ByEmail(email string) (*types.ReviewerIdentity, bool) {
	r, ok := idx.byEmail[email]
	return r, ok
}

// Lookup returns every reviewer that candidate denotes, either through the
// prefix rule or because candidate was recorded as one of their aliases.
// The result is in roster order and has no duplicates.
func (idx *Index) Lookup(candidate string) []*types.ReviewerIdentity {
	var found []*types.ReviewerIdentity
	for _, r := range idx.byToken[firstToken(candidate)] {
		if Matches(r.Name, candidate) {
			found = append(found, r)
		}
	}
	for _, r := range idx.byAlias[candidate] {
		if !containsReviewer(found, r) {
			found = append(found, r)
		}
	}
	if len(found) > 1 {
		idx.sortByRoster(found)
	}
	return found
}

// ByAlias returns the reviewers that recorded candidate as an alias, in
// roster order. The prefix rule is not applied.
func (idx *Index) ByAlias(candidate string) []*types.ReviewerIdentity {
	rs := idx.byAlias[candidate]
	if len(rs) == 0 {
		return nil
	}
	found := append([]*types.ReviewerIdentity(nil), rs...)
	if len(found) > 1 {
		idx.sortByRoster(found)
	}
	return found
}

// Denotes reports whether candidate denotes r.
func (idx *Index) Denotes(r *types.ReviewerIdentity, candidate string) bool {
	return Matches(r.Name, candidate) || r.HasAlias(candidate)
}

// Observe looks up candidate and records it as an alias of every matched
// reviewer that does not have it yet. It returns the reviewers for which a
// new alias was recorded.
func (idx *Index) Observe(candidate string) []*types.ReviewerIdentity {
	var added []*types.ReviewerIdentity
	for _, r := range idx.Lookup(candidate) {
		if idx.Record(r, candidate) {
			added = append(added, r)
		}
	}
	return added
}

// Record adds alias to r and to the alias lookup. It reports whether the
// alias was new for r.
func (idx *Index) Record(r *types.ReviewerIdentity, alias string) bool {
	if !r.AddAlias(alias) {
		return false
	}
	idx.indexAlias(alias, r)
	return true
}

// Ambiguous returns the aliases recorded for more than one reviewer, sorted.
func (idx *Index) Ambiguous() map[string][]string {
	out := map[string][]string{}
	for alias, rs := range idx.byAlias {
		if len(rs) < 2 {
			continue
		}
		names := make([]string, len(rs))
		for i, r := range rs {
			names[i] = r.Name
		}
		sort.Strings(names)
		out[alias] = names
	}
	return out
}

func (idx *Index) sortByRoster(rs []*types.ReviewerIdentity) {
	pos := make(map[*types.ReviewerIdentity]int, len(rs))
	for _, r := range rs {
		pos[r] = -1
	}
	for i, r := range idx.reviewers {
		if _, ok := pos[r]; ok {
			pos[r] = i
		}
	}
	sort.SliceStable(rs, func(i, j int) bool { return pos[rs[i]] < pos[rs[j]] })
}

func containsReviewer(rs []*types.ReviewerIdentity, r *types.ReviewerIdentity) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

// DiscoverSummary holds counts from an alias discovery pass.
type DiscoverSummary struct {
	Publications int
	Profiles     int
	NewAliases   int
}

// DiscoverAliases reads every record from stream and records matched author
// strings of publication records as reviewer aliases. Profile records are
// skipped. Each new alias is reported on w.
func DiscoverAliases(ctx context.Context, stream *dblp.Stream, idx *Index, w io.Writer) (DiscoverSummary, error) {
	var summary DiscoverSummary
	err := stream.Each(ctx, func(pub types.Publication) error {
		if pub.Kind != types.KindPublication {
			summary.Profiles++
			return nil
		}
		summary.Publications++
		for _, author := range pub.Authors {
			for _, r := range idx.Observe(author) {
				fmt.Fprintf(w, "found a match: %s -> %s\n", r.Name, author)
				summary.NewAliases++
			}
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("discovering aliases: %w", err)
	}
	return summary, nil
}
