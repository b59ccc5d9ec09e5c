// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coauthor builds, for every known reviewer, the set of people they
// co-published with in each year of a trailing window.
package coauthor

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/reviewer-conflicts/internal/dblp"
	"github.com/pdiddy/reviewer-conflicts/internal/match"
	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

// progressEvery controls how often Build reports the number of records read.
var progressEvery = 1_000_000

// Summary holds counts from a coauthor graph build.
type Summary struct {
	// Publications and Profiles count the records read from the archive.
	Publications int
	Profiles     int

	// OutOfWindow counts publications whose year falls outside the window.
	OutOfWindow int

	// Contributions counts (publication, reviewer) pairs folded into the graph.
	Contributions int
}

// Builder folds bibliography records into the coauthor windows of the
// reviewers in an index.
type Builder struct {
	idx         *match.Index
	currentYear int
	span        int
	aliasesOnly bool
}

// NewBuilder gives every reviewer in idx a fresh, empty coauthor window
// ending at cfg.CurrentYear. Any previous window is replaced.
func NewBuilder(idx *match.Index, cfg types.CoauthorConfig) (*Builder, error) {
	if cfg.CurrentYear <= 0 {
		return nil, fmt.Errorf("current year must be set, got %d", cfg.CurrentYear)
	}
	span := cfg.WindowYears
	if span <= 0 {
		span = types.DefaultWindowYears
	}
	for _, r := range idx.Reviewers() {
		r.Coauthors = types.NewCoauthorWindow(cfg.CurrentYear, span)
	}
	return &Builder{idx: idx, currentYear: cfg.CurrentYear, span: span, aliasesOnly: cfg.AliasesOnly}, nil
}

// InWindow reports whether year is tracked by the builder's windows.
func (b *Builder) InWindow(year int) bool {
	return year <= b.currentYear && year > b.currentYear-b.span
}

// Fold adds one record to the graph and returns the number of reviewers it
// contributed to. Profiles, publications outside the window and publications
// without a known reviewer leave the graph unchanged.
func (b *Builder) Fold(pub types.Publication) int {
	if pub.Kind != types.KindPublication || !b.InWindow(pub.Year) {
		return 0
	}

	var matched []*types.ReviewerIdentity
	for _, author := range pub.Authors {
		for _, r := range b.lookup(author) {
			if !containsReviewer(matched, r) {
				matched = append(matched, r)
			}
		}
	}

	for _, r := range matched {
		for _, author := range pub.Authors {
			if b.idx.Denotes(r, author) {
				continue
			}
			r.Coauthors.Add(pub.Year, author)
		}
	}
	return len(matched)
}

// lookup resolves a bibliography author to reviewers. In aliases-only mode
// only exact recorded aliases count; otherwise prefix matches are recorded
// as new aliases.
func (b *Builder) lookup(author string) []*types.ReviewerIdentity {
	if b.aliasesOnly {
		return b.idx.ByAlias(author)
	}
	found := b.idx.Lookup(author)
	for _, r := range found {
		b.idx.Record(r, author)
	}
	return found
}

// Build reads every record from stream and folds it into the graph. Progress
// is reported on w.
func (b *Builder) Build(ctx context.Context, stream *dblp.Stream, w io.Writer) (Summary, error) {
	var summary Summary
	err := stream.Each(ctx, func(pub types.Publication) error {
		switch {
		case pub.Kind == types.KindProfile:
			summary.Profiles++
		case !b.InWindow(pub.Year):
			summary.Publications++
			summary.OutOfWindow++
		default:
			summary.Publications++
			summary.Contributions += b.Fold(pub)
		}
		if n := summary.Publications + summary.Profiles; n%progressEvery == 0 {
			fmt.Fprintf(w, "processed %d records\n", n)
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("building coauthor graph: %w", err)
	}
	return summary, nil
}

func containsReviewer(rs []*types.ReviewerIdentity, r *types.ReviewerIdentity) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}
