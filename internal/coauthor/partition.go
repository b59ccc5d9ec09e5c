// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coauthor

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/reviewer-conflicts/internal/dblp"
	"github.com/pdiddy/reviewer-conflicts/internal/match"
	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

// OpenFunc opens a fresh, independent stream over the full archive.
type OpenFunc func() (*dblp.Stream, error)

// Partition splits reviewers round-robin into at most n disjoint groups,
// preserving roster order inside each group.
func Partition(reviewers []*types.ReviewerIdentity, n int) [][]*types.ReviewerIdentity {
	if n <= 1 || len(reviewers) <= 1 {
		return [][]*types.ReviewerIdentity{reviewers}
	}
	if n > len(reviewers) {
		n = len(reviewers)
	}
	parts := make([][]*types.ReviewerIdentity, n)
	for i, r := range reviewers {
		parts[i%n] = append(parts[i%n], r)
	}
	return parts
}

// BuildPartitioned builds the coauthor graph with cfg.Workers concurrent
// passes. The archive cannot be split, so every worker opens its own full
// stream and folds it into a disjoint reviewer partition; no reviewer is
// touched by two workers.
func BuildPartitioned(ctx context.Context, open OpenFunc, reviewers []*types.ReviewerIdentity, cfg types.CoauthorConfig, w io.Writer) (Summary, error) {
	parts := Partition(reviewers, cfg.Workers)

	builders := make([]*Builder, len(parts))
	for i, part := range parts {
		b, err := NewBuilder(match.NewIndex(part), cfg)
		if err != nil {
			return Summary{}, err
		}
		builders[i] = b
	}

	summaries := make([]Summary, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	for i := range parts {
		g.Go(func() error {
			stream, err := open()
			if err != nil {
				return err
			}
			defer stream.Close()

			var progress io.Writer = io.Discard
			if i == 0 {
				progress = w
			}
			s, err := builders[i].Build(gctx, stream, progress)
			if err != nil {
				return fmt.Errorf("partition %d: %w", i+1, err)
			}
			summaries[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	total := summaries[0]
	for _, s := range summaries[1:] {
		total.Contributions += s.Contributions
	}
	return total, nil
}
