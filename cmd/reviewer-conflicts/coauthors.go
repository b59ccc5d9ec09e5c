// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reviewer-conflicts/internal/coauthor"
	"github.com/pdiddy/reviewer-conflicts/internal/dblp"
	"github.com/pdiddy/reviewer-conflicts/internal/roster"
	"github.com/pdiddy/reviewer-conflicts/internal/store"
	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

var coauthorsCmd = &cobra.Command{
	Use:   "coauthors <hotcrp-users-mapped.csv>",
	Short: "Build the coauthor graph for the mapped roster",
	Long: `Coauthors scans the DBLP archive and records, for every reviewer in the
mapped roster, the distinct coauthors of each year in the window. The graph
is saved to <data-dir>/coauthors.db and replaces any previous graph.

By default authors are matched with the same prefix rule as match, and any
new alias is saved. With --aliases-only only the aliases listed in the mapped
roster are used, so entries removed from that file stay removed.

With --workers N the roster is split into N disjoint partitions and each
partition reads the archive independently.`,
	Args: cobra.ExactArgs(1),
	RunE: runCoauthors,
}

func init() {
	coauthorsCmd.Flags().Int("workers", 1, "parallel archive passes, each over a disjoint part of the roster")
	coauthorsCmd.Flags().Bool("aliases-only", false, "match only the aliases in the mapped roster")
	viper.BindPFlag("workers", coauthorsCmd.Flags().Lookup("workers"))
	viper.BindPFlag("aliases_only", coauthorsCmd.Flags().Lookup("aliases-only"))

	rootCmd.AddCommand(coauthorsCmd)
}

func runCoauthors(cmd *cobra.Command, args []string) error {
	reviewers, err := roster.LoadMapped(args[0])
	if err != nil {
		return err
	}

	bib := bibliographyConfig()
	cfg := coauthorConfig()
	open := func() (*dblp.Stream, error) { return dblp.Open(bib) }

	summary, err := coauthor.BuildPartitioned(context.Background(), open, reviewers, cfg, os.Stderr)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.Save(context.Background(), store.RunInfo{
		Archive:      bib.ArchivePath,
		CurrentYear:  cfg.CurrentYear,
		WindowYears:  cfg.WindowYears,
		Publications: summary.Publications,
		Profiles:     summary.Profiles,
	}, reviewers)
	if err != nil {
		return err
	}

	printWindowCounts(os.Stdout, reviewers)
	fmt.Fprintf(os.Stdout, "\npublications: %d, in window: %d, contributions: %d\n",
		summary.Publications, summary.Publications-summary.OutOfWindow, summary.Contributions)
	fmt.Fprintf(os.Stdout, "saved run %s to %s\n", run.ID, s.DataDir())
	return nil
}

// printWindowCounts writes one line per reviewer with the number of
// coauthors in each window year, most recent first.
func printWindowCounts(w io.Writer, reviewers []*types.ReviewerIdentity) {
	for _, r := range reviewers {
		years := r.Coauthors.Years()
		counts := make([]string, len(years))
		for i, y := range years {
			counts[i] = fmt.Sprint(r.Coauthors.Len(y))
		}
		fmt.Fprintf(w, "%s -> %s\n", r.Name, strings.Join(counts, " "))
	}
}
