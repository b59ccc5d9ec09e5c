// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reviewer-conflicts/internal/dblp"
	"github.com/pdiddy/reviewer-conflicts/internal/match"
	"github.com/pdiddy/reviewer-conflicts/internal/roster"
	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match <hotcrp-users.csv>",
	Short: "Match roster reviewers to DBLP author names",
	Long: `Match reads a HotCRP users export and scans the DBLP archive for author
strings that start with a reviewer's name followed by a space or the end of
the string ("Jon Snow" matches "Jon Snow 0001" but not "Jon Snowden").

The matched aliases are written to <users>-mapped.csv (name, email, orcid,
aliases...). To drop wrong matches, edit that file and run coauthors with
--aliases-only; without it coauthors applies the prefix rule again.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringP("output", "o", "", "mapped roster path (default: <users>-mapped.csv)")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	usersPath := args[0]
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = roster.MappedPath(usersPath)
	}

	reviewers, err := roster.LoadUsers(usersPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "loaded %d reviewers from %s\n", len(reviewers), usersPath)

	stream, err := dblp.Open(bibliographyConfig())
	if err != nil {
		return err
	}
	defer stream.Close()

	idx := match.NewIndex(reviewers)
	summary, err := match.DiscoverAliases(context.Background(), stream, idx, os.Stdout)
	if err != nil {
		return err
	}

	printAmbiguous(os.Stderr, idx.Ambiguous())
	printUnmatched(os.Stderr, reviewers)

	if err := roster.WriteMapped(output, reviewers); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nrecords: %d (publications: %d, profiles: %d), aliases: %d\n",
		stream.Stats().Total(), summary.Publications, summary.Profiles, summary.NewAliases)
	fmt.Fprintf(os.Stdout, "wrote %s\n", output)
	return nil
}

func printAmbiguous(w io.Writer, ambiguous map[string][]string) {
	aliases := make([]string, 0, len(ambiguous))
	for a := range ambiguous {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	for _, a := range aliases {
		fmt.Fprintf(w, "warning: alias %q matches several reviewers: %v\n", a, ambiguous[a])
	}
}

func printUnmatched(w io.Writer, reviewers []*types.ReviewerIdentity) {
	for _, r := range reviewers {
		if len(r.Aliases) == 0 {
			fmt.Fprintf(w, "warning: no DBLP entry found for %s <%s>\n", r.Name, r.Email)
		}
	}
}
