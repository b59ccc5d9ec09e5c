// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reviewer-conflicts/internal/roster"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions <hotcrp-authors.csv>...",
	Short: "Count submissions per author",
	Long: `Submissions counts how many papers list each author across one or more
HotCRP authors exports, least prolific first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubmissions,
}

func init() {
	submissionsCmd.Flags().Int("min", 1, "only show authors with at least this many submissions")

	rootCmd.AddCommand(submissionsCmd)
}

func runSubmissions(cmd *cobra.Command, args []string) error {
	minPapers, _ := cmd.Flags().GetInt("min")

	counts, err := roster.CountSubmissions(args...)
	if err != nil {
		return err
	}
	for _, c := range counts {
		if c.Papers < minPapers {
			continue
		}
		fmt.Fprintf(os.Stdout, "%s: %d\n", c.Author, c.Papers)
	}
	return nil
}
