// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reviewer-conflicts/internal/conflict"
	"github.com/pdiddy/reviewer-conflicts/internal/roster"
)

var checkCmd = &cobra.Command{
	Use:   "check <hotcrp-authors.csv> <hotcrp-scores.csv>",
	Short: "Check review assignments against the coauthor graph",
	Long: `Check loads the saved coauthor graph, the submissions from a HotCRP
authors export and the submitted reviews from a HotCRP scores export. For
every review it reports each paper author who co-published with the
reviewer inside the window, one line per author and year.

Reviews whose paper or reviewer is unknown are reported as warnings and
checking continues.`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("fail-on-conflict", false, "exit with an error when any conflict is found")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	failOnConflict, _ := cmd.Flags().GetBool("fail-on-conflict")

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	reviewers, run, err := s.Load(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "using coauthor graph %s (%d reviewers, window %d-%d)\n",
		run.ID, len(reviewers), run.CurrentYear-run.WindowYears+1, run.CurrentYear)
	printWindowCounts(os.Stderr, reviewers)

	papers, err := roster.LoadPapers(args[0])
	if err != nil {
		return err
	}
	reviews, err := roster.LoadAssignments(args[1])
	if err != nil {
		return err
	}

	assignments := make([]conflict.Assignment, len(reviews))
	for i, r := range reviews {
		assignments[i] = conflict.Assignment{PaperID: r.PaperID, Reviewer: r.ReviewerEmail}
	}

	report := conflict.NewChecker(reviewers, papers).Run(assignments)
	report.Write(os.Stdout)

	if failOnConflict && len(report.Findings) > 0 {
		return fmt.Errorf("%d possible conflict(s) found", len(report.Findings))
	}
	return nil
}
