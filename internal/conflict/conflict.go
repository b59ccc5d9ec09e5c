// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package conflict cross-references review assignments against reviewer
// coauthor windows and reports possible undisclosed conflicts.
package conflict

import (
	"fmt"
	"io"

	"github.com/pdiddy/reviewer-conflicts/internal/match"
	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

// Assignment links a paper to the reviewer who reviewed it. Reviewer is the
// roster email, or the display name when no email is available.
type Assignment struct {
	PaperID  string
	Reviewer string
}

// Report holds the outcome of checking a batch of assignments.
type Report struct {
	Findings []types.ConflictFinding
	Warnings []types.IntegrityWarning
	Checked  int
}

// Write prints one line per warning and finding, in the order they were
// produced, followed by a summary line.
func (r Report) Write(w io.Writer) {
	for _, warn := range r.Warnings {
		fmt.Fprintln(w, warn)
	}
	for _, f := range r.Findings {
		fmt.Fprintln(w, f)
	}
	fmt.Fprintf(w, "\nchecked: %d, conflicts: %d, warnings: %d\n",
		r.Checked, len(r.Findings), len(r.Warnings))
}

// Checker resolves assignments by key and checks them against coauthor windows.
type Checker struct {
	reviewers *match.Index
	papers    map[string]types.Paper
}

// NewChecker indexes reviewers and papers for direct lookup.
func NewChecker(reviewers []*types.ReviewerIdentity, papers []types.Paper) *Checker {
	byID := make(map[string]types.Paper, len(papers))
	for _, p := range papers {
		byID[p.ID] = p
	}
	return &Checker{
		reviewers: match.NewIndex(reviewers),
		papers:    byID,
	}
}

// Check returns one finding for every (author, year) pair where an author of
// paper appears in the reviewer's coauthor set for that year. Years are
// visited most recent first and authors in paper order. A conflict repeated
// across years yields one finding per year.
func Check(paper types.Paper, reviewer *types.ReviewerIdentity) []types.ConflictFinding {
	var findings []types.ConflictFinding
	for _, year := range reviewer.Coauthors.Years() {
		for _, author := range paper.Authors {
			if reviewer.Coauthors.Contains(year, types.AuthorName(author)) {
				findings = append(findings, types.ConflictFinding{
					Reviewer: reviewer.Name,
					PaperID:  paper.ID,
					Author:   author,
					Year:     year,
				})
			}
		}
	}
	return findings
}

// Reviewer resolves a reviewer key, trying email first and display name second.
func (c *Checker) Reviewer(key string) (*types.ReviewerIdentity, bool) {
	if r, ok := c.reviewers.ByEmail(key); ok {
		return r, true
	}
	return c.reviewers.ByName(key)
}

// Paper resolves a paper by identifier.
func (c *Checker) Paper(id string) (types.Paper, bool) {
	p, ok := c.papers[id]
	return p, ok
}

// Run checks every assignment. An assignment whose paper or reviewer is
// unknown produces a single integrity warning and is skipped.
func (c *Checker) Run(assignments []Assignment) Report {
	var report Report
	for _, a := range assignments {
		paper, ok := c.Paper(a.PaperID)
		if !ok {
			report.Warnings = append(report.Warnings, types.IntegrityWarning{
				Kind: types.WarningMissingPaper, PaperID: a.PaperID, Reviewer: a.Reviewer,
			})
			continue
		}
		reviewer, ok := c.Reviewer(a.Reviewer)
		if !ok {
			report.Warnings = append(report.Warnings, types.IntegrityWarning{
				Kind: types.WarningMissingReviewer, PaperID: a.PaperID, Reviewer: a.Reviewer,
			})
			continue
		}
		report.Checked++
		report.Findings = append(report.Findings, Check(paper, reviewer)...)
	}
	return report
}
