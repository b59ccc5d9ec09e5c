// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ConflictFinding reports that an author of a paper co-published with the
// reviewer assigned to it.
type ConflictFinding struct {
	// Reviewer is the reviewer's display name.
	Reviewer string `json:"reviewer" yaml:"reviewer"`

	// PaperID identifies the reviewed paper.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Author is the paper author string that appears in the reviewer's coauthor set.
	Author string `json:"author" yaml:"author"`

	// Year is the coauthor window year in which the coauthorship was observed.
	Year int `json:"year" yaml:"year"`
}

func (f ConflictFinding) String() string {
	return fmt.Sprintf("possible conflict: %s reviewed paper %s but is conflicted with %s in %d",
		f.Reviewer, f.PaperID, f.Author, f.Year)
}

// WarningKind classifies a data-integrity problem found while checking
// review assignments.
type WarningKind string

const (
	WarningMissingPaper    WarningKind = "missing_paper"
	WarningMissingReviewer WarningKind = "missing_reviewer"
)

// IntegrityWarning reports an assignment that references a paper or
// reviewer absent from the loaded records.
type IntegrityWarning struct {
	Kind     WarningKind `json:"kind" yaml:"kind"`
	PaperID  string      `json:"paper_id" yaml:"paper_id"`
	Reviewer string      `json:"reviewer" yaml:"reviewer"`
}

func (w IntegrityWarning) String() string {
	switch w.Kind {
	case WarningMissingPaper:
		return fmt.Sprintf("warning: paper %s is not in the submissions (assigned to %s)", w.PaperID, w.Reviewer)
	case WarningMissingReviewer:
		return fmt.Sprintf("warning: reviewer %s of paper %s is not in the roster", w.Reviewer, w.PaperID)
	default:
		return fmt.Sprintf("warning: %s for paper %s, reviewer %s", w.Kind, w.PaperID, w.Reviewer)
	}
}
