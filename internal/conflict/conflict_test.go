// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package conflict

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

const currentYear = 2026

func jonSnow() *types.ReviewerIdentity {
	jon := &types.ReviewerIdentity{
		Name:      "Jon Snow",
		Email:     "jon@wall",
		Coauthors: types.NewCoauthorWindow(currentYear, 6),
	}
	jon.Coauthors.Add(currentYear, "Ned Stark")
	return jon
}

var paper42 = types.Paper{
	ID:      "42",
	Title:   "On Winter",
	Authors: []string{"Ned Stark <ned@winterfell>"},
}

func TestCheckScenario(t *testing.T) {
	findings := Check(paper42, jonSnow())

	require.Len(t, findings, 1)
	assert.Equal(t, types.ConflictFinding{
		Reviewer: "Jon Snow",
		PaperID:  "42",
		Author:   "Ned Stark <ned@winterfell>",
		Year:     currentYear,
	}, findings[0])
}

func TestCheckOnePerAuthorYear(t *testing.T) {
	jon := jonSnow()
	jon.Coauthors.Add(currentYear-3, "Ned Stark")
	jon.Coauthors.Add(currentYear-3, "Catelyn Stark")
	jon.Coauthors.Add(currentYear-5, "Robb Stark")

	paper := types.Paper{ID: "7", Authors: []string{
		"Catelyn Stark <cat@riverrun>",
		"Ned Stark <ned@winterfell>",
		"Sansa Stark <sansa@winterfell>",
	}}

	findings := Check(paper, jon)

	var got []string
	for _, f := range findings {
		got = append(got, f.String())
	}
	assert.Equal(t, []string{
		"possible conflict: Jon Snow reviewed paper 7 but is conflicted with Ned Stark <ned@winterfell> in 2026",
		"possible conflict: Jon Snow reviewed paper 7 but is conflicted with Catelyn Stark <cat@riverrun> in 2023",
		"possible conflict: Jon Snow reviewed paper 7 but is conflicted with Ned Stark <ned@winterfell> in 2023",
	}, got)
}

func TestCheckNoGraph(t *testing.T) {
	reviewer := &types.ReviewerIdentity{Name: "Hodor"}
	assert.Empty(t, Check(paper42, reviewer))
}

func TestCheckIsIdempotent(t *testing.T) {
	jon := jonSnow()
	jon.Coauthors.Add(currentYear-1, "Ned Stark")

	first := Check(paper42, jon)
	second := Check(paper42, jon)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestRun(t *testing.T) {
	jon := jonSnow()
	checker := NewChecker([]*types.ReviewerIdentity{jon}, []types.Paper{paper42})

	tests := []struct {
		name         string
		assignments  []Assignment
		wantFindings int
		wantWarnings []types.IntegrityWarning
		wantChecked  int
	}{
		{
			name:         "conflict found by email",
			assignments:  []Assignment{{PaperID: "42", Reviewer: "jon@wall"}},
			wantFindings: 1,
			wantChecked:  1,
		},
		{
			name:         "conflict found by display name",
			assignments:  []Assignment{{PaperID: "42", Reviewer: "Jon Snow"}},
			wantFindings: 1,
			wantChecked:  1,
		},
		{
			name:        "reviewer not in roster",
			assignments: []Assignment{{PaperID: "42", Reviewer: "ghost@wall"}},
			wantWarnings: []types.IntegrityWarning{
				{Kind: types.WarningMissingReviewer, PaperID: "42", Reviewer: "ghost@wall"},
			},
		},
		{
			name: "paper not in submissions, checking continues",
			assignments: []Assignment{
				{PaperID: "99", Reviewer: "jon@wall"},
				{PaperID: "42", Reviewer: "jon@wall"},
			},
			wantFindings: 1,
			wantWarnings: []types.IntegrityWarning{
				{Kind: types.WarningMissingPaper, PaperID: "99", Reviewer: "jon@wall"},
			},
			wantChecked: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := checker.Run(tt.assignments)
			assert.Len(t, report.Findings, tt.wantFindings)
			assert.Equal(t, tt.wantWarnings, report.Warnings)
			assert.Equal(t, tt.wantChecked, report.Checked)
		})
	}
}

func TestReportWrite(t *testing.T) {
	report := NewChecker([]*types.ReviewerIdentity{jonSnow()}, []types.Paper{paper42}).Run([]Assignment{
		{PaperID: "42", Reviewer: "ghost@wall"},
		{PaperID: "42", Reviewer: "jon@wall"},
	})

	var buf bytes.Buffer
	report.Write(&buf)

	assert.Equal(t, "warning: reviewer ghost@wall of paper 42 is not in the roster\n"+
		"possible conflict: Jon Snow reviewed paper 42 but is conflicted with Ned Stark <ned@winterfell> in 2026\n"+
		"\nchecked: 1, conflicts: 1, warnings: 1\n", buf.String())
}
