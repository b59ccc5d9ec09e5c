// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package roster reads and writes the HotCRP CSV exports the pipeline works
// from: the PC user list, the mapped reviewer roster, paper authors and
// review scores.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

// Header markers: the first cell of the header row in each export.
const (
	usersHeader  = "given_name"
	papersHeader = "paper"
)

// Column positions in the HotCRP exports.
const (
	userGiven  = 0
	userFamily = 1
	userEmail  = 2
	userORCID  = 5

	paperID     = 0
	paperTitle  = 1
	paperGiven  = 2
	paperFamily = 3
	paperEmail  = 4

	scoreReviewerEmail = 5
)

// MappedPath returns the mapped roster path derived from a users export
// (e.g. "pc-users.csv" -> "pc-users-mapped.csv").
func MappedPath(usersPath string) string {
	ext := filepath.Ext(usersPath)
	return strings.TrimSuffix(usersPath, ext) + "-mapped.csv"
}

// readRows opens path and calls fn for each CSV row that is not the header.
// The line number passed to fn is 1-based.
func readRows(path, header string, fn func(line int, row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := scanRows(f, header, fn); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func scanRows(r io.Reader, header string, fn func(line int, row []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line, _ := cr.FieldPos(0)
		if header != "" && len(row) > 0 && row[0] == header {
			continue
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if err := fn(line, row); err != nil {
			return err
		}
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func requireColumns(line int, row []string, n int) error {
	if len(row) < n {
		return fmt.Errorf("line %d: expected at least %d columns, got %d", line, n, len(row))
	}
	return nil
}

// LoadUsers reads a HotCRP user export into reviewer identities in file order.
func LoadUsers(path string) ([]*types.ReviewerIdentity, error) {
	var reviewers []*types.ReviewerIdentity
	err := readRows(path, usersHeader, func(line int, row []string) error {
		if err := requireColumns(line, row, userEmail+1); err != nil {
			return err
		}
		reviewers = append(reviewers, &types.ReviewerIdentity{
			Name:  strings.TrimSpace(cell(row, userGiven) + " " + cell(row, userFamily)),
			Email: cell(row, userEmail),
			ORCID: cell(row, userORCID),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewers, nil
}

// LoadMapped reads a mapped roster: name, email, orcid, then any number of
// bibliography aliases.
func LoadMapped(path string) ([]*types.ReviewerIdentity, error) {
	var reviewers []*types.ReviewerIdentity
	err := readRows(path, "", func(line int, row []string) error {
		if err := requireColumns(line, row, 3); err != nil {
			return err
		}
		r := &types.ReviewerIdentity{
			Name:  cell(row, 0),
			Email: cell(row, 1),
			ORCID: cell(row, 2),
		}
		for _, alias := range row[3:] {
			r.AddAlias(strings.TrimSpace(alias))
		}
		reviewers = append(reviewers, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewers, nil
}

// WriteMapped writes reviewers as a mapped roster. The file is written to a
// temporary path and renamed into place.
func WriteMapped(path string, reviewers []*types.ReviewerIdentity) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mapped-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cw := csv.NewWriter(tmp)
	for _, r := range reviewers {
		row := append([]string{r.Name, r.Email, r.ORCID}, r.Aliases...)
		if err := cw.Write(row); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("writing %s: %w", r.Name, err)
		}
	}
	cw.Flush()
	flushErr := cw.Error()
	closeErr := tmp.Close()
	if flushErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing mapped roster: %w", flushErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// LoadPapers reads a HotCRP authors export. Rows are grouped by paper
// identifier; papers are returned in order of first appearance and authors
// in row order.
func LoadPapers(path string) ([]types.Paper, error) {
	var order []string
	byID := map[string]*types.Paper{}
	err := readRows(path, papersHeader, func(line int, row []string) error {
		if err := requireColumns(line, row, paperFamily+1); err != nil {
			return err
		}
		id := cell(row, paperID)
		p, ok := byID[id]
		if !ok {
			p = &types.Paper{ID: id, Title: cell(row, paperTitle)}
			byID[id] = p
			order = append(order, id)
		}
		p.Authors = append(p.Authors, types.FormatAuthor(cell(row, paperGiven), cell(row, paperFamily), cell(row, paperEmail)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	papers := make([]types.Paper, len(order))
	for i, id := range order {
		papers[i] = *byID[id]
	}
	return papers, nil
}

// Assignment is a (paper, reviewer email) pair read from a scores export.
type Assignment struct {
	PaperID       string
	ReviewerEmail string
}

// LoadAssignments reads a HotCRP scores export: one row per submitted
// review, paper identifier in the first column and reviewer email in the sixth.
func LoadAssignments(path string) ([]Assignment, error) {
	var out []Assignment
	err := readRows(path, papersHeader, func(line int, row []string) error {
		if err := requireColumns(line, row, scoreReviewerEmail+1); err != nil {
			return err
		}
		out = append(out, Assignment{
			PaperID:       cell(row, paperID),
			ReviewerEmail: cell(row, scoreReviewerEmail),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AuthorCount is the number of submissions listing an author.
type AuthorCount struct {
	Author string
	Papers int
}

// CountSubmissions counts, across one or more authors exports, how many
// author rows name each "First Last <email>" author. The result is sorted by
// count, then author.
func CountSubmissions(paths ...string) ([]AuthorCount, error) {
	counts := map[string]int{}
	for _, path := range paths {
		err := readRows(path, papersHeader, func(line int, row []string) error {
			if err := requireColumns(line, row, paperFamily+1); err != nil {
				return err
			}
			counts[types.FormatAuthor(cell(row, paperGiven), cell(row, paperFamily), cell(row, paperEmail))]++
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	out := make([]AuthorCount, 0, len(counts))
	for a, n := range counts {
		out = append(out, AuthorCount{Author: a, Papers: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Papers != out[j].Papers {
			return out[i].Papers < out[j].Papers
		}
		return out[i].Author < out[j].Author
	})
	return out, nil
}
