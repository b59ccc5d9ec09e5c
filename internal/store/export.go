// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

// GraphDocument is the portable form of a saved coauthor graph.
type GraphDocument struct {
	Run       RunInfo         `json:"run" yaml:"run"`
	Reviewers []ReviewerEntry `json:"reviewers" yaml:"reviewers"`
}

// ReviewerEntry holds one reviewer and their coauthor window. Every window
// year is present in Coauthors, with an empty list when no coauthor was seen.
type ReviewerEntry struct {
	Key       string           `json:"key" yaml:"key"`
	Name      string           `json:"name" yaml:"name"`
	Email     string           `json:"email,omitempty" yaml:"email,omitempty"`
	ORCID     string           `json:"orcid,omitempty" yaml:"orcid,omitempty"`
	Aliases   []string         `json:"aliases" yaml:"aliases"`
	Coauthors map[int][]string `json:"coauthors" yaml:"coauthors"`
}

// NewDocument converts reviewers into a GraphDocument.
func NewDocument(run RunInfo, reviewers []*types.ReviewerIdentity) GraphDocument {
	doc := GraphDocument{Run: run, Reviewers: make([]ReviewerEntry, len(reviewers))}
	for i, r := range reviewers {
		entry := ReviewerEntry{
			Key:       r.Key(),
			Name:      r.Name,
			Email:     r.Email,
			ORCID:     r.ORCID,
			Aliases:   append([]string{}, r.Aliases...),
			Coauthors: make(map[int][]string, len(r.Coauthors)),
		}
		for _, year := range r.Coauthors.Years() {
			entry.Coauthors[year] = r.Coauthors.Names(year)
		}
		doc.Reviewers[i] = entry
	}
	return doc
}

// Identities converts the document back into reviewer identities.
func (d GraphDocument) Identities() []*types.ReviewerIdentity {
	out := make([]*types.ReviewerIdentity, len(d.Reviewers))
	for i, e := range d.Reviewers {
		r := &types.ReviewerIdentity{
			Name:      e.Name,
			Email:     e.Email,
			ORCID:     e.ORCID,
			Coauthors: make(types.CoauthorWindow, len(e.Coauthors)),
		}
		for _, a := range e.Aliases {
			r.AddAlias(a)
		}
		for year, names := range e.Coauthors {
			r.Coauthors[year] = map[string]struct{}{}
			for _, n := range names {
				r.Coauthors.Add(year, n)
			}
		}
		out[i] = r
	}
	return out
}

// Format selects the export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor infers the format from a file extension, defaulting to YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ExportPath returns the default export file in the data directory.
func (s *Store) ExportPath(format Format) string {
	return filepath.Join(s.dataDir, "coauthors."+string(format))
}

// WriteDocument encodes doc to path in the given format.
func WriteDocument(path string, format Format, doc GraphDocument) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
	case FormatYAML, "":
		data, err = yaml.Marshal(doc)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", format, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ReadDocument decodes a GraphDocument from path, choosing the format from
// the file extension.
func ReadDocument(path string) (GraphDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GraphDocument{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc GraphDocument
	switch FormatFor(path) {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return GraphDocument{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}
