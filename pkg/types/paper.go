// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// RecordKind distinguishes bibliography records that carry publication
// semantics from author profile pages.
type RecordKind int

const (
	KindPublication RecordKind = iota
	KindProfile
)

// String returns the bibliography label for the record kind.
func (k RecordKind) String() string {
	switch k {
	case KindPublication:
		return "publication"
	case KindProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// Publication is one bibliography entry as emitted by the archive stream.
// It lives only while the entry is being folded into the reviewer index.
type Publication struct {
	// Kind is KindPublication for article/inproceedings entries and
	// KindProfile for www entries.
	Kind RecordKind

	// Authors lists the author strings in archive order.
	Authors []string

	// Year is the publication year, or 0 when absent or malformed.
	// Profiles always carry 0.
	Year int
}

// Paper is a conference submission.
type Paper struct {
	// ID is the submission number as assigned by the review system (e.g. "42").
	ID string `json:"id" yaml:"id"`

	// Title is the submission title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the submission authors in "First Last <email>" form,
	// in submission order.
	Authors []string `json:"authors" yaml:"authors"`
}

// AuthorName returns the name part of an author string, dropping a trailing
// "<email>" (e.g. "Ned Stark <ned@winterfell>" -> "Ned Stark").
func AuthorName(author string) string {
	if i := strings.Index(author, "<"); i >= 0 {
		return strings.TrimSpace(author[:i])
	}
	return strings.TrimSpace(author)
}

// FormatAuthor builds the "First Last <email>" author string used for papers.
func FormatAuthor(given, family, email string) string {
	name := strings.TrimSpace(given + " " + family)
	if email == "" {
		return name
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
