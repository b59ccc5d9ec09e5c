// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dblp streams publication and profile records out of the
// gzip-compressed DBLP XML archive.
//
// The archive holds millions of entries, so the parser works on the token
// stream and keeps only the record currently being read: an author list and
// a year. Nothing from one top-level element survives into the next.
package dblp

import (
	"compress/gzip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

// Element names used by the DBLP schema.
const (
	elemArticle       = "article"
	elemInproceedings = "inproceedings"
	elemProfile       = "www"
	elemAuthor        = "author"
	elemYear          = "year"
)

// DefaultArchivePath is where the archive is looked up when no path is configured.
const DefaultArchivePath = "./dblp.xml.gz"

// parseState is the record the parser is currently inside.
type parseState int

const (
	stateIdle parseState = iota
	stateInPublication
	stateInProfile
)

// Stats counts what a stream has produced so far.
type Stats struct {
	Publications int
	Profiles     int
}

// Total returns the number of records emitted.
func (s Stats) Total() int {
	return s.Publications + s.Profiles
}

// Stream is a single-pass reader of bibliography records. It is not safe
// for concurrent use; open one Stream per goroutine.
type Stream struct {
	closers []io.Closer
	dec     *xml.Decoder

	publicationElems map[string]bool

	state parseState
	// depth counts open record elements so that a nested record start tag is
	// absorbed and only the outermost end tag emits.
	depth int
	// field is the element whose text is being collected, or "".
	field string
	text  strings.Builder

	authors []string
	year    int

	stats Stats
}

// Open opens the gzip-compressed archive named by cfg.ArchivePath. The caller
// must Close the returned Stream.
func Open(cfg types.BibliographyConfig) (*Stream, error) {
	path := cfg.ArchivePath
	if path == "" {
		path = DefaultArchivePath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bibliography archive: %w", err)
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading gzip header of %s: %w", path, err)
	}

	s := NewStream(gz, cfg)
	s.closers = []io.Closer{gz, f}
	return s, nil
}

// NewStream returns a Stream over uncompressed XML read from r.
func NewStream(r io.Reader, cfg types.BibliographyConfig) *Stream {
	dec := xml.NewDecoder(r)
	// DBLP declares ISO-8859-1 and relies on DTD entities for accented
	// characters; the HTML entity table covers the ones it defines.
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity
	dec.Strict = false

	elems := map[string]bool{
		elemArticle:       true,
		elemInproceedings: true,
	}
	for _, name := range cfg.PublicationElements {
		name = strings.TrimSpace(name)
		if name != "" && name != elemProfile {
			elems[name] = true
		}
	}

	return &Stream{
		dec:              dec,
		publicationElems: elems,
	}
}

// Close releases the archive file and decompressor. It is safe to call on a
// Stream created with NewStream.
func (s *Stream) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Stats returns the counts of records emitted so far.
func (s *Stream) Stats() Stats {
	return s.stats
}

// Next returns the next publication or profile record. It returns io.EOF
// once the archive is exhausted; a partially read record at that point is
// discarded.
func (s *Stream) Next() (types.Publication, error) {
	for {
		tok, err := s.dec.Token()
		if err == io.EOF {
			s.reset()
			return types.Publication{}, io.EOF
		}
		if err != nil {
			return types.Publication{}, fmt.Errorf("reading bibliography: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			s.start(t.Name.Local)
		case xml.CharData:
			if s.field != "" {
				s.text.Write(t)
			}
		case xml.EndElement:
			if rec, ok := s.end(t.Name.Local); ok {
				return rec, nil
			}
		}
	}
}

// Each calls fn for every remaining record until the archive is exhausted,
// fn returns an error, or ctx is cancelled.
func (s *Stream) Each(ctx context.Context, fn func(types.Publication) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := s.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

func (s *Stream) recordKind(name string) (parseState, bool) {
	if s.publicationElems[name] {
		return stateInPublication, true
	}
	if name == elemProfile {
		return stateInProfile, true
	}
	return stateIdle, false
}

func (s *Stream) start(name string) {
	if next, ok := s.recordKind(name); ok {
		if s.state == stateIdle {
			s.state = next
		}
		s.depth++
		return
	}

	switch {
	case s.state == stateIdle:
	case name == elemAuthor:
		s.beginField(name)
	case name == elemYear && s.state == stateInPublication:
		s.beginField(name)
	}
}

func (s *Stream) beginField(name string) {
	s.field = name
	s.text.Reset()
}

// end handles a closing tag and reports whether it completed a record.
func (s *Stream) end(name string) (types.Publication, bool) {
	if s.field != "" && name == s.field {
		s.finishField()
		return types.Publication{}, false
	}

	if _, ok := s.recordKind(name); !ok || s.state == stateIdle {
		return types.Publication{}, false
	}

	s.depth--
	if s.depth > 0 {
		return types.Publication{}, false
	}

	rec := types.Publication{Authors: s.authors}
	if s.state == stateInPublication {
		rec.Kind = types.KindPublication
		rec.Year = s.year
		s.stats.Publications++
	} else {
		rec.Kind = types.KindProfile
		s.stats.Profiles++
	}
	s.reset()
	return rec, true
}

func (s *Stream) finishField() {
	value := strings.TrimSpace(s.text.String())
	switch s.field {
	case elemAuthor:
		if value != "" {
			s.authors = append(s.authors, value)
		}
	case elemYear:
		year, err := strconv.Atoi(value)
		if err != nil {
			year = 0
		}
		s.year = year
	}
	s.field = ""
	s.text.Reset()
}

// reset returns the accumulator to Idle. The author slice is dropped rather
// than truncated because the emitted record still refers to it.
func (s *Stream) reset() {
	s.state = stateIdle
	s.depth = 0
	s.field = ""
	s.text.Reset()
	s.authors = nil
	s.year = 0
}
