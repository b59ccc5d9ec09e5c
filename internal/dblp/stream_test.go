// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dblp

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

const sampleArchive = `<?xml version="1.0" encoding="ISO-8859-1"?>
<!DOCTYPE dblp SYSTEM "dblp.dtd">
<dblp>
<inproceedings key="conf/x/SnowS26" mdate="2026-01-01">
<author>Jon Snow</author>
<author>Ned Stark</author>
<title>Walls and <i>Wights</i>.</title>
<year>2026</year>
</inproceedings>
<www key="homepages/1/JonSnow">
<author>Jon Snow</author>
<author>Sansa Stark</author>
<title>Home Page</title>
<year>1999</year>
</www>
<article key="journals/y/Tyrion24">
<author orcid="0000-0001">Tyrion Lannister</author>
<year>2024</year>
</article>
<proceedings key="conf/x/2026">
<editor>Maester Aemon</editor>
<year>2026</year>
</proceedings>
</dblp>`

func readAll(t *testing.T, s *Stream) []types.Publication {
	t.Helper()
	var recs []types.Publication
	for {
		rec, err := s.Next()
		if err == io.EOF {
			return recs
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}
}

func TestStreamRecords(t *testing.T) {
	s := NewStream(strings.NewReader(sampleArchive), types.BibliographyConfig{})
	recs := readAll(t, s)

	require.Len(t, recs, 3)

	assert.Equal(t, types.KindPublication, recs[0].Kind)
	assert.Equal(t, []string{"Jon Snow", "Ned Stark"}, recs[0].Authors)
	assert.Equal(t, 2026, recs[0].Year)

	assert.Equal(t, types.KindProfile, recs[1].Kind)
	assert.Equal(t, []string{"Jon Snow", "Sansa Stark"}, recs[1].Authors)
	assert.Zero(t, recs[1].Year, "profile records never carry a year")

	assert.Equal(t, types.KindPublication, recs[2].Kind)
	assert.Equal(t, []string{"Tyrion Lannister"}, recs[2].Authors)
	assert.Equal(t, 2024, recs[2].Year)

	assert.Equal(t, Stats{Publications: 2, Profiles: 1}, s.Stats())
}

func TestStreamEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		cfg  types.BibliographyConfig
		want []types.Publication
	}{
		{
			name: "malformed year is treated as zero",
			xml:  `<dblp><article><author>A</author><year>20x6</year></article></dblp>`,
			want: []types.Publication{{Kind: types.KindPublication, Authors: []string{"A"}}},
		},
		{
			name: "missing year and empty author",
			xml:  `<dblp><article><author>  </author><author>B</author></article></dblp>`,
			want: []types.Publication{{Kind: types.KindPublication, Authors: []string{"B"}}},
		},
		{
			name: "author outside a record is ignored",
			xml:  `<dblp><author>Loose</author><year>2020</year><article><author>C</author></article></dblp>`,
			want: []types.Publication{{Kind: types.KindPublication, Authors: []string{"C"}}},
		},
		{
			name: "nested record start is absorbed by the outer record",
			xml:  `<dblp><article><author>A</author><www><author>B</author></www><year>2025</year></article><article><author>C</author></article></dblp>`,
			want: []types.Publication{
				{Kind: types.KindPublication, Authors: []string{"A", "B"}, Year: 2025},
				{Kind: types.KindPublication, Authors: []string{"C"}},
			},
		},
		{
			name: "state does not leak into the next record",
			xml:  `<dblp><article><author>A</author><year>2025</year></article><www><author>B</author></www></dblp>`,
			want: []types.Publication{
				{Kind: types.KindPublication, Authors: []string{"A"}, Year: 2025},
				{Kind: types.KindProfile, Authors: []string{"B"}},
			},
		},
		{
			name: "entities resolve to characters",
			xml:  `<dblp><article><author>J&ouml;rg M&uuml;ller</author></article></dblp>`,
			want: []types.Publication{{Kind: types.KindPublication, Authors: []string{"Jörg Müller"}}},
		},
		{
			name: "configured element counts as publication",
			xml:  `<dblp><incollection><author>D</author><year>2023</year></incollection></dblp>`,
			cfg:  types.BibliographyConfig{PublicationElements: []string{"incollection"}},
			want: []types.Publication{{Kind: types.KindPublication, Authors: []string{"D"}, Year: 2023}},
		},
		{
			name: "unconfigured element is skipped",
			xml:  `<dblp><incollection><author>D</author><year>2023</year></incollection></dblp>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(strings.NewReader(tt.xml), tt.cfg)
			assert.Equal(t, tt.want, readAll(t, s))
		})
	}
}

func TestStreamLatin1(t *testing.T) {
	// "M\xfcller" is Müller in ISO-8859-1.
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><dblp><article><author>M\xfcller</author></article></dblp>"
	s := NewStream(strings.NewReader(doc), types.BibliographyConfig{})
	recs := readAll(t, s)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"Müller"}, recs[0].Authors)
}

func writeGzip(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dblp.xml.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func TestOpen(t *testing.T) {
	path := writeGzip(t, sampleArchive)

	s, err := Open(types.BibliographyConfig{ArchivePath: path})
	require.NoError(t, err)
	defer s.Close()

	var kinds []types.RecordKind
	err = s.Each(context.Background(), func(p types.Publication) error {
		kinds = append(kinds, p.Kind)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []types.RecordKind{types.KindPublication, types.KindProfile, types.KindPublication}, kinds)
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(types.BibliographyConfig{ArchivePath: filepath.Join(t.TempDir(), "nope.xml.gz")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening bibliography archive")
	})

	t.Run("not gzip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dblp.xml.gz")
		require.NoError(t, os.WriteFile(path, []byte("<dblp></dblp>"), 0o644))
		_, err := Open(types.BibliographyConfig{ArchivePath: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gzip header")
	})

	t.Run("truncated archive", func(t *testing.T) {
		path := writeGzip(t, sampleArchive)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o644))

		s, err := Open(types.BibliographyConfig{ArchivePath: path})
		require.NoError(t, err)
		defer s.Close()

		err = s.Each(context.Background(), func(types.Publication) error { return nil })
		require.Error(t, err)
	})
}

func TestEachStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStream(strings.NewReader(sampleArchive), types.BibliographyConfig{})
	calls := 0
	err := s.Each(ctx, func(types.Publication) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
