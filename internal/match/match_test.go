// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/reviewer-conflicts/internal/dblp"
	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		reviewer  string
		candidate string
		want      bool
	}{
		{"exact", "Jon Snow", "Jon Snow", true},
		{"suffix after space", "Jon Snow", "Jon Snow Jr", true},
		{"dblp homonym number", "Jon Snow", "Jon Snow 0001", true},
		{"longer surname", "Jon Snow", "Jon Snowden", false},
		{"different case", "Jon Snow", "jon snow", false},
		{"shorter candidate", "Jon Snow", "Jon Sno", false},
		{"middle name is not skipped", "Jon Snow", "Jon A. Snow", false},
		{"empty reviewer name", "", "Jon Snow", false},
		{"diacritics not folded", "Jorg Muller", "Jörg Müller", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.reviewer, tt.candidate))
		})
	}
}

func roster() []*types.ReviewerIdentity {
	return []*types.ReviewerIdentity{
		{Name: "Jon Snow", Email: "jon@wall"},
		{Name: "Jon", Email: "jon@elsewhere"},
		{Name: "Arya Stark", Email: "arya@winterfell", Aliases: []string{"Arya Horseface Stark"}},
	}
}

func TestIndexLookup(t *testing.T) {
	idx := NewIndex(roster())

	tests := []struct {
		candidate string
		want      []string
	}{
		{"Jon Snow", []string{"Jon Snow", "Jon"}},
		{"Jon Snowden", []string{"Jon"}},
		{"Jon", []string{"Jon"}},
		{"Jonathan", nil},
		{"Arya Horseface Stark", []string{"Arya Stark"}},
		{"Arya Stark 0002", []string{"Arya Stark"}},
		{"Sansa Stark", nil},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			var got []string
			for _, r := range idx.Lookup(tt.candidate) {
				got = append(got, r.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexLookupByKey(t *testing.T) {
	idx := NewIndex(roster())

	r, ok := idx.ByEmail("arya@winterfell")
	require.True(t, ok)
	assert.Equal(t, "Arya Stark", r.Name)

	r, ok = idx.ByName("Jon Snow")
	require.True(t, ok)
	assert.Equal(t, "jon@wall", r.Email)

	_, ok = idx.ByEmail("ghost@wall")
	assert.False(t, ok)
}

func TestObserveRecordsAliasOnce(t *testing.T) {
	reviewers := []*types.ReviewerIdentity{{Name: "Jon Snow"}}
	idx := NewIndex(reviewers)

	added := idx.Observe("Jon Snow 0001")
	require.Len(t, added, 1)
	assert.Equal(t, []string{"Jon Snow 0001"}, reviewers[0].Aliases)

	assert.Empty(t, idx.Observe("Jon Snow 0001"), "repeated match is a no-op")
	assert.Empty(t, idx.Observe("Jon Snowden"), "no match has no effect")
	assert.Equal(t, []string{"Jon Snow 0001"}, reviewers[0].Aliases)
}

func TestIndexByAlias(t *testing.T) {
	jon := &types.ReviewerIdentity{Name: "Jon Snow", Aliases: []string{"Jon Snow 0001"}}
	targ := &types.ReviewerIdentity{Name: "Jon Snow", Email: "targ@north", Aliases: []string{"Jon Snow 0001"}}
	idx := NewIndex([]*types.ReviewerIdentity{jon, targ})

	assert.Equal(t, []*types.ReviewerIdentity{jon, targ}, idx.ByAlias("Jon Snow 0001"))
	assert.Empty(t, idx.ByAlias("Jon Snow"), "display name is not an alias")
	assert.Empty(t, idx.ByAlias("Jon Snow 0002"), "prefix rule is not applied")
}

func TestAmbiguous(t *testing.T) {
	idx := NewIndex(roster())
	idx.Observe("Jon Snow")
	idx.Observe("Arya Stark")

	assert.Equal(t, map[string][]string{"Jon Snow": {"Jon", "Jon Snow"}}, idx.Ambiguous())
}

func TestDiscoverAliases(t *testing.T) {
	doc := `<dblp>
<inproceedings><author>Jon Snow 0001</author><author>Ned Stark</author><year>2020</year></inproceedings>
<article><author>Jon Snow 0001</author><year>2021</year></article>
<www><author>Arya Stark 0002</author></www>
<article><author>Jon Snowden</author><year>2021</year></article>
</dblp>`

	reviewers := []*types.ReviewerIdentity{{Name: "Jon Snow"}, {Name: "Arya Stark"}}
	idx := NewIndex(reviewers)
	stream := dblp.NewStream(strings.NewReader(doc), types.BibliographyConfig{})

	var log bytes.Buffer
	summary, err := DiscoverAliases(context.Background(), stream, idx, &log)
	require.NoError(t, err)

	assert.Equal(t, DiscoverSummary{Publications: 3, Profiles: 1, NewAliases: 1}, summary)
	assert.Equal(t, []string{"Jon Snow 0001"}, reviewers[0].Aliases)
	assert.Empty(t, reviewers[1].Aliases, "profile records do not contribute aliases")
	assert.Equal(t, "found a match: Jon Snow -> Jon Snow 0001\n", log.String())
}
