// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadUsers(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pc-users.csv",
		"given_name,family_name,email,affiliation,country,orcid\n"+
			"Jon,Snow,jon@wall,Night's Watch,Westeros,0000-0001\n"+
			"Arya,Stark,arya@winterfell,Winterfell,Westeros,\n")

	got, err := LoadUsers(path)
	require.NoError(t, err)
	assert.Equal(t, []*types.ReviewerIdentity{
		{Name: "Jon Snow", Email: "jon@wall", ORCID: "0000-0001"},
		{Name: "Arya Stark", Email: "arya@winterfell"},
	}, got)
}

func TestLoadUsersErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"too few columns", "given_name,family_name,email\nJon,Snow\n", "line 2"},
		{"unbalanced quote", "given_name,family_name,email\n\"Jon,Snow,jon@wall\n", "reading"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "users.csv", tt.content)
			_, err := LoadUsers(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := LoadUsers(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestMappedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pc-users-mapped.csv")
	reviewers := []*types.ReviewerIdentity{
		{Name: "Jon Snow", Email: "jon@wall", ORCID: "0000-0001", Aliases: []string{"Jon Snow", "Jon Snow 0001"}},
		{Name: "Hodor", Email: "hodor@winterfell"},
	}

	require.NoError(t, WriteMapped(path, reviewers))
	got, err := LoadMapped(path)
	require.NoError(t, err)

	assert.Equal(t, reviewers[0], got[0])
	assert.Equal(t, "Hodor", got[1].Name)
	assert.Empty(t, got[1].Aliases)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestMappedPath(t *testing.T) {
	assert.Equal(t, "data/pc-users-mapped.csv", MappedPath("data/pc-users.csv"))
}

func TestLoadPapers(t *testing.T) {
	path := writeFile(t, t.TempDir(), "authors.csv",
		"paper,title,first,last,email,affiliation\n"+
			"42,On Winter,Ned,Stark,ned@winterfell,Winterfell\n"+
			"42,On Winter,Catelyn,Stark,cat@riverrun,Riverrun\n"+
			"7,Dragons,Daenerys,Targaryen,dany@dragonstone,\n"+
			"42,On Winter,Robb,Stark,robb@winterfell,\n")

	got, err := LoadPapers(path)
	require.NoError(t, err)
	assert.Equal(t, []types.Paper{
		{ID: "42", Title: "On Winter", Authors: []string{
			"Ned Stark <ned@winterfell>",
			"Catelyn Stark <cat@riverrun>",
			"Robb Stark <robb@winterfell>",
		}},
		{ID: "7", Title: "Dragons", Authors: []string{"Daenerys Targaryen <dany@dragonstone>"}},
	}, got)
}

func TestLoadAssignments(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv",
		"paper,title,decision,overall,expertise,email\n"+
			"42,On Winter,undecided,3,2,jon@wall\n"+
			"7,Dragons,undecided,1,3,arya@winterfell\n")

	got, err := LoadAssignments(path)
	require.NoError(t, err)
	assert.Equal(t, []Assignment{
		{PaperID: "42", ReviewerEmail: "jon@wall"},
		{PaperID: "7", ReviewerEmail: "arya@winterfell"},
	}, got)
}

func TestCountSubmissions(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv",
		"paper,title,first,last,email\n"+
			"1,T1,Ned,Stark,ned@winterfell\n"+
			"2,T2,Ned,Stark,ned@winterfell\n"+
			"2,T2,Arya,Stark,arya@winterfell\n")
	b := writeFile(t, dir, "b.csv",
		"paper,title,first,last,email\n"+
			"9,T9,Ned,Stark,ned@winterfell\n"+
			"9,T9,Bran,Stark,bran@winterfell\n")

	got, err := CountSubmissions(a, b)
	require.NoError(t, err)
	assert.Equal(t, []AuthorCount{
		{Author: "Arya Stark <arya@winterfell>", Papers: 1},
		{Author: "Bran Stark <bran@winterfell>", Papers: 1},
		{Author: "Ned Stark <ned@winterfell>", Papers: 3},
	}, got)
}
