package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInput(t *testing.T) {
	t.Parallel()

	for _, tcase := range []struct {
		In  string
		Exp bool
	}{
		{"", false},
		{"hel", true},
		{"don't", true},
		{"well-known", true},
		{"123", false},
		{"a1", true},
		{"aaa", false},
		{"aa", true},
		{"he$", false},
		{"tab\t", false},
	} {
		assert.Equal(t, tcase.Exp, IsValidInput(tcase.In), "%q", tcase.In)
	}
}

func TestCreateRankList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []uint16{}, CreateRankList(0))
	assert.Equal(t, []uint16{}, CreateRankList(-3))
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
}

func TestFormatWithCommas(t *testing.T) {
	t.Parallel()

	for _, tcase := range []struct {
		In  int
		Exp string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	} {
		assert.Equal(t, tcase.Exp, FormatWithCommas(tcase.In))
	}
}

func TestTOMLHelpers(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "x.toml")
	require.NoError(t, EnsureDir(filepath.Dir(path)))
	type section struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
		On    bool   `toml:"on"`
	}
	require.NoError(t, SaveTOMLFile(map[string]section{"s": {Name: "x", Count: 4, On: true}}, path))
	assert.True(t, FileExists(path))

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	s, ok := ExtractSection(raw, "s")
	require.True(t, ok)

	name, ok := ExtractString(s, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", name)
	count, ok := ExtractInt64(s, "count")
	assert.True(t, ok)
	assert.Equal(t, 4, count)
	on, ok := ExtractBool(s, "on")
	assert.True(t, ok)
	assert.True(t, on)

	_, ok = ExtractInt64(s, "name")
	assert.False(t, ok)
}

func TestResolveDataPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.Equal(t, dir, ResolveDataPath("wordtrie", dir))
	assert.Equal(t, "no/such/file", ResolveDataPath("wordtrie", "no/such/file"))
	assert.Equal(t, "wordtrie", filepath.Base(ConfigDir("wordtrie")))
}
