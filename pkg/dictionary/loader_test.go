package dictionary

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

type recorder struct {
	words []string
	fail  string
}

func (r *recorder) AddWord(word string) error {
	if word == r.fail {
		return errors.New("rejected")
	}
	r.words = append(r.words, word)
	return nil
}

func TestLoadText(t *testing.T) {
	t.Parallel()

	in := "cat\n  car \n\n\tcart\r\ndog\n"
	sink := &recorder{}
	n, err := LoadText(strings.NewReader(in), sink, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"cat", "car", "cart", "dog"}, sink.words)

	sink = &recorder{}
	n, err = LoadText(strings.NewReader(in), sink, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"cat", "car"}, sink.words)

	_, err = LoadText(strings.NewReader(in), &recorder{fail: "cart"}, 0)
	assert.Error(t, err)
}

func TestLoadText_SkipsNUL(t *testing.T) {
	t.Parallel()

	sink := &recorder{}
	n, err := LoadText(strings.NewReader("ab\nab\x00\n\x00\ncd\n"), sink, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"ab", "cd"}, sink.words)
}

func TestWriteChunk_WordLength(t *testing.T) {
	t.Parallel()

	longest := strings.Repeat("w", maxWordBytes)
	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, []string{longest}))

	var got string
	_, err := ReadChunk(&buf, func(word string, _ uint16) error {
		got = word
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, got, maxWordBytes)

	buf.Reset()
	assert.Error(t, WriteChunk(&buf, []string{longest + "w"}))
}

func TestChunkRoundTrip(t *testing.T) {
	t.Parallel()

	words := []string{"the", "of", "naïve", ""}
	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, words))

	var got []string
	var ranks []uint16
	n, err := ReadChunk(&buf, func(word string, rank uint16) error {
		got = append(got, word)
		ranks = append(ranks, rank)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, words, got)
	assert.Equal(t, []uint16{1, 2, 3, 4}, ranks)
}

func TestReadChunk_Truncated(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, []string{"alpha", "beta"}))
	data := buf.Bytes()[:buf.Len()-3]

	n, err := ReadChunk(bytes.NewReader(data), func(string, uint16) error { return nil })
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(txt, []byte("b\na\n"), 0o644))

	sink := &recorder{}
	n, err := LoadFile(txt, sink, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	bin := filepath.Join(dir, ChunkFilename(1))
	f, err := os.Create(bin)
	require.NoError(t, err)
	require.NoError(t, WriteChunk(f, []string{"x", "y", "z"}))
	require.NoError(t, f.Close())

	format, err := DetectFileFormat(bin)
	require.NoError(t, err)
	assert.Equal(t, FormatChunk, format)

	sink = &recorder{}
	n, err = LoadFile(bin, sink, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"x", "y"}, sink.words)

	_, err = LoadFile(filepath.Join(dir, "words.csv"), sink, 0)
	assert.Error(t, err)
}

func TestLoader_ChunksInOrder(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(11)
	var words []string
	for i := 0; i < 25; i++ {
		words = append(words, faker.Word())
	}

	dir := t.TempDir()
	files, err := WriteChunks(dir, words, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, files)

	// Not a numbered chunk, ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dict_extra.bin"), []byte{0, 0, 0, 0}, 0o644))

	sink := &recorder{}
	loader := NewLoader(dir, 0, sink)
	chunks, err := loader.GetAvailable()
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{chunks[0].ID, chunks[1].ID, chunks[2].ID})
	assert.Equal(t, 5, chunks[2].WordCount)

	require.NoError(t, loader.LoadAll())
	assert.Equal(t, words, sink.words)
	assert.Equal(t, []int{1, 2, 3}, loader.GetLoadedIDs())

	require.NoError(t, loader.Load(2))
	assert.Len(t, sink.words, 25, "reloading a chunk is a no-op")

	stats := loader.GetStats()
	assert.Equal(t, LoaderStats{LoadedWords: 25, LoadedChunks: 3, AvailableChunks: 3}, stats)
}

func TestLoad_MaxWords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	words := []string{"a", "b", "c", "d", "e", "f", "g"}
	_, err := WriteChunks(dir, words, 3)
	require.NoError(t, err)

	sink := &recorder{}
	n, err := Load(dir, sink, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, words[:5], sink.words)

	_, err = Load(filepath.Join(dir, "missing"), sink, 0)
	assert.Error(t, err)

	_, err = Load(t.TempDir(), sink, 0)
	assert.Error(t, err, "directory without chunks")
}

func TestWriteChunks_BadSize(t *testing.T) {
	t.Parallel()

	_, err := WriteChunks(t.TempDir(), []string{"a"}, 0)
	assert.Error(t, err)
}
