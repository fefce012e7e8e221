// Package dictionary reads word lists into a word sink.
//
// Two formats are understood: plain text with one word per line, and binary
// chunk files named dict_NNNN.bin. A chunk starts with a little-endian int32
// word count followed by, for each word, a uint16 byte length, the UTF-8
// bytes and a uint16 rank (1 is the most frequent word).
package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// errLimitReached stops a load once the word limit is hit. Loaders return
// nil in that case.
var errLimitReached = errors.New("word limit reached")

// Sink receives every loaded word. suggest.Completer is one.
type Sink interface {
	AddWord(word string) error
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ID        int
	Filename  string
	WordCount int
}

// LoaderStats provides statistics about the loading process
type LoaderStats struct {
	LoadedWords     int
	LoadedChunks    int
	AvailableChunks int
}

// limiter counts words handed to a sink and stops at max. Zero means no
// limit.
type limiter struct {
	sink  Sink
	max   int
	count int
}

func (l *limiter) add(word string) error {
	if l.max > 0 && l.count >= l.max {
		return errLimitReached
	}
	// NUL units are bit-identical to the implicit key padding.
	if strings.IndexByte(word, 0) >= 0 {
		log.Debugf("Skipping word with a NUL byte: %q", word)
		return nil
	}
	if err := l.sink.AddWord(word); err != nil {
		return fmt.Errorf("failed to add word %q: %w", word, err)
	}
	l.count++
	return nil
}

// LoadText feeds every non-empty trimmed line of r to sink, up to maxWords
// (zero for all). It returns the number of words fed.
func LoadText(r io.Reader, sink Sink, maxWords int) (int, error) {
	lim := &limiter{sink: sink, max: maxWords}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		if err := lim.add(word); err != nil {
			if errors.Is(err, errLimitReached) {
				break
			}
			return lim.count, err
		}
	}
	if err := scanner.Err(); err != nil {
		return lim.count, fmt.Errorf("failed to read word list: %w", err)
	}
	return lim.count, nil
}

// ReadChunk decodes a chunk stream and calls fn for each word in file order.
func ReadChunk(r io.Reader, fn func(word string, rank uint16) error) (int, error) {
	reader := bufio.NewReader(r)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return 0, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 || totalEntries > maxChunkWords {
		return 0, fmt.Errorf("invalid chunk word count %d", totalEntries)
	}

	count := 0
	for count < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			return count, fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return count, fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return count, fmt.Errorf("failed to read rank: %w", err)
		}

		if err := fn(string(wordBytes), rank); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// WriteChunk encodes words as a chunk. Ranks follow the slice order.
func WriteChunk(w io.Writer, words []string) error {
	if len(words) > maxChunkWords {
		return fmt.Errorf("chunk holds at most %d words, got %d", maxChunkWords, len(words))
	}

	writer := bufio.NewWriter(w)
	if err := binary.Write(writer, binary.LittleEndian, int32(len(words))); err != nil {
		return fmt.Errorf("failed to write chunk header: %w", err)
	}

	ranks := utils.CreateRankList(len(words))
	for i, word := range words {
		if len(word) > maxWordBytes {
			return fmt.Errorf("word %d is too long (%d bytes, at most %d)", i, len(word), maxWordBytes)
		}
		if err := binary.Write(writer, binary.LittleEndian, uint16(len(word))); err != nil {
			return fmt.Errorf("failed to write word length: %w", err)
		}
		if _, err := writer.WriteString(word); err != nil {
			return fmt.Errorf("failed to write word: %w", err)
		}
		if err := binary.Write(writer, binary.LittleEndian, ranks[i]); err != nil {
			return fmt.Errorf("failed to write rank: %w", err)
		}
	}
	return writer.Flush()
}

// ChunkFilename returns the file name used for chunk id.
func ChunkFilename(id int) string {
	return fmt.Sprintf("dict_%04d.bin", id)
}

// WriteChunks splits words into chunk files of at most chunkSize words in
// dir, numbered from 1. It returns the number of files written.
func WriteChunks(dir string, words []string, chunkSize int) (int, error) {
	if chunkSize <= 0 || chunkSize > maxChunkWords {
		return 0, fmt.Errorf("chunk size must be in [1, %d], got %d", maxChunkWords, chunkSize)
	}
	if err := utils.EnsureDir(dir); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	written := 0
	for start := 0; start < len(words); start += chunkSize {
		end := min(start+chunkSize, len(words))
		path := filepath.Join(dir, ChunkFilename(written+1))

		file, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("failed to create chunk file %s: %w", path, err)
		}
		err = WriteChunk(file, words[start:end])
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return written, fmt.Errorf("failed to write chunk file %s: %w", path, err)
		}
		written++
		log.Debugf("Wrote %s with %d words", path, end-start)
	}
	return written, nil
}

// LoadFile loads a text list or a single chunk file into sink.
func LoadFile(path string, sink Sink, maxWords int) (int, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return 0, err
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	switch format {
	case FormatText:
		return LoadText(file, sink, maxWords)
	case FormatChunk:
		lim := &limiter{sink: sink, max: maxWords}
		_, err := ReadChunk(file, func(word string, _ uint16) error {
			return lim.add(word)
		})
		if errors.Is(err, errLimitReached) {
			err = nil
		}
		return lim.count, err
	}
	return 0, fmt.Errorf("unsupported format %v for %s", format, path)
}

// Loader loads the chunk files of a directory into a sink.
type Loader struct {
	dirPath      string
	maxWords     int
	sink         Sink
	loadedChunks map[int]int // chunk id -> words fed
	totalWords   int
	mu           sync.Mutex
}

// NewLoader creates a loader for the chunks in dirPath. maxWords caps the
// words fed across all chunks; zero loads everything.
func NewLoader(dirPath string, maxWords int, sink Sink) *Loader {
	return &Loader{
		dirPath:      dirPath,
		maxWords:     maxWords,
		sink:         sink,
		loadedChunks: make(map[int]int),
	}
}

// GetAvailable scans the directory for chunk files, sorted by ID
func (l *Loader) GetAvailable() ([]ChunkInfo, error) {
	pattern := filepath.Join(l.dirPath, "dict_*.bin")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			log.Debugf("Skipping %s: not a numbered chunk", file)
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			continue
		}
		chunks = append(chunks, ChunkInfo{ID: chunkID, Filename: file, WordCount: wordCount})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// LoadAll reads the chunks needed to reach the word limit concurrently and
// feeds them to the sink in ID order.
func (l *Loader) LoadAll() error {
	chunks, err := l.GetAvailable()
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunk files found in %s", l.dirPath)
	}
	log.Debugf("Found %d chunk files", len(chunks))

	var needed []ChunkInfo
	total := 0
	for _, chunk := range chunks {
		if l.maxWords > 0 && total >= l.maxWords {
			break
		}
		needed = append(needed, chunk)
		total += chunk.WordCount
	}

	words := make([][]string, len(needed))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, chunk := range needed {
		i, chunk := i, chunk
		g.Go(func() error {
			w, err := readChunkFile(chunk.Filename)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", chunk.ID, err)
			}
			words[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, chunk := range needed {
		if err := l.feed(chunk.ID, words[i]); err != nil {
			return err
		}
	}
	return nil
}

// Load feeds one chunk to the sink. Loading a chunk twice is a no-op.
func (l *Loader) Load(chunkID int) error {
	words, err := readChunkFile(filepath.Join(l.dirPath, ChunkFilename(chunkID)))
	if err != nil {
		return fmt.Errorf("chunk %d: %w", chunkID, err)
	}
	return l.feed(chunkID, words)
}

func readChunkFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()

	var words []string
	_, err = ReadChunk(file, func(word string, _ uint16) error {
		words = append(words, word)
		return nil
	})
	return words, err
}

// feed hands the words of one chunk to the sink, honouring the word limit.
func (l *Loader) feed(chunkID int, words []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.loadedChunks[chunkID]; ok {
		return nil
	}
	remaining := 0
	if l.maxWords > 0 {
		remaining = l.maxWords - l.totalWords
		if remaining <= 0 {
			return nil
		}
	}

	lim := &limiter{sink: l.sink, max: remaining}
	for _, w := range words {
		if err := lim.add(w); err != nil {
			if errors.Is(err, errLimitReached) {
				break
			}
			return fmt.Errorf("chunk %d: %w", chunkID, err)
		}
	}

	l.loadedChunks[chunkID] = lim.count
	l.totalWords += lim.count
	log.Debugf("Chunk %d loaded: %d words", chunkID, lim.count)
	return nil
}

// GetLoadedIDs returns the IDs of loaded chunks in ascending order
func (l *Loader) GetLoadedIDs() []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]int, 0, len(l.loadedChunks))
	for id := range l.loadedChunks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// GetStats returns current loading statistics
func (l *Loader) GetStats() LoaderStats {
	chunks, _ := l.GetAvailable()

	l.mu.Lock()
	defer l.mu.Unlock()
	return LoaderStats{
		LoadedWords:     l.totalWords,
		LoadedChunks:    len(l.loadedChunks),
		AvailableChunks: len(chunks),
	}
}

// Load reads path, a word list file or a chunk directory, into sink.
func Load(path string, sink Sink, maxWords int) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("dictionary path %s: %w", path, err)
	}
	if !info.IsDir() {
		return LoadFile(path, sink, maxWords)
	}

	loader := NewLoader(path, maxWords, sink)
	if err := loader.LoadAll(); err != nil {
		return loader.GetStats().LoadedWords, err
	}
	return loader.GetStats().LoadedWords, nil
}
