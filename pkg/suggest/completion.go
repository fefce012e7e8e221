package suggest

import (
	"errors"
	"strings"
	"sync"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
)

// ErrInvalidWord is returned for words the trie cannot store distinctly.
var ErrInvalidWord = errors.New("word contains a NUL byte")

// Suggestion is a completion result. Rank 1 is the first word in key order.
type Suggestion struct {
	Word string
	Rank uint16
}

// Options tunes a Completer.
type Options struct {
	// UnitBits is the comparator unit width (8, 16 or 32).
	UnitBits int
	// FoldCase stores words case-folded and matches prefixes
	// case-insensitively, restoring the typed ASCII capitals on the results.
	FoldCase bool
	// HotCacheSize caps the number of cached prefixes. Zero disables it.
	HotCacheSize int
}

// DefaultOptions returns the options used by NewCompleter.
func DefaultOptions() Options {
	return Options{UnitBits: 8, FoldCase: false, HotCacheSize: 2048}
}

// Completer serves prefix queries from a PATRICIA trie. Writers take the
// write lock, so a query never observes a half-spliced node.
type Completer struct {
	trie     *trie.Trie[string]
	hotCache *HotCache
	opts     Options
	skipped  int
	mu       sync.RWMutex
}

// NewCompleter creates an empty completer with default options.
func NewCompleter() *Completer {
	return NewCompleterWithOptions(DefaultOptions())
}

// NewCompleterWithOptions creates an empty completer.
func NewCompleterWithOptions(opts Options) *Completer {
	if opts.UnitBits == 0 {
		opts.UnitBits = 8
	}
	c := &Completer{
		trie: trie.New[string](trie.NewStringKeyComparator(opts.UnitBits)),
		opts: opts,
	}
	if opts.HotCacheSize > 0 {
		c.hotCache = NewHotCache(opts.HotCacheSize)
	}
	return c
}

// AddWord inserts word. Re-adding a known word is a no-op. Words holding a
// NUL byte are rejected with ErrInvalidWord: their bits match the zero
// padding of shorter keys, so "ab\x00" would replace "ab".
func (c *Completer) AddWord(word string) error {
	if strings.IndexByte(word, 0) >= 0 {
		return ErrInvalidWord
	}
	word = c.fold(word)

	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.trie.Size()
	if err := c.trie.Insert(word); err != nil {
		return err
	}
	if c.trie.Size() == before && !c.trie.Contains(word) {
		c.skipped++
		log.Debugf("Comparator could not place word '%s'", word)
		return nil
	}
	if c.hotCache != nil {
		c.hotCache.Invalidate(word)
	}
	return nil
}

// AddWords inserts every word and returns how many were new.
func (c *Completer) AddWords(words []string) (int, error) {
	added := 0
	for _, w := range words {
		before := c.Size()
		if err := c.AddWord(w); err != nil {
			return added, err
		}
		if c.Size() > before {
			added++
		}
	}
	return added, nil
}

// Complete returns at most limit words starting with prefix, in ascending
// order.
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	if limit <= 0 {
		return []Suggestion{}
	}

	lookup := c.fold(prefix)
	var capitals []bool
	if c.opts.FoldCase {
		capitals = capitalPositions(prefix, c.fold)
	}

	if c.hotCache != nil {
		if cached, ok := c.hotCache.Get(lookup, limit); ok {
			return recapitalize(cached, capitals)
		}
	}

	// The read lock also covers Put so a concurrent AddWord cannot slip
	// between the lookup and caching its result.
	c.mu.RLock()
	defer c.mu.RUnlock()
	words := c.trie.Suggestions(lookup, limit)

	ranks := utils.CreateRankList(len(words))
	suggestions := make([]Suggestion, len(words))
	for i, w := range words {
		suggestions[i] = Suggestion{Word: w, Rank: ranks[i]}
	}

	if c.hotCache != nil {
		c.hotCache.Put(lookup, limit, suggestions)
	}
	return recapitalize(suggestions, capitals)
}

// fold applies full Unicode case folding when FoldCase is set. A Caser
// keeps state, so each call gets its own.
func (c *Completer) fold(s string) string {
	if !c.opts.FoldCase {
		return s
	}
	return cases.Fold().String(s)
}

func recapitalize(suggestions []Suggestion, capitals []bool) []Suggestion {
	if len(capitals) == 0 {
		return suggestions
	}
	for i := range suggestions {
		suggestions[i].Word = ApplyCapitalization(suggestions[i].Word, capitals)
	}
	return suggestions
}

// FirstWord returns the smallest stored word.
func (c *Completer) FirstWord() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trie.FirstKey()
}

// Contains reports whether word is stored.
func (c *Completer) Contains(word string) bool {
	word = c.fold(word)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trie.Contains(word)
}

// Size returns the number of distinct words.
func (c *Completer) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trie.Size()
}

// Stats returns counters describing the completer.
func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	stats := map[string]int{
		"totalWords":   c.trie.Size(),
		"skippedWords": c.skipped,
		"unitBits":     c.opts.UnitBits,
	}
	c.mu.RUnlock()

	if c.hotCache != nil {
		for k, v := range c.hotCache.Stats() {
			stats[k] = v
		}
	}
	return stats
}
