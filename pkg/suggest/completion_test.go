package suggest

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func words(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Word
	}
	return out
}

func TestComplete(t *testing.T) {
	t.Parallel()

	c := NewCompleter()
	added, err := c.AddWords([]string{"cat", "car", "cart", "dog", "car"})
	require.NoError(t, err)
	assert.Equal(t, 4, added)
	assert.Equal(t, 4, c.Size())

	got := c.Complete("ca", 10)
	assert.Equal(t, []string{"car", "cart", "cat"}, words(got))
	for i, s := range got {
		assert.Equal(t, uint16(i+1), s.Rank)
	}

	assert.Equal(t, []string{"car", "cart"}, words(c.Complete("ca", 2)))
	assert.Empty(t, c.Complete("x", 10))
	assert.Empty(t, c.Complete("ca", 0))

	first, err := c.FirstWord()
	require.NoError(t, err)
	assert.Equal(t, "car", first)
}

func TestComplete_CacheInvalidation(t *testing.T) {
	t.Parallel()

	c := NewCompleterWithOptions(Options{UnitBits: 8, HotCacheSize: 4})
	require.NoError(t, c.AddWord("apple"))
	require.NoError(t, c.AddWord("apply"))

	assert.Equal(t, []string{"apple", "apply"}, words(c.Complete("app", 10)))
	assert.Equal(t, []string{"apple", "apply"}, words(c.Complete("app", 10)))
	assert.Equal(t, 1, c.Stats()["hotCacheHits"])

	require.NoError(t, c.AddWord("appetite"))
	assert.Equal(t, []string{"appetite", "apple", "apply"}, words(c.Complete("app", 10)))

	// Smaller caps are served from the cached page.
	assert.Equal(t, []string{"appetite"}, words(c.Complete("app", 1)))
	assert.Equal(t, []string{"appetite", "apple"}, words(c.Complete("app", 2)))
}

func TestComplete_FoldCase(t *testing.T) {
	t.Parallel()

	c := NewCompleterWithOptions(Options{UnitBits: 16, FoldCase: true})
	_, err := c.AddWords([]string{"Hello", "help", "helmet"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello", "Helmet", "Help"}, words(c.Complete("Hel", 10)))
	assert.Equal(t, []string{"hello", "helmet", "help"}, words(c.Complete("hel", 10)))
	assert.True(t, c.Contains("HELLO"))

	require.NoError(t, c.AddWord("Straße"))
	assert.True(t, c.Contains("STRASSE"))
	assert.Equal(t, []string{"strasse"}, words(c.Complete("stras", 10)))
	assert.Equal(t, 16, c.Stats()["unitBits"])
}

func TestComplete_FoldCaseShiftedCapitals(t *testing.T) {
	t.Parallel()

	c := NewCompleterWithOptions(Options{FoldCase: true, HotCacheSize: 8})
	require.NoError(t, c.AddWord("kate"))

	// U+212A KELVIN SIGN is three bytes and folds to the single byte "k".
	assert.Equal(t, []string{"kATe"}, words(c.Complete("\u212aAT", 5)))
	// "ß" folds to "ss"; the capital after it stays on its letter.
	require.NoError(t, c.AddWord("strasse"))
	assert.Equal(t, []string{"strassE"}, words(c.Complete("straßE", 5)))
	assert.Equal(t, []string{"strasse"}, words(c.Complete("strasse", 5)), "cached page keeps folded words")
}

func TestCapitalPositions(t *testing.T) {
	t.Parallel()

	c := NewCompleterWithOptions(Options{FoldCase: true})
	assert.Nil(t, capitalPositions("abc", c.fold))
	assert.Equal(t, []bool{true, false, true}, capitalPositions("AbC", c.fold))
	assert.Equal(t, []bool{false, false, true}, capitalPositions("ßA", c.fold))
	assert.Equal(t, "AbCd", ApplyCapitalization("abcd", capitalPositions("AbC", c.fold)))
}

func TestAddWord_RejectsNUL(t *testing.T) {
	t.Parallel()

	c := NewCompleter()
	require.NoError(t, c.AddWord("ab"))
	assert.ErrorIs(t, c.AddWord("ab\x00"), ErrInvalidWord)
	assert.ErrorIs(t, c.AddWord("\x00"), ErrInvalidWord)
	assert.Equal(t, 1, c.Size())
	assert.True(t, c.Contains("ab"))
	assert.Equal(t, []string{"ab"}, words(c.Complete("a", 5)))
}

func TestHotCache_Evicts(t *testing.T) {
	t.Parallel()

	hc := NewHotCache(2)
	hc.Put("a", 5, []Suggestion{{Word: "a", Rank: 1}})
	hc.Put("b", 5, []Suggestion{{Word: "b", Rank: 1}})
	_, ok := hc.Get("a", 5)
	require.True(t, ok)

	hc.Put("c", 5, nil)
	_, ok = hc.Get("b", 5)
	assert.False(t, ok, "least recently used prefix should be gone")
	_, ok = hc.Get("a", 5)
	assert.True(t, ok)
	assert.Equal(t, 2, hc.Stats()["hotCacheEntries"])

	hc.Invalidate("abc")
	_, ok = hc.Get("a", 5)
	assert.False(t, ok)
	assert.Equal(t, 1, hc.Stats()["hotCacheEntries"])
}

func TestCompleter_ConcurrentReaders(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(3)
	c := NewCompleter()
	var seed []string
	for i := 0; i < 500; i++ {
		seed = append(seed, strings.ToLower(faker.Word()))
	}
	_, err := c.AddWords(seed)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				prefix := seed[(w*200+i)%len(seed)][:1]
				for _, s := range c.Complete(prefix, 20) {
					if !strings.HasPrefix(s.Word, prefix) {
						t.Errorf("%q does not start with %q", s.Word, prefix)
						return
					}
				}
			}
		}(w)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 300; i++ {
			if err := c.AddWord(fmt.Sprintf("zz#%04d", i)); err != nil {
				t.Errorf("AddWord: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	assert.Len(t, c.Complete("zz#", 1000), 300)
}
