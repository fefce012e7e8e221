package suggest

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/tchap/go-patricia/v2/patricia"
)

// HotCache keeps the results of recent prefix queries. Recency is tracked by
// an LRU; the cached prefixes are also indexed in a patricia trie so that
// adding a word can drop exactly the cached prefixes of that word.
type HotCache struct {
	entries    *simplelru.LRU[string, *cacheEntry]
	prefixes   *patricia.Trie
	hits       int64
	maxEntries int
	mu         sync.Mutex
}

type cacheEntry struct {
	suggestions []Suggestion
	// limit is the cap the suggestions were computed with.
	limit int
}

// NewHotCache creates a cache holding at most maxEntries prefixes.
func NewHotCache(maxEntries int) *HotCache {
	hc := &HotCache{
		prefixes:   patricia.NewTrie(),
		maxEntries: maxEntries,
	}
	if maxEntries > 0 {
		// Only fails for a non-positive size.
		hc.entries, _ = simplelru.NewLRU[string, *cacheEntry](maxEntries, hc.onEvict)
	}
	return hc
}

// onEvict runs under hc.mu, from inside Add and Remove.
func (hc *HotCache) onEvict(prefix string, _ *cacheEntry) {
	hc.prefixes.Delete(patricia.Prefix(prefix))
	log.Debugf("Dropped prefix '%s' from hot cache", prefix)
}

// Get returns cached suggestions for prefix if they can answer a query
// capped at limit.
func (hc *HotCache) Get(prefix string, limit int) ([]Suggestion, bool) {
	if prefix == "" || hc.entries == nil {
		return nil, false
	}

	hc.mu.Lock()
	defer hc.mu.Unlock()

	entry, ok := hc.entries.Get(prefix)
	if !ok {
		return nil, false
	}

	// A full page computed with a smaller cap may be missing words.
	if limit > entry.limit && len(entry.suggestions) == entry.limit {
		return nil, false
	}
	hc.hits++

	n := min(limit, len(entry.suggestions))
	out := make([]Suggestion, n)
	copy(out, entry.suggestions[:n])
	return out, true
}

// Put stores the suggestions computed for prefix with the given cap.
func (hc *HotCache) Put(prefix string, limit int, suggestions []Suggestion) {
	if prefix == "" || hc.entries == nil {
		return
	}

	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.entries.Add(prefix, &cacheEntry{
		suggestions: append([]Suggestion(nil), suggestions...),
		limit:       limit,
	})
	hc.prefixes.Set(patricia.Prefix(prefix), struct{}{})
}

// Invalidate drops every cached prefix of word.
func (hc *HotCache) Invalidate(word string) {
	if hc.entries == nil {
		return
	}

	hc.mu.Lock()
	defer hc.mu.Unlock()

	var stale []string
	err := hc.prefixes.VisitPrefixes(patricia.Prefix(word), func(p patricia.Prefix, _ patricia.Item) error {
		stale = append(stale, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting hot cache prefixes: %v", err)
	}

	for _, p := range stale {
		hc.entries.Remove(p)
	}
	if len(stale) > 0 {
		log.Debugf("Invalidated %d cached prefixes of '%s'", len(stale), word)
	}
}

// Stats reports cache occupancy and hits.
func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	count := 0
	if hc.entries != nil {
		count = hc.entries.Len()
	}
	return map[string]int{
		"hotCacheEntries": count,
		"maxHotEntries":   hc.maxEntries,
		"hotCacheHits":    int(hc.hits),
	}
}
