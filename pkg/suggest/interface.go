// Package suggest wraps the PATRICIA trie with the locking, ranking and
// caching a long-running completion service needs.
package suggest

// ICompleter defines the interface for word completion engines
type ICompleter interface {
	// Complete returns at most limit suggestions for prefix
	Complete(prefix string, limit int) []Suggestion

	// AddWord inserts a word into the dictionary
	AddWord(word string) error

	// Size returns the number of distinct words stored
	Size() int

	// Stats returns statistics about the loaded dictionary
	Stats() map[string]int
}
