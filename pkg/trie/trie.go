// Package trie implements a PATRICIA trie over the bit representation of
// arbitrary keys.
//
// Every stored key lives in exactly one node. A node tests a single bit
// index; its two child slots either point down to a node with a larger bit
// index or back up to an ancestor (or itself). Those uplinks end a descent
// and also thread an in-order walk over the keys that needs no stack.
//
// A Trie is not safe for concurrent use. Wrap it with a lock when writers
// and readers may overlap, as suggest.Completer does.
package trie

import "errors"

var (
	// ErrInvalidKey is returned when inserting a key the comparator reports
	// as absent.
	ErrInvalidKey = errors.New("trie: invalid key")
	// ErrEmpty is returned by FirstKey on a trie with no keys.
	ErrEmpty = errors.New("trie: empty collection")
)

// Trie is a PATRICIA trie ordered by a KeyComparator.
type Trie[K any] struct {
	nodes []node[K]
	cmp   KeyComparator[K]
	size  int
}

// New returns an empty trie using cmp.
func New[K any](cmp KeyComparator[K]) *Trie[K] {
	t := &Trie[K]{cmp: cmp}
	t.nodes = append(t.nodes, node[K]{
		bitIndex:    -1,
		parent:      noNode,
		left:        link{kind: linkUplink, to: rootID},
		right:       link{kind: linkNone, to: noNode},
		predecessor: rootID,
	})
	return t
}

// Size returns the number of distinct keys stored.
func (t *Trie[K]) Size() int { return t.size }

// Comparator returns the comparator the trie was built with.
func (t *Trie[K]) Comparator() KeyComparator[K] { return t.cmp }

func (t *Trie[K]) n(id nodeID) *node[K] { return &t.nodes[id] }

// linkTo builds the link from -> to. The kind only depends on the two bit
// indices, which never change once a node exists.
func (t *Trie[K]) linkTo(from, to nodeID) link {
	if t.n(to).bitIndex <= t.n(from).bitIndex {
		return link{kind: linkUplink, to: to}
	}
	return link{kind: linkChild, to: to}
}

// Insert stores key. Inserting a key equal to a stored one overwrites it and
// leaves Size unchanged.
func (t *Trie[K]) Insert(key K) error {
	if isNull(t.cmp, key) {
		return ErrInvalidKey
	}

	// Zero-length keys can only live in the root.
	if t.cmp.LengthInBits(key) == 0 {
		t.storeRoot(key)
		return nil
	}

	nearest := t.nearest(key)
	nn := t.n(nearest)
	if keysEqual(t.cmp, key, nn) {
		nn.setKey(key)
		return nil
	}

	bitIndex := t.bitIndex(key, nn)
	switch {
	case IsValidBitIndex(bitIndex):
		t.splice(key, bitIndex)
		t.size++
	case IsNullBitKey(bitIndex):
		t.storeRoot(key)
	case IsEqualBitKey(bitIndex):
		// Same bits, different order, e.g. trailing zero units.
		if nearest != rootID {
			nn.setKey(key)
		} else {
			t.storeRoot(key)
		}
	case IsOutOfBoundsIndex(bitIndex):
		// The comparator could not place the key.
	}
	return nil
}

func (t *Trie[K]) storeRoot(key K) {
	root := t.n(rootID)
	if root.isEmpty() {
		t.size++
	}
	root.setKey(key)
}

// bitIndex compares key with the key stored in other, treating an empty
// node as an all-zero key.
func (t *Trie[K]) bitIndex(key K, other *node[K]) int {
	if !other.isEmpty() {
		return t.cmp.BitIndex(key, other.key)
	}
	length := t.cmp.LengthInBits(key)
	for i := 0; i < length; i++ {
		if t.cmp.IsBitSet(key, i) {
			return i
		}
	}
	return NullBitKey
}

// step follows the slot of id selected by key's bit at id's bit index.
func (t *Trie[K]) step(id nodeID, key K) link {
	n := t.n(id)
	if t.cmp.IsBitSet(key, n.bitIndex) {
		return n.right
	}
	return n.left
}

// nearest descends from the root along key's bits and returns the node
// reached through the first uplink.
func (t *Trie[K]) nearest(key K) nodeID {
	l := t.n(rootID).left
	for l.isChild() {
		l = t.step(l.to, key)
	}
	return l.to
}

// splice adds a node for key branching at bitIndex. It stops on the path at
// the first uplink or at the first node testing a bit at or after bitIndex,
// which keeps bit indices increasing along child links.
func (t *Trie[K]) splice(key K, bitIndex int) nodeID {
	id := nodeID(len(t.nodes))
	t.nodes = append(t.nodes, node[K]{
		key:      key,
		hasKey:   true,
		bitIndex: bitIndex,
		parent:   noNode,
	})

	path := rootID
	l := t.n(rootID).left
	for l.isChild() && t.n(l.to).bitIndex < bitIndex {
		path = l.to
		l = t.step(path, key)
	}
	current := l.to

	n := t.n(id)
	n.predecessor = id
	self := link{kind: linkUplink, to: id}
	if !t.cmp.IsBitSet(key, bitIndex) {
		n.left = self
		n.right = t.linkTo(id, current)
	} else {
		n.left = t.linkTo(id, current)
		n.right = self
	}
	n.parent = path

	if l.isChild() {
		t.n(current).parent = id
	} else {
		// current was reached through an uplink that now starts at id.
		t.n(current).predecessor = id
	}

	p := t.n(path)
	if path == rootID || !t.cmp.IsBitSet(key, p.bitIndex) {
		p.left = link{kind: linkChild, to: id}
	} else {
		p.right = link{kind: linkChild, to: id}
	}
	return id
}

// Contains reports whether a key comparing equal to key is stored.
func (t *Trie[K]) Contains(key K) bool {
	if isNull(t.cmp, key) || t.size == 0 {
		return false
	}
	var id nodeID
	if t.cmp.LengthInBits(key) == 0 {
		id = rootID
	} else {
		id = t.nearest(key)
	}
	return keysEqual(t.cmp, key, t.n(id))
}

// FirstKey returns the smallest stored key.
func (t *Trie[K]) FirstKey() (K, error) {
	id := t.firstNode()
	if id == noNode {
		var zero K
		return zero, ErrEmpty
	}
	return t.n(id).key, nil
}

// Walk calls fn for every key in ascending order until fn returns false.
func (t *Trie[K]) Walk(fn func(key K) bool) {
	for id := t.firstNode(); id != noNode; id = t.successor(id, noNode) {
		if !fn(t.n(id).key) {
			return
		}
	}
}

// Suggestions returns at most maxCount stored keys having prefix as a bit
// prefix, in ascending order. No match yields an empty slice.
func (t *Trie[K]) Suggestions(prefix K, maxCount int) []K {
	suggestions := make([]K, 0, min(max(maxCount, 0), t.size))
	if maxCount <= 0 || t.size == 0 || isNull(t.cmp, prefix) {
		return suggestions
	}

	var first, bound nodeID
	if t.cmp.LengthInBits(prefix) == 0 {
		first, bound = t.firstNode(), noNode
	} else {
		anchor := t.subtree(prefix)
		if anchor == noNode {
			return suggestions
		}
		// Reached through an uplink: nothing else can share the prefix.
		if t.cmp.LengthInBits(prefix) > t.n(anchor).bitIndex {
			return append(suggestions, t.n(anchor).key)
		}
		first, bound = t.traverseLeft(anchor), anchor
	}

	for id := first; id != noNode && len(suggestions) < maxCount; id = t.successor(id, bound) {
		suggestions = append(suggestions, t.n(id).key)
	}
	return suggestions
}

// subtree returns the node anchoring every key that starts with prefix, or
// noNode when no stored key does.
func (t *Trie[K]) subtree(prefix K) nodeID {
	length := t.cmp.LengthInBits(prefix)

	path := rootID
	l := t.n(rootID).left
	for l.isChild() && t.n(l.to).bitIndex < length {
		path = l.to
		l = t.step(path, prefix)
	}

	entry := l.to
	if t.n(entry).isEmpty() {
		entry = path
	}
	e := t.n(entry)
	if e.isEmpty() {
		return noNode
	}

	// An empty root key must not anchor a longer prefix.
	if entry == rootID && t.cmp.LengthInBits(e.key) < length {
		return noNode
	}

	if length > 0 && t.cmp.IsBitSet(prefix, length-1) != t.cmp.IsBitSet(e.key, length-1) {
		return noNode
	}

	if bitIndex := t.cmp.BitIndex(prefix, e.key); bitIndex >= 0 && bitIndex < length {
		return noNode
	}
	return entry
}

func (t *Trie[K]) firstNode() nodeID {
	if t.size == 0 {
		return noNode
	}
	return t.traverseLeft(rootID)
}

// traverseLeft follows left slots from id, taking the right slot when the
// left one leads to the empty root, and returns the first uplink target.
func (t *Trie[K]) traverseLeft(id nodeID) nodeID {
	for {
		n := t.n(id)
		l := n.left
		if t.n(l.to).isEmpty() {
			l = n.right
		}
		if l.kind == linkNone {
			return noNode
		}
		if l.isUplink() {
			return l.to
		}
		id = l.to
	}
}

// validUplink reports whether l is an uplink to a node holding a key.
func (t *Trie[K]) validUplink(l link) bool {
	return l.isUplink() && !t.n(l.to).isEmpty()
}

// successor returns the node holding the next key after previous, or noNode.
// The walk never climbs above bound; noNode means no bound.
func (t *Trie[K]) successor(previous, bound nodeID) nodeID {
	start := t.n(previous).predecessor

	for {
		current := start

		// previous was reached through the predecessor's uplink, so its
		// left side is already done.
		if start != t.n(previous).predecessor {
			for {
				left := t.n(current).left
				if t.n(left.to).isEmpty() || left.to == previous {
					break
				}
				if left.isUplink() {
					return left.to
				}
				current = left.to
			}
		}

		c := t.n(current)
		if c.isEmpty() || c.right.kind == linkNone {
			return noNode
		}

		if c.right.to != previous {
			if t.validUplink(c.right) {
				return c.right.to
			}
			start = c.right.to
			continue
		}

		// Both sides are done: climb while we came from a right slot.
		for c.parent != noNode {
			pr := t.n(c.parent).right
			if pr.kind == linkNone || pr.to != current {
				break
			}
			if current == bound {
				return noNode
			}
			current = c.parent
			c = t.n(current)
		}
		if current == bound || c.parent == noNode {
			return noNode
		}

		parentID := c.parent
		pr := t.n(parentID).right
		if pr.kind == linkNone {
			return noNode
		}
		if pr.to != previous && t.validUplink(pr) {
			return pr.to
		}
		if pr.to == parentID {
			return noNode
		}
		start = pr.to
	}
}
