package trie

// IsOutOfBoundsIndex reports whether bitIndex is the OutOfBoundsBitKey code.
func IsOutOfBoundsIndex(bitIndex int) bool { return bitIndex == OutOfBoundsBitKey }

// IsEqualBitKey reports whether bitIndex is the EqualBitKey code.
func IsEqualBitKey(bitIndex int) bool { return bitIndex == EqualBitKey }

// IsNullBitKey reports whether bitIndex is the NullBitKey code.
func IsNullBitKey(bitIndex int) bool { return bitIndex == NullBitKey }

// IsValidBitIndex reports whether bitIndex addresses a real bit.
func IsValidBitIndex(bitIndex int) bool { return bitIndex >= 0 }

// isNull reports whether cmp declares key absent.
func isNull[K any](cmp KeyComparator[K], key K) bool {
	if nc, ok := cmp.(nullChecker[K]); ok {
		return nc.IsNull(key)
	}
	return false
}

// keysEqual reports whether n holds a key ordered equal to key. Empty nodes
// never match.
func keysEqual[K any](cmp KeyComparator[K], key K, n *node[K]) bool {
	return !n.isEmpty() && cmp.Compare(key, n.key) == 0
}
