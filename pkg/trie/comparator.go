package trie

import (
	"bytes"
	"fmt"
	"strings"
)

// Reserved results of KeyComparator.BitIndex.
const (
	// NullBitKey is returned when every compared bit was zero.
	NullBitKey = -1
	// EqualBitKey is returned when both keys have identical bits.
	EqualBitKey = -2
	// OutOfBoundsBitKey marks an index the comparator could not represent.
	OutOfBoundsBitKey = -3
)

// KeyComparator exposes the bit layout of a key type.
// Keys are treated as if right-padded with an infinite run of zero bits.
type KeyComparator[K any] interface {
	// LengthInBits returns the number of addressable bits of key.
	LengthInBits(key K) int
	// IsBitSet reports the bit at bitIndex, most significant bit first
	// within each unit. Bits past LengthInBits are zero.
	IsBitSet(key K, bitIndex int) bool
	// BitIndex returns the index of the first bit that differs between the
	// two keys, or NullBitKey / EqualBitKey.
	BitIndex(key, otherKey K) int
	// Compare orders keys. It must agree with bit equality for stored keys.
	Compare(a, b K) int
}

// nullChecker is implemented by comparators whose key type has an absent value.
type nullChecker[K any] interface {
	IsNull(key K) bool
}

// StringKeyComparator reads a string as a sequence of byte units, each
// zero-extended to a fixed width.
type StringKeyComparator struct {
	size int
	msb  uint32
}

var (
	// String uses one 8-bit unit per byte, matching Go's byte-wise string order.
	String = NewStringKeyComparator(8)
	// WideString uses 16-bit units.
	WideString = NewStringKeyComparator(16)
)

// NewStringKeyComparator returns a comparator with units of the given width.
// Only 8, 16 and 32 are accepted.
func NewStringKeyComparator(unitBits int) *StringKeyComparator {
	switch unitBits {
	case 8, 16, 32:
	default:
		panic(fmt.Sprintf("trie: unsupported unit width %d", unitBits))
	}
	return &StringKeyComparator{size: unitBits, msb: 1 << (unitBits - 1)}
}

// UnitBits returns the width of one unit.
func (c *StringKeyComparator) UnitBits() int { return c.size }

func (c *StringKeyComparator) LengthInBits(key string) int {
	return len(key) * c.size
}

func (c *StringKeyComparator) IsBitSet(key string, bitIndex int) bool {
	if bitIndex < 0 || bitIndex >= c.LengthInBits(key) {
		return false
	}
	return uint32(key[bitIndex/c.size])&c.mask(bitIndex%c.size) != 0
}

func (c *StringKeyComparator) BitIndex(key, otherKey string) int {
	allNull := true
	length := max(len(key), len(otherKey))

	for i := 0; i < length; i++ {
		ch1 := unitAt(key, i)
		ch2 := unitAt(otherKey, i)

		if ch1 != ch2 {
			xor := uint32(ch1 ^ ch2)
			for j := 0; j < c.size; j++ {
				if xor&c.mask(j) != 0 {
					return i*c.size + j
				}
			}
		}
		if ch1 != 0 {
			allNull = false
		}
	}

	if allNull {
		return NullBitKey
	}
	return EqualBitKey
}

func (c *StringKeyComparator) Compare(a, b string) int {
	return strings.Compare(a, b)
}

// mask returns a mask with only the given bit of a unit set.
func (c *StringKeyComparator) mask(bit int) uint32 {
	return c.msb >> bit
}

func unitAt(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// BytesKeyComparator reads a byte slice as 8-bit units. A nil slice is the
// absent key; an empty non-nil slice is a zero-length key.
type BytesKeyComparator struct{}

// Bytes is the shared BytesKeyComparator.
var Bytes = BytesKeyComparator{}

func (BytesKeyComparator) LengthInBits(key []byte) int { return len(key) * 8 }

func (BytesKeyComparator) IsBitSet(key []byte, bitIndex int) bool {
	if bitIndex < 0 || bitIndex >= len(key)*8 {
		return false
	}
	return key[bitIndex/8]&(0x80>>(bitIndex%8)) != 0
}

func (BytesKeyComparator) BitIndex(key, otherKey []byte) int {
	allNull := true
	length := max(len(key), len(otherKey))

	for i := 0; i < length; i++ {
		var b1, b2 byte
		if i < len(key) {
			b1 = key[i]
		}
		if i < len(otherKey) {
			b2 = otherKey[i]
		}
		if b1 != b2 {
			xor := b1 ^ b2
			for j := 0; j < 8; j++ {
				if xor&(0x80>>j) != 0 {
					return i*8 + j
				}
			}
		}
		if b1 != 0 {
			allNull = false
		}
	}

	if allNull {
		return NullBitKey
	}
	return EqualBitKey
}

func (BytesKeyComparator) Compare(a, b []byte) int { return bytes.Compare(a, b) }

func (BytesKeyComparator) IsNull(key []byte) bool { return key == nil }
