package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringKeyComparator_BitIndex(t *testing.T) {
	t.Parallel()

	for _, tcase := range []struct {
		A, B string
		Exp8 int
	}{
		{"a", "a", EqualBitKey},
		{"", "", NullBitKey},
		{"\x00", "", NullBitKey},
		{"ab", "ab\x00", EqualBitKey},
		// 'a' = 0110 0001, 'b' = 0110 0010
		{"a", "b", 6},
		{"ca", "cb", 14},
		{"car", "ca", 17},
		{"", "a", 1},
	} {
		assert.Equal(t, tcase.Exp8, String.BitIndex(tcase.A, tcase.B), "%q vs %q", tcase.A, tcase.B)
	}

	// Wide units shift every index by the eight zero-extension bits.
	assert.Equal(t, 14, WideString.BitIndex("a", "b"))
	assert.Equal(t, 30, WideString.BitIndex("ca", "cb"))
	assert.Equal(t, 16, WideString.UnitBits())
}

func TestStringKeyComparator_IsBitSet(t *testing.T) {
	t.Parallel()

	// 'a' = 0110 0001
	var got []bool
	for i := 0; i < 8; i++ {
		got = append(got, String.IsBitSet("a", i))
	}
	assert.Equal(t, []bool{false, true, true, false, false, false, false, true}, got)
	assert.False(t, String.IsBitSet("a", 8), "bits past the key are zero")
	assert.False(t, String.IsBitSet("a", -1))

	assert.False(t, WideString.IsBitSet("a", 1), "high byte of a wide unit is zero")
	assert.True(t, WideString.IsBitSet("a", 9))
	assert.Equal(t, 32, WideString.LengthInBits("ab"))
}

func TestNewStringKeyComparator_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewStringKeyComparator(12) })
	assert.NotPanics(t, func() { NewStringKeyComparator(32) })
}

func TestBytesKeyComparator(t *testing.T) {
	t.Parallel()

	assert.True(t, Bytes.IsNull(nil))
	assert.False(t, Bytes.IsNull([]byte{}))
	assert.Equal(t, 6, Bytes.BitIndex([]byte("a"), []byte("b")))
	assert.Equal(t, NullBitKey, Bytes.BitIndex([]byte{0, 0}, nil))
	assert.Negative(t, Bytes.Compare([]byte("a"), []byte("b")))

	tr := New[[]byte](Bytes)
	assert.Equal(t, KeyComparator[[]byte](Bytes), tr.Comparator())
}
