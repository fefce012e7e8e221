package suggest

// capitalPositions marks the ASCII upper-case letters of s at their byte
// offsets in the folded form of s. fold is applied to one rune at a time, so
// runes whose folding changes length shift the later marks with them.
func capitalPositions(s string, fold func(string) string) []bool {
	var positions []bool
	found := false
	for _, r := range s {
		upper := r >= 'A' && r <= 'Z'
		width := len(fold(string(r)))
		for j := 0; j < width; j++ {
			positions = append(positions, upper && j == 0)
		}
		found = found || upper
	}
	if !found {
		return nil
	}
	return positions
}

// ApplyCapitalization upper-cases the letters of word at the positions the
// user typed in upper case.
func ApplyCapitalization(word string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return word
	}

	b := []byte(word)
	for i := 0; i < len(b) && i < len(capitalPositions); i++ {
		if capitalPositions[i] && b[i] >= 'a' && b[i] <= 'z' {
			b[i] = b[i] - 'a' + 'A'
		}
	}
	return string(b)
}
