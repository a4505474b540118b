package metadata

// ContainsNonLatin reports whether s contains characters from the Japanese,
// Chinese or Korean Unicode blocks.
//
// This is a pure code-point range classification, intentionally independent
// of any string-processing library. The checked ranges are:
//   - U+3040–U+309F Hiragana
//   - U+30A0–U+30FF Katakana
//   - U+4E00–U+9FFF CJK Unified Ideographs (Kanji/Hanzi)
//   - U+AC00–U+D7AF Hangul Syllables
func ContainsNonLatin(s string) bool {
	for _, r := range s {
		if (r >= 0x3040 && r <= 0x309F) ||
			(r >= 0x30A0 && r <= 0x30FF) ||
			(r >= 0x4E00 && r <= 0x9FFF) ||
			(r >= 0xAC00 && r <= 0xD7AF) {
			return true
		}
	}
	return false
}
