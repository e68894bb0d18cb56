// Package fonts detects CJK text and locates a font able to render it.
package fonts

import "unicode"

// cjkRanges covers CJK ideographs, Japanese kana and Hangul syllables.
var cjkRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3040, Hi: 0x309F, Stride: 1}, // Hiragana
		{Lo: 0x30A0, Hi: 0x30FF, Stride: 1}, // Katakana
		{Lo: 0x31F0, Hi: 0x31FF, Stride: 1}, // Katakana Phonetic Extensions
		{Lo: 0x3400, Hi: 0x4DBF, Stride: 1}, // Extension A
		{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1}, // Unified Ideographs
		{Lo: 0xAC00, Hi: 0xD7AF, Stride: 1}, // Hangul Syllables
		{Lo: 0xF900, Hi: 0xFAFF, Stride: 1}, // Compatibility Ideographs
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2A6DF, Stride: 1}, // Extension B
		{Lo: 0x2A700, Hi: 0x2B73F, Stride: 1}, // Extension C
		{Lo: 0x2B740, Hi: 0x2B81F, Stride: 1}, // Extension D
		{Lo: 0x2B820, Hi: 0x2CEAF, Stride: 1}, // Extension E
		{Lo: 0x2F800, Hi: 0x2FA1F, Stride: 1}, // Compatibility Supplement
	},
}

// HasCJKText reports whether s contains at least one CJK, kana or Hangul code point.
func HasCJKText(s string) bool {
	for _, r := range s {
		if unicode.Is(cjkRanges, r) {
			return true
		}
	}
	return false
}
