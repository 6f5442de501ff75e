// Package language classifies input text so the engine selector can pick a
// backend, and estimates the source language recorded with each history entry.
package language

import (
	"strings"
	"unicode"
)

// Unknown is returned when neither the detector hint nor the range ladder
// can label the text.
const Unknown = "unknown"

// Detector is an optional probabilistic language detector. Implementations
// report ok=false when they cannot produce a confident label.
type Detector interface {
	Detect(text string) (lang string, ok bool)
}

// cjkRanges covers CJK unified ideographs, hiragana/katakana, CJK punctuation,
// fullwidth forms, and Hangul syllables.
var cjkRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3000, Hi: 0x303F, Stride: 1}, // CJK punctuation
		{Lo: 0x3040, Hi: 0x309F, Stride: 1}, // hiragana
		{Lo: 0x30A0, Hi: 0x30FF, Stride: 1}, // katakana
		{Lo: 0x4E00, Hi: 0x9FAF, Stride: 1}, // unified ideographs
		{Lo: 0xAC00, Hi: 0xD7AF, Stride: 1}, // Hangul syllables
		{Lo: 0xFF00, Hi: 0xFFEF, Stride: 1}, // fullwidth forms
	},
}

// ContainsCJK reports whether text contains any CJK-scripted rune.
// CJK scripts have no whitespace-delimited words, so callers use
// character-count heuristics instead of word-count ones.
func ContainsCJK(text string) bool {
	for _, r := range text {
		if unicode.Is(cjkRanges, r) {
			return true
		}
	}
	return false
}

// rangeRule maps a Unicode code point range to a language code.
type rangeRule struct {
	lo, hi rune
	lang   string
}

// diacriticRule maps a set of marker runes to a language code.
type diacriticRule struct {
	markers string
	lang    string
}

// The two rule lists below are an intentionally approximate, ordered ladder.
// First match wins; order is part of the contract (e.g. Hangul before the
// ideograph range, French accents before the narrower German set).
var rangeRules = []rangeRule{
	{0x0900, 0x097F, "hi"}, // Devanagari
	{0x0600, 0x06FF, "ar"}, // Arabic
	{0x0980, 0x09FF, "bn"}, // Bengali
	{0xAC00, 0xD7AF, "ko"}, // Hangul syllables
	{0x3040, 0x30FF, "ja"}, // hiragana + katakana
	{0x4E00, 0x9FFF, "zh"}, // CJK unified ideographs
	{0x0400, 0x04FF, "ru"}, // Cyrillic
}

// The French set deliberately omits ü and ö so common German words do not
// match the earlier French rule.
var diacriticRules = []diacriticRule{
	{"àâçéèêëîïôùûÿœæÀÂÇÉÈÊËÎÏÔÙÛŸŒÆ", "fr"},
	{"äöüßÄÖÜ", "de"},
	{"áéíóúñ¿¡ÁÉÍÓÚÑ", "es"},
	{"ãõáâàçéêíóôúÃÕÁÂÀÇÉÊÍÓÔÚ", "pt"},
}

// EstimateSource returns a best-effort language code for text.
//
// A non-empty detector hint other than Unknown always wins. Otherwise the
// range ladder runs, then the diacritic ladder, then a restricted
// Latin-letter check for English. The function is pure: the same input always
// yields the same label.
func EstimateSource(text, hint string) string {
	if hint != "" && hint != Unknown {
		return hint
	}

	for _, rule := range rangeRules {
		if containsRange(text, rule.lo, rule.hi) {
			return rule.lang
		}
	}

	for _, rule := range diacriticRules {
		if strings.ContainsAny(text, rule.markers) {
			return rule.lang
		}
	}

	if isPlainLatin(text) {
		return "en"
	}

	return Unknown
}

// EstimateSourceWith consults the detector (when non-nil) before falling back
// to the deterministic ladder.
func EstimateSourceWith(detector Detector, text string) string {
	hint := ""
	if detector != nil {
		if lang, ok := detector.Detect(text); ok {
			hint = lang
		}
	}
	return EstimateSource(text, hint)
}

func containsRange(text string, lo, hi rune) bool {
	for _, r := range text {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}

// isPlainLatin reports whether text consists solely of unaccented Latin
// letters, digits, whitespace, and common punctuation.
func isPlainLatin(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case unicode.IsSpace(r):
		case strings.ContainsRune(`.,'"!?;:()-_&%$#@/`, r):
		default:
			return false
		}
	}
	return true
}
