// Package routing decides which translation backend serves a request.
package routing

import (
	"strings"
	"unicode/utf8"

	"github.com/glotline/smart-translate/internal/language"
)

// Engine identifies a translation backend.
type Engine string

const (
	// EngineGoogle is the dictionary/translate endpoint.
	EngineGoogle Engine = "google"
	// EngineGemini is the generative-language endpoint.
	EngineGemini Engine = "gemini"
)

// Mode names the engine-selection strategies a caller may request.
type Mode string

const (
	// ModeSmart applies the lightness heuristic.
	ModeSmart Mode = "smart"
	// ModeGoogle forces the Google engine.
	ModeGoogle Mode = "google"
	// ModeGemini forces the generative engine.
	ModeGemini Mode = "gemini"
)

// Routing thresholds. Short, simple fragments are well served by the fast
// dictionary-style lookup; longer input goes to the model, which is slower
// and more expensive but phrases whole sentences properly.
const (
	maxCJKRunesForGoogle  = 5
	maxWordsForGoogle     = 3
	maxCharCountForGoogle = 30 // exclusive
)

// Decision is the immutable outcome of engine selection for one request.
type Decision struct {
	Engine Engine
	// Model is set only when Engine is EngineGemini.
	Model string
}

// Decide picks the engine for text.
//
// Forced modes bypass the classifier entirely. In smart mode, CJK text routes
// to Google at five runes or fewer; other text routes to Google when it has
// at most three words and fewer than thirty runes. Callers must never pass
// empty text; text is trimmed here so stray whitespace cannot inflate the
// word count.
func Decide(text string, mode Mode, model string) Decision {
	switch mode {
	case ModeGoogle:
		return Decision{Engine: EngineGoogle}
	case ModeGemini:
		return Decision{Engine: EngineGemini, Model: model}
	}

	text = strings.TrimSpace(text)

	if language.ContainsCJK(text) {
		if utf8.RuneCountInString(text) <= maxCJKRunesForGoogle {
			return Decision{Engine: EngineGoogle}
		}
		return Decision{Engine: EngineGemini, Model: model}
	}

	wordCount := len(strings.Fields(text))
	charCount := utf8.RuneCountInString(text)

	if wordCount <= maxWordsForGoogle && charCount < maxCharCountForGoogle {
		return Decision{Engine: EngineGoogle}
	}

	return Decision{Engine: EngineGemini, Model: model}
}
