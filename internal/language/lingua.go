package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LinguaDetector adapts pemistahl/lingua-go to the Detector interface.
// It restricts the model to the languages the service can usefully label,
// which keeps startup cost and memory bounded.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector with lazily loaded language models.
func NewLinguaDetector() *LinguaDetector {
	languages := []lingua.Language{
		lingua.Arabic,
		lingua.Bengali,
		lingua.Chinese,
		lingua.English,
		lingua.French,
		lingua.German,
		lingua.Hindi,
		lingua.Japanese,
		lingua.Korean,
		lingua.Portuguese,
		lingua.Russian,
		lingua.Spanish,
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		Build()

	return &LinguaDetector{detector: detector}
}

// Detect returns the ISO 639-1 code of the most likely language, or ok=false
// when the model has no confident answer.
func (d *LinguaDetector) Detect(text string) (string, bool) {
	lang, exists := d.detector.DetectLanguageOf(text)
	if !exists {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
