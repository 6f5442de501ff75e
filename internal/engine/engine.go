// Package engine defines the contract shared by the translation backends and
// the error taxonomy the orchestrator's fallback policy is built on.
package engine

import "context"

// Translator is the request-level contract a backend adapter fulfills: one
// network round trip, response-shape parsing, and normalization to plain text.
type Translator interface {
	// Translate returns the normalized translation of text into the
	// human-readable target language. A successful return is never empty;
	// absence of content is reported as *EmptyResultError.
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Name identifies an adapter in errors, logs, and history records.
type Name string

const (
	Google Name = "google"
	Gemini Name = "gemini"
)
