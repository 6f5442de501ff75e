// Package settings holds the user configuration the orchestrator and
// adapters consume: the generative credential and its validity flag, target
// language, engine mode, model, and the history bound.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/glotline/smart-translate/internal/logger"
	"github.com/glotline/smart-translate/internal/storage"
)

// kvKey is the key the whole settings document lives under.
const kvKey = "settings"

// Settings is the stored user configuration.
type Settings struct {
	GeminiAPIKey   string `json:"gemini_api_key"`
	GeminiKeyValid bool   `json:"gemini_key_valid"`
	TargetLang     string `json:"target_lang"`
	EngineMode     string `json:"engine_mode"`
	GeminiModel    string `json:"gemini_model"`
	HistoryMaxSize int    `json:"history_max_size"`
}

// Patch is a partial settings update; nil fields are left unchanged.
type Patch struct {
	GeminiAPIKey *string `json:"gemini_api_key"`
	TargetLang   *string `json:"target_lang"`
	EngineMode   *string `json:"engine_mode"`
	GeminiModel  *string `json:"gemini_model"`
	HistoryMax   *int    `json:"history_max_size"`
}

// Store serializes settings reads and writes over the key-value backend.
// The mutex makes read-modify-write updates atomic within this process.
type Store struct {
	kv       storage.KV
	defaults Settings
	mu       sync.Mutex
	logger   *logger.Logger
}

// NewStore creates a settings store. defaults fill fields that were never
// written, so a fresh deployment behaves per its environment configuration.
func NewStore(kv storage.KV, defaults Settings, log *logger.Logger) *Store {
	return &Store{
		kv:       kv,
		defaults: defaults,
		logger:   log.WithComponent("settings-store"),
	}
}

// Get returns the current settings with defaults applied.
func (s *Store) Get(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// load reads and decodes the settings document. Callers hold s.mu.
func (s *Store) load(ctx context.Context) (Settings, error) {
	raw, err := s.kv.Get(ctx, kvKey)
	if errors.Is(err, storage.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	// Decode over a copy of the defaults so missing fields keep them.
	current := s.defaults
	if err := json.Unmarshal(raw, &current); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}

	if current.HistoryMaxSize <= 0 {
		current.HistoryMaxSize = s.defaults.HistoryMaxSize
	}

	return current, nil
}

// Set applies a partial update and returns the resulting settings.
func (s *Store) Set(ctx context.Context, patch Patch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return Settings{}, err
	}

	if patch.GeminiAPIKey != nil {
		current.GeminiAPIKey = *patch.GeminiAPIKey
		// A fresh key has not proven itself yet.
		current.GeminiKeyValid = false
	}
	if patch.TargetLang != nil {
		current.TargetLang = *patch.TargetLang
	}
	if patch.EngineMode != nil {
		current.EngineMode = *patch.EngineMode
	}
	if patch.GeminiModel != nil {
		current.GeminiModel = *patch.GeminiModel
	}
	if patch.HistoryMax != nil && *patch.HistoryMax > 0 {
		current.HistoryMaxSize = *patch.HistoryMax
	}

	if err := s.save(ctx, current); err != nil {
		return Settings{}, err
	}

	return current, nil
}

// HistoryMaxSize returns the current history cap.
func (s *Store) HistoryMaxSize(ctx context.Context) (int, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return current.HistoryMaxSize, nil
}

// MarkKeyValid records the result of the last generative call: true on
// success, false when the backend rejected the credential. The presentation
// layer reads the flag to warn the user.
func (s *Store) MarkKeyValid(ctx context.Context, valid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return err
	}

	if current.GeminiKeyValid == valid {
		return nil
	}

	current.GeminiKeyValid = valid
	return s.save(ctx, current)
}

func (s *Store) save(ctx context.Context, settings Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.kv.Set(ctx, kvKey, raw); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
