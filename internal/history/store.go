// Package history keeps the capped, newest-first log of past translations.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/glotline/smart-translate/internal/logger"
	"github.com/glotline/smart-translate/internal/metrics"
	"github.com/glotline/smart-translate/internal/storage"
	"github.com/google/uuid"
)

// kvKey is the key the whole history log lives under.
const kvKey = "translation_history"

// Record is one persisted translation event. Records are immutable once
// written; they are only ever evicted or deleted whole.
type Record struct {
	ID         string    `json:"id"`
	Original   string    `json:"original"`
	Translated string    `json:"translated"`
	Engine     string    `json:"engine"`
	TargetLang string    `json:"target_lang"`
	SourceLang string    `json:"source_lang"`
	Model      string    `json:"model,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// SizeSource provides the configured history cap at append time.
type SizeSource interface {
	HistoryMaxSize(ctx context.Context) (int, error)
}

// Store is the append-only, size-capped translation log. The mutex makes the
// read-modify-write of each operation a critical section, so concurrent
// appends from parallel requests cannot drop entries.
type Store struct {
	kv     storage.KV
	size   SizeSource
	mu     sync.Mutex
	logger *logger.Logger
}

// NewStore creates a history store over the key-value backend.
func NewStore(kv storage.KV, size SizeSource, log *logger.Logger) *Store {
	return &Store{
		kv:     kv,
		size:   size,
		logger: log.WithComponent("history-store"),
	}
}

// Append prepends record to the log and truncates the tail beyond the
// configured cap, oldest entries first. A missing ID or timestamp is filled
// in here so callers only provide the translation payload.
func (s *Store) Append(ctx context.Context, record Record) error {
	if record.Original == "" || record.Translated == "" {
		return errors.New("history: record needs original and translated text")
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	maxSize, err := s.size.HistoryMaxSize(ctx)
	if err != nil {
		return fmt.Errorf("history: reading size bound: %w", err)
	}
	if maxSize <= 0 {
		maxSize = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	records = append([]Record{record}, records...)
	if len(records) > maxSize {
		records = records[:maxSize]
	}

	if err := s.save(ctx, records); err != nil {
		return err
	}

	s.logger.Debug("history record appended",
		slog.String("engine", record.Engine),
		slog.Int("log_size", len(records)))

	return nil
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Clear removes the whole log.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, kvKey); err != nil {
		return fmt.Errorf("history: clearing log: %w", err)
	}
	metrics.HistorySize.Set(0)
	return nil
}

// DeleteWhere removes every record the predicate matches and reports how
// many were removed.
func (s *Store) DeleteWhere(ctx context.Context, match func(Record) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := records[:0:0]
	for _, r := range records {
		if !match(r) {
			kept = append(kept, r)
		}
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := s.save(ctx, kept); err != nil {
		return 0, err
	}

	return removed, nil
}

// load reads and decodes the log. Callers hold s.mu.
func (s *Store) load(ctx context.Context) ([]Record, error) {
	raw, err := s.kv.Get(ctx, kvKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: reading log: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("history: decoding log: %w", err)
	}

	return records, nil
}

func (s *Store) save(ctx context.Context, records []Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("history: encoding log: %w", err)
	}
	if err := s.kv.Set(ctx, kvKey, raw); err != nil {
		return fmt.Errorf("history: writing log: %w", err)
	}
	metrics.HistorySize.Set(float64(len(records)))
	return nil
}
