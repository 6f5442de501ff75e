package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/glotline/smart-translate/internal/logger"
	"github.com/glotline/smart-translate/internal/storage"
)

type fixedSize struct {
	n int
}

func (f fixedSize) HistoryMaxSize(context.Context) (int, error) {
	return f.n, nil
}

func newTestStore(t *testing.T, maxSize int) *Store {
	t.Helper()
	log := logger.New(logger.Config{Level: slog.LevelError})
	return NewStore(storage.NewMemory(), fixedSize{n: maxSize}, log)
}

func record(original, translated string) Record {
	return Record{
		Original:   original,
		Translated: translated,
		Engine:     "google",
		TargetLang: "繁體中文",
		SourceLang: "en",
	}
}

func TestAppendFillsIDAndTimestamp(t *testing.T) {
	store := newTestStore(t, 20)
	ctx := context.Background()

	if err := store.Append(ctx, record("hello", "你好")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID == "" {
		t.Error("expected generated ID")
	}
	if records[0].Timestamp.IsZero() {
		t.Error("expected generated timestamp")
	}
}

func TestAppendRejectsEmptyPayload(t *testing.T) {
	store := newTestStore(t, 20)

	if err := store.Append(context.Background(), Record{Original: "hello"}); err == nil {
		t.Fatal("expected error for record without translated text")
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t, 20)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := record(fmt.Sprintf("text-%d", i), fmt.Sprintf("译-%d", i))
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"text-2", "text-1", "text-0"} {
		if records[i].Original != want {
			t.Errorf("records[%d].Original = %q, want %q", i, records[i].Original, want)
		}
	}
}

func TestAppendEvictsOldestBeyondCap(t *testing.T) {
	store := newTestStore(t, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := record(fmt.Sprintf("text-%d", i), fmt.Sprintf("译-%d", i))
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected cap of 3, got %d records", len(records))
	}
	if records[0].Original != "text-4" {
		t.Errorf("newest record = %q, want %q", records[0].Original, "text-4")
	}
	if records[2].Original != "text-2" {
		t.Errorf("oldest surviving record = %q, want %q", records[2].Original, "text-2")
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t, 20)
	ctx := context.Background()

	if err := store.Append(ctx, record("hello", "你好")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty log after clear, got %d records", len(records))
	}

	// Clearing an already empty log must not fail.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty log failed: %v", err)
	}
}

func TestDeleteWhereByID(t *testing.T) {
	store := newTestStore(t, 20)
	ctx := context.Background()

	keep := record("keep", "保留")
	drop := record("drop", "刪除")
	drop.ID = "target"

	if err := store.Append(ctx, keep); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, drop); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	removed, err := store.DeleteWhere(ctx, func(r Record) bool { return r.ID == "target" })
	if err != nil {
		t.Fatalf("DeleteWhere failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 || records[0].Original != "keep" {
		t.Fatalf("unexpected survivors: %+v", records)
	}
}

func TestDeleteWhereNoMatch(t *testing.T) {
	store := newTestStore(t, 20)
	ctx := context.Background()

	if err := store.Append(ctx, record("hello", "你好")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	removed, err := store.DeleteWhere(ctx, func(Record) bool { return false })
	if err != nil {
		t.Fatalf("DeleteWhere failed: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
}

func TestDeleteWhereOlderThanCutoff(t *testing.T) {
	store := newTestStore(t, 20)
	ctx := context.Background()

	old := record("old", "舊")
	old.Timestamp = time.Now().UTC().AddDate(0, 0, -40)
	fresh := record("fresh", "新")

	if err := store.Append(ctx, old); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, fresh); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -30)
	removed, err := store.DeleteWhere(ctx, func(r Record) bool {
		return r.Timestamp.Before(cutoff)
	})
	if err != nil {
		t.Fatalf("DeleteWhere failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 || records[0].Original != "fresh" {
		t.Fatalf("unexpected survivors: %+v", records)
	}
}

func TestConcurrentAppendsDropNothingUnderCap(t *testing.T) {
	store := newTestStore(t, 100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := record(fmt.Sprintf("text-%d", i), fmt.Sprintf("译-%d", i))
			if err := store.Append(ctx, rec); err != nil {
				t.Errorf("Append failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 50 {
		t.Fatalf("expected 50 records, got %d", len(records))
	}
}
