package store

import (
	"errors"
	"path/filepath"
	"testing"

	"kradesk/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleKRA(id string) *model.KRA {
	return &model.KRA{
		ID:           id,
		Title:        "Improve Sales",
		Department:   "Sales",
		Role:         "Manager",
		Year:         2025,
		Impact:       "High",
		Description:  "Increase quarterly sales",
		Expectations: []string{"20% growth", "retain customers"},
	}
}

func TestKRARoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if err := s.CreateKRA(sampleKRA("k1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetKRA("k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Improve Sales" || got.Year != 2025 || got.Impact != "High" {
		t.Fatalf("unexpected kra: %+v", got)
	}
	if len(got.Expectations) != 2 || got.Expectations[0] != "20% growth" {
		t.Fatalf("expectations lost in round trip: %v", got.Expectations)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}
}

func TestKRAEmptyExpectations(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	kra := sampleKRA("k1")
	kra.Expectations = nil
	if err := s.CreateKRA(kra); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetKRA("k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Expectations) != 0 {
		t.Fatalf("expected empty expectations, got %v", got.Expectations)
	}
}

func TestListKRAsOrder(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		kra := sampleKRA(id)
		kra.Title = "Title " + id
		if err := s.CreateKRA(kra); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	kras, err := s.ListKRAs()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(kras) != 3 {
		t.Fatalf("expected 3 kras, got %d", len(kras))
	}
	for i, id := range []string{"a", "b", "c"} {
		if kras[i].ID != id {
			t.Fatalf("unexpected order: %v", []string{kras[0].ID, kras[1].ID, kras[2].ID})
		}
	}
}

func TestUpdateKRA(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if err := s.CreateKRA(sampleKRA("k1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated := sampleKRA("k1")
	updated.Title = "Renamed"
	updated.Impact = "Low"
	if err := s.UpdateKRA(updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetKRA("k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Renamed" || got.Impact != "Low" {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestUpdateMissingKRA(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if err := s.UpdateKRA(sampleKRA("ghost")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteKRA(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if err := s.CreateKRA(sampleKRA("k1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.DeleteKRA("k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetKRA("k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteKRA("k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete should report ErrNotFound, got %v", err)
	}
}

func TestSameNaturalKeyCoexists(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	// create_separate 允许同自然键多条记录并存
	first := sampleKRA("k1")
	second := sampleKRA("k2")
	second.Description = "a different description"

	if err := s.CreateKRA(first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := s.CreateKRA(second); err != nil {
		t.Fatalf("create second with same natural key: %v", err)
	}

	count, err := s.CountKRAs()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 kras, got %d", count)
	}
}

func TestImportLog(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	last, err := s.LastImportTime()
	if err != nil {
		t.Fatalf("last import time: %v", err)
	}
	if last != "" {
		t.Fatalf("expected empty last import time, got %q", last)
	}

	id, err := s.CreateImportLog("imp-1", "kras.xlsx", 1024)
	if err != nil {
		t.Fatalf("create import log: %v", err)
	}
	if err := s.FinishImportLog(id, 10, 7, 2, 1, "completed_with_errors", ""); err != nil {
		t.Fatalf("finish import log: %v", err)
	}

	last, err = s.LastImportTime()
	if err != nil {
		t.Fatalf("last import time: %v", err)
	}
	if last == "" {
		t.Fatal("expected a recorded import time")
	}
}
