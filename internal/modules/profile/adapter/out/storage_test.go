package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	profileout "prapp/internal/modules/profile/adapter/out"
	port "prapp/internal/modules/profile/port/out"
	apperrors "prapp/internal/platform/errors"
)

func storages(t *testing.T) map[string]port.LocalStorage {
	t.Helper()
	sqlite, err := profileout.NewSQLiteLocalStorage(filepath.Join(t.TempDir(), ".prapp", "prapp.db"))
	if err != nil {
		t.Fatalf("new sqlite storage: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]port.LocalStorage{
		"sqlite": sqlite,
		"file":   profileout.NewFileLocalStorage(filepath.Join(t.TempDir(), "storage")),
		"memory": profileout.NewMemoryLocalStorage(),
	}
}

func TestLocalStorageMissingKey(t *testing.T) {
	t.Parallel()
	for name, storage := range storages(t) {
		value, found, err := storage.GetItem(context.Background(), "prapp_profile")
		if err != nil {
			t.Fatalf("%s: get missing: %v", name, err)
		}
		if found || value != nil {
			t.Fatalf("%s: expected missing key, got %q", name, value)
		}
	}
}

func TestLocalStorageOverwrite(t *testing.T) {
	t.Parallel()
	for name, storage := range storages(t) {
		ctx := context.Background()
		if err := storage.SetItem(ctx, "prapp_profile", []byte(`{"v":1}`)); err != nil {
			t.Fatalf("%s: first set: %v", name, err)
		}
		if err := storage.SetItem(ctx, "prapp_profile", []byte(`{"v":2}`)); err != nil {
			t.Fatalf("%s: second set: %v", name, err)
		}
		value, found, err := storage.GetItem(ctx, "prapp_profile")
		if err != nil || !found {
			t.Fatalf("%s: get after set: found=%t err=%v", name, found, err)
		}
		if string(value) != `{"v":2}` {
			t.Fatalf("%s: expected last write to win, got %s", name, value)
		}
	}
}

func TestSQLiteLocalStorageSurvivesReopen(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "prapp.db")
	first, err := profileout.NewSQLiteLocalStorage(dbPath)
	if err != nil {
		t.Fatalf("open first: %v", err)
	}
	if err := first.SetItem(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = first.Close()

	second, err := profileout.NewSQLiteLocalStorage(dbPath)
	if err != nil {
		t.Fatalf("open second: %v", err)
	}
	defer second.Close()
	value, found, err := second.GetItem(context.Background(), "k")
	if err != nil || !found || string(value) != "v" {
		t.Fatalf("expected persisted value, got %q found=%t err=%v", value, found, err)
	}
}

func TestFileLocalStorageLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	storage := profileout.NewFileLocalStorage(dir)
	if err := storage.SetItem(context.Background(), "prapp_profile", []byte("{}")); err != nil {
		t.Fatalf("set: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "prapp_profile.json" {
		t.Fatalf("unexpected storage dir contents: %v", entries)
	}
}

func TestLocalDocumentReaderReadsText(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cv.txt")
	if err := os.WriteFile(path, []byte("Senior engineer"), 0o644); err != nil {
		t.Fatalf("write cv: %v", err)
	}
	text, err := profileout.NewLocalDocumentReader().ReadText(context.Background(), path)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	if text != "Senior engineer" {
		t.Fatalf("unexpected text: %q", text)
	}
	if _, err := profileout.NewLocalDocumentReader().ReadText(context.Background(), filepath.Join(t.TempDir(), "missing.pdf")); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected missing pdf to be not found, got %v", err)
	}
}
