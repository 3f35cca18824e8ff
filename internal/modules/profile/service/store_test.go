package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	profileout "prapp/internal/modules/profile/adapter/out"
	"prapp/internal/modules/profile/domain"
	"prapp/internal/modules/profile/service"
)

func ptr[T any](v T) *T { return &v }

type failingStorage struct {
	*profileout.MemoryLocalStorage
	failWrites bool
	failReads  bool
}

func (f *failingStorage) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failReads {
		return nil, false, errors.New("storage disabled")
	}
	return f.MemoryLocalStorage.GetItem(ctx, key)
}

func (f *failingStorage) SetItem(ctx context.Context, key string, value []byte) error {
	if f.failWrites {
		return errors.New("quota exceeded")
	}
	return f.MemoryLocalStorage.SetItem(ctx, key, value)
}

func TestLoadWithoutPersistedValueUsesDefaults(t *testing.T) {
	t.Parallel()
	store := service.NewStore(profileout.NewMemoryLocalStorage())
	if store.Ready() {
		t.Fatalf("store must not be ready before load")
	}
	got := store.Load(context.Background())
	if !store.Ready() {
		t.Fatalf("store must be ready after load")
	}
	if !reflect.DeepEqual(got, domain.Default()) {
		t.Fatalf("expected default profile, got %+v", got)
	}
}

func TestUpdateThenLoadOnFreshStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := profileout.NewMemoryLocalStorage()
	store := service.NewStore(storage)
	previous := store.Load(ctx)

	patch := domain.Patch{Agenda: ptr("system design"), Tone: ptr("Direct")}
	updated, err := store.Update(ctx, patch)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := previous.Merge(patch)
	if !reflect.DeepEqual(updated, want) {
		t.Fatalf("update result mismatch: %+v", updated)
	}

	fresh := service.NewStore(storage).Load(ctx)
	if !reflect.DeepEqual(fresh, want) {
		t.Fatalf("fresh load mismatch:\n got %+v\nwant %+v", fresh, want)
	}
}

func TestUpdateHydratesBeforeMerging(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := profileout.NewMemoryLocalStorage()
	if _, err := service.NewStore(storage).Update(ctx, domain.Patch{CVText: ptr("cv")}); err != nil {
		t.Fatalf("seed update: %v", err)
	}
	got, err := service.NewStore(storage).Update(ctx, domain.Patch{Agenda: ptr("pricing")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.CVText != "cv" || got.Agenda != "pricing" {
		t.Fatalf("update on unloaded store lost persisted fields: %+v", got)
	}
}

func TestEmptyUpdateIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := profileout.NewMemoryLocalStorage()
	store := service.NewStore(storage)
	if _, err := store.Update(ctx, domain.Patch{Agenda: ptr("a")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	before, _, _ := storage.GetItem(ctx, service.StorageKey)
	published := 0
	store.Subscribe(func(domain.Profile) { published++ })

	inMemory, err := store.Update(ctx, domain.Patch{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	after, _, _ := storage.GetItem(ctx, service.StorageKey)
	if string(before) != string(after) {
		t.Fatalf("persisted value changed on empty update")
	}
	if inMemory.Agenda != "a" || published != 0 {
		t.Fatalf("empty update must not change or publish: %+v published=%d", inMemory, published)
	}
}

func TestResetThenLoadYieldsDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := profileout.NewMemoryLocalStorage()
	store := service.NewStore(storage)
	score := 85
	if _, err := store.Update(ctx, domain.Patch{
		Sessions:     &[]domain.Session{{ID: "s1", Status: domain.SessionCompleted, Score: &score, Date: time.Now().UTC()}},
		Improvements: &[]string{"x"},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := store.Reset(ctx); !reflect.DeepEqual(got, domain.Default()) {
		t.Fatalf("reset returned %+v", got)
	}
	if got := service.NewStore(storage).Load(ctx); !reflect.DeepEqual(got, domain.Default()) {
		t.Fatalf("load after reset returned %+v", got)
	}
}

func TestCorruptPersistedValueFallsBackWithoutOverwrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := profileout.NewMemoryLocalStorage()
	if err := storage.SetItem(ctx, service.StorageKey, []byte("definitely not json")); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}
	store := service.NewStore(storage)
	got := store.Load(ctx)
	if !reflect.DeepEqual(got, domain.Default()) {
		t.Fatalf("expected default profile, got %+v", got)
	}
	if !store.Ready() {
		t.Fatalf("store must be ready after corrupt load")
	}
	raw, _, _ := storage.GetItem(ctx, service.StorageKey)
	if string(raw) != "definitely not json" {
		t.Fatalf("corrupt value must be left untouched, got %q", raw)
	}
}

func TestReadFailureIsNonFatal(t *testing.T) {
	t.Parallel()
	storage := &failingStorage{MemoryLocalStorage: profileout.NewMemoryLocalStorage(), failReads: true}
	store := service.NewStore(storage)
	if got := store.Load(context.Background()); !reflect.DeepEqual(got, domain.Default()) {
		t.Fatalf("expected defaults on read failure, got %+v", got)
	}
}

func TestWriteFailureKeepsInMemoryUpdateAndReportsDurability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := &failingStorage{MemoryLocalStorage: profileout.NewMemoryLocalStorage(), failWrites: true}
	store := service.NewStore(storage)

	got, err := store.Update(ctx, domain.Patch{Agenda: ptr("offline")})
	if err != nil {
		t.Fatalf("write failure must not surface as an error: %v", err)
	}
	if got.Agenda != "offline" || store.Profile(ctx).Agenda != "offline" {
		t.Fatalf("update must apply in memory, got %+v", got)
	}
	if store.Durability() == nil {
		t.Fatalf("durability error must be recorded")
	}
	if _, found, _ := storage.GetItem(ctx, service.StorageKey); found {
		t.Fatalf("nothing should have been persisted")
	}

	storage.failWrites = false
	if _, err := store.Update(ctx, domain.Patch{Tone: ptr("Warm")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if store.Durability() != nil {
		t.Fatalf("durability error must clear after a successful write")
	}
	if fresh := service.NewStore(storage).Load(ctx); fresh.Agenda != "offline" || fresh.Tone != "Warm" {
		t.Fatalf("recovered write must persist the full profile, got %+v", fresh)
	}
}

func TestUpdateWithErrorAbortsWithoutWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := profileout.NewMemoryLocalStorage()
	store := service.NewStore(storage)
	boom := errors.New("boom")
	if _, err := store.UpdateWith(ctx, func(domain.Profile) (domain.Patch, error) {
		return domain.Patch{Agenda: ptr("x")}, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if _, found, _ := storage.GetItem(ctx, service.StorageKey); found {
		t.Fatalf("aborted update must not write")
	}
	bad := domain.ActivationState("paused")
	if _, err := store.Update(ctx, domain.Patch{ActivationState: &bad}); err == nil {
		t.Fatalf("invalid activation state must be rejected")
	}
}

func TestSubscribersReceiveUpdatesInOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := service.NewStore(profileout.NewMemoryLocalStorage(), service.WithKey("custom"))
	var agendas []string
	unsubscribe := store.Subscribe(func(p domain.Profile) { agendas = append(agendas, p.Agenda) })

	for _, agenda := range []string{"one", "two"} {
		if _, err := store.Update(ctx, domain.Patch{Agenda: ptr(agenda)}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	store.Reset(ctx)
	unsubscribe()
	if _, err := store.Update(ctx, domain.Patch{Agenda: ptr("three")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reflect.DeepEqual(agendas, []string{"one", "two", ""}) {
		t.Fatalf("unexpected notifications: %v", agendas)
	}
}
