package in_test

import (
	"context"
	"errors"
	"testing"
	"time"

	profileout "prapp/internal/modules/profile/adapter/out"
	profileservice "prapp/internal/modules/profile/service"
	profileusecase "prapp/internal/modules/profile/usecase"
	sessionin "prapp/internal/modules/session/adapter/in"
	sessiondto "prapp/internal/modules/session/dto"
	"prapp/internal/modules/session/service"
	"prapp/internal/modules/session/usecase"
	"prapp/internal/platform/clock"
	apperrors "prapp/internal/platform/errors"
)

func newHandler(t *testing.T, warmup time.Duration) (sessionin.CLIHandler, *profileout.MemoryLocalStorage) {
	t.Helper()
	storage := profileout.NewMemoryLocalStorage()
	store := profileservice.NewStore(storage)
	profileUC := profileusecase.NewInteractor(store, profileservice.NewBriefService(store, profileout.NewLocalDocumentReader()))
	clk := clock.SystemClock{}
	sessionUC := usecase.NewInteractor(service.NewSessionService(clk), profileUC, clk, usecase.Options{Warmup: warmup})
	return sessionin.NewCLIHandler(sessionUC), storage
}

func TestRunWaitsForActivationThenCompletes(t *testing.T) {
	t.Parallel()
	handler, storage := newHandler(t, 10*time.Millisecond)

	var greeted sessiondto.StateOutput
	out, err := handler.Run(context.Background(), "abc123", func(state sessiondto.StateOutput) { greeted = state })
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if greeted.State != "active" || greeted.Greeting == "" {
		t.Fatalf("expected active greeting, got %+v", greeted)
	}
	if out.Session.ID != "abc123" || out.ActivationState != "activated" || out.Target != sessiondto.TargetProfile {
		t.Fatalf("unexpected output: %+v", out)
	}
	fresh := profileservice.NewStore(storage).Load(context.Background())
	if len(fresh.Sessions) != 1 {
		t.Fatalf("expected persisted session, got %+v", fresh.Sessions)
	}
}

func TestCompleteRejectsDuplicate(t *testing.T) {
	t.Parallel()
	handler, _ := newHandler(t, 0)
	if _, err := handler.Complete(context.Background(), "abc123"); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if _, err := handler.Complete(context.Background(), "abc123"); !errors.Is(err, apperrors.ErrDuplicateSession) {
		t.Fatalf("expected duplicate session, got %v", err)
	}
}

func TestRunHonoursCancellationDuringWarmup(t *testing.T) {
	t.Parallel()
	handler, storage := newHandler(t, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := handler.Run(ctx, "abc123", nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if _, found, _ := storage.GetItem(context.Background(), profileservice.StorageKey); found {
		t.Fatalf("cancelled run must not write")
	}
}
