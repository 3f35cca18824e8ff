package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	profileout "prapp/internal/modules/profile/adapter/out"
	"prapp/internal/modules/profile/dto"
	profilein "prapp/internal/modules/profile/port/in"
	"prapp/internal/modules/profile/service"
	"prapp/internal/modules/profile/usecase"
)

func ptr[T any](v T) *T { return &v }

type brokenStorage struct{ *profileout.MemoryLocalStorage }

func (brokenStorage) SetItem(context.Context, string, []byte) error {
	return errors.New("storage disabled")
}

func newUsecase(storage interface {
	GetItem(context.Context, string) ([]byte, bool, error)
	SetItem(context.Context, string, []byte) error
}) profilein.Usecase {
	store := service.NewStore(storage)
	return usecase.NewInteractor(store, service.NewBriefService(store, profileout.NewLocalDocumentReader()))
}

func TestModifyPrependsSessionAtomically(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newUsecase(profileout.NewMemoryLocalStorage())
	if uc.Ready() {
		t.Fatalf("usecase must not be ready before load")
	}
	uc.Load(ctx)

	for _, id := range []string{"first", "second"} {
		sessionID := id
		_, err := uc.Modify(ctx, func(current dto.ProfileOutput) (dto.UpdateInput, error) {
			sessions := append([]dto.SessionRecord{{ID: sessionID, Type: current.PreparationType, Date: time.Now().UTC(), Status: "completed"}}, current.Sessions...)
			return dto.UpdateInput{Sessions: &sessions}, nil
		})
		if err != nil {
			t.Fatalf("modify %s: %v", sessionID, err)
		}
	}
	got := uc.Load(ctx)
	if len(got.Sessions) != 2 || got.Sessions[0].ID != "second" || got.Sessions[1].ID != "first" {
		t.Fatalf("unexpected session order: %+v", got.Sessions)
	}
	if got.Sessions[0].Type != "Interview" {
		t.Fatalf("expected type copied from profile, got %q", got.Sessions[0].Type)
	}
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	t.Parallel()
	uc := newUsecase(profileout.NewMemoryLocalStorage())
	if _, err := uc.Update(context.Background(), dto.UpdateInput{ActivationState: ptr("dormant")}); err == nil {
		t.Fatalf("expected invalid activation state to fail")
	}
	sessions := []dto.SessionRecord{{ID: "x", Status: "paused"}}
	if _, err := uc.Update(context.Background(), dto.UpdateInput{Sessions: &sessions}); err == nil {
		t.Fatalf("expected invalid session status to fail")
	}
}

func TestDurabilityIsReportedOnOutput(t *testing.T) {
	t.Parallel()
	uc := newUsecase(brokenStorage{profileout.NewMemoryLocalStorage()})
	var notified dto.ProfileOutput
	uc.Subscribe(func(p dto.ProfileOutput) { notified = p })

	got, err := uc.Update(context.Background(), dto.UpdateInput{Agenda: ptr("x")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Durable || got.DurabilityError == "" {
		t.Fatalf("expected non-durable output, got %+v", got)
	}
	if notified.Agenda != "x" || notified.Durable {
		t.Fatalf("unexpected notification: %+v", notified)
	}
}

func TestTrainingFocusSetAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newUsecase(profileout.NewMemoryLocalStorage())
	got, err := uc.Update(ctx, dto.UpdateInput{TrainingFocus: &dto.TrainingFocus{Title: "Pitch", Tags: []string{"story"}}})
	if err != nil {
		t.Fatalf("set focus: %v", err)
	}
	if got.TrainingFocus == nil || got.TrainingFocus.Title != "Pitch" {
		t.Fatalf("expected focus to be set, got %+v", got.TrainingFocus)
	}
	got, err = uc.Update(ctx, dto.UpdateInput{ClearTrainingFocus: true, TrainingFocus: &dto.TrainingFocus{Title: "ignored"}})
	if err != nil {
		t.Fatalf("clear focus: %v", err)
	}
	if got.TrainingFocus != nil {
		t.Fatalf("expected focus to be cleared, got %+v", got.TrainingFocus)
	}
}
