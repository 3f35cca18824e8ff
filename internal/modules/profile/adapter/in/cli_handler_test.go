package in_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	profilecli "prapp/internal/modules/profile/adapter/in"
	profileout "prapp/internal/modules/profile/adapter/out"
	"prapp/internal/modules/profile/service"
	"prapp/internal/modules/profile/usecase"
	apperrors "prapp/internal/platform/errors"
)

func newHandler() profilecli.CLIHandler {
	store := service.NewStore(profileout.NewMemoryLocalStorage())
	return profilecli.NewCLIHandler(usecase.NewInteractor(store, service.NewBriefService(store, profileout.NewLocalDocumentReader())))
}

func TestSetKnownFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHandler()
	if _, err := h.Set(ctx, "agenda", "Architecture deep dive"); err != nil {
		t.Fatalf("set agenda: %v", err)
	}
	if _, err := h.Set(ctx, "meeting-subtype", "Onsite"); err != nil {
		t.Fatalf("set subtype: %v", err)
	}
	got := h.Show(ctx)
	if got.Agenda != "Architecture deep dive" || got.MeetingSubtype != "Onsite" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestSetUnknownFieldFails(t *testing.T) {
	t.Parallel()
	if _, err := newHandler().Set(context.Background(), "activation-state", "activated"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSetFocusFieldsAccumulate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHandler()
	if _, err := h.Set(ctx, "focus-title", "Negotiation"); err != nil {
		t.Fatalf("set focus title: %v", err)
	}
	got, err := h.Set(ctx, "focus-tags", "salary, equity,salary")
	if err != nil {
		t.Fatalf("set focus tags: %v", err)
	}
	if got.TrainingFocus == nil || got.TrainingFocus.Title != "Negotiation" {
		t.Fatalf("title lost when setting tags: %+v", got.TrainingFocus)
	}
	if !reflect.DeepEqual(got.TrainingFocus.Tags, []string{"salary", "equity"}) {
		t.Fatalf("unexpected tags: %v", got.TrainingFocus.Tags)
	}
	cleared, err := h.ClearFocus(ctx)
	if err != nil {
		t.Fatalf("clear focus: %v", err)
	}
	if cleared.TrainingFocus != nil {
		t.Fatalf("expected focus cleared")
	}
}

func TestResetDiscardsHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHandler()
	if _, err := h.Set(ctx, "tone", "Casual"); err != nil {
		t.Fatalf("set tone: %v", err)
	}
	if got := h.Reset(ctx); got.Tone != "Professional" || got.ActivationState != "new" {
		t.Fatalf("unexpected reset profile: %+v", got)
	}
}
