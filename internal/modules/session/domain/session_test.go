package domain_test

import (
	"errors"
	"testing"

	"prapp/internal/modules/session/domain"
	apperrors "prapp/internal/platform/errors"
)

func TestLifecycleHappyPath(t *testing.T) {
	t.Parallel()
	lc, err := domain.NewLifecycle("abc123")
	if err != nil {
		t.Fatalf("new lifecycle: %v", err)
	}
	if lc.State() != domain.StateInitializing || lc.AcceptsInput() {
		t.Fatalf("new lifecycle must be initializing without input")
	}
	if err := lc.Complete(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("complete before activation must fail, got %v", err)
	}
	if err := lc.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !lc.AcceptsInput() {
		t.Fatalf("active lifecycle must accept input")
	}
	if err := lc.Activate(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("second activation must fail, got %v", err)
	}
	if err := lc.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if lc.State() != domain.StateCompleted || lc.AcceptsInput() {
		t.Fatalf("completed lifecycle must be terminal")
	}
	if err := lc.Complete(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("completing twice must fail, got %v", err)
	}
}

func TestLifecycleTeardownBlocksTransitions(t *testing.T) {
	t.Parallel()
	lc, _ := domain.NewLifecycle("abc123")
	lc.Teardown()
	lc.Teardown()
	if err := lc.Activate(); !errors.Is(err, apperrors.ErrSessionClosed) {
		t.Fatalf("activation after teardown must fail, got %v", err)
	}
	if lc.State() != domain.StateInitializing || !lc.TornDown() {
		t.Fatalf("teardown must not change state")
	}
}

func TestLifecycleRequiresSessionID(t *testing.T) {
	t.Parallel()
	if _, err := domain.NewLifecycle("  "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestImprovementsAreFreshCopies(t *testing.T) {
	t.Parallel()
	first := domain.Improvements()
	first[0] = "mutated"
	if len(domain.Improvements()) != 3 || domain.Improvements()[0] == "mutated" {
		t.Fatalf("improvements must be a fresh slice of three")
	}
}
