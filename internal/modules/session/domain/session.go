package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "prapp/internal/platform/errors"
)

type State string

const (
	StateInitializing State = "initializing"
	StateActive       State = "active"
	StateCompleted    State = "completed"
)

const (
	DefaultWarmup    = 1500 * time.Millisecond
	PlaceholderScore = 85
)

// Improvements returns the canned suggestions applied on every completion.
func Improvements() []string {
	return []string{
		"Structure your answers using the STAR method more consistently.",
		"Pause briefly before answering complex questions to gather your thoughts.",
		"Use more specific metrics when describing your past achievements.",
	}
}

// Lifecycle is the per-session state machine. Once torn down it accepts no
// further transitions, whatever state it was in.
type Lifecycle struct {
	sessionID string
	state     State
	tornDown  bool
}

func NewLifecycle(sessionID string) (*Lifecycle, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	return &Lifecycle{sessionID: sessionID, state: StateInitializing}, nil
}

func (l *Lifecycle) SessionID() string { return l.sessionID }
func (l *Lifecycle) State() State      { return l.state }
func (l *Lifecycle) TornDown() bool    { return l.tornDown }

// AcceptsInput is true only while the terminal action may be invoked.
func (l *Lifecycle) AcceptsInput() bool {
	return l.state == StateActive && !l.tornDown
}

func (l *Lifecycle) Activate() error {
	if l.tornDown {
		return apperrors.ErrSessionClosed
	}
	if l.state != StateInitializing {
		return fmt.Errorf("%w: activate from %s", apperrors.ErrInvalidTransition, l.state)
	}
	l.state = StateActive
	return nil
}

// CanComplete reports the error Complete would return, without changing state.
func (l *Lifecycle) CanComplete() error {
	if l.tornDown {
		return apperrors.ErrSessionClosed
	}
	if l.state != StateActive {
		return fmt.Errorf("%w: complete from %s", apperrors.ErrInvalidTransition, l.state)
	}
	return nil
}

func (l *Lifecycle) Complete() error {
	if err := l.CanComplete(); err != nil {
		return err
	}
	l.state = StateCompleted
	return nil
}

// Teardown detaches the lifecycle from its view. It is idempotent.
func (l *Lifecycle) Teardown() {
	l.tornDown = true
}
