package service

import (
	"fmt"
	"strings"

	profiledto "prapp/internal/modules/profile/dto"
	"prapp/internal/modules/session/domain"
	"prapp/internal/platform/clock"
	apperrors "prapp/internal/platform/errors"
)

type SessionService struct {
	clock clock.Clock
}

func NewSessionService(clock clock.Clock) *SessionService {
	return &SessionService{clock: clock}
}

// CompletionUpdate builds the single merge applied when a session completes:
// the new record at the head of sessions, the canned improvements, and the
// activated flag.
func (s *SessionService) CompletionUpdate(sessionID string, current profiledto.ProfileOutput) (profiledto.UpdateInput, profiledto.SessionRecord, error) {
	if err := ensureUnrecorded(sessionID, current); err != nil {
		return profiledto.UpdateInput{}, profiledto.SessionRecord{}, err
	}
	score := domain.PlaceholderScore
	record := profiledto.SessionRecord{
		ID:      sessionID,
		Type:    current.PreparationType,
		Subtype: current.MeetingSubtype,
		Date:    s.clock.Now(),
		Status:  "completed",
		Score:   &score,
		Focus:   focusTitle(current),
	}
	sessions := prepend(record, current.Sessions)
	improvements := domain.Improvements()
	activated := "activated"
	return profiledto.UpdateInput{
		ActivationState: &activated,
		Sessions:        &sessions,
		Improvements:    &improvements,
	}, record, nil
}

// AbortUpdate records an abandoned session without touching improvements or
// activation.
func (s *SessionService) AbortUpdate(sessionID string, current profiledto.ProfileOutput) (profiledto.UpdateInput, profiledto.SessionRecord, error) {
	if err := ensureUnrecorded(sessionID, current); err != nil {
		return profiledto.UpdateInput{}, profiledto.SessionRecord{}, err
	}
	record := profiledto.SessionRecord{
		ID:      sessionID,
		Type:    current.PreparationType,
		Subtype: current.MeetingSubtype,
		Date:    s.clock.Now(),
		Status:  "aborted",
		Focus:   focusTitle(current),
	}
	sessions := prepend(record, current.Sessions)
	return profiledto.UpdateInput{Sessions: &sessions}, record, nil
}

// Greeting is the opening line of the simulated conversation.
func (s *SessionService) Greeting(p profiledto.ProfileOutput) string {
	agenda := strings.TrimSpace(p.Agenda)
	if agenda == "" {
		agenda = "general topics"
	}
	return fmt.Sprintf("Hello! I'm ready to help you prepare for your %s. Based on your agenda, we'll focus on %s.\n\n"+
		"Let's start with a simple question: Tell me a little bit about yourself and why you're interested in this opportunity?",
		p.PreparationType, agenda)
}

func ensureUnrecorded(sessionID string, current profiledto.ProfileOutput) error {
	for _, s := range current.Sessions {
		if s.ID == sessionID {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateSession, sessionID)
		}
	}
	return nil
}

func prepend(record profiledto.SessionRecord, sessions []profiledto.SessionRecord) []profiledto.SessionRecord {
	out := make([]profiledto.SessionRecord, 0, len(sessions)+1)
	out = append(out, record)
	return append(out, sessions...)
}

func focusTitle(current profiledto.ProfileOutput) string {
	if current.TrainingFocus == nil {
		return ""
	}
	return current.TrainingFocus.Title
}
