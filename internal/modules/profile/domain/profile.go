package domain

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "prapp/internal/platform/errors"
)

type ActivationState string

const (
	ActivationNew       ActivationState = "new"
	ActivationActivated ActivationState = "activated"
)

type SessionStatus string

const (
	SessionCompleted SessionStatus = "completed"
	SessionAborted   SessionStatus = "aborted"
)

// Session is one recorded preparation attempt. Records are never edited.
type Session struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Subtype string        `json:"subtype,omitempty"`
	Date    time.Time     `json:"date"`
	Status  SessionStatus `json:"status"`
	Score   *int          `json:"score,omitempty"`
	Focus   string        `json:"focus,omitempty"`
}

type TrainingFocus struct {
	Title          string   `json:"title"`
	Tags           []string `json:"tags"`
	AgendaTemplate string   `json:"agendaTemplate"`
}

type Profile struct {
	ActivationState ActivationState `json:"activationState"`
	PreparationType string          `json:"preparationType"`
	MeetingSubtype  string          `json:"meetingSubtype"`
	Agenda          string          `json:"agenda"`
	Tone            string          `json:"tone"`
	CVText          string          `json:"cvText"`
	Sessions        []Session       `json:"sessions"`
	Improvements    []string        `json:"improvements"`
	TrainingFocus   *TrainingFocus  `json:"trainingFocus,omitempty"`
}

// Default is the profile used before anything has been persisted.
func Default() Profile {
	return Profile{
		ActivationState: ActivationNew,
		PreparationType: "Interview",
		Tone:            "Professional",
		Sessions:        []Session{},
		Improvements:    []string{},
	}
}

func (s ActivationState) Validate() error {
	switch s {
	case ActivationNew, ActivationActivated:
		return nil
	}
	return fmt.Errorf("%w: activation state %q", apperrors.ErrInvalidInput, s)
}

func (s SessionStatus) Validate() error {
	switch s {
	case SessionCompleted, SessionAborted:
		return nil
	}
	return fmt.Errorf("%w: session status %q", apperrors.ErrInvalidInput, s)
}

func (p Profile) Validate() error {
	if err := p.ActivationState.Validate(); err != nil {
		return err
	}
	for _, s := range p.Sessions {
		if err := s.Status.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasSession reports whether a session with the given id is already recorded.
func (p Profile) HasSession(id string) bool {
	for _, s := range p.Sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with p.
func (p Profile) Clone() Profile {
	out := p
	out.Sessions = make([]Session, len(p.Sessions))
	for i, s := range p.Sessions {
		if s.Score != nil {
			score := *s.Score
			s.Score = &score
		}
		out.Sessions[i] = s
	}
	out.Improvements = append([]string{}, p.Improvements...)
	if p.TrainingFocus != nil {
		focus := *p.TrainingFocus
		focus.Tags = append([]string{}, p.TrainingFocus.Tags...)
		out.TrainingFocus = &focus
	}
	return out
}

func Encode(p Profile) ([]byte, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return payload, nil
}

// Decode parses a persisted profile. Anything that does not decode into a
// valid profile is reported as ErrCorruptProfile.
func Decode(payload []byte) (Profile, error) {
	p := Profile{}
	if err := json.Unmarshal(payload, &p); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", apperrors.ErrCorruptProfile, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", apperrors.ErrCorruptProfile, err)
	}
	if p.Sessions == nil {
		p.Sessions = []Session{}
	}
	if p.Improvements == nil {
		p.Improvements = []string{}
	}
	return p, nil
}
