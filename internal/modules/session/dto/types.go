package dto

import profiledto "prapp/internal/modules/profile/dto"

// Navigation targets a session screen can hand control to.
const (
	TargetProfile = "profile"
	TargetBack    = "back"
)

type OpenInput struct {
	SessionID string
}

type StateOutput struct {
	SessionID       string
	State           string
	PreparationType string
	Agenda          string
	Greeting        string
	AcceptsInput    bool
	TornDown        bool
}

type CompleteOutput struct {
	Session         profiledto.SessionRecord
	Improvements    []string
	ActivationState string
	Durable         bool
	Target          string
}

type ExitOutput struct {
	// Recorded is set when an aborted session record was written.
	Recorded bool
	Session  profiledto.SessionRecord
	Target   string
}
