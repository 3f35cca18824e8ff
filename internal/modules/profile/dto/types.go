package dto

import "time"

type SessionRecord struct {
	ID      string
	Type    string
	Subtype string
	Date    time.Time
	Status  string
	Score   *int
	Focus   string
}

type TrainingFocus struct {
	Title          string
	Tags           []string
	AgendaTemplate string
}

type ProfileOutput struct {
	ActivationState string
	PreparationType string
	MeetingSubtype  string
	Agenda          string
	Tone            string
	CVText          string
	Sessions        []SessionRecord
	Improvements    []string
	TrainingFocus   *TrainingFocus
	// Durable is false while the last write failed; the profile is then only
	// held in memory.
	Durable         bool
	DurabilityError string
}

// UpdateInput is a partial update. Nil fields are left untouched.
type UpdateInput struct {
	ActivationState *string
	PreparationType *string
	MeetingSubtype  *string
	Agenda          *string
	Tone            *string
	CVText          *string
	Sessions        *[]SessionRecord
	Improvements    *[]string
	// ClearTrainingFocus wins over TrainingFocus.
	TrainingFocus      *TrainingFocus
	ClearTrainingFocus bool
}

type ImportInput struct {
	Path string
}
