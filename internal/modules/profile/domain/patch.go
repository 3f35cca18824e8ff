package domain

// Patch is a partial profile. Nil fields are left untouched by Merge; a
// non-nil field replaces the current value wholesale.
type Patch struct {
	ActivationState *ActivationState
	PreparationType *string
	MeetingSubtype  *string
	Agenda          *string
	Tone            *string
	CVText          *string
	Sessions        *[]Session
	Improvements    *[]string
	TrainingFocus   **TrainingFocus
}

func (p Patch) IsEmpty() bool {
	return p.ActivationState == nil &&
		p.PreparationType == nil &&
		p.MeetingSubtype == nil &&
		p.Agenda == nil &&
		p.Tone == nil &&
		p.CVText == nil &&
		p.Sessions == nil &&
		p.Improvements == nil &&
		p.TrainingFocus == nil
}

func (p Patch) Validate() error {
	if p.ActivationState != nil {
		if err := p.ActivationState.Validate(); err != nil {
			return err
		}
	}
	if p.Sessions != nil {
		for _, s := range *p.Sessions {
			if err := s.Status.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Merge applies a shallow merge of patch over p.
func (p Profile) Merge(patch Patch) Profile {
	out := p.Clone()
	if patch.ActivationState != nil {
		out.ActivationState = *patch.ActivationState
	}
	if patch.PreparationType != nil {
		out.PreparationType = *patch.PreparationType
	}
	if patch.MeetingSubtype != nil {
		out.MeetingSubtype = *patch.MeetingSubtype
	}
	if patch.Agenda != nil {
		out.Agenda = *patch.Agenda
	}
	if patch.Tone != nil {
		out.Tone = *patch.Tone
	}
	if patch.CVText != nil {
		out.CVText = *patch.CVText
	}
	if patch.Sessions != nil {
		out.Sessions = Profile{Sessions: *patch.Sessions}.Clone().Sessions
	}
	if patch.Improvements != nil {
		out.Improvements = append([]string{}, (*patch.Improvements)...)
	}
	if patch.TrainingFocus != nil {
		out.TrainingFocus = Profile{TrainingFocus: *patch.TrainingFocus}.Clone().TrainingFocus
	}
	return out
}
