package usecase

import (
	"prapp/internal/modules/profile/domain"
	"prapp/internal/modules/profile/dto"
)

func toOutput(p domain.Profile, durability error) dto.ProfileOutput {
	out := dto.ProfileOutput{
		ActivationState: string(p.ActivationState),
		PreparationType: p.PreparationType,
		MeetingSubtype:  p.MeetingSubtype,
		Agenda:          p.Agenda,
		Tone:            p.Tone,
		CVText:          p.CVText,
		Sessions:        make([]dto.SessionRecord, 0, len(p.Sessions)),
		Improvements:    append([]string{}, p.Improvements...),
		Durable:         durability == nil,
	}
	if durability != nil {
		out.DurabilityError = durability.Error()
	}
	for _, s := range p.Sessions {
		out.Sessions = append(out.Sessions, dto.SessionRecord{
			ID:      s.ID,
			Type:    s.Type,
			Subtype: s.Subtype,
			Date:    s.Date,
			Status:  string(s.Status),
			Score:   s.Score,
			Focus:   s.Focus,
		})
	}
	if p.TrainingFocus != nil {
		out.TrainingFocus = &dto.TrainingFocus{
			Title:          p.TrainingFocus.Title,
			Tags:           append([]string{}, p.TrainingFocus.Tags...),
			AgendaTemplate: p.TrainingFocus.AgendaTemplate,
		}
	}
	return out
}

func toPatch(in dto.UpdateInput) domain.Patch {
	patch := domain.Patch{
		PreparationType: in.PreparationType,
		MeetingSubtype:  in.MeetingSubtype,
		Agenda:          in.Agenda,
		Tone:            in.Tone,
		CVText:          in.CVText,
		Improvements:    in.Improvements,
	}
	if in.ActivationState != nil {
		state := domain.ActivationState(*in.ActivationState)
		patch.ActivationState = &state
	}
	if in.Sessions != nil {
		sessions := make([]domain.Session, 0, len(*in.Sessions))
		for _, s := range *in.Sessions {
			sessions = append(sessions, domain.Session{
				ID:      s.ID,
				Type:    s.Type,
				Subtype: s.Subtype,
				Date:    s.Date,
				Status:  domain.SessionStatus(s.Status),
				Score:   s.Score,
				Focus:   s.Focus,
			})
		}
		patch.Sessions = &sessions
	}
	switch {
	case in.ClearTrainingFocus:
		var none *domain.TrainingFocus
		patch.TrainingFocus = &none
	case in.TrainingFocus != nil:
		focus := &domain.TrainingFocus{
			Title:          in.TrainingFocus.Title,
			Tags:           in.TrainingFocus.Tags,
			AgendaTemplate: in.TrainingFocus.AgendaTemplate,
		}
		patch.TrainingFocus = &focus
	}
	return patch
}
