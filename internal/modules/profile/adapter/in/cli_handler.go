package in

import (
	"context"
	"fmt"
	"strings"

	"prapp/internal/modules/profile/dto"
	profilein "prapp/internal/modules/profile/port/in"
	apperrors "prapp/internal/platform/errors"
)

// Fields lists the profile fields settable from the command line.
var Fields = []string{"preparation-type", "meeting-subtype", "agenda", "tone", "cv-text", "focus-title", "focus-tags", "focus-template"}

type CLIHandler struct {
	usecase profilein.Usecase
}

func NewCLIHandler(usecase profilein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) dto.ProfileOutput {
	return h.usecase.Load(ctx)
}

func (h CLIHandler) Set(ctx context.Context, field, value string) (dto.ProfileOutput, error) {
	input := dto.UpdateInput{}
	switch field {
	case "preparation-type":
		input.PreparationType = &value
	case "meeting-subtype":
		input.MeetingSubtype = &value
	case "agenda":
		input.Agenda = &value
	case "tone":
		input.Tone = &value
	case "cv-text":
		input.CVText = &value
	case "focus-title", "focus-tags", "focus-template":
		return h.setFocus(ctx, field, value)
	default:
		return dto.ProfileOutput{}, fmt.Errorf("%w: unknown field %q (want one of %s)", apperrors.ErrInvalidInput, field, strings.Join(Fields, ", "))
	}
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) setFocus(ctx context.Context, field, value string) (dto.ProfileOutput, error) {
	return h.usecase.Modify(ctx, func(current dto.ProfileOutput) (dto.UpdateInput, error) {
		focus := dto.TrainingFocus{}
		if current.TrainingFocus != nil {
			focus = *current.TrainingFocus
		}
		switch field {
		case "focus-title":
			focus.Title = value
		case "focus-tags":
			focus.Tags = splitTags(value)
		case "focus-template":
			focus.AgendaTemplate = value
		}
		return dto.UpdateInput{TrainingFocus: &focus}, nil
	})
}

func (h CLIHandler) ClearFocus(ctx context.Context) (dto.ProfileOutput, error) {
	return h.usecase.Update(ctx, dto.UpdateInput{ClearTrainingFocus: true})
}

func (h CLIHandler) Reset(ctx context.Context) dto.ProfileOutput {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) ImportCV(ctx context.Context, path string) (dto.ProfileOutput, error) {
	return h.usecase.ImportCV(ctx, dto.ImportInput{Path: path})
}

func (h CLIHandler) ImportContext(ctx context.Context, path string) (dto.ProfileOutput, error) {
	return h.usecase.ImportContext(ctx, dto.ImportInput{Path: path})
}

func (h CLIHandler) Export(ctx context.Context) (string, error) {
	return h.usecase.Export(ctx)
}

func splitTags(value string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, tag := range strings.Split(value, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
