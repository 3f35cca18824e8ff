package in

import (
	"context"

	"prapp/internal/modules/profile/dto"
)

type Usecase interface {
	Load(ctx context.Context) dto.ProfileOutput
	Ready() bool
	Update(ctx context.Context, input dto.UpdateInput) (dto.ProfileOutput, error)
	// Modify derives the update from the current profile atomically.
	Modify(ctx context.Context, fn func(current dto.ProfileOutput) (dto.UpdateInput, error)) (dto.ProfileOutput, error)
	Reset(ctx context.Context) dto.ProfileOutput
	Subscribe(fn func(dto.ProfileOutput)) (unsubscribe func())
	ImportCV(ctx context.Context, input dto.ImportInput) (dto.ProfileOutput, error)
	ImportContext(ctx context.Context, input dto.ImportInput) (dto.ProfileOutput, error)
	Export(ctx context.Context) (string, error)
}
