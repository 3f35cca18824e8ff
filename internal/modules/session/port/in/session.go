package in

import (
	"context"

	"prapp/internal/modules/session/dto"
)

type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (Controller, error)
}

// Controller drives one mounted session screen.
type Controller interface {
	State() dto.StateOutput
	// Updates delivers every state change and is closed once the session is
	// completed or torn down.
	Updates() <-chan dto.StateOutput
	Complete(ctx context.Context) (dto.CompleteOutput, error)
	Exit(ctx context.Context) (dto.ExitOutput, error)
	Teardown()
}
