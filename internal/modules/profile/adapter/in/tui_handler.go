package in

import (
	"context"

	"prapp/internal/modules/profile/dto"
	profilein "prapp/internal/modules/profile/port/in"
)

// TUIHandler adds the read and watch calls the terminal UI needs on top of
// the command-line operations.
type TUIHandler struct {
	CLIHandler
}

func NewTUIHandler(usecase profilein.Usecase) TUIHandler {
	return TUIHandler{CLIHandler: NewCLIHandler(usecase)}
}

func (h TUIHandler) Load(ctx context.Context) dto.ProfileOutput {
	return h.usecase.Load(ctx)
}

func (h TUIHandler) Subscribe(fn func(dto.ProfileOutput)) func() {
	return h.usecase.Subscribe(fn)
}
