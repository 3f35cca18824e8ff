package in

import (
	"context"
	"fmt"

	sessiondto "prapp/internal/modules/session/dto"
	sessionin "prapp/internal/modules/session/port/in"
	apperrors "prapp/internal/platform/errors"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Run drives a session headlessly: it waits out the warm-up, reports the
// active state through onActive, then completes the session.
func (h CLIHandler) Run(ctx context.Context, sessionID string, onActive func(sessiondto.StateOutput)) (sessiondto.CompleteOutput, error) {
	ctrl, err := h.usecase.Open(ctx, sessiondto.OpenInput{SessionID: sessionID})
	if err != nil {
		return sessiondto.CompleteOutput{}, err
	}
	defer ctrl.Teardown()

	active, err := awaitActive(ctx, ctrl)
	if err != nil {
		return sessiondto.CompleteOutput{}, err
	}
	if onActive != nil {
		onActive(active)
	}
	return ctrl.Complete(ctx)
}

// Complete records a completion for sessionID without printing the greeting.
func (h CLIHandler) Complete(ctx context.Context, sessionID string) (sessiondto.CompleteOutput, error) {
	return h.Run(ctx, sessionID, nil)
}

func awaitActive(ctx context.Context, ctrl sessionin.Controller) (sessiondto.StateOutput, error) {
	if state := ctrl.State(); state.AcceptsInput {
		return state, nil
	}
	for {
		select {
		case <-ctx.Done():
			return sessiondto.StateOutput{}, ctx.Err()
		case state, ok := <-ctrl.Updates():
			if !ok {
				return sessiondto.StateOutput{}, fmt.Errorf("%w: session ended before it became active", apperrors.ErrSessionClosed)
			}
			if state.AcceptsInput {
				return state, nil
			}
		}
	}
}

// TUIHandler exposes session runs to the terminal UI.
type TUIHandler struct {
	usecase sessionin.Usecase
}

func NewTUIHandler(usecase sessionin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Open(ctx context.Context, input sessiondto.OpenInput) (sessionin.Controller, error) {
	return h.usecase.Open(ctx, input)
}
