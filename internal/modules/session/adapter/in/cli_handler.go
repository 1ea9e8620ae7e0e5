package in

import (
	"context"

	sessiondto "solve/internal/modules/session/dto"
	sessionin "solve/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) New(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.CreateSession(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (string, error) {
	return h.usecase.CurrentSessionID(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}
