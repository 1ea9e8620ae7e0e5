package in

import (
	"context"

	"solve/internal/modules/research/dto"
	researchin "solve/internal/modules/research/port/in"
)

type CLIHandler struct {
	usecase researchin.Usecase
}

func NewCLIHandler(usecase researchin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Watch(ctx context.Context, sessionID string) researchin.Tracking {
	return h.usecase.Track(ctx, sessionID)
}

func (h CLIHandler) Snapshot(ctx context.Context, sessionID string) (dto.TreeOutput, error) {
	return h.usecase.Snapshot(ctx, sessionID)
}

func (h CLIHandler) Graph(ctx context.Context, sessionID string) (dto.GraphOutput, error) {
	return h.usecase.Graph(ctx, sessionID)
}
