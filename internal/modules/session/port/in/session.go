package in

import (
	"context"

	"solve/internal/modules/session/dto"
)

type Usecase interface {
	CreateSession(ctx context.Context) (dto.SessionOutput, error)
	CurrentSessionID(ctx context.Context) (string, error)
	Resume(ctx context.Context) (dto.SessionOutput, error)
	Clear(ctx context.Context) error
}
