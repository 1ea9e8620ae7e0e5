package in

import (
	"context"

	"solve/internal/modules/research/dto"
)

// Tracking is a running poll of one session. Updates is closed when the
// session reaches its terminal state or the tracking is stopped.
type Tracking interface {
	SessionID() string
	Updates() <-chan dto.UpdateOutput
	Navigate() <-chan dto.TreeOutput
	Done() <-chan struct{}
	Stop()
}

type Usecase interface {
	Track(ctx context.Context, sessionID string) Tracking
	Snapshot(ctx context.Context, sessionID string) (dto.TreeOutput, error)
	Graph(ctx context.Context, sessionID string) (dto.GraphOutput, error)
}
