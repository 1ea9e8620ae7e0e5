package usecase

import (
	"context"

	"solve/internal/modules/research/dto"
	researchin "solve/internal/modules/research/port/in"
	"solve/internal/modules/research/service"
)

type Interactor struct {
	tracker *service.Tracker
}

func NewInteractor(tracker *service.Tracker) researchin.Usecase {
	return &Interactor{tracker: tracker}
}

func (i *Interactor) Track(ctx context.Context, sessionID string) researchin.Tracking {
	return i.tracker.Start(ctx, sessionID)
}

func (i *Interactor) Snapshot(ctx context.Context, sessionID string) (dto.TreeOutput, error) {
	tree, err := i.tracker.Snapshot(ctx, sessionID)
	if err != nil {
		return dto.TreeOutput{}, err
	}
	return service.SnapshotOutput(sessionID, tree), nil
}

func (i *Interactor) Graph(ctx context.Context, sessionID string) (dto.GraphOutput, error) {
	tree, err := i.tracker.Snapshot(ctx, sessionID)
	if err != nil {
		return dto.GraphOutput{}, err
	}
	return service.GraphOutput(tree), nil
}
