package usecase

import (
	"context"

	"solve/internal/modules/intake/domain"
	"solve/internal/modules/intake/dto"
	intakein "solve/internal/modules/intake/port/in"
	"solve/internal/modules/intake/service"
	sessionin "solve/internal/modules/session/port/in"
	"solve/internal/platform/clock"
)

type Interactor struct {
	svc      *service.IntakeService
	sessions sessionin.Usecase
	clock    clock.Clock
}

func NewInteractor(svc *service.IntakeService, sessions sessionin.Usecase, clk clock.Clock) intakein.Usecase {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Interactor{svc: svc, sessions: sessions, clock: clk}
}

func (i *Interactor) Catalog() []string {
	return domain.Catalog()
}

// Prepare always opens a new session: each submission is its own research job.
func (i *Interactor) Prepare(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error) {
	req, err := i.svc.Build(input.CompanyName, input.Industry, input.Topics, input.Prompts)
	if err != nil {
		return dto.SubmitOutput{}, err
	}
	session, err := i.sessions.CreateSession(ctx)
	if err != nil {
		return dto.SubmitOutput{}, err
	}
	return dto.SubmitOutput{
		SessionID:   session.SessionID,
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Prompts:     req.Prompts,
		SubmittedAt: i.clock.Now(),
	}, nil
}

func (i *Interactor) Dispatch(ctx context.Context, prepared dto.SubmitOutput) error {
	req := domain.Request{
		CompanyName: prepared.CompanyName,
		Industry:    prepared.Industry,
		Prompts:     prepared.Prompts,
	}
	return i.svc.Dispatch(ctx, prepared.SessionID, req)
}

func (i *Interactor) Submit(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error) {
	prepared, err := i.Prepare(ctx, input)
	if err != nil {
		return dto.SubmitOutput{}, err
	}
	if err := i.Dispatch(ctx, prepared); err != nil {
		return prepared, err
	}
	return prepared, nil
}
