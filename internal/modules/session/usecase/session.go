package usecase

import (
	"context"
	"errors"

	sessiondto "solve/internal/modules/session/dto"
	sessionin "solve/internal/modules/session/port/in"
	"solve/internal/modules/session/service"
	apperrors "solve/internal/platform/errors"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) CreateSession(ctx context.Context) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Create(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return sessiondto.SessionOutput{SessionID: session.ID}, nil
}

// CurrentSessionID returns the last known token or "" when none is stored.
func (i *Interactor) CurrentSessionID(ctx context.Context) (string, error) {
	session, err := i.svc.Current(ctx)
	if errors.Is(err, apperrors.ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

func (i *Interactor) Resume(ctx context.Context) (sessiondto.SessionOutput, error) {
	session, resumed, err := i.svc.Resume(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return sessiondto.SessionOutput{SessionID: session.ID, Resumed: resumed}, nil
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.svc.Clear(ctx)
}
