package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"solve/internal/modules/session/domain"
	sessionout "solve/internal/modules/session/port/out"
	apperrors "solve/internal/platform/errors"
	"solve/internal/platform/logging"
)

type SessionService struct {
	issuer sessionout.Issuer
	store  sessionout.TokenStore
	logger *zap.Logger
}

func NewSessionService(issuer sessionout.Issuer, store sessionout.TokenStore, logger *zap.Logger) *SessionService {
	return &SessionService{issuer: issuer, store: store, logger: logging.OrNop(logger)}
}

// Create requests a new token and replaces the stored one. A failed request
// leaves any previously stored token in place.
func (s *SessionService) Create(ctx context.Context) (domain.Session, error) {
	session, err := s.issuer.Create(ctx)
	if err != nil {
		s.logger.Error("create session failed", zap.Error(err))
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	if !session.Valid() {
		s.logger.Error("create session returned empty token")
		return domain.Session{}, fmt.Errorf("create session: %w: empty session_id", apperrors.ErrInvalidResponse)
	}
	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	s.logger.Info("session created", zap.String("session_id", session.ID))
	return session, nil
}

// Current returns the stored session, or ErrNoSession.
func (s *SessionService) Current(ctx context.Context) (domain.Session, error) {
	return s.store.Load(ctx)
}

// Resume prefers the stored session so a restart keeps polling the same job.
func (s *SessionService) Resume(ctx context.Context) (domain.Session, bool, error) {
	session, err := s.store.Load(ctx)
	if err == nil {
		s.logger.Info("session resumed", zap.String("session_id", session.ID))
		return session, true, nil
	}
	if !errors.Is(err, apperrors.ErrNoSession) {
		return domain.Session{}, false, err
	}
	created, err := s.Create(ctx)
	if err != nil {
		return domain.Session{}, false, err
	}
	return created, false, nil
}

func (s *SessionService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
