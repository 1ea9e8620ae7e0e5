package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"solve/internal/modules/intake/domain"
	intakeout "solve/internal/modules/intake/port/out"
	apperrors "solve/internal/platform/errors"
	"solve/internal/platform/logging"
)

type IntakeService struct {
	analyzer intakeout.Analyzer
	validate *validator.Validate
	logger   *zap.Logger
}

func NewIntakeService(analyzer intakeout.Analyzer, logger *zap.Logger) *IntakeService {
	return &IntakeService{
		analyzer: analyzer,
		validate: validator.New(),
		logger:   logging.OrNop(logger),
	}
}

// Build turns raw form values into a validated request. Topics must name a
// catalog entry; free-form prompts are passed through.
func (s *IntakeService) Build(company, industry string, topics, prompts []string) (domain.Request, error) {
	canonical := make([]string, 0, len(topics))
	for _, topic := range topics {
		entry, ok := domain.CatalogEntry(topic)
		if !ok {
			return domain.Request{}, fmt.Errorf("%w: unknown topic %q", apperrors.ErrInvalidInput, topic)
		}
		canonical = append(canonical, entry)
	}
	req := domain.NewRequest(company, industry, canonical, prompts)
	if err := s.validate.Struct(req); err != nil {
		return domain.Request{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, describe(err))
	}
	return req, nil
}

func (s *IntakeService) Dispatch(ctx context.Context, sessionID string, req domain.Request) error {
	if strings.TrimSpace(sessionID) == "" {
		return apperrors.ErrNoSession
	}
	s.logger.Info("analysis dispatched",
		zap.String("session_id", sessionID),
		zap.String("company", req.CompanyName),
		zap.Int("prompts", len(req.Prompts)),
	)
	if err := s.analyzer.Analyze(ctx, sessionID, req); err != nil {
		s.logger.Error("analysis request failed", zap.String("session_id", sessionID), zap.Error(err))
		return fmt.Errorf("analyze: %w", err)
	}
	return nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.StructField())
		switch {
		case strings.HasPrefix(field, "prompts["):
			msgs = append(msgs, "prompts must not be blank")
		case fe.Tag() == "required":
			msgs = append(msgs, field+" is required")
		case fe.Tag() == "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entry", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
