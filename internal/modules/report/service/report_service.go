package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"solve/internal/modules/report/domain"
	reportout "solve/internal/modules/report/port/out"
	researchdto "solve/internal/modules/research/dto"
	"solve/internal/platform/clock"
	apperrors "solve/internal/platform/errors"
	"solve/internal/platform/logging"
)

type ReportService struct {
	summaries reportout.SummaryReader
	store     reportout.ExportStore
	clock     clock.Clock
	logger    *zap.Logger
}

func NewReportService(summaries reportout.SummaryReader, store reportout.ExportStore, clk clock.Clock, logger *zap.Logger) *ReportService {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &ReportService{summaries: summaries, store: store, clock: clk, logger: logging.OrNop(logger)}
}

// Build assembles a report from a research tree. The tree is used as-is;
// Build never fetches.
func (s *ReportService) Build(tree researchdto.TreeOutput) domain.Report {
	sections := make([]domain.Section, 0, len(tree.SubQuestions))
	for _, sub := range tree.SubQuestions {
		section := domain.Section{Question: sub.Question, Answer: sub.Result, Depth: sub.Depth}
		for _, f := range sub.FollowUps {
			section.FollowUps = append(section.FollowUps, domain.FollowUp{Question: f.Question, Answer: f.Result})
		}
		sections = append(sections, section)
	}
	return domain.New(tree.SessionID, tree.FullReport, sections)
}

// WithStoredText fills in the report text from the backend summary store when
// the snapshot had none.
func (s *ReportService) WithStoredText(ctx context.Context, report domain.Report) (domain.Report, error) {
	if strings.TrimSpace(report.FullText) != "" {
		return report, nil
	}
	if s.summaries == nil {
		return domain.Report{}, fmt.Errorf("report for %s: %w", report.SessionID, apperrors.ErrNotFound)
	}
	text, err := s.summaries.Summary(ctx, report.SessionID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("load stored summary: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.Report{}, fmt.Errorf("report for %s: %w", report.SessionID, apperrors.ErrNotFound)
	}
	s.logger.Debug("report text loaded from summary store", zap.String("session_id", report.SessionID))
	return domain.New(report.SessionID, text, report.Sections), nil
}

func (s *ReportService) Export(ctx context.Context, report domain.Report, dir, body string) (domain.Exported, error) {
	if strings.TrimSpace(dir) == "" {
		return domain.Exported{}, fmt.Errorf("%w: export directory is required", apperrors.ErrInvalidInput)
	}
	meta := domain.ExportMeta{
		SessionID:  report.SessionID,
		Title:      report.Title,
		ExportedAt: s.clock.Now().UTC(),
		Sections:   len(report.Sections),
	}
	path, err := s.store.Save(ctx, dir, report, meta, body)
	if err != nil {
		return domain.Exported{}, err
	}
	s.logger.Info("report exported", zap.String("session_id", report.SessionID), zap.String("path", path))
	return domain.Exported{Path: path, Meta: meta}, nil
}

func (s *ReportService) List(ctx context.Context, dir string) ([]domain.Exported, error) {
	items, err := s.store.List(ctx, dir)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return items, err
}
