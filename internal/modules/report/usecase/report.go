package usecase

import (
	"context"
	"errors"

	"solve/internal/modules/report/domain"
	"solve/internal/modules/report/dto"
	reportin "solve/internal/modules/report/port/in"
	"solve/internal/modules/report/service"
	researchdto "solve/internal/modules/research/dto"
	researchin "solve/internal/modules/research/port/in"
	apperrors "solve/internal/platform/errors"
)

type Interactor struct {
	svc      *service.ReportService
	research researchin.Usecase
}

func NewInteractor(svc *service.ReportService, research researchin.Usecase) reportin.Usecase {
	return &Interactor{svc: svc, research: research}
}

func (i *Interactor) FromTree(tree researchdto.TreeOutput) dto.ReportOutput {
	return toOutput(i.svc.Build(tree))
}

// Load is the fallback for when no navigation payload is at hand: it fetches
// the current snapshot once and, if the snapshot has no report text yet, asks
// the summary store for it.
func (i *Interactor) Load(ctx context.Context, sessionID string) (dto.ReportOutput, error) {
	if sessionID == "" {
		return dto.ReportOutput{}, apperrors.ErrNoSession
	}
	tree, err := i.research.Snapshot(ctx, sessionID)
	switch {
	case errors.Is(err, apperrors.ErrEmptySnapshot):
		tree = researchdto.TreeOutput{SessionID: sessionID}
	case err != nil:
		return dto.ReportOutput{}, err
	}
	tree.SessionID = sessionID

	report, err := i.svc.WithStoredText(ctx, i.svc.Build(tree))
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return toOutput(report), nil
}

func (i *Interactor) Markdown(report dto.ReportOutput, expansion *dto.Expansion) string {
	var expanded func(string) bool
	if expansion != nil {
		expanded = expansion.IsExpanded
	}
	return fromOutput(report).Markdown(expanded)
}

func (i *Interactor) Export(ctx context.Context, report dto.ReportOutput, dir string) (dto.ExportOutput, error) {
	r := fromOutput(report)
	exported, err := i.svc.Export(ctx, r, dir, r.Markdown(nil))
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return toExportOutput(exported), nil
}

func (i *Interactor) ListExports(ctx context.Context, dir string) ([]dto.ExportOutput, error) {
	items, err := i.svc.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExportOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toExportOutput(item))
	}
	return out, nil
}

func toExportOutput(e domain.Exported) dto.ExportOutput {
	return dto.ExportOutput{
		Path:       e.Path,
		SessionID:  e.Meta.SessionID,
		Title:      e.Meta.Title,
		ExportedAt: e.Meta.ExportedAt,
		Sections:   e.Meta.Sections,
	}
}

func toOutput(r domain.Report) dto.ReportOutput {
	out := dto.ReportOutput{
		SessionID: r.SessionID,
		Title:     r.Title,
		Abstract:  r.Abstract,
		FullText:  r.FullText,
		Sections:  make([]dto.SectionOutput, 0, len(r.Sections)),
	}
	for _, s := range r.Sections {
		section := dto.SectionOutput{Question: s.Question, Answer: s.Answer, Depth: s.Depth}
		for _, f := range s.FollowUps {
			section.FollowUps = append(section.FollowUps, dto.FollowUpOutput{Question: f.Question, Answer: f.Answer})
		}
		out.Sections = append(out.Sections, section)
	}
	return out
}

func fromOutput(r dto.ReportOutput) domain.Report {
	report := domain.Report{
		SessionID: r.SessionID,
		Title:     r.Title,
		Abstract:  r.Abstract,
		FullText:  r.FullText,
	}
	for _, s := range r.Sections {
		section := domain.Section{Question: s.Question, Answer: s.Answer, Depth: s.Depth}
		for _, f := range s.FollowUps {
			section.FollowUps = append(section.FollowUps, domain.FollowUp{Question: f.Question, Answer: f.Answer})
		}
		report.Sections = append(report.Sections, section)
	}
	return report
}
