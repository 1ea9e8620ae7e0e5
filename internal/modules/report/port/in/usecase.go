package in

import (
	"context"

	"solve/internal/modules/report/dto"
	researchdto "solve/internal/modules/research/dto"
)

type Usecase interface {
	FromTree(tree researchdto.TreeOutput) dto.ReportOutput
	Load(ctx context.Context, sessionID string) (dto.ReportOutput, error)
	// Markdown renders the report; a nil expansion shows every section.
	Markdown(report dto.ReportOutput, expansion *dto.Expansion) string
	Export(ctx context.Context, report dto.ReportOutput, dir string) (dto.ExportOutput, error)
	ListExports(ctx context.Context, dir string) ([]dto.ExportOutput, error)
}
