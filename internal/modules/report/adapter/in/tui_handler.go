package in

import (
	"context"

	"solve/internal/modules/report/dto"
	reportin "solve/internal/modules/report/port/in"
	researchdto "solve/internal/modules/research/dto"
)

// TUIHandler exposes what the interactive report view needs, including
// building a report straight from a navigation payload.
type TUIHandler struct {
	usecase reportin.Usecase
}

func NewTUIHandler(usecase reportin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) FromTree(tree researchdto.TreeOutput) dto.ReportOutput {
	return h.usecase.FromTree(tree)
}

func (h TUIHandler) Load(ctx context.Context, sessionID string) (dto.ReportOutput, error) {
	return h.usecase.Load(ctx, sessionID)
}

func (h TUIHandler) Markdown(report dto.ReportOutput, expansion *dto.Expansion) string {
	return h.usecase.Markdown(report, expansion)
}

func (h TUIHandler) Export(ctx context.Context, report dto.ReportOutput, dir string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, report, dir)
}
