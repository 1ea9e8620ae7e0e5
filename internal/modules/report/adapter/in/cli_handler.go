package in

import (
	"context"

	"solve/internal/modules/report/dto"
	reportin "solve/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, sessionID string) (dto.ReportOutput, string, error) {
	report, err := h.usecase.Load(ctx, sessionID)
	if err != nil {
		return dto.ReportOutput{}, "", err
	}
	return report, h.usecase.Markdown(report, nil), nil
}

func (h CLIHandler) Export(ctx context.Context, sessionID, dir string) (dto.ExportOutput, error) {
	report, err := h.usecase.Load(ctx, sessionID)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return h.usecase.Export(ctx, report, dir)
}

func (h CLIHandler) List(ctx context.Context, dir string) ([]dto.ExportOutput, error) {
	return h.usecase.ListExports(ctx, dir)
}
