package in

import (
	"context"

	"solve/internal/modules/intake/dto"
	intakein "solve/internal/modules/intake/port/in"
)

type CLIHandler struct {
	usecase intakein.Usecase
}

func NewCLIHandler(usecase intakein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Catalog() []string {
	return h.usecase.Catalog()
}

func (h CLIHandler) Prepare(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error) {
	return h.usecase.Prepare(ctx, input)
}

func (h CLIHandler) Dispatch(ctx context.Context, prepared dto.SubmitOutput) error {
	return h.usecase.Dispatch(ctx, prepared)
}
