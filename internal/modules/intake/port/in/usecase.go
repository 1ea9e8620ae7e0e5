package in

import (
	"context"

	"solve/internal/modules/intake/dto"
)

type Usecase interface {
	Catalog() []string
	// Prepare validates the input and opens a fresh session for it.
	Prepare(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error)
	// Dispatch starts the analysis for a prepared submission. It blocks until
	// the backend answers, which may take as long as the research itself.
	Dispatch(ctx context.Context, prepared dto.SubmitOutput) error
	Submit(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error)
}
