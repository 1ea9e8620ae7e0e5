package out

import (
	"context"

	"solve/internal/modules/intake/domain"
)

type Analyzer interface {
	Analyze(ctx context.Context, sessionID string, req domain.Request) error
}
