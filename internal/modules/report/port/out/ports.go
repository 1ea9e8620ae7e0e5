package out

import (
	"context"

	"solve/internal/modules/report/domain"
)

// SummaryReader fetches the stored report text for a session.
type SummaryReader interface {
	Summary(ctx context.Context, sessionID string) (string, error)
}

type ExportStore interface {
	Save(ctx context.Context, dir string, report domain.Report, meta domain.ExportMeta, body string) (string, error)
	List(ctx context.Context, dir string) ([]domain.Exported, error)
}
