package out

import (
	"context"

	"solve/internal/modules/research/domain"
)

// SnapshotFetcher returns the current research tree for a session. Empty and
// malformed bodies surface as ErrEmptySnapshot and ErrMalformedSnapshot.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, sessionID string) (domain.ResearchTree, error)
}
