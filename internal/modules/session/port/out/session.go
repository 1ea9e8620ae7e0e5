package out

import (
	"context"

	"solve/internal/modules/session/domain"
)

// Issuer obtains a fresh session from the research backend.
type Issuer interface {
	Create(ctx context.Context) (domain.Session, error)
}

// TokenStore persists the single current session token.
type TokenStore interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context) (domain.Session, error)
	Clear(ctx context.Context) error
}
