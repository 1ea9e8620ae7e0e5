package out

import (
	"context"
	"strings"

	"solve/internal/modules/session/domain"
	sessionout "solve/internal/modules/session/port/out"
	apperrors "solve/internal/platform/errors"
)

// KeyValue is the subset of the local store the token store needs.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type LocalTokenStore struct {
	kv KeyValue
}

func NewLocalTokenStore(kv KeyValue) sessionout.TokenStore {
	return &LocalTokenStore{kv: kv}
}

func (s *LocalTokenStore) Save(ctx context.Context, session domain.Session) error {
	return s.kv.Set(ctx, domain.StorageKey, session.ID)
}

func (s *LocalTokenStore) Load(ctx context.Context) (domain.Session, error) {
	value, ok, err := s.kv.Get(ctx, domain.StorageKey)
	if err != nil {
		return domain.Session{}, err
	}
	session := domain.Session{ID: strings.TrimSpace(value)}
	if !ok || !session.Valid() {
		return domain.Session{}, apperrors.ErrNoSession
	}
	return session, nil
}

func (s *LocalTokenStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, domain.StorageKey)
}
