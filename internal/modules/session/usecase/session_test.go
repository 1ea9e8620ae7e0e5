package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	sessionout "solve/internal/modules/session/adapter/out"
	"solve/internal/modules/session/domain"
	sessionin "solve/internal/modules/session/port/in"
	"solve/internal/modules/session/service"
	"solve/internal/modules/session/usecase"
	apperrors "solve/internal/platform/errors"
	"solve/internal/platform/localstore"
)

type fakeIssuer struct {
	tokens []string
	err    error
	calls  int
}

func (f *fakeIssuer) Create(context.Context) (domain.Session, error) {
	f.calls++
	if f.err != nil {
		return domain.Session{}, f.err
	}
	token := f.tokens[0]
	f.tokens = f.tokens[1:]
	return domain.Session{ID: token}, nil
}

func newUsecase(t *testing.T, issuer *fakeIssuer) (sessionin.Usecase, *localstore.Store) {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "solve.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	svc := service.NewSessionService(issuer, sessionout.NewLocalTokenStore(store), nil)
	return usecase.NewInteractor(svc), store
}

func TestResumeUsesStoredTokenWithoutCreating(t *testing.T) {
	t.Parallel()
	issuer := &fakeIssuer{tokens: []string{"fresh"}}
	uc, store := newUsecase(t, issuer)
	if err := store.Set(context.Background(), domain.StorageKey, "abc123"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	out, err := uc.Resume(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if out.SessionID != "abc123" || !out.Resumed {
		t.Fatalf("expected resumed abc123, got %+v", out)
	}
	if issuer.calls != 0 {
		t.Fatalf("create_session must not be called on resume, got %d calls", issuer.calls)
	}
}

func TestResumeCreatesWhenNothingStored(t *testing.T) {
	t.Parallel()
	issuer := &fakeIssuer{tokens: []string{"s-1"}}
	uc, _ := newUsecase(t, issuer)

	out, err := uc.Resume(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if out.SessionID != "s-1" || out.Resumed {
		t.Fatalf("expected freshly created s-1, got %+v", out)
	}
	current, err := uc.CurrentSessionID(context.Background())
	if err != nil || current != "s-1" {
		t.Fatalf("expected persisted s-1, got %q err=%v", current, err)
	}
}

func TestCreateSessionReplacesStoredToken(t *testing.T) {
	t.Parallel()
	issuer := &fakeIssuer{tokens: []string{"first", "second"}}
	uc, _ := newUsecase(t, issuer)

	if _, err := uc.CreateSession(context.Background()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	out, err := uc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	current, _ := uc.CurrentSessionID(context.Background())
	if out.SessionID != "second" || current != "second" {
		t.Fatalf("expected second token to replace first, got out=%s stored=%s", out.SessionID, current)
	}
}

func TestCreateSessionFailureKeepsPriorToken(t *testing.T) {
	t.Parallel()
	issuer := &fakeIssuer{err: errors.New("connection refused")}
	uc, store := newUsecase(t, issuer)
	if err := store.Set(context.Background(), domain.StorageKey, "prior"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if _, err := uc.CreateSession(context.Background()); err == nil {
		t.Fatalf("expected create failure to propagate")
	}
	current, err := uc.CurrentSessionID(context.Background())
	if err != nil || current != "prior" {
		t.Fatalf("prior token must survive failed create, got %q err=%v", current, err)
	}
}

func TestCreateSessionRejectsEmptyToken(t *testing.T) {
	t.Parallel()
	issuer := &fakeIssuer{tokens: []string{"  "}}
	uc, _ := newUsecase(t, issuer)

	_, err := uc.CreateSession(context.Background())
	if !errors.Is(err, apperrors.ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if current, _ := uc.CurrentSessionID(context.Background()); current != "" {
		t.Fatalf("nothing should be stored, got %q", current)
	}
}

func TestClearRemovesToken(t *testing.T) {
	t.Parallel()
	issuer := &fakeIssuer{tokens: []string{"s-1"}}
	uc, _ := newUsecase(t, issuer)
	if _, err := uc.CreateSession(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := uc.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if current, _ := uc.CurrentSessionID(context.Background()); current != "" {
		t.Fatalf("expected no session after clear, got %q", current)
	}
}
