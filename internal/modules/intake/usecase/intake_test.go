package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solve/internal/modules/intake/domain"
	"solve/internal/modules/intake/dto"
	intakein "solve/internal/modules/intake/port/in"
	"solve/internal/modules/intake/service"
	"solve/internal/modules/intake/usecase"
	sessiondto "solve/internal/modules/session/dto"
	"solve/internal/platform/clock"
	apperrors "solve/internal/platform/errors"
)

type fakeSessions struct {
	next    string
	err     error
	created int
}

func (f *fakeSessions) CreateSession(context.Context) (sessiondto.SessionOutput, error) {
	f.created++
	if f.err != nil {
		return sessiondto.SessionOutput{}, f.err
	}
	return sessiondto.SessionOutput{SessionID: f.next}, nil
}

func (f *fakeSessions) CurrentSessionID(context.Context) (string, error) { return f.next, nil }

func (f *fakeSessions) Resume(context.Context) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{SessionID: f.next, Resumed: true}, nil
}

func (f *fakeSessions) Clear(context.Context) error { return nil }

type fakeAnalyzer struct {
	sessionID string
	req       domain.Request
	calls     int
	err       error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, sessionID string, req domain.Request) error {
	f.calls++
	f.sessionID = sessionID
	f.req = req
	return f.err
}

func newInteractor(sessions *fakeSessions, analyzer *fakeAnalyzer) (intakein.Usecase, time.Time) {
	at := time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC)
	return usecase.NewInteractor(service.NewIntakeService(analyzer, nil), sessions, clock.Fixed{At: at}), at
}

func TestSubmitCreatesSessionAndDispatches(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{next: "abc123"}
	analyzer := &fakeAnalyzer{}
	uc, at := newInteractor(sessions, analyzer)

	out, err := uc.Submit(context.Background(), dto.SubmitInput{
		CompanyName: "  Acme Corp ",
		Industry:    "Retail",
		Topics:      []string{"market risks", "Legal Standing"},
		Prompts:     []string{"Who are the founders?", "Market Risks"},
	})
	require.NoError(t, err)
	require.Equal(t, "abc123", out.SessionID)
	require.Equal(t, at, out.SubmittedAt)
	require.Equal(t, 1, sessions.created)
	require.Equal(t, 1, analyzer.calls)
	require.Equal(t, "abc123", analyzer.sessionID)
	require.Equal(t, "Acme Corp", analyzer.req.CompanyName)
	require.Equal(t, []string{"Market Risks", "Legal Standing", "Who are the founders?"}, analyzer.req.Prompts)
}

func TestSubmitRejectsInvalidInputWithoutSession(t *testing.T) {
	t.Parallel()

	cases := map[string]dto.SubmitInput{
		"missing company":  {Industry: "Retail", Prompts: []string{"x"}},
		"missing industry": {CompanyName: "Acme", Prompts: []string{"x"}},
		"no prompts":       {CompanyName: "Acme", Industry: "Retail"},
		"blank prompt":     {CompanyName: "Acme", Industry: "Retail", Prompts: []string{"ok", "   "}},
		"unknown topic":    {CompanyName: "Acme", Industry: "Retail", Topics: []string{"Astrology"}},
	}
	for name, input := range cases {
		sessions := &fakeSessions{next: "abc123"}
		analyzer := &fakeAnalyzer{}
		uc, _ := newInteractor(sessions, analyzer)

		_, err := uc.Submit(context.Background(), input)
		require.ErrorIs(t, err, apperrors.ErrInvalidInput, name)
		require.Zero(t, sessions.created, name)
		require.Zero(t, analyzer.calls, name)
	}
}

func TestSubmitStopsWhenSessionCreationFails(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{err: errors.New("backend down")}
	analyzer := &fakeAnalyzer{}
	uc, _ := newInteractor(sessions, analyzer)

	_, err := uc.Submit(context.Background(), dto.SubmitInput{CompanyName: "Acme", Industry: "Retail", Prompts: []string{"x"}})
	require.Error(t, err)
	require.Zero(t, analyzer.calls)
}

func TestSubmitReturnsSessionWhenDispatchFails(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{next: "abc123"}
	analyzer := &fakeAnalyzer{err: errors.New("503")}
	uc, _ := newInteractor(sessions, analyzer)

	out, err := uc.Submit(context.Background(), dto.SubmitInput{CompanyName: "Acme", Industry: "Retail", Prompts: []string{"x"}})
	require.Error(t, err)
	require.Equal(t, "abc123", out.SessionID)
}

func TestCatalogIsACopy(t *testing.T) {
	t.Parallel()

	uc, _ := newInteractor(&fakeSessions{}, &fakeAnalyzer{})
	first := uc.Catalog()
	require.Len(t, first, 6)
	first[0] = "mutated"
	require.Equal(t, "Operations and Management", uc.Catalog()[0])
}
