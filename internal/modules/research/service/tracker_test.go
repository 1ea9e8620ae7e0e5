package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"solve/internal/modules/research/domain"
	"solve/internal/modules/research/dto"
	"solve/internal/modules/research/service"
	"solve/internal/platform/clock"
	apperrors "solve/internal/platform/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type step struct {
	tree domain.ResearchTree
	err  error
}

// scriptedFetcher replays steps in order and repeats the last one forever.
type scriptedFetcher struct {
	mu    sync.Mutex
	steps []step
	calls int
}

func (f *scriptedFetcher) Fetch(_ context.Context, sessionID string) (domain.ResearchTree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sessionID == "" {
		return domain.ResearchTree{}, fmt.Errorf("missing session id")
	}
	idx := f.calls
	if idx >= len(f.steps) {
		idx = len(f.steps) - 1
	}
	f.calls++
	return f.steps[idx].tree, f.steps[idx].err
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func pending() domain.ResearchTree {
	return domain.ResearchTree{SubQuestions: []domain.SubQuestion{{Question: "Q1", Depth: 1}}}
}

func finished() domain.ResearchTree {
	return domain.ResearchTree{
		FullReport:   "Acme outlook\nSolid.",
		SubQuestions: []domain.SubQuestion{{Question: "Q1", Result: "A1", Depth: 1}},
	}
}

func newTracker(f *scriptedFetcher, opts service.TrackerOptions) *service.Tracker {
	if opts.PollInterval == 0 {
		opts.PollInterval = 5 * time.Millisecond
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = time.Second
	}
	clk := clock.Fixed{At: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return service.NewTracker(f, clk, nil, opts)
}

func drain(t *testing.T, updates <-chan dto.UpdateOutput) []dto.UpdateOutput {
	t.Helper()
	var out []dto.UpdateOutput
	timeout := time.After(2 * time.Second)
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return out
			}
			out = append(out, u)
		case <-timeout:
			t.Fatalf("updates channel never closed")
		}
	}
}

func TestTrackerCompletesOnceAndNavigates(t *testing.T) {
	f := &scriptedFetcher{steps: []step{{tree: pending()}, {tree: pending()}, {tree: finished()}}}
	task := newTracker(f, service.TrackerOptions{NavigateDelay: 10 * time.Millisecond}).Start(context.Background(), "abc123")
	defer task.Stop()

	updates := drain(t, task.Updates())
	require.NotEmpty(t, updates)
	terminal := 0
	for _, u := range updates {
		if u.Terminal {
			terminal++
		}
	}
	require.Equal(t, 1, terminal)
	last := updates[len(updates)-1]
	require.True(t, last.Terminal)
	require.Equal(t, "abc123", last.SessionID)
	require.Len(t, last.Graph.Nodes, 2)
	require.Len(t, last.Graph.Links, 1)

	select {
	case tree, ok := <-task.Navigate():
		require.True(t, ok)
		require.Equal(t, "Acme outlook\nSolid.", tree.FullReport)
	case <-time.After(2 * time.Second):
		t.Fatalf("navigation never happened")
	}
	_, ok := <-task.Navigate()
	require.False(t, ok, "navigation must be delivered only once")

	<-task.Done()
	calls := f.Calls()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, calls, f.Calls(), "loop kept fetching after completion")
}

func TestTrackerInitialSnapshotAlreadyComplete(t *testing.T) {
	f := &scriptedFetcher{steps: []step{{tree: finished()}}}
	task := newTracker(f, service.TrackerOptions{PollInterval: time.Hour}).Start(context.Background(), "abc123")
	defer task.Stop()

	updates := drain(t, task.Updates())
	require.Len(t, updates, 1)
	require.True(t, updates[0].Terminal)

	select {
	case <-task.Navigate():
	case <-time.After(2 * time.Second):
		t.Fatalf("navigation never happened")
	}
	<-task.Done()
	require.Equal(t, 1, f.Calls())
}

func TestTrackerKeepsPollingThroughErrors(t *testing.T) {
	f := &scriptedFetcher{steps: []step{
		{err: errors.New("connection refused")},
		{err: fmt.Errorf("%w: bad json", apperrors.ErrMalformedSnapshot)},
		{err: apperrors.ErrEmptySnapshot},
		{tree: finished()},
	}}
	task := newTracker(f, service.TrackerOptions{StallThreshold: 10}).Start(context.Background(), "abc123")
	defer task.Stop()

	updates := drain(t, task.Updates())
	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	require.True(t, last.Terminal)
	require.False(t, last.Stalled)
	require.Zero(t, last.Failures)
	require.GreaterOrEqual(t, f.Calls(), 4)
}

func TestTrackerPublishesStallOncePerEpisode(t *testing.T) {
	f := &scriptedFetcher{steps: []step{{err: errors.New("timeout")}}}
	task := newTracker(f, service.TrackerOptions{StallThreshold: 3}).Start(context.Background(), "abc123")

	select {
	case u := <-task.Updates():
		require.True(t, u.Stalled)
		require.Equal(t, 3, u.Failures)
	case <-time.After(2 * time.Second):
		t.Fatalf("no stall update")
	}

	time.Sleep(40 * time.Millisecond)
	select {
	case u := <-task.Updates():
		t.Fatalf("unexpected second update: %+v", u)
	default:
	}

	task.Stop()
	_, ok := <-task.Updates()
	require.False(t, ok)
}

func TestTrackerStopHaltsFetching(t *testing.T) {
	f := &scriptedFetcher{steps: []step{{tree: pending()}}}
	task := newTracker(f, service.TrackerOptions{}).Start(context.Background(), "abc123")

	require.Eventually(t, func() bool { return f.Calls() >= 3 }, 2*time.Second, time.Millisecond)
	task.Stop()
	task.Stop()

	calls := f.Calls()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, calls, f.Calls())

	_, ok := <-task.Navigate()
	require.False(t, ok)
}

func TestTrackerStopCancelsPendingNavigation(t *testing.T) {
	f := &scriptedFetcher{steps: []step{{tree: finished()}}}
	task := newTracker(f, service.TrackerOptions{NavigateDelay: time.Hour}).Start(context.Background(), "abc123")

	drain(t, task.Updates())
	task.Stop()

	_, ok := <-task.Navigate()
	require.False(t, ok)
}

func TestTrackerSummariesFollowSnapshots(t *testing.T) {
	f := &scriptedFetcher{steps: []step{{tree: finished()}}}
	task := newTracker(f, service.TrackerOptions{}).Start(context.Background(), "abc123")
	defer task.Stop()

	updates := drain(t, task.Updates())
	summaries := updates[len(updates)-1].Summaries
	require.Len(t, summaries, 2)
	require.Equal(t, "root", summaries[0].ID)
	require.Equal(t, []string{"subq-0"}, summaries[0].Children)
	require.Equal(t, "A1", summaries[1].Content)
}

func TestSnapshotIsOneShot(t *testing.T) {
	f := &scriptedFetcher{steps: []step{{tree: finished()}}}
	tree, err := newTracker(f, service.TrackerOptions{}).Snapshot(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, 1, f.Calls())

	out := service.SnapshotOutput("abc123", tree)
	require.True(t, out.Terminal)
	require.Zero(t, out.Outstanding)
}
