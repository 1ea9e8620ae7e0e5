package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"solve/internal/modules/research/domain"
	"solve/internal/modules/research/dto"
	researchout "solve/internal/modules/research/port/out"
	"solve/internal/platform/clock"
	apperrors "solve/internal/platform/errors"
	"solve/internal/platform/logging"
)

type TrackerOptions struct {
	PollInterval   time.Duration
	RequestTimeout time.Duration
	NavigateDelay  time.Duration
	StallThreshold int
}

func (o TrackerOptions) withDefaults() TrackerOptions {
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.NavigateDelay < 0 {
		o.NavigateDelay = 0
	}
	if o.StallThreshold <= 0 {
		o.StallThreshold = 5
	}
	return o
}

// Tracker polls the backend for research snapshots.
type Tracker struct {
	fetcher researchout.SnapshotFetcher
	clock   clock.Clock
	logger  *zap.Logger
	opts    TrackerOptions
}

func NewTracker(fetcher researchout.SnapshotFetcher, clk clock.Clock, logger *zap.Logger, opts TrackerOptions) *Tracker {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Tracker{
		fetcher: fetcher,
		clock:   clk,
		logger:  logging.OrNop(logger),
		opts:    opts.withDefaults(),
	}
}

// Snapshot performs a single bounded fetch outside any polling loop.
func (t *Tracker) Snapshot(ctx context.Context, sessionID string) (domain.ResearchTree, error) {
	reqCtx, cancel := context.WithTimeout(ctx, t.opts.RequestTimeout)
	defer cancel()
	return t.fetcher.Fetch(reqCtx, sessionID)
}

// Task is one running poll. Exactly one goroutine owns the fetch loop and is
// the only writer to the task's channels.
type Task struct {
	sessionID string
	cancel    context.CancelFunc
	updates   chan dto.UpdateOutput
	navigate  chan dto.TreeOutput
	done      chan struct{}
	stopOnce  sync.Once
}

func (t *Task) SessionID() string { return t.sessionID }

// Updates carries the newest state only. It is closed after the terminal
// update or when the task stops.
func (t *Task) Updates() <-chan dto.UpdateOutput { return t.updates }

// Navigate yields the final tree once, navigate_delay after completion.
func (t *Task) Navigate() <-chan dto.TreeOutput { return t.navigate }

func (t *Task) Done() <-chan struct{} { return t.done }

// Stop cancels the loop and waits for it to exit. Safe to call repeatedly.
func (t *Task) Stop() {
	t.stopOnce.Do(t.cancel)
	<-t.done
}

func (t *Task) publish(u dto.UpdateOutput) {
	select {
	case t.updates <- u:
		return
	default:
	}
	select {
	case <-t.updates:
	default:
	}
	select {
	case t.updates <- u:
	default:
	}
}

func (t *Tracker) Start(ctx context.Context, sessionID string) *Task {
	loopCtx, cancel := context.WithCancel(ctx)
	task := &Task{
		sessionID: sessionID,
		cancel:    cancel,
		updates:   make(chan dto.UpdateOutput, 1),
		navigate:  make(chan dto.TreeOutput, 1),
		done:      make(chan struct{}),
	}
	go t.run(loopCtx, task)
	return task
}

type pollState struct {
	cache    domain.SummaryCache
	latch    domain.CompletionLatch
	last     dto.UpdateOutput
	failures int
	stalled  bool
}

func (t *Tracker) run(ctx context.Context, task *Task) {
	defer close(task.done)
	defer close(task.navigate)

	final, ok := t.poll(ctx, task)
	close(task.updates)
	if !ok {
		return
	}

	timer := time.NewTimer(t.opts.NavigateDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		t.logger.Debug("navigation cancelled", zap.String("session_id", task.sessionID))
	case <-timer.C:
		task.navigate <- final
	}
}

func (t *Tracker) poll(ctx context.Context, task *Task) (dto.TreeOutput, bool) {
	state := &pollState{cache: domain.NewSummaryCache()}
	if final, done := t.tick(ctx, task, state); done {
		return final, true
	}

	ticker := time.NewTicker(t.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return dto.TreeOutput{}, false
		case <-ticker.C:
			if final, done := t.tick(ctx, task, state); done {
				return final, true
			}
		}
	}
}

func (t *Tracker) tick(ctx context.Context, task *Task, state *pollState) (dto.TreeOutput, bool) {
	if ctx.Err() != nil {
		return dto.TreeOutput{}, false
	}
	reqCtx, cancel := context.WithTimeout(ctx, t.opts.RequestTimeout)
	tree, err := t.fetcher.Fetch(reqCtx, task.sessionID)
	cancel()
	if ctx.Err() != nil {
		// stopped while the request was in flight; the result is discarded
		return dto.TreeOutput{}, false
	}

	switch {
	case errors.Is(err, apperrors.ErrEmptySnapshot):
		t.logger.Debug("empty snapshot skipped", zap.String("session_id", task.sessionID))
		return dto.TreeOutput{}, false
	case err != nil:
		state.failures++
		msg := "poll tick failed"
		if errors.Is(err, apperrors.ErrMalformedSnapshot) {
			msg = "malformed snapshot skipped"
		}
		t.logger.Warn(msg,
			zap.String("session_id", task.sessionID),
			zap.Int("consecutive_failures", state.failures),
			zap.Error(err),
		)
		if state.failures >= t.opts.StallThreshold && !state.stalled {
			state.stalled = true
			stalled := state.last
			stalled.SessionID = task.sessionID
			stalled.Stalled = true
			stalled.Terminal = false
			stalled.Failures = state.failures
			stalled.ReceivedAt = t.clock.Now()
			task.publish(stalled)
			t.logger.Warn("session stalled", zap.String("session_id", task.sessionID), zap.Int("consecutive_failures", state.failures))
		}
		return dto.TreeOutput{}, false
	}

	if state.stalled {
		t.logger.Info("session recovered", zap.String("session_id", task.sessionID))
	}
	state.failures = 0
	state.stalled = false

	now := t.clock.Now()
	state.cache = state.cache.Apply(domain.Flatten(tree), now)
	terminal := state.latch.Observe(tree)
	treeOut := toTreeOutput(task.sessionID, tree)
	update := dto.UpdateOutput{
		SessionID:  task.sessionID,
		Tree:       treeOut,
		Summaries:  toSummaryOutputs(state.cache),
		Graph:      toGraphOutput(domain.Project(tree)),
		Terminal:   terminal,
		ReceivedAt: now,
	}
	state.last = update
	task.publish(update)

	if terminal {
		t.logger.Info("research complete",
			zap.String("session_id", task.sessionID),
			zap.Int("subquestions", len(tree.SubQuestions)),
		)
		return treeOut, true
	}
	return dto.TreeOutput{}, false
}

// SnapshotOutput and GraphOutput are the one-shot projections of a fetched tree.
func SnapshotOutput(sessionID string, tree domain.ResearchTree) dto.TreeOutput {
	return toTreeOutput(sessionID, tree)
}

func GraphOutput(tree domain.ResearchTree) dto.GraphOutput {
	return toGraphOutput(domain.Project(tree))
}
