// Package executor applies a rename plan, one op at a time, in plan order.
// In dry-run mode it only reports what would happen. When committing, each op is
// an independent atomic rename: a failure is recorded and the run moves on.
package executor

import (
	"context"
	"log/slog"
	"time"

	"rxrename/internal/config"
	"rxrename/internal/errors"
	"rxrename/internal/plan"
)

// Kind tags an Event.
type Kind string

// Event kinds.
const (
	KindPlanned Kind = "planned"
	KindApplied Kind = "applied"
	KindSkipped Kind = "skipped"
	KindFailed  Kind = "failed"
)

// Event is the outcome of one op. Reason carries the planner's skip reason for
// skipped ops, and Err carries a RenameExecutionError for failed ones.
type Event struct {
	Kind   Kind
	Op     plan.Op
	Reason string
	Err    error
}

// Recorder receives events as they happen, one per op and in plan order.
// The reporter implements it to stream text output while the run is in progress.
type Recorder interface {
	Record(Event)
}

// Summary tallies the events of a run. Total counts every op that was visited,
// which is less than the plan length only when the run was cancelled. In dry-run
// mode Applied and Failed are always zero.
type Summary struct {
	Total    int
	Planned  int
	Applied  int
	Skipped  int
	Failed   int
	DryRun   bool
	Duration time.Duration
}

// HasFailures reports whether any rename failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// NothingToDo reports whether the run had nothing to rename.
func (s Summary) NothingToDo() bool {
	return s.Planned+s.Applied+s.Failed == 0
}

// RenameFunc moves oldpath to newpath.
type RenameFunc func(oldpath, newpath string) error

// Option customizes an Executor.
type Option func(*Executor)

// WithRenameFunc replaces the filesystem rename.
func WithRenameFunc(fn RenameFunc) Option {
	return func(e *Executor) {
		e.rename = fn
	}
}

// Executor runs plans one op at a time. Chained renames depend on the order the
// planner chose, so ops never run concurrently.
type Executor struct {
	commit   bool
	recorder Recorder
	logger   *slog.Logger
	rename   RenameFunc
}

// NewExecutor creates an Executor. Without Commit set in cfg it never touches the filesystem.
func NewExecutor(cfg *config.Config, recorder Recorder, logger *slog.Logger, opts ...Option) *Executor {
	e := &Executor{
		commit:   !cfg.IsDryRun(),
		recorder: recorder,
		logger:   logger,
		rename:   renameNoReplace,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute walks the plan in order and records one event per op. Cancellation is
// checked between ops; renames already applied stay applied and ctx.Err() is returned.
func (e *Executor) Execute(ctx context.Context, p *plan.Plan) (Summary, error) {
	start := time.Now()
	summary := Summary{DryRun: !e.commit}

	for _, op := range p.Ops() {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			e.logger.Warn("run interrupted", "done", summary.Total, "remaining", p.Len()-summary.Total)
			return summary, err
		}

		event := e.process(op)
		summary.Total++
		switch event.Kind {
		case KindPlanned:
			summary.Planned++
		case KindApplied:
			summary.Applied++
		case KindSkipped:
			summary.Skipped++
		case KindFailed:
			summary.Failed++
		}
		e.recorder.Record(event)
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

func (e *Executor) process(op plan.Op) Event {
	if !op.Ready() {
		return Event{Kind: KindSkipped, Op: op, Reason: op.Reason}
	}

	if !e.commit {
		return Event{Kind: KindPlanned, Op: op}
	}

	if err := e.rename(op.Source, op.Target); err != nil {
		e.logger.Debug("rename failed", "source", op.Source, "target", op.Target, "error", err)
		return Event{
			Kind: KindFailed,
			Op:   op,
			Err:  errors.NewRenameExecutionError(op.Source, op.Target, err),
		}
	}

	e.logger.Debug("renamed", "source", op.Source, "target", op.Target)
	return Event{Kind: KindApplied, Op: op}
}
