// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package pipeline

import (
	"context"

	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
	"github.com/cicd-ai-toolkit/cidriver/pkg/platform"
	"github.com/cicd-ai-toolkit/cidriver/pkg/stages"
)

// entryFunc is the on-entry effect of a state. Its result is the outcome
// the next driver step branches on.
type entryFunc func(r *run, ctx context.Context) bool

// entryHandlers maps states to their on-entry effects. StateInit has none.
var entryHandlers = map[State]entryFunc{
	StatePulling:     (*run).enterPulling,
	StatePullRequest: (*run).enterPullRequest,
	StateBuilding:    (*run).enterBuilding,
	StateTesting:     (*run).enterTesting,
	StateUploading:   (*run).enterUploading,
	StateSuccess:     (*run).enterSuccess,
	StateFail:        (*run).enterFail,
}

// run is the state of a single Distribute or Integrate call.
type run struct {
	p       *Pipeline
	rc      stages.Context
	hosting platform.Hosting
	machine *Machine
	logger  observability.Logger

	// outcomes holds the on-entry result per visited state.
	outcomes map[State]bool
	cause    error
}

// drive fires one event per step until the machine is terminal. Steps
// left over after a terminal state are skipped.
func (r *run) drive(ctx context.Context, steps ...func() Event) error {
	for _, next := range steps {
		if r.machine.State().IsTerminal() {
			return nil
		}
		if err := r.fire(ctx, next()); err != nil {
			return err
		}
	}
	return nil
}

// choose returns a step that fires pass or fail depending on the outcome
// recorded for state.
func (r *run) choose(state State, pass, fail Event) func() Event {
	return func() Event {
		if r.outcomes[state] {
			return pass
		}
		return fail
	}
}

func (r *run) fire(ctx context.Context, e Event) error {
	from := r.machine.State()
	if err := r.machine.Fire(e); err != nil {
		r.logger.Error("transition rejected",
			observability.String("state", from.String()),
			observability.String("event", e.String()))
		return err
	}

	to := r.machine.State()
	r.logger.Debug("transition",
		observability.String("from", from.String()),
		observability.String("event", e.String()),
		observability.String("to", to.String()))

	if enter, ok := entryHandlers[to]; ok {
		r.outcomes[to] = enter(r, ctx)
	}
	return nil
}

func (r *run) result(err error) (Result, error) {
	res := Result{
		RunID:   r.rc.RunID,
		State:   r.machine.State(),
		Visited: r.machine.Visited(),
		Err:     r.cause,
	}
	if err != nil {
		res.Err = err
		r.logger.Error("run aborted", observability.String("state", res.State.String()), observability.Err(err))
		return res, err
	}
	r.logger.Info("run finished", observability.String("state", res.State.String()))
	return res, nil
}

// timed runs fn and records its duration under stage.
func (r *run) timed(stage string, fn func() bool) bool {
	done := r.p.metrics.Time(stage)
	ok := fn()
	done(ok)
	return ok
}

func (r *run) fail(err error) bool {
	if r.cause == nil {
		r.cause = err
	}
	r.logger.Warn("step failed", observability.String("state", r.machine.State().String()), observability.Err(err))
	return false
}

func (r *run) enterPulling(ctx context.Context) bool {
	return r.timed("pull", func() bool {
		if !r.p.syncer.EnsureCloned(ctx, r.rc.Owner, r.rc.Name, r.p.fresh) {
			return r.fail(errors.ProcessError("clone failed", nil).WithContext("url", r.p.syncer.CloneURL(r.rc.Owner, r.rc.Name)))
		}
		if !r.p.syncer.SyncBranch(ctx, r.rc.Name, r.rc.Branch) {
			return r.fail(errors.ProcessError("branch sync failed", nil).WithContext("branch", r.rc.Branch))
		}
		return true
	})
}

func (r *run) enterPullRequest(ctx context.Context) bool {
	return r.timed("pull_request", func() bool {
		if !r.p.syncer.EnsureCloned(ctx, r.rc.Owner, r.rc.Name, r.p.fresh) {
			return r.fail(errors.ProcessError("clone failed", nil).WithContext("url", r.p.syncer.CloneURL(r.rc.Owner, r.rc.Name)))
		}
		if _, err := r.p.syncer.SyncPullRequest(ctx, r.rc.Owner, r.rc.Name, r.rc.Branch, *r.rc.PullRequest, r.hosting); err != nil {
			return r.fail(err)
		}
		return true
	})
}

func (r *run) enterBuilding(ctx context.Context) bool {
	return r.timed("build", func() bool {
		if !r.p.stages.Build(ctx, r.rc) {
			return r.fail(errors.ProcessError("build failed", nil))
		}
		return true
	})
}

func (r *run) enterTesting(ctx context.Context) bool {
	ok := r.timed("test", func() bool {
		return r.p.stages.Test(ctx, r.rc)
	})
	if !ok {
		if r.rc.IsPullRequest() {
			return r.fail(errors.ProcessError("tests failed", nil))
		}
		r.logger.Warn("tests failed; upload proceeds on the build outcome")
	}
	return ok
}

func (r *run) enterUploading(ctx context.Context) bool {
	return r.timed("upload", func() bool {
		if !r.p.stages.Upload(ctx, r.rc) {
			return r.fail(errors.ProcessError("upload failed", nil))
		}
		return true
	})
}

func (r *run) enterSuccess(ctx context.Context) bool {
	if r.rc.IsPullRequest() {
		r.p.progress.Success("PR #%d OK!", *r.rc.PullRequest)
		r.report(ctx, platform.StatusSuccess)
	}
	return true
}

func (r *run) enterFail(ctx context.Context) bool {
	if r.rc.IsPullRequest() {
		r.p.progress.Failure("PR #%d Failed!", *r.rc.PullRequest)
		r.report(ctx, platform.StatusFailure)
	}
	return false
}

// report posts the terminal status. Errors are logged by the reporter and
// never change the terminal state.
func (r *run) report(ctx context.Context, state platform.StatusState) {
	_ = r.p.reporter.Report(ctx, r.rc.Owner, r.rc.Name, *r.rc.PullRequest, r.hosting, state)
}
