// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package pipeline sequences repository sync, build, test and upload as an
// explicit state machine. Distribute runs the branch pipeline and Integrate
// runs the pull-request pipeline, which reports commit statuses.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
	"github.com/cicd-ai-toolkit/cidriver/pkg/platform"
	"github.com/cicd-ai-toolkit/cidriver/pkg/reposync"
	"github.com/cicd-ai-toolkit/cidriver/pkg/stages"
	"github.com/cicd-ai-toolkit/cidriver/pkg/status"
)

// Options configures a Pipeline.
type Options struct {
	Syncer   *reposync.Syncer
	Stages   stages.Stages
	Reporter *status.Reporter
	// Hosting is required by Integrate only.
	Hosting platform.Hosting
	// Fresh removes an existing working copy before cloning.
	Fresh    bool
	Logger   observability.Logger
	Progress *observability.Progress
	Metrics  *observability.Metrics
	// NewRunID overrides run ID generation, for tests.
	NewRunID func() string
}

// Pipeline drives runs. A Pipeline holds no per-run state and may be
// reused for sequential runs.
type Pipeline struct {
	syncer   *reposync.Syncer
	stages   stages.Stages
	reporter *status.Reporter
	hosting  platform.Hosting
	fresh    bool
	logger   observability.Logger
	progress *observability.Progress
	metrics  *observability.Metrics
	newRunID func() string
}

// Result is the outcome of one run.
type Result struct {
	RunID   string
	State   State
	Visited []State
	// Err is the step failure that drove the run to StateFail, if known.
	Err error
}

// Succeeded reports whether the run ended in StateSuccess.
func (r Result) Succeeded() bool {
	return r.State == StateSuccess
}

// New creates a Pipeline, filling unset options with defaults.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		syncer:   opts.Syncer,
		stages:   opts.Stages,
		reporter: opts.Reporter,
		hosting:  opts.Hosting,
		fresh:    opts.Fresh,
		logger:   opts.Logger,
		progress: opts.Progress,
		metrics:  opts.Metrics,
		newRunID: opts.NewRunID,
	}
	if p.logger == nil {
		p.logger = observability.NewNopLogger()
	}
	if p.progress == nil {
		p.progress = observability.NewProgress()
	}
	if p.syncer == nil {
		p.syncer = reposync.New(reposync.Options{Logger: p.logger, Progress: p.progress})
	}
	if p.stages == nil {
		p.stages = stages.NewDefault(p.progress)
	}
	if p.reporter == nil {
		p.reporter = status.NewReporter("", p.logger)
	}
	if p.metrics == nil {
		p.metrics = observability.NewMetrics()
	}
	if p.newRunID == nil {
		p.newRunID = uuid.NewString
	}
	return p
}

// Metrics returns the stage timings collected across runs.
func (p *Pipeline) Metrics() *observability.Metrics {
	return p.metrics
}

// Distribute runs the branch pipeline for owner/name at branch:
// start, pull, build, then upload. The returned error is non-nil only for
// invalid input or an invalid transition; a failing step ends in StateFail.
func (p *Pipeline) Distribute(ctx context.Context, owner, name, branch string) (Result, error) {
	if err := validateInput(owner, name, branch); err != nil {
		return Result{State: StateInit, Visited: []State{StateInit}}, err
	}
	r := p.newRun(stages.Context{Owner: owner, Name: name, Branch: branch}, nil)
	r.logger.Info("distribute started", observability.String("branch", branch))

	err := r.drive(ctx,
		func() Event { return EventStart },
		r.choose(StatePulling, EventPullSuccess, EventPullFail),
		r.choose(StateBuilding, EventBuildSuccess, EventBuildFail),
		// the push path decides upload from the build outcome; Testing's
		// own outcome is only logged
		r.choose(StateBuilding, EventUpload, EventTestsFail),
		r.choose(StateUploading, EventUploadSuccess, EventUploadFail),
	)
	return r.result(err)
}

// Integrate runs the pull-request pipeline for owner/name: start with pr,
// sync the PR head onto branch, build, then test. Commit statuses are
// posted for the PR head: pending once synced, then success or failure
// on the terminal state.
func (p *Pipeline) Integrate(ctx context.Context, owner, name, branch string, pr int) (Result, error) {
	if err := validateInput(owner, name, branch); err != nil {
		return Result{State: StateInit, Visited: []State{StateInit}}, err
	}
	if pr <= 0 {
		return Result{State: StateInit, Visited: []State{StateInit}},
			errors.ValidationError(fmt.Sprintf("invalid pull request number %d", pr), nil)
	}
	if p.hosting == nil {
		return Result{State: StateInit, Visited: []State{StateInit}},
			errors.ConfigError("integrate requires a hosting client", nil)
	}

	r := p.newRun(stages.Context{Owner: owner, Name: name, Branch: branch, PullRequest: &pr}, p.hosting)
	r.logger.Info("integrate started", observability.String("branch", branch), observability.Int("pr", pr))

	err := r.drive(ctx,
		func() Event { return EventStartPullRequest },
		r.choose(StatePullRequest, EventPRSuccess, EventPRFail),
		r.choose(StateBuilding, EventBuildSuccess, EventBuildFail),
		r.choose(StateTesting, EventTestsPRSuccess, EventTestsPRFail),
	)
	return r.result(err)
}

func (p *Pipeline) newRun(rc stages.Context, hosting platform.Hosting) *run {
	rc.RunID = p.newRunID()
	rc.Dir = p.syncer.RepoDir(rc.Name)
	return &run{
		p:        p,
		rc:       rc,
		hosting:  hosting,
		machine:  NewMachine(),
		outcomes: make(map[State]bool),
		logger: p.logger.With(
			observability.String("run_id", rc.RunID),
			observability.String("repository", rc.Owner+"/"+rc.Name)),
	}
}

func validateInput(owner, name, branch string) error {
	switch {
	case owner == "":
		return errors.ValidationError("repository owner is required", nil)
	case name == "":
		return errors.ValidationError("repository name is required", nil)
	case branch == "":
		return errors.ValidationError("branch is required", nil)
	}
	return nil
}
