// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package stages provides the build, test and upload hooks run by the
// pipeline. Implementations are pluggable; the pipeline only sees the
// boolean outcome of each hook.
package stages

import (
	"context"

	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
	"github.com/cicd-ai-toolkit/cidriver/pkg/runner"
)

// Context is the read-only view of a run handed to every stage.
type Context struct {
	RunID  string
	Owner  string
	Name   string
	Branch string
	// PullRequest is nil on the branch path.
	PullRequest *int
	// Dir is the working copy the stage runs in.
	Dir string
}

// IsPullRequest reports whether the run integrates a pull request.
func (c Context) IsPullRequest() bool {
	return c.PullRequest != nil
}

// Stages is the set of hooks invoked on entry to Building, Testing and Uploading.
type Stages interface {
	Build(ctx context.Context, run Context) bool
	Test(ctx context.Context, run Context) bool
	Upload(ctx context.Context, run Context) bool
}

// Default is the echo-only implementation: every stage announces itself
// and succeeds.
type Default struct {
	progress *observability.Progress
}

// NewDefault creates the echo-only stages. A nil progress writes to stdout.
func NewDefault(progress *observability.Progress) *Default {
	if progress == nil {
		progress = observability.NewProgress()
	}
	return &Default{progress: progress}
}

// Build implements Stages.
func (d *Default) Build(_ context.Context, _ Context) bool {
	d.progress.Stage("Building")
	return true
}

// Test implements Stages.
func (d *Default) Test(_ context.Context, _ Context) bool {
	d.progress.Stage("Testing")
	return true
}

// Upload implements Stages.
func (d *Default) Upload(_ context.Context, _ Context) bool {
	d.progress.Stage("Uploading")
	return true
}

// Commands runs shell command lists for each stage in the working copy.
type Commands struct {
	build    []string
	test     []string
	upload   []string
	runner   runner.Runner
	progress *observability.Progress
	logger   observability.Logger
}

// CommandsOptions configures Commands.
type CommandsOptions struct {
	Build    []string
	Test     []string
	Upload   []string
	Runner   runner.Runner
	Progress *observability.Progress
	Logger   observability.Logger
}

// NewCommands creates command-driven stages.
func NewCommands(opts CommandsOptions) *Commands {
	c := &Commands{
		build:    opts.Build,
		test:     opts.Test,
		upload:   opts.Upload,
		runner:   opts.Runner,
		progress: opts.Progress,
		logger:   opts.Logger,
	}
	if c.logger == nil {
		c.logger = observability.NewNopLogger()
	}
	if c.progress == nil {
		c.progress = observability.NewProgress()
	}
	if c.runner == nil {
		c.runner = runner.NewShell(runner.WithLogger(c.logger))
	}
	return c
}

// Build implements Stages.
func (c *Commands) Build(ctx context.Context, run Context) bool {
	return c.run(ctx, run, "Building", c.build)
}

// Test implements Stages.
func (c *Commands) Test(ctx context.Context, run Context) bool {
	return c.run(ctx, run, "Testing", c.test)
}

// Upload implements Stages.
func (c *Commands) Upload(ctx context.Context, run Context) bool {
	return c.run(ctx, run, "Uploading", c.upload)
}

// run executes commands in order and stops at the first failure.
func (c *Commands) run(ctx context.Context, run Context, stage string, commands []string) bool {
	c.progress.Stage("%s", stage)
	for i, command := range commands {
		c.progress.Command(command)
		if !c.runner.Run(ctx, run.Dir, command) {
			c.logger.Warn("stage command failed",
				observability.String("stage", stage),
				observability.Int("step", i+1),
				observability.String("command", command))
			return false
		}
	}
	return true
}

var (
	_ Stages = (*Default)(nil)
	_ Stages = (*Commands)(nil)
)
