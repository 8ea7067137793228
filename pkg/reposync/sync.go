// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package reposync keeps the local working copy of a repository in step with
// a branch or a pull request, driving the external git binary.
package reposync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"al.essio.dev/pkg/shellescape"

	"github.com/cicd-ai-toolkit/cidriver/pkg/config"
	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
	"github.com/cicd-ai-toolkit/cidriver/pkg/platform"
	"github.com/cicd-ai-toolkit/cidriver/pkg/runner"
	"github.com/cicd-ai-toolkit/cidriver/pkg/status"
)

// Options configures a Syncer.
type Options struct {
	// Root holds one working copy per repository name.
	Root string
	// BaseURL is the clone host, e.g. https://github.com.
	BaseURL  string
	Runner   runner.Runner
	Reporter *status.Reporter
	Progress *observability.Progress
	Logger   observability.Logger
}

// Syncer clones and updates working copies under a root directory.
type Syncer struct {
	root     string
	baseURL  string
	runner   runner.Runner
	reporter *status.Reporter
	progress *observability.Progress
	logger   observability.Logger
}

// New creates a Syncer, filling unset options with defaults.
func New(opts Options) *Syncer {
	s := &Syncer{
		root:     opts.Root,
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		runner:   opts.Runner,
		reporter: opts.Reporter,
		progress: opts.Progress,
		logger:   opts.Logger,
	}
	if s.root == "" {
		s.root = config.DefaultWorkDir
	}
	if s.baseURL == "" {
		s.baseURL = config.DefaultCloneBaseURL
	}
	if s.logger == nil {
		s.logger = observability.NewNopLogger()
	}
	if s.runner == nil {
		s.runner = runner.NewShell(runner.WithLogger(s.logger))
	}
	if s.reporter == nil {
		s.reporter = status.NewReporter("", s.logger)
	}
	if s.progress == nil {
		s.progress = observability.NewProgress()
	}
	return s
}

// Root returns the work root.
func (s *Syncer) Root() string {
	return s.root
}

// RepoDir returns the working copy path for a repository name.
func (s *Syncer) RepoDir(name string) string {
	return filepath.Join(s.root, name)
}

// CloneURL returns the HTTPS clone URL for owner/name.
func (s *Syncer) CloneURL(owner, name string) string {
	return fmt.Sprintf("%s/%s/%s.git", s.baseURL, owner, name)
}

// EnsureCloned makes sure a working copy of owner/name exists. With fresh
// set, any existing copy is removed first, including uncommitted changes.
// An existing copy without fresh is left untouched and no clone runs.
func (s *Syncer) EnsureCloned(ctx context.Context, owner, name string, fresh bool) bool {
	if err := validateName(name); err != nil {
		s.logger.Error("refusing to clone", observability.String("name", name), observability.Err(err))
		return false
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		s.logger.Error("cannot create work root", observability.String("root", s.root), observability.Err(err))
		return false
	}

	dir := s.RepoDir(name)
	if fresh {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Error("cannot remove working copy", observability.String("dir", dir), observability.Err(err))
			return false
		}
	}

	if _, err := os.Stat(dir); err == nil {
		s.logger.Debug("working copy present, skipping clone", observability.String("dir", dir))
		return true
	}

	url := s.CloneURL(owner, name)
	s.progress.Stage("Cloning %s", url)
	return s.runner.Run(ctx, s.root, "git clone "+shellescape.Quote(url))
}

// SyncBranch checks out branch and pulls it from origin. Both must succeed.
func (s *Syncer) SyncBranch(ctx context.Context, name, branch string) bool {
	s.progress.Stage("Pulling Branch: %s", branch)
	b := shellescape.Quote(branch)
	return s.runner.Run(ctx, s.RepoDir(name), "git checkout "+b+" && git pull origin "+b)
}

// SyncPullRequest fetches the open pull request, creates branch pr-<n> from
// branch and pulls the PR head from its author's fork. A pending status is
// posted for the head commit once the metadata is known. The returned
// metadata is non-nil whenever the lookup succeeded.
func (s *Syncer) SyncPullRequest(ctx context.Context, owner, name, branch string, pr int, hosting platform.Hosting) (*platform.PullRequest, error) {
	s.progress.Stage("Pull Request: %d", pr)

	info, err := hosting.GetPullRequest(ctx, owner, name, pr)
	if err != nil {
		return nil, err
	}

	dir := s.RepoDir(name)
	checkout := fmt.Sprintf("git checkout -b %s %s", shellescape.Quote(fmt.Sprintf("pr-%d", pr)), shellescape.Quote(branch))
	if !s.runner.Run(ctx, dir, checkout) {
		// the pull below decides the outcome; a leftover pr-<n> branch lands here
		s.logger.Warn("local PR branch not created", observability.Int("pr", pr), observability.String("base", branch))
	}

	s.progress.Note("%s", info.Title)
	pull := "git pull " + shellescape.Quote(s.CloneURL(info.Author, name)) + " " + shellescape.Quote(info.HeadRef)
	s.progress.Command(pull)
	pulled := s.runner.Run(ctx, dir, pull)

	// Status reporting never decides the pipeline outcome
	_ = s.reporter.ReportSHA(ctx, owner, name, info.HeadSHA, hosting, platform.StatusPending)

	if !pulled {
		return info, errors.ProcessError(fmt.Sprintf("failed to pull %s from %s", info.HeadRef, info.Author), nil).
			WithContext("pr", pr)
	}
	return info, nil
}

// validateName rejects names that would escape the work root.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.ValidationError(fmt.Sprintf("invalid repository name %q", name), nil)
	}
	return nil
}
