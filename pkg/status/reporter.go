// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package status posts commit statuses for pull requests.
package status

import (
	"context"
	"fmt"

	"github.com/cicd-ai-toolkit/cidriver/pkg/config"
	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
	"github.com/cicd-ai-toolkit/cidriver/pkg/platform"
)

// Reporter posts commit statuses under a fixed context label.
type Reporter struct {
	context string
	logger  observability.Logger
}

// NewReporter creates a Reporter. An empty label selects "continuous-integration".
func NewReporter(label string, logger observability.Logger) *Reporter {
	if label == "" {
		label = config.DefaultStatusContext
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &Reporter{context: label, logger: logger}
}

// Context returns the status context label.
func (r *Reporter) Context() string {
	return r.context
}

// Report looks up the open pull request and posts state for its head commit.
// Errors are logged and returned; callers treat them as non-fatal.
func (r *Reporter) Report(ctx context.Context, owner, name string, pr int, hosting platform.Hosting, state platform.StatusState) error {
	if !state.Valid() {
		err := errors.ValidationError(fmt.Sprintf("cannot report state %q", state), platform.ErrInvalidStatusState)
		r.logger.Error("commit status not posted", observability.Int("pr", pr), observability.Err(err))
		return err
	}

	info, err := hosting.GetPullRequest(ctx, owner, name, pr)
	if err != nil {
		r.logger.Error("commit status not posted: pull request lookup failed",
			observability.String("repository", owner+"/"+name),
			observability.Int("pr", pr),
			observability.String("state", state.String()),
			observability.Err(err))
		return err
	}

	return r.ReportSHA(ctx, owner, name, info.HeadSHA, hosting, state)
}

// ReportSHA posts state for a known commit.
func (r *Reporter) ReportSHA(ctx context.Context, owner, name, sha string, hosting platform.Hosting, state platform.StatusState) error {
	err := hosting.CreateStatus(ctx, owner, name, sha, platform.CommitStatus{
		State:   state,
		Context: r.context,
	})
	if err != nil {
		r.logger.Error("commit status not posted",
			observability.String("repository", owner+"/"+name),
			observability.String("sha", sha),
			observability.String("state", state.String()),
			observability.Err(err))
		return err
	}

	r.logger.Info("commit status posted",
		observability.String("repository", owner+"/"+name),
		observability.String("sha", sha),
		observability.String("state", state.String()),
		observability.String("context", r.context))
	return nil
}
