// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package platform

import (
	"context"

	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
)

// DryRun wraps a Hosting so that lookups go through but statuses are only logged.
type DryRun struct {
	Hosting
	logger observability.Logger
}

// NewDryRun wraps h.
func NewDryRun(h Hosting, logger observability.Logger) *DryRun {
	return &DryRun{Hosting: h, logger: logger}
}

// CreateStatus logs the status instead of posting it.
func (d *DryRun) CreateStatus(_ context.Context, owner, repo, sha string, status CommitStatus) error {
	d.logger.Info("dry run: skipping commit status",
		observability.String("repository", owner+"/"+repo),
		observability.String("sha", sha),
		observability.String("state", status.State.String()),
		observability.String("context", status.Context))
	return nil
}
