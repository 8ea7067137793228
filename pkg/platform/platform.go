// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package platform provides the code-hosting service abstraction used by the
// pipeline: pull-request lookup and commit-status creation.
package platform

import (
	"context"
	"errors"
)

// Hosting is the subset of a code-hosting API the pipeline needs.
// Implementations must be safe for concurrent use.
type Hosting interface {
	// Name returns the platform name.
	Name() string

	// GetPullRequest retrieves an open pull request by number.
	// A pull request that is not open fails the lookup with ErrPullRequestNotOpen.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)

	// CreateStatus creates a status for a commit.
	CreateStatus(ctx context.Context, owner, repo, sha string, status CommitStatus) error
}

// PullRequest represents a pull request at lookup time.
type PullRequest struct {
	Number  int
	Title   string
	State   string
	Author  string // login of the PR author; owner of the fork
	HeadRef string
	HeadSHA string
	BaseRef string
	HTMLURL string
}

// StatusState represents the state of a commit status.
type StatusState string

const (
	StatusPending StatusState = "pending"
	StatusSuccess StatusState = "success"
	StatusFailure StatusState = "failure"
)

// String returns the string representation of the status state
func (s StatusState) String() string {
	return string(s)
}

// Valid reports whether s is one of the states the driver posts.
func (s StatusState) Valid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailure:
		return true
	default:
		return false
	}
}

// CommitStatus is the payload posted for a commit.
type CommitStatus struct {
	State       StatusState
	Context     string
	Description string
	TargetURL   string
}

var (
	// ErrPullRequestNotOpen is returned when the looked-up PR is closed or merged.
	ErrPullRequestNotOpen = errors.New("pull request is not open")
	// ErrInvalidStatusState is returned for a status outside pending/success/failure.
	ErrInvalidStatusState = errors.New("invalid commit status state")
	// ErrEmptySHA is returned when a status is posted without a commit.
	ErrEmptySHA = errors.New("commit SHA cannot be empty")
)
