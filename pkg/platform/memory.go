// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
)

// PostedStatus is one status recorded by Memory.
type PostedStatus struct {
	Owner string
	Repo  string
	SHA   string
	CommitStatus
}

// Memory is an in-process Hosting with scripted pull requests. It records
// every status it receives.
type Memory struct {
	mu        sync.Mutex
	prs       map[string]*PullRequest
	lookupErr error
	statusErr error
	lookups   int
	statuses  []PostedStatus
}

// NewMemory creates an empty Memory hosting.
func NewMemory() *Memory {
	return &Memory{prs: make(map[string]*PullRequest)}
}

func prKey(owner, repo string, number int) string {
	return fmt.Sprintf("%s/%s#%d", owner, repo, number)
}

// AddPullRequest registers a pull request under owner/repo.
func (m *Memory) AddPullRequest(owner, repo string, pr PullRequest) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pr.State == "" {
		pr.State = "open"
	}
	m.prs[prKey(owner, repo, pr.Number)] = &pr
	return m
}

// FailLookups makes every GetPullRequest return err.
func (m *Memory) FailLookups(err error) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupErr = err
	return m
}

// FailStatuses makes every CreateStatus return err.
func (m *Memory) FailStatuses(err error) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusErr = err
	return m
}

// Name returns the platform name.
func (m *Memory) Name() string {
	return "memory"
}

// GetPullRequest returns the registered pull request if it is open.
func (m *Memory) GetPullRequest(_ context.Context, owner, repo string, number int) (*PullRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++

	if m.lookupErr != nil {
		return nil, errors.HostingError("failed to get pull request "+prKey(owner, repo, number), m.lookupErr)
	}
	pr, ok := m.prs[prKey(owner, repo, number)]
	if !ok {
		return nil, errors.HostingError("pull request "+prKey(owner, repo, number)+" not found", nil)
	}
	if pr.State != "open" {
		return nil, errors.HostingError("pull request "+prKey(owner, repo, number)+" is "+pr.State, ErrPullRequestNotOpen)
	}
	out := *pr
	return &out, nil
}

// CreateStatus records the status.
func (m *Memory) CreateStatus(_ context.Context, owner, repo, sha string, status CommitStatus) error {
	if sha == "" {
		return errors.ValidationError("cannot create status", ErrEmptySHA)
	}
	if !status.State.Valid() {
		return errors.ValidationError(fmt.Sprintf("cannot create status %q", status.State), ErrInvalidStatusState)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusErr != nil {
		return errors.HostingError("failed to create status for "+sha, m.statusErr)
	}
	m.statuses = append(m.statuses, PostedStatus{Owner: owner, Repo: repo, SHA: sha, CommitStatus: status})
	return nil
}

// Statuses returns the recorded statuses in order.
func (m *Memory) Statuses() []PostedStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PostedStatus, len(m.statuses))
	copy(out, m.statuses)
	return out
}

// StatusesWithState returns the recorded statuses matching state.
func (m *Memory) StatusesWithState(state StatusState) []PostedStatus {
	var out []PostedStatus
	for _, s := range m.Statuses() {
		if s.State == state {
			out = append(out, s)
		}
	}
	return out
}

// Lookups returns how many pull-request lookups were made.
func (m *Memory) Lookups() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups
}

var _ Hosting = (*Memory)(nil)
