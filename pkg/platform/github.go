// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package platform

import (
	"context"
	"fmt"

	"github.com/google/go-github/v59/github"

	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
)

// GitHub is the GitHub platform adapter.
type GitHub struct {
	client *github.Client
}

// NewGitHub creates a GitHub adapter. An empty token gives unauthenticated
// access; a non-empty baseURL targets a GitHub Enterprise API.
func NewGitHub(token, baseURL string) (*GitHub, error) {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if baseURL != "" {
		if err := validateBaseURL(baseURL); err != nil {
			return nil, errors.ConfigError("invalid GitHub Enterprise URL", err).WithContext("base_url", baseURL)
		}
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, errors.ConfigError("invalid GitHub Enterprise URL", err).WithContext("base_url", baseURL)
		}
	}
	return &GitHub{client: client}, nil
}

// NewGitHubWithClient wraps an existing go-github client.
func NewGitHubWithClient(client *github.Client) *GitHub {
	return &GitHub{client: client}
}

// Name returns the platform name.
func (g *GitHub) Name() string {
	return "github"
}

// GetPullRequest retrieves an open PR from GitHub.
func (g *GitHub) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	pr, resp, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, errors.HostingError(fmt.Sprintf("failed to get pull request %s/%s#%d", owner, repo, number), err).
			WithContext("status_code", statusCode(resp))
	}

	if pr.GetState() != "open" {
		return nil, errors.HostingError(fmt.Sprintf("pull request %s/%s#%d is %s", owner, repo, number, pr.GetState()), ErrPullRequestNotOpen)
	}

	return &PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		State:   pr.GetState(),
		Author:  pr.GetUser().GetLogin(),
		HeadRef: pr.GetHead().GetRef(),
		HeadSHA: pr.GetHead().GetSHA(),
		BaseRef: pr.GetBase().GetRef(),
		HTMLURL: pr.GetHTMLURL(),
	}, nil
}

// CreateStatus creates a commit status on GitHub.
func (g *GitHub) CreateStatus(ctx context.Context, owner, repo, sha string, status CommitStatus) error {
	if sha == "" {
		return errors.ValidationError("cannot create status", ErrEmptySHA)
	}
	if !status.State.Valid() {
		return errors.ValidationError(fmt.Sprintf("cannot create status %q", status.State), ErrInvalidStatusState)
	}

	repoStatus := &github.RepoStatus{
		State:   github.String(status.State.String()),
		Context: github.String(status.Context),
	}
	if status.Description != "" {
		repoStatus.Description = github.String(status.Description)
	}
	if status.TargetURL != "" {
		repoStatus.TargetURL = github.String(status.TargetURL)
	}

	_, resp, err := g.client.Repositories.CreateStatus(ctx, owner, repo, sha, repoStatus)
	if err != nil {
		return errors.HostingError(fmt.Sprintf("failed to create %s status for %s", status.State, sha), err).
			WithContext("status_code", statusCode(resp))
	}
	return nil
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

var _ Hosting = (*GitHub)(nil)
