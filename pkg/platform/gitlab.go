// Package platform provides GitLab platform implementation
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
)

// DefaultGitLabURL is the gitlab.com REST API root.
const DefaultGitLabURL = "https://gitlab.com/api/v4"

// GitLab implements Hosting for GitLab merge requests and commit statuses.
type GitLab struct {
	token   string
	baseURL string // For GitLab self-hosted
	client  *http.Client
}

// gitlabMR is the subset of the merge request response we read.
type gitlabMR struct {
	IID          int    `json:"iid"` // Merge Request IID (user-facing number)
	Title        string `json:"title"`
	State        string `json:"state"`
	SHA          string `json:"sha"`
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	WebURL       string `json:"web_url"`
	Author       struct {
		Username string `json:"username"`
	} `json:"author"`
}

// gitlabStatus is the commit status request body.
type gitlabStatus struct {
	State       string `json:"state"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	TargetURL   string `json:"target_url,omitempty"`
}

// NewGitLab creates a GitLab hosting client. An empty baseURL selects gitlab.com.
func NewGitLab(token, baseURL string) (*GitLab, error) {
	if baseURL == "" {
		baseURL = DefaultGitLabURL
	}
	if err := validateBaseURL(baseURL); err != nil {
		return nil, errors.ConfigError("invalid GitLab base URL", err)
	}
	return &GitLab{
		token:   token,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Name returns the platform name.
func (g *GitLab) Name() string {
	return "gitlab"
}

// GetPullRequest retrieves an open merge request by IID.
func (g *GitLab) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	endpoint := fmt.Sprintf("%s/projects/%s/merge_requests/%d", g.baseURL, projectID(owner, repo), number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.HostingError("failed to create request", err)
	}
	g.authorize(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.HostingError(fmt.Sprintf("failed to get merge request !%d", number), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.HostingError(fmt.Sprintf("failed to get merge request !%d (status %d)", number, resp.StatusCode), nil).
			WithContext("status_code", resp.StatusCode)
	}

	var mr gitlabMR
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, errors.HostingError("failed to decode merge request response", err)
	}

	// GitLab says "opened" where GitHub says "open"
	if mr.State != "opened" {
		return nil, errors.HostingError(fmt.Sprintf("merge request !%d is %s", number, mr.State), ErrPullRequestNotOpen)
	}

	return &PullRequest{
		Number:  mr.IID,
		Title:   mr.Title,
		State:   "open",
		Author:  mr.Author.Username,
		HeadRef: mr.SourceBranch,
		HeadSHA: mr.SHA,
		BaseRef: mr.TargetBranch,
		HTMLURL: mr.WebURL,
	}, nil
}

// CreateStatus creates a commit status. The status context becomes the
// GitLab status name.
func (g *GitLab) CreateStatus(ctx context.Context, owner, repo, sha string, status CommitStatus) error {
	if sha == "" {
		return errors.ValidationError("cannot create status", ErrEmptySHA)
	}
	state, ok := gitlabState(status.State)
	if !ok {
		return errors.ValidationError(fmt.Sprintf("cannot create status %q", status.State), ErrInvalidStatusState)
	}

	body, err := json.Marshal(gitlabStatus{
		State:       state,
		Name:        status.Context,
		Description: status.Description,
		TargetURL:   status.TargetURL,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	endpoint := fmt.Sprintf("%s/projects/%s/statuses/%s", g.baseURL, projectID(owner, repo), url.PathEscape(sha))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.HostingError("failed to create request", err)
	}
	g.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.HostingError("failed to create status for "+sha, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.HostingError(fmt.Sprintf("failed to create status (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody))), nil).
			WithContext("status_code", resp.StatusCode)
	}
	return nil
}

func (g *GitLab) authorize(req *http.Request) {
	if g.token != "" {
		req.Header.Set("PRIVATE-TOKEN", g.token)
	}
}

// gitlabState maps a driver status to the GitLab state name.
func gitlabState(s StatusState) (string, bool) {
	switch s {
	case StatusPending:
		return "pending", true
	case StatusSuccess:
		return "success", true
	case StatusFailure:
		return "failed", true
	default:
		return "", false
	}
}

// projectID encodes owner/repo as a GitLab project path (slash as %2F).
func projectID(owner, repo string) string {
	return url.PathEscape(owner + "/" + repo)
}

var _ Hosting = (*GitLab)(nil)
