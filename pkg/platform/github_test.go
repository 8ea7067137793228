// Package platform provides GitHub platform tests
package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v59/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	drivererrors "github.com/cicd-ai-toolkit/cidriver/pkg/errors"
)

func newTestGitHub(t *testing.T, mux *http.ServeMux) *GitHub {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	serverURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	ghClient := github.NewClient(nil)
	ghClient.BaseURL = serverURL

	return NewGitHubWithClient(ghClient)
}

func TestNewGitHub(t *testing.T) {
	g, err := NewGitHub("test-token", "")
	require.NoError(t, err)
	assert.Equal(t, "github", g.Name())
	assert.Equal(t, "https://api.github.com/", g.client.BaseURL.String())

	g, err = NewGitHub("", "https://github.example.com/api/v3/")
	require.NoError(t, err)
	assert.Equal(t, "https://github.example.com/api/v3/", g.client.BaseURL.String())
}

func TestGitHub_GetPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"number": 42,
			"title": "Fix the widget",
			"state": "open",
			"html_url": "https://github.com/acme/widget/pull/42",
			"user": {"login": "octocat"},
			"head": {"ref": "feature", "sha": "abc123"},
			"base": {"ref": "main", "sha": "def456"}
		}`))
	})

	g := newTestGitHub(t, mux)
	pr, err := g.GetPullRequest(context.Background(), "acme", "widget", 42)
	require.NoError(t, err)

	assert.Equal(t, &PullRequest{
		Number:  42,
		Title:   "Fix the widget",
		State:   "open",
		Author:  "octocat",
		HeadRef: "feature",
		HeadSHA: "abc123",
		BaseRef: "main",
		HTMLURL: "https://github.com/acme/widget/pull/42",
	}, pr)
}

func TestGitHub_GetPullRequestClosed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"number": 42, "state": "closed", "head": {"sha": "abc123"}}`))
	})

	g := newTestGitHub(t, mux)
	_, err := g.GetPullRequest(context.Background(), "acme", "widget", 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPullRequestNotOpen)
	assert.True(t, drivererrors.IsType(err, drivererrors.ErrHosting))
}

func TestGitHub_GetPullRequestNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})

	g := newTestGitHub(t, mux)
	_, err := g.GetPullRequest(context.Background(), "acme", "widget", 42)
	require.Error(t, err)

	var driverErr *drivererrors.DriverError
	require.True(t, errors.As(err, &driverErr))
	assert.Equal(t, drivererrors.ErrHosting, driverErr.Type)
	assert.Equal(t, http.StatusNotFound, driverErr.Context["status_code"])
}

func TestGitHub_CreateStatus(t *testing.T) {
	var captured map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget/statuses/abc123", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 1, "state": "success"}`))
	})

	g := newTestGitHub(t, mux)
	err := g.CreateStatus(context.Background(), "acme", "widget", "abc123", CommitStatus{
		State:   StatusSuccess,
		Context: "continuous-integration",
	})
	require.NoError(t, err)

	assert.Equal(t, "success", captured["state"])
	assert.Equal(t, "continuous-integration", captured["context"])
	assert.NotContains(t, captured, "description")
}

func TestGitHub_CreateStatusErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget/statuses/abc123", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Bad credentials"}`, http.StatusUnauthorized)
	})
	g := newTestGitHub(t, mux)
	ctx := context.Background()

	t.Run("empty sha", func(t *testing.T) {
		err := g.CreateStatus(ctx, "acme", "widget", "", CommitStatus{State: StatusPending})
		assert.ErrorIs(t, err, ErrEmptySHA)
	})

	t.Run("invalid state", func(t *testing.T) {
		err := g.CreateStatus(ctx, "acme", "widget", "abc123", CommitStatus{State: "error"})
		assert.ErrorIs(t, err, ErrInvalidStatusState)
	})

	t.Run("api failure", func(t *testing.T) {
		err := g.CreateStatus(ctx, "acme", "widget", "abc123", CommitStatus{State: StatusFailure})
		assert.True(t, drivererrors.IsType(err, drivererrors.ErrHosting))
	})
}

func TestStatusState_Valid(t *testing.T) {
	for _, s := range []StatusState{StatusPending, StatusSuccess, StatusFailure} {
		assert.True(t, s.Valid(), s)
	}
	for _, s := range []StatusState{"", "error", "fail"} {
		assert.False(t, s.Valid(), s)
	}
}
