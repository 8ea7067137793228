package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory().
		AddPullRequest("acme", "widget", PullRequest{Number: 42, HeadSHA: "abc123"}).
		AddPullRequest("acme", "widget", PullRequest{Number: 7, State: "closed"})

	pr, err := m.GetPullRequest(ctx, "acme", "widget", 42)
	require.NoError(t, err)
	assert.Equal(t, "open", pr.State)

	_, err = m.GetPullRequest(ctx, "acme", "widget", 7)
	assert.ErrorIs(t, err, ErrPullRequestNotOpen)

	_, err = m.GetPullRequest(ctx, "acme", "widget", 99)
	assert.Error(t, err)
	assert.Equal(t, 3, m.Lookups())

	require.NoError(t, m.CreateStatus(ctx, "acme", "widget", "abc123", CommitStatus{State: StatusPending}))
	require.NoError(t, m.CreateStatus(ctx, "acme", "widget", "abc123", CommitStatus{State: StatusSuccess}))
	assert.Len(t, m.Statuses(), 2)
	assert.Len(t, m.StatusesWithState(StatusSuccess), 1)
	assert.ErrorIs(t, m.CreateStatus(ctx, "acme", "widget", "abc123", CommitStatus{State: "error"}), ErrInvalidStatusState)

	m.FailStatuses(errors.New("offline"))
	assert.Error(t, m.CreateStatus(ctx, "acme", "widget", "abc123", CommitStatus{State: StatusFailure}))
	assert.Len(t, m.Statuses(), 2)
}

func TestDryRunSkipsStatuses(t *testing.T) {
	ctx := context.Background()
	m := NewMemory().AddPullRequest("acme", "widget", PullRequest{Number: 42, HeadSHA: "abc123"})
	d := NewDryRun(m, observability.NewNopLogger())

	pr, err := d.GetPullRequest(ctx, "acme", "widget", 42)
	require.NoError(t, err)
	assert.Equal(t, "abc123", pr.HeadSHA)

	require.NoError(t, d.CreateStatus(ctx, "acme", "widget", "abc123", CommitStatus{State: StatusSuccess}))
	assert.Empty(t, m.Statuses())
}
