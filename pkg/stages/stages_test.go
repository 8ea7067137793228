package stages

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
	"github.com/cicd-ai-toolkit/cidriver/pkg/runner"
)

func TestDefault(t *testing.T) {
	var out bytes.Buffer
	d := NewDefault(observability.NewProgressTo(&out, true))
	ctx := context.Background()

	assert.True(t, d.Build(ctx, Context{}))
	assert.True(t, d.Test(ctx, Context{}))
	assert.True(t, d.Upload(ctx, Context{}))
	assert.Equal(t, "[+] Building\n[+] Testing\n[+] Uploading\n", out.String())
}

func TestCommands_RunsInWorkingCopy(t *testing.T) {
	rec := runner.NewRecorder()
	c := NewCommands(CommandsOptions{
		Build:    []string{"make deps", "make build"},
		Test:     []string{"make test"},
		Runner:   rec,
		Progress: observability.NewProgressTo(&bytes.Buffer{}, true),
	})
	run := Context{Owner: "acme", Name: "widget", Dir: "/tmp/ci/widget"}

	require.True(t, c.Build(context.Background(), run))
	require.True(t, c.Test(context.Background(), run))

	assert.Equal(t, []runner.Call{
		{Dir: "/tmp/ci/widget", Command: "make deps"},
		{Dir: "/tmp/ci/widget", Command: "make build"},
		{Dir: "/tmp/ci/widget", Command: "make test"},
	}, rec.Calls())
}

func TestCommands_StopsAtFirstFailure(t *testing.T) {
	rec := runner.NewRecorder().Fail("make build")
	c := NewCommands(CommandsOptions{
		Build:    []string{"make deps", "make build", "make package"},
		Runner:   rec,
		Progress: observability.NewProgressTo(&bytes.Buffer{}, true),
	})

	assert.False(t, c.Build(context.Background(), Context{}))
	assert.Equal(t, []string{"make deps", "make build"}, rec.Commands())
}

func TestCommands_EmptyListSucceeds(t *testing.T) {
	var out bytes.Buffer
	rec := runner.NewRecorder()
	c := NewCommands(CommandsOptions{Runner: rec, Progress: observability.NewProgressTo(&out, true)})

	assert.True(t, c.Upload(context.Background(), Context{}))
	assert.Empty(t, rec.Calls())
	assert.Equal(t, "[+] Uploading\n", out.String())
}

func TestContext_IsPullRequest(t *testing.T) {
	pr := 42
	assert.False(t, Context{}.IsPullRequest())
	assert.True(t, Context{PullRequest: &pr}.IsPullRequest())
}
