package pipeline

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
)

func machineAt(s State) *Machine {
	return &Machine{state: s, visited: []State{s}}
}

func TestMachine_TableTransitions(t *testing.T) {
	for _, tr := range Transitions() {
		t.Run(tr.From.String()+"/"+tr.Event.String(), func(t *testing.T) {
			m := machineAt(tr.From)
			require.True(t, m.Can(tr.Event))
			require.NoError(t, m.Fire(tr.Event))
			assert.Equal(t, tr.To, m.State())
			assert.Equal(t, []State{tr.From, tr.To}, m.Visited())
		})
	}
}

func TestMachine_RejectsUndefinedPairs(t *testing.T) {
	defined := make(map[transitionKey]bool)
	for _, tr := range Transitions() {
		defined[transitionKey{tr.From, tr.Event}] = true
	}

	rejected := 0
	for _, s := range States() {
		for _, e := range Events() {
			if defined[transitionKey{s, e}] {
				continue
			}
			m := machineAt(s)
			err := m.Fire(e)
			require.Error(t, err, "%s/%s", s, e)

			var tErr *TransitionError
			require.True(t, stderrors.As(err, &tErr))
			assert.Equal(t, s, tErr.From)
			assert.Equal(t, e, tErr.Event)
			assert.Equal(t, s, m.State(), "state unchanged")
			assert.Len(t, m.Visited(), 1)
			rejected++
		}
	}
	assert.Equal(t, len(States())*len(Events())-len(Transitions()), rejected)
}

func TestMachine_TerminalStatesAcceptNothing(t *testing.T) {
	for _, s := range []State{StateSuccess, StateFail} {
		assert.True(t, s.IsTerminal())
		for _, e := range Events() {
			assert.False(t, machineAt(s).Can(e), "%s/%s", s, e)
		}
	}
	assert.False(t, StateTesting.IsTerminal())
}

func TestTransitionError(t *testing.T) {
	err := NewMachine().Fire(EventUpload)
	require.Error(t, err)

	assert.Equal(t, "invalid transition: event upload in state init", err.Error())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.True(t, errors.IsType(err, errors.ErrTransition))
	assert.True(t, errors.IsFatal(err))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "pull_request", StatePullRequest.String())
	assert.Equal(t, "unknown", State(99).String())
	assert.Equal(t, "tests_pr_fail", EventTestsPRFail.String())
	assert.Equal(t, "start_pull_request", EventStartPullRequest.String())
	assert.Equal(t, "unknown", Event(99).String())
}
