// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package pipeline

// State is a pipeline state.
type State int

const (
	StateInit State = iota
	StatePulling
	StatePullRequest
	StateBuilding
	StateTesting
	StateUploading
	StateSuccess
	StateFail
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StatePulling:
		return "pulling"
	case StatePullRequest:
		return "pull_request"
	case StateBuilding:
		return "building"
	case StateTesting:
		return "testing"
	case StateUploading:
		return "uploading"
	case StateSuccess:
		return "success"
	case StateFail:
		return "fail"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no event is accepted in s.
func (s State) IsTerminal() bool {
	return s == StateSuccess || s == StateFail
}

// States returns every state in declaration order.
func States() []State {
	return []State{
		StateInit, StatePulling, StatePullRequest, StateBuilding,
		StateTesting, StateUploading, StateSuccess, StateFail,
	}
}

// Event drives a transition.
type Event int

const (
	EventStart Event = iota
	// EventStartPullRequest is start with a pull request number set.
	EventStartPullRequest
	EventPullSuccess
	EventPullFail
	EventPRSuccess
	EventPRFail
	EventBuildSuccess
	EventBuildFail
	EventUpload
	EventTestsSuccess
	EventTestsFail
	EventTestsPRSuccess
	EventTestsPRFail
	EventUploadSuccess
	EventUploadFail
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventStartPullRequest:
		return "start_pull_request"
	case EventPullSuccess:
		return "pull_success"
	case EventPullFail:
		return "pull_fail"
	case EventPRSuccess:
		return "pr_success"
	case EventPRFail:
		return "pr_fail"
	case EventBuildSuccess:
		return "build_success"
	case EventBuildFail:
		return "build_fail"
	case EventUpload:
		return "upload"
	case EventTestsSuccess:
		return "tests_success"
	case EventTestsFail:
		return "tests_fail"
	case EventTestsPRSuccess:
		return "tests_pr_success"
	case EventTestsPRFail:
		return "tests_pr_fail"
	case EventUploadSuccess:
		return "upload_success"
	case EventUploadFail:
		return "upload_fail"
	default:
		return "unknown"
	}
}

// Events returns every event in declaration order.
func Events() []Event {
	return []Event{
		EventStart, EventStartPullRequest,
		EventPullSuccess, EventPullFail,
		EventPRSuccess, EventPRFail,
		EventBuildSuccess, EventBuildFail,
		EventUpload,
		EventTestsSuccess, EventTestsFail,
		EventTestsPRSuccess, EventTestsPRFail,
		EventUploadSuccess, EventUploadFail,
	}
}

// Transition is one row of the state table.
type Transition struct {
	From  State
	Event Event
	To    State
}

// transitions is the complete set of valid moves. Any pair not listed is
// rejected by Machine.Fire.
var transitions = []Transition{
	{StateInit, EventStart, StatePulling},
	{StateInit, EventStartPullRequest, StatePullRequest},

	{StatePulling, EventPullSuccess, StateBuilding},
	{StatePulling, EventPullFail, StateFail},

	{StatePullRequest, EventPRSuccess, StateBuilding},
	{StatePullRequest, EventPRFail, StateFail},

	{StateBuilding, EventBuildSuccess, StateTesting},
	{StateBuilding, EventBuildFail, StateFail},

	{StateTesting, EventUpload, StateUploading},
	{StateTesting, EventTestsSuccess, StateSuccess},
	{StateTesting, EventTestsFail, StateFail},
	{StateTesting, EventTestsPRSuccess, StateSuccess},
	{StateTesting, EventTestsPRFail, StateFail},

	{StateUploading, EventUploadSuccess, StateSuccess},
	{StateUploading, EventUploadFail, StateFail},
}

type transitionKey struct {
	from  State
	event Event
}

var transitionIndex = func() map[transitionKey]State {
	idx := make(map[transitionKey]State, len(transitions))
	for _, t := range transitions {
		idx[transitionKey{t.From, t.Event}] = t.To
	}
	return idx
}()

// Transitions returns a copy of the state table.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}
