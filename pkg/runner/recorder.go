// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package runner

import (
	"context"
	"strings"
	"sync"
)

// Call is one command seen by a Recorder.
type Call struct {
	Dir     string
	Command string
}

// Recorder is a Runner that records commands instead of executing them.
// It backs dry runs and tests. Outcomes default to success; Fail marks
// commands containing a substring as failing.
type Recorder struct {
	mu       sync.Mutex
	calls    []Call
	failures []string
	onRun    func(Call)
}

// NewRecorder creates a Recorder where every command succeeds.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Fail makes every command containing substr report failure.
func (r *Recorder) Fail(substr string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, substr)
	return r
}

// OnRun registers a hook invoked for each command before its outcome is
// decided, e.g. to create a directory the way "git clone" would.
func (r *Recorder) OnRun(fn func(Call)) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRun = fn
	return r
}

// Run records the call and returns the scripted outcome.
func (r *Recorder) Run(_ context.Context, dir, command string) bool {
	r.mu.Lock()
	call := Call{Dir: dir, Command: command}
	r.calls = append(r.calls, call)
	hook := r.onRun
	failures := append([]string(nil), r.failures...)
	r.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	for _, f := range failures {
		if strings.Contains(command, f) {
			return false
		}
	}
	return true
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Commands returns just the recorded command lines.
func (r *Recorder) Commands() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Command
	}
	return out
}

// Count returns how many recorded commands contain substr.
func (r *Recorder) Count(substr string) int {
	n := 0
	for _, c := range r.Commands() {
		if strings.Contains(c, substr) {
			n++
		}
	}
	return n
}
