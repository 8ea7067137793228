// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package pipeline

import (
	"fmt"

	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
)

// ErrInvalidTransition is wrapped by every TransitionError.
var ErrInvalidTransition = errors.TransitionError("invalid transition", nil)

// TransitionError reports an event fired in a state that does not accept it.
type TransitionError struct {
	From  State
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: event %s in state %s", e.Event, e.From)
}

// Unwrap returns ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Machine holds the active state of one run. It is not safe for
// concurrent use.
type Machine struct {
	state   State
	visited []State
}

// NewMachine creates a machine in StateInit.
func NewMachine() *Machine {
	return &Machine{state: StateInit, visited: []State{StateInit}}
}

// State returns the active state.
func (m *Machine) State() State {
	return m.state
}

// Visited returns the states entered so far, starting with StateInit.
func (m *Machine) Visited() []State {
	out := make([]State, len(m.visited))
	copy(out, m.visited)
	return out
}

// Can reports whether e is accepted in the active state.
func (m *Machine) Can(e Event) bool {
	_, ok := transitionIndex[transitionKey{m.state, e}]
	return ok
}

// Fire moves to the state tabled for (active state, e). An undefined pair
// leaves the machine unchanged and returns a *TransitionError.
func (m *Machine) Fire(e Event) error {
	to, ok := transitionIndex[transitionKey{m.state, e}]
	if !ok {
		return &TransitionError{From: m.state, Event: e}
	}
	m.state = to
	m.visited = append(m.visited, to)
	return nil
}
