// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"sync"
	"time"
)

// StageSample is one timed stage visit.
type StageSample struct {
	Stage    string
	Duration time.Duration
	Success  bool
}

// Metrics collects stage timings for a single run.
type Metrics struct {
	mu      sync.Mutex
	samples []StageSample
	now     func() time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{now: time.Now}
}

// Time starts timing a stage; call the returned func with the outcome.
func (m *Metrics) Time(stage string) func(success bool) {
	start := m.now()
	return func(success bool) {
		m.RecordStage(stage, m.now().Sub(start), success)
	}
}

// RecordStage records a stage outcome.
func (m *Metrics) RecordStage(stage string, d time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, StageSample{Stage: stage, Duration: d, Success: success})
}

// Samples returns a copy of the recorded samples in order.
func (m *Metrics) Samples() []StageSample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StageSample, len(m.samples))
	copy(out, m.samples)
	return out
}

// Total returns the summed duration of all stages.
func (m *Metrics) Total() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total time.Duration
	for _, s := range m.samples {
		total += s.Duration
	}
	return total
}
