// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package platform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
)

// Options are the provider-independent settings for a hosting client.
type Options struct {
	Token   string
	BaseURL string
}

// Factory builds a hosting client.
type Factory func(opts Options) (Hosting, error)

// Registry maps provider names to hosting factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register registers a factory under name, replacing any previous one.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// New builds the hosting client registered under name.
func (r *Registry) New(name string, opts Options) (Hosting, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.ConfigError(fmt.Sprintf("unknown hosting provider %q (supported: %v)", name, r.List()), nil)
	}
	return f(opts)
}

// List returns the registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in providers.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register("github", func(opts Options) (Hosting, error) {
		return NewGitHub(opts.Token, opts.BaseURL)
	})
	DefaultRegistry.Register("gitlab", func(opts Options) (Hosting, error) {
		return NewGitLab(opts.Token, opts.BaseURL)
	})
}
