// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for cidriver.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Global Config: $HOME/.cidriver/config.yaml
// 3. Project Config: .cidriver.yaml in the current directory or a parent
// 4. Environment Variables: CIDRIVER_*
// 5. Command-line flags (applied by the CLI)
package config

// Config represents the complete application configuration.
type Config struct {
	// WorkDir is the root that holds working copies, one per repository name.
	WorkDir string `yaml:"workdir"`
	// FreshClone removes an existing working copy before cloning.
	// Nil means "not set in this layer".
	FreshClone *bool `yaml:"fresh_clone,omitempty"`
	// CloneBaseURL is prefixed to owner/name.git for clone and PR pulls.
	CloneBaseURL string `yaml:"clone_base_url"`

	Hosting HostingConfig `yaml:"hosting"`
	Stages  StagesConfig  `yaml:"stages"`
	Global  GlobalConfig  `yaml:"global"`
}

// HostingConfig contains code-hosting service settings.
type HostingConfig struct {
	Provider string `yaml:"provider"`  // github, gitlab or auto
	TokenEnv string `yaml:"token_env"` // e.g., "GITHUB_TOKEN"
	// token field is NOT allowed - must use token_env
	BaseURL       string `yaml:"base_url,omitempty"` // GitHub Enterprise or self-hosted GitLab API URL
	StatusContext string `yaml:"status_context"`
}

// StagesConfig lists shell commands per pipeline stage.
// An empty list keeps the echo-only default for that stage.
type StagesConfig struct {
	Build  []string `yaml:"build,omitempty"`
	Test   []string `yaml:"test,omitempty"`
	Upload []string `yaml:"upload,omitempty"`
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// ShouldFreshClone reports whether existing working copies are removed before a run.
func (c *Config) ShouldFreshClone() bool {
	if c.FreshClone == nil {
		return DefaultFreshClone
	}
	return *c.FreshClone
}

// SetFreshClone sets the fresh-clone flag.
func (c *Config) SetFreshClone(v bool) {
	c.FreshClone = &v
}

// Token resolves the hosting token from the configured environment variable.
// An empty string means unauthenticated access.
func (c *Config) Token(getenv func(string) string) string {
	if c.Hosting.TokenEnv == "" {
		return ""
	}
	return getenv(c.Hosting.TokenEnv)
}
