// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Validator validates configuration.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates a configuration.
func (v *Validator) Validate(cfg *Config) error {
	if err := v.ValidateWorkspace(cfg); err != nil {
		return err
	}
	if err := v.ValidateHosting(&cfg.Hosting); err != nil {
		return err
	}
	if err := v.ValidateGlobal(&cfg.Global); err != nil {
		return err
	}
	return nil
}

// ValidateWorkspace validates the work root and clone URL.
func (v *Validator) ValidateWorkspace(cfg *Config) error {
	if cfg.WorkDir == "" {
		return &ValidationError{
			Field:   "workdir",
			Message: "must be set",
		}
	}
	if !filepath.IsAbs(cfg.WorkDir) {
		return &ValidationError{
			Field:   "workdir",
			Value:   cfg.WorkDir,
			Message: "must be an absolute path",
		}
	}

	u, err := url.Parse(cfg.CloneBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{
			Field:   "clone_base_url",
			Value:   cfg.CloneBaseURL,
			Message: "must be an http or https URL",
		}
	}

	return nil
}

// ValidateHosting validates hosting configuration.
func (v *Validator) ValidateHosting(cfg *HostingConfig) error {
	validProviders := []string{"github", "gitlab", "auto"}
	if !contains(validProviders, cfg.Provider) {
		return &ValidationError{
			Field:   "hosting.provider",
			Value:   cfg.Provider,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validProviders, ", ")),
		}
	}
	if cfg.TokenEnv == "" {
		return &ValidationError{
			Field:   "hosting.token_env",
			Message: "must be set (token field is not allowed)",
		}
	}
	if strings.TrimSpace(cfg.StatusContext) == "" {
		return &ValidationError{
			Field:   "hosting.status_context",
			Message: "must not be empty",
		}
	}
	if cfg.BaseURL != "" {
		if u, err := url.Parse(cfg.BaseURL); err != nil || u.Host == "" {
			return &ValidationError{
				Field:   "hosting.base_url",
				Value:   cfg.BaseURL,
				Message: "must be an absolute URL",
			}
		}
	}
	return nil
}

// ValidateGlobal validates global configuration.
func (v *Validator) ValidateGlobal(cfg *GlobalConfig) error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if cfg.LogLevel != "" {
		if !contains(validLogLevels, strings.ToLower(cfg.LogLevel)) {
			return &ValidationError{
				Field:   "global.log_level",
				Value:   cfg.LogLevel,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(validLogLevels, ", ")),
			}
		}
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error for %s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}
