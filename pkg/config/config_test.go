// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicd-ai-toolkit/cidriver/pkg/config"
	drivererrors "github.com/cicd-ai-toolkit/cidriver/pkg/errors"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestDefaultConfig tests the default configuration.
func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, "/tmp/ci", cfg.WorkDir)
	assert.True(t, cfg.ShouldFreshClone())
	assert.Equal(t, "https://github.com", cfg.CloneBaseURL)
	assert.Equal(t, "github", cfg.Hosting.Provider)
	assert.Equal(t, "GITHUB_TOKEN", cfg.Hosting.TokenEnv)
	assert.Equal(t, "continuous-integration", cfg.Hosting.StatusContext)
	assert.Equal(t, "info", cfg.Global.LogLevel)
	assert.NoError(t, config.NewValidator().Validate(cfg))
}

// TestLoadFromPath tests loading config from a file.
func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
workdir: /var/ci
fresh_clone: false
hosting:
  token_env: CI_TOKEN
  status_context: ci/driver
stages:
  build:
    - make build
  test:
    - make test
global:
  log_level: debug
`)

	cfg, err := config.NewLoader().LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/ci", cfg.WorkDir)
	assert.False(t, cfg.ShouldFreshClone())
	assert.Equal(t, "https://github.com", cfg.CloneBaseURL, "unset keys keep defaults")
	assert.Equal(t, "CI_TOKEN", cfg.Hosting.TokenEnv)
	assert.Equal(t, "ci/driver", cfg.Hosting.StatusContext)
	assert.Equal(t, []string{"make build"}, cfg.Stages.Build)
	assert.Equal(t, []string{"make test"}, cfg.Stages.Test)
	assert.Empty(t, cfg.Stages.Upload)
	assert.Equal(t, "debug", cfg.Global.LogLevel)
}

func TestLoadRejectsPlaintextToken(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
hosting:
  token: ghp_secret
`)

	_, err := config.NewLoader().WithPath(path).WithEnv(envFrom(nil)).Load()
	require.Error(t, err)
	assert.True(t, drivererrors.IsType(err, drivererrors.ErrConfig))
}

func TestLoadInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
global:
  log_level: chatty
`)

	_, err := config.NewLoader().WithPath(path).WithEnv(envFrom(nil)).Load()
	require.Error(t, err)

	var vErr *config.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "global.log_level", vErr.Field)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := config.NewLoader().
		WithPath(filepath.Join(t.TempDir(), "absent.yaml")).
		WithEnv(envFrom(nil)).
		Load()
	require.Error(t, err)
	assert.True(t, drivererrors.IsType(err, drivererrors.ErrConfig))
}

func TestLoadSearchesParentDirectories(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".cidriver.yaml", "workdir: /srv/ci\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := config.NewLoader().
		WithProjectRoot(nested).
		SkipGlobal().
		WithEnv(envFrom(nil)).
		Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/ci", cfg.WorkDir)
}

// TestLoadWithEnvOverrides tests environment variable overrides.
func TestLoadWithEnvOverrides(t *testing.T) {
	env := map[string]string{
		"CIDRIVER_WORKDIR":        "/opt/ci",
		"CIDRIVER_LOG_LEVEL":      "warn",
		"CIDRIVER_STATUS_CONTEXT": "ci/custom",
		"CIDRIVER_FRESH_CLONE":    "false",
		"CIDRIVER_PROVIDER":       "gitlab",
	}

	cfg, err := config.NewLoader().
		WithProjectRoot(t.TempDir()).
		SkipGlobal().
		WithEnv(envFrom(env)).
		Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/ci", cfg.WorkDir)
	assert.Equal(t, "warn", cfg.Global.LogLevel)
	assert.Equal(t, "ci/custom", cfg.Hosting.StatusContext)
	assert.False(t, cfg.ShouldFreshClone())
	assert.Equal(t, "gitlab", cfg.Hosting.Provider)
}

func TestLoadEnvConfigPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "ci.yaml", "workdir: /data/ci\n")

	cfg, err := config.NewLoader().
		WithEnv(envFrom(map[string]string{"CIDRIVER_CONFIG": path})).
		Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/ci", cfg.WorkDir)
}

func TestLoadInvalidFreshCloneEnv(t *testing.T) {
	_, err := config.NewLoader().
		WithProjectRoot(t.TempDir()).
		SkipGlobal().
		WithEnv(envFrom(map[string]string{"CIDRIVER_FRESH_CLONE": "sometimes"})).
		Load()
	require.Error(t, err)
}

func TestValidator(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"relative workdir", func(c *config.Config) { c.WorkDir = "ci" }, "workdir"},
		{"empty workdir", func(c *config.Config) { c.WorkDir = "" }, "workdir"},
		{"bad clone url", func(c *config.Config) { c.CloneBaseURL = "git@github.com:" }, "clone_base_url"},
		{"unknown provider", func(c *config.Config) { c.Hosting.Provider = "bitbucket" }, "hosting.provider"},
		{"missing token env", func(c *config.Config) { c.Hosting.TokenEnv = "" }, "hosting.token_env"},
		{"blank status context", func(c *config.Config) { c.Hosting.StatusContext = "  " }, "hosting.status_context"},
		{"relative base url", func(c *config.Config) { c.Hosting.BaseURL = "api/v3" }, "hosting.base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)

			err := config.NewValidator().Validate(cfg)
			var vErr *config.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestToken(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, "abc", cfg.Token(envFrom(map[string]string{"GITHUB_TOKEN": "abc"})))

	cfg.Hosting.TokenEnv = ""
	assert.Equal(t, "", cfg.Token(envFrom(map[string]string{"GITHUB_TOKEN": "abc"})))
}
