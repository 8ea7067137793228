// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/cicd-ai-toolkit/cidriver/pkg/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "CIDRIVER"
	// EnvConfigPath overrides the config file search.
	EnvConfigPath = EnvPrefix + "_CONFIG"
	// ProjectConfigFile is the project-level config file name.
	ProjectConfigFile = ".cidriver.yaml"
	// GlobalConfigDir is the global config directory name.
	GlobalConfigDir = ".cidriver"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// projectConfigFiles are searched in order in each directory.
var projectConfigFiles = []string{
	ProjectConfigFile,
	".cidriver.yml",
}

// Loader loads configuration from files and environment.
type Loader struct {
	path        string
	projectRoot string
	skipGlobal  bool
	getenv      func(string) string
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv}
}

// WithPath loads exactly this file instead of searching global and project locations.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// WithProjectRoot sets the directory the project config search starts from.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// SkipGlobal skips loading global config.
func (l *Loader) SkipGlobal() *Loader {
	l.skipGlobal = true
	return l
}

// WithEnv replaces the environment lookup, used by tests.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Global Config ($HOME/.cidriver/config.yaml)
// 3. Project Config (.cidriver.yaml, searched upward)
// 4. Environment Variables (CIDRIVER_*)
//
// An explicit path (WithPath or CIDRIVER_CONFIG) replaces steps 2 and 3 and
// must exist. The result is validated.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	path := l.path
	if path == "" {
		path = l.getenv(EnvConfigPath)
	}

	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return nil, err
		}
		mergeConfig(cfg, fileCfg)
	} else {
		if !l.skipGlobal {
			// Global config is optional
			if globalCfg, err := readFile(GetDefaultConfigPath()); err == nil {
				mergeConfig(cfg, globalCfg)
			}
		}
		if projectPath, ok := l.findProjectConfig(); ok {
			projectCfg, err := readFile(projectPath)
			if err != nil {
				return nil, err
			}
			mergeConfig(cfg, projectCfg)
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.ConfigError("config validation failed", err)
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path on top of defaults.
// Environment overrides and validation are not applied.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	fileCfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	mergeConfig(cfg, fileCfg)

	return cfg, nil
}

// readFile parses a single config layer without defaults.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("failed to read config file: "+path, err)
	}

	// Unknown keys are rejected so that a plaintext "token" never loads silently
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.ConfigError("failed to parse config file: "+path, err).WithContext("path", path)
	}

	return &cfg, nil
}

// findProjectConfig searches the project root and its parents.
func (l *Loader) findProjectConfig() (string, bool) {
	root := l.projectRoot
	if root == "" {
		root = "."
	}

	dir, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}

	for {
		for _, name := range projectConfigFiles {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", false
		}
		dir = parent
	}
}

// applyEnvOverrides applies environment variable overrides.
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	if v := l.getenv(EnvPrefix + "_WORKDIR"); v != "" {
		cfg.WorkDir = v
	}
	if v := l.getenv(EnvPrefix + "_LOG_LEVEL"); v != "" {
		cfg.Global.LogLevel = v
	}
	if v := l.getenv(EnvPrefix + "_PROVIDER"); v != "" {
		cfg.Hosting.Provider = v
	}
	if v := l.getenv(EnvPrefix + "_STATUS_CONTEXT"); v != "" {
		cfg.Hosting.StatusContext = v
	}
	if v := l.getenv(EnvPrefix + "_FRESH_CLONE"); v != "" {
		fresh, err := strconv.ParseBool(v)
		if err != nil {
			return errors.ConfigError("invalid "+EnvPrefix+"_FRESH_CLONE", err).WithContext("value", v)
		}
		cfg.SetFreshClone(fresh)
	}

	return nil
}

// mergeConfig merges src into dst (src overrides dst).
func mergeConfig(dst, src *Config) {
	if src.WorkDir != "" {
		dst.WorkDir = src.WorkDir
	}
	if src.FreshClone != nil {
		dst.SetFreshClone(*src.FreshClone)
	}
	if src.CloneBaseURL != "" {
		dst.CloneBaseURL = src.CloneBaseURL
	}

	if src.Hosting.Provider != "" {
		dst.Hosting.Provider = src.Hosting.Provider
	}
	if src.Hosting.TokenEnv != "" {
		dst.Hosting.TokenEnv = src.Hosting.TokenEnv
	}
	if src.Hosting.BaseURL != "" {
		dst.Hosting.BaseURL = src.Hosting.BaseURL
	}
	if src.Hosting.StatusContext != "" {
		dst.Hosting.StatusContext = src.Hosting.StatusContext
	}

	if len(src.Stages.Build) > 0 {
		dst.Stages.Build = src.Stages.Build
	}
	if len(src.Stages.Test) > 0 {
		dst.Stages.Test = src.Stages.Test
	}
	if len(src.Stages.Upload) > 0 {
		dst.Stages.Upload = src.Stages.Upload
	}

	if src.Global.LogLevel != "" {
		dst.Global.LogLevel = src.Global.LogLevel
	}
}
