// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultWorkDir is the well-known work root.
	DefaultWorkDir = "/tmp/ci"
	// DefaultFreshClone re-clones on every run.
	DefaultFreshClone = true
	// DefaultCloneBaseURL is the public GitHub host.
	DefaultCloneBaseURL = "https://github.com"
	// DefaultStatusContext labels every commit status posted by the driver.
	DefaultStatusContext = "continuous-integration"
	// DefaultProvider is the hosting service used when none is configured.
	DefaultProvider = "github"
	// DefaultTokenEnv names the environment variable holding the API token.
	DefaultTokenEnv = "GITHUB_TOKEN"
)

// DefaultConfig returns the default configuration.
// These values are used when no config file is present.
func DefaultConfig() *Config {
	fresh := DefaultFreshClone
	return &Config{
		WorkDir:      DefaultWorkDir,
		FreshClone:   &fresh,
		CloneBaseURL: DefaultCloneBaseURL,
		Hosting:      DefaultHostingConfig(),
		Global:       DefaultGlobalConfig(),
	}
}

// DefaultHostingConfig returns default hosting configuration.
func DefaultHostingConfig() HostingConfig {
	return HostingConfig{
		Provider:      DefaultProvider,
		TokenEnv:      DefaultTokenEnv,
		StatusContext: DefaultStatusContext,
	}
}

// DefaultGlobalConfig returns default global configuration.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		LogLevel: "info",
	}
}

// GetDefaultConfigPath returns the default global config file path.
func GetDefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile)
}

// GetProjectConfigPath returns the project config file path.
func GetProjectConfigPath(projectRoot string) string {
	if projectRoot == "" {
		projectRoot = "."
	}
	return filepath.Join(projectRoot, ProjectConfigFile)
}
