// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package runner executes external commands for the pipeline stages.
package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
)

// Runner executes a shell command line in a directory and reports whether
// it exited with status 0.
type Runner interface {
	Run(ctx context.Context, dir, command string) bool
}

// Shell runs commands through "sh -c", streaming output to the caller's
// stdout and stderr.
type Shell struct {
	shell  string
	stdout io.Writer
	stderr io.Writer
	logger observability.Logger
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithShell sets the interpreter binary (default "sh").
func WithShell(shell string) ShellOption {
	return func(s *Shell) {
		s.shell = shell
	}
}

// WithOutput redirects the command's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) ShellOption {
	return func(s *Shell) {
		s.stdout = stdout
		s.stderr = stderr
	}
}

// WithLogger sets the logger used for exit diagnostics.
func WithLogger(logger observability.Logger) ShellOption {
	return func(s *Shell) {
		s.logger = logger
	}
}

// NewShell creates a Shell runner.
func NewShell(opts ...ShellOption) *Shell {
	s := &Shell{
		shell:  "sh",
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: observability.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes command in dir (empty means the current directory).
// Failure to start and non-zero exit both return false.
func (s *Shell) Run(ctx context.Context, dir, command string) bool {
	cmd := exec.CommandContext(ctx, s.shell, "-c", command)
	cmd.Dir = dir
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	err := cmd.Run()
	if err == nil {
		s.logger.Debug("command succeeded", observability.String("command", command), observability.String("dir", dir))
		return true
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		s.logger.Debug("command failed",
			observability.String("command", command),
			observability.String("dir", dir),
			observability.Int("exit_code", exitErr.ExitCode()))
		return false
	}

	s.logger.Warn("command could not start",
		observability.String("command", command),
		observability.String("dir", dir),
		observability.Err(err))
	return false
}
