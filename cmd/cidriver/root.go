// Package main provides the cidriver CLI application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cicd-ai-toolkit/cidriver/pkg/config"
	drivererrors "github.com/cicd-ai-toolkit/cidriver/pkg/errors"
	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
	"github.com/cicd-ai-toolkit/cidriver/pkg/pipeline"
	"github.com/cicd-ai-toolkit/cidriver/pkg/platform"
	"github.com/cicd-ai-toolkit/cidriver/pkg/runner"
	"github.com/cicd-ai-toolkit/cidriver/pkg/version"
)

// app carries the process environment and the persistent flags shared by
// every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	configPath string
	logLevel   string
	workDir    string

	// newHosting and newRunner are replaced in tests.
	newHosting func(cfg *config.Config, logger observability.Logger) (platform.Hosting, error)
	newRunner  func(dryRun bool, logger observability.Logger) runner.Runner
}

func newApp(stdout, stderr io.Writer, getenv func(string) string) *app {
	a := &app{stdout: stdout, stderr: stderr, getenv: getenv}
	a.newHosting = a.defaultHosting
	a.newRunner = a.commandRunner
	return a
}

// exitError carries a non-zero exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (a *app) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cidriver",
		Short: "Minimal CI driver",
		Long: `cidriver - a minimal continuous-integration driver.

It clones or updates a repository, runs build and test steps, reports
commit statuses for pull requests and uploads build artifacts for branches.`,
		Version:       version.FullString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.workDir, "workdir", "", "Directory holding working copies (default /tmp/ci)")

	rootCmd.AddCommand(a.newDistributeCmd())
	rootCmd.AddCommand(a.newIntegrateCmd())
	rootCmd.AddCommand(a.newVersionCmd())
	return rootCmd
}

// execute runs the CLI and returns the process exit code.
func (a *app) execute(args []string) int {
	rootCmd := a.newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	err := rootCmd.Execute()
	if err == nil {
		return pipeline.ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(a.stderr, "Error:", exitErr.err)
		}
		return exitErr.code
	}

	fmt.Fprintln(a.stderr, "Error:", err)
	return pipeline.ExitInternal
}

// loadConfig loads the layered configuration and applies the persistent
// flag overrides on top.
func (a *app) loadConfig() (*config.Config, error) {
	loader := config.NewLoader().WithEnv(a.getenv)
	if a.configPath != "" {
		loader = loader.WithPath(a.configPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if a.workDir != "" {
		cfg.WorkDir = a.workDir
	}
	if a.logLevel != "" {
		cfg.Global.LogLevel = a.logLevel
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, drivererrors.ConfigError("invalid flag value", err)
	}
	return cfg, nil
}

func (a *app) progress() *observability.Progress {
	noColor := color.NoColor
	if f, ok := a.stdout.(*os.File); !ok || f != os.Stdout {
		noColor = true
	}
	return observability.NewProgressTo(a.stdout, noColor)
}

// defaultHosting builds the configured provider from the default registry.
func (a *app) defaultHosting(cfg *config.Config, logger observability.Logger) (platform.Hosting, error) {
	provider := platform.ResolveProvider(cfg.Hosting.Provider, a.getenv)
	token := cfg.Token(a.getenv)
	if token == "" {
		logger.Warn("no hosting token set, using unauthenticated access",
			observability.String("provider", provider),
			observability.String("token_env", cfg.Hosting.TokenEnv))
	}
	return platform.DefaultRegistry.New(provider, platform.Options{
		Token:   token,
		BaseURL: cfg.Hosting.BaseURL,
	})
}

func (a *app) commandRunner(dryRun bool, logger observability.Logger) runner.Runner {
	if dryRun {
		return runner.NewRecorder().OnRun(func(c runner.Call) {
			logger.Info("dry run: skipping command",
				observability.String("command", c.Command),
				observability.String("dir", c.Dir))
		})
	}
	return runner.NewShell(runner.WithOutput(a.stdout, a.stderr), runner.WithLogger(logger))
}
