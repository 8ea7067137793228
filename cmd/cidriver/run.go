// Package main provides the cidriver CLI application.
package main

import (
	"github.com/spf13/cobra"

	"github.com/cicd-ai-toolkit/cidriver/pkg/config"
	"github.com/cicd-ai-toolkit/cidriver/pkg/observability"
	"github.com/cicd-ai-toolkit/cidriver/pkg/pipeline"
	"github.com/cicd-ai-toolkit/cidriver/pkg/platform"
	"github.com/cicd-ai-toolkit/cidriver/pkg/reposync"
	"github.com/cicd-ai-toolkit/cidriver/pkg/stages"
	"github.com/cicd-ai-toolkit/cidriver/pkg/status"
)

// runFlags holds the flags shared by distribute and integrate.
type runFlags struct {
	user   string
	name   string
	branch string
	pr     int
	fresh  bool
	dryRun bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "Repository owner")
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Repository name")
	cmd.Flags().StringVarP(&f.branch, "branch", "b", "", "Branch to build")
	cmd.Flags().BoolVar(&f.fresh, "fresh", config.DefaultFreshClone, "Remove the existing working copy and clone again")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Log commands and statuses instead of running or posting them")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("branch")
}

// setup loads config and assembles a pipeline for one run.
func (a *app) setup(cmd *cobra.Command, f *runFlags, needHosting bool) (*pipeline.Pipeline, observability.Logger, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("fresh") {
		cfg.SetFreshClone(f.fresh)
	}

	logger := observability.NewLoggerTo(a.stderr, cfg.Global.LogLevel)
	progress := a.progress()

	fresh := cfg.ShouldFreshClone()
	if f.dryRun && fresh {
		logger.Info("dry run: keeping existing working copy")
		fresh = false
	}

	var hosting platform.Hosting
	if needHosting {
		hosting, err = a.newHosting(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if f.dryRun {
			hosting = platform.NewDryRun(hosting, logger)
		}
	}

	run := a.newRunner(f.dryRun, logger)
	reporter := status.NewReporter(cfg.Hosting.StatusContext, logger)

	var st stages.Stages = stages.NewDefault(progress)
	if len(cfg.Stages.Build)+len(cfg.Stages.Test)+len(cfg.Stages.Upload) > 0 {
		st = stages.NewCommands(stages.CommandsOptions{
			Build:    cfg.Stages.Build,
			Test:     cfg.Stages.Test,
			Upload:   cfg.Stages.Upload,
			Runner:   run,
			Progress: progress,
			Logger:   logger,
		})
	}

	p := pipeline.New(pipeline.Options{
		Syncer: reposync.New(reposync.Options{
			Root:     cfg.WorkDir,
			BaseURL:  cfg.CloneBaseURL,
			Runner:   run,
			Reporter: reporter,
			Progress: progress,
			Logger:   logger,
		}),
		Stages:   st,
		Reporter: reporter,
		Hosting:  hosting,
		Fresh:    fresh,
		Logger:   logger,
		Progress: progress,
	})
	return p, logger, nil
}

// finish turns a driver result into the command's error.
func finish(p *pipeline.Pipeline, logger observability.Logger, res pipeline.Result, err error) error {
	for _, s := range p.Metrics().Samples() {
		logger.Debug("stage timing",
			observability.String("stage", s.Stage),
			observability.String("duration", s.Duration.String()),
			observability.Bool("success", s.Success))
	}

	code := pipeline.ExitCode(res, err)
	if code == pipeline.ExitSuccess {
		return nil
	}
	return &exitError{code: code, err: err}
}

func (a *app) newDistributeCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "Build and distribute a branch",
		Long: `Clone the repository, pull the branch, build, test and upload.

The exit code is 0 when the pipeline ends in success and 1 when it fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, logger, err := a.setup(cmd, &f, false)
			if err != nil {
				return err
			}
			res, err := p.Distribute(cmd.Context(), f.user, f.name, f.branch)
			return finish(p, logger, res, err)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) newIntegrateCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "integrate",
		Short: "Integrate a pull request",
		Long: `Merge the pull request head onto the branch, build and test it, and
post pending, success or failure commit statuses for the head commit.

The exit code is 0 when the pipeline ends in success and 1 when it fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, logger, err := a.setup(cmd, &f, true)
			if err != nil {
				return err
			}
			res, err := p.Integrate(cmd.Context(), f.user, f.name, f.branch, f.pr)
			return finish(p, logger, res, err)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVarP(&f.pr, "pr", "p", 0, "Pull request number")
	_ = cmd.MarkFlagRequired("pr")
	return cmd
}
