// Package cmd implements the command-line interface and orchestration logic for rxrename.
// It wires configuration, enumeration, planning, execution and reporting into one run.
package cmd

import (
	"context"
	"io"

	"rxrename/internal/config"
	"rxrename/internal/errors"
	"rxrename/internal/executor"
	"rxrename/internal/filter"
	"rxrename/internal/logging"
	"rxrename/internal/plan"
	"rxrename/internal/replacement"
	"rxrename/internal/report"
	"rxrename/internal/term"
)

func executeRename(ctx context.Context, cfg *config.Config, out, errOut io.Writer) error {
	logger := logging.NewLogger(cfg, errOut)
	logger.Debug("resolved configuration", "config", cfg)

	engine, err := replacement.NewEngine(cfg.Pattern, cfg.Template, replacement.Options{
		FirstOnly:     cfg.FirstOnly,
		KeepExtension: cfg.KeepExtension,
	})
	if err != nil {
		return err
	}
	logger.Debug("compiled pattern", "pattern", engine.Pattern(), "template", engine.Template())

	discovery := filter.NewFileDiscovery(cfg, logger)
	files, err := discovery.Discover(ctx)
	if err != nil {
		return err
	}

	planner := plan.NewPlanner(engine, plan.OSStater{})
	renames := planner.Build(files)
	counts := renames.Counts()
	logger.Debug("built plan", "ready", counts.Ready, "skipped", counts.Skipped)

	reporter := report.NewReporter(cfg, out, term.ColorEnabled(cfg.Color, out, nil))
	exec := executor.NewExecutor(cfg, reporter, logger)

	summary, runErr := exec.Execute(ctx, renames)
	if err := reporter.Finish(summary); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	if summary.HasFailures() {
		return errors.NewRenameFailuresError(summary.Failed, summary.Planned+summary.Applied+summary.Failed)
	}
	return nil
}
