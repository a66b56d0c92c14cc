// Package cli wires the qasentinel commands together.
//
// The [App] struct carries every dependency a command needs: configuration,
// the session store, style memory, the pipeline orchestrator, the exporter,
// and the terminal printer. Commands receive the App explicitly, so tests
// can swap any dependency for a mock and execute commands in-process.
//
// Commands:
//   - run       run the pipeline for one story
//   - queue     run the pipeline for a batch of stories
//   - evaluate  score saved artifacts without invoking the model
//   - sessions  list recorded sessions
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qasentinel/internal/config"
	"qasentinel/internal/export"
	"qasentinel/internal/memory"
	"qasentinel/internal/output"
	"qasentinel/internal/pipeline"
	"qasentinel/internal/session"
)

// PipelineRunner abstracts the orchestrator for command wiring.
//
// [pipeline.Orchestrator] satisfies this in production; tests substitute a
// mock to exercise command behavior without a model backend.
type PipelineRunner interface {
	RunPipeline(ctx context.Context, input pipeline.Input) (*pipeline.Result, error)
}

// App holds the dependencies shared by all commands.
type App struct {
	// Config is the loaded application configuration.
	Config *config.Config

	// Store records stage checkpoints per session.
	Store *session.Store

	// Memory is the in-process style memory.
	Memory *memory.Memory

	// Runner executes the QA pipeline.
	Runner PipelineRunner

	// Exporter writes Markdown and JSON artifacts.
	Exporter *export.Exporter

	// Printer renders terminal output.
	Printer *output.Printer

	// Logger is the structured logger. Never nil after NewRootCommand.
	Logger *zap.Logger
}

// NewRootCommand creates the root cobra command with all subcommands
// registered against the given [App].
func NewRootCommand(app *App) *cobra.Command {
	if app.Logger == nil {
		app.Logger = zap.NewNop()
	}

	rootCmd := &cobra.Command{
		Use:   "qasentinel",
		Short: "Generate and score QA test plans from user stories",
		Long: `qasentinel turns user stories into test plans through a staged pipeline:
scenario planning, test case generation, and global validation. Completed
runs feed a style memory that conditions future generations, and two
deterministic evaluators score the produced artifacts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCommand(app))
	rootCmd.AddCommand(newQueueCommand(app))
	rootCmd.AddCommand(newEvaluateCommand(app))
	rootCmd.AddCommand(newSessionsCommand(app))

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute(app *App) int {
	rootCmd := NewRootCommand(app)
	if err := rootCmd.Execute(); err != nil {
		if code, ok := IsExitError(err); ok {
			return code
		}
		app.Printer.Error("%v", err)
		return 1
	}
	return 0
}
