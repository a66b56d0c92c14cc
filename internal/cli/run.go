package cli

import (
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qasentinel/internal/evaluation"
	"qasentinel/internal/pipeline"
	"qasentinel/internal/story"
)

// errNoInput indicates run was invoked without a story source.
var errNoInput = errors.New("provide --input <story.yaml> or --demo")

func newRunCommand(app *App) *cobra.Command {
	var (
		inputPath string
		sessionID string
		doExport  bool
		demo      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the QA pipeline for one story",
		Long: `Run the full QA pipeline for a single user story:
  1. plan test scenarios from the acceptance criteria
  2. generate test cases, conditioned on similar past runs
  3. validate the combined output

The run is scored by the consistency and quality evaluators afterwards.
Provide a story file with --input, or use --demo for a built-in sample.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadRunStory(inputPath, demo)
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			id := sessionID
			if id == "" {
				id = uuid.NewString()
			}

			_, err = runStory(cmd, app, s, id, doExport)
			return err
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to a story YAML file")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id (default: random UUID)")
	cmd.Flags().BoolVar(&doExport, "export", false, "export the run report to the export directory")
	cmd.Flags().BoolVar(&demo, "demo", false, "run the built-in sample story")

	return cmd
}

// demoStory is the built-in sample used by run --demo.
func demoStory() *story.Story {
	return &story.Story{
		ID:          "demo-profile-update",
		Title:       "User updates profile information",
		Description: "As a registered user, I want to update my profile information so that my account stays accurate.",
		AcceptanceCriteria: []string{
			"User can update their display name",
			"User can update their email address",
			"An invalid email address is rejected with a validation error",
			"Changes are persisted and visible after reload",
		},
		QAContext: "Focus on negative testing and input validation.",
	}
}

func loadRunStory(inputPath string, demo bool) (*story.Story, error) {
	if demo {
		return demoStory(), nil
	}
	if inputPath == "" {
		return nil, errNoInput
	}
	return story.LoadFile(inputPath)
}

// runStory executes the pipeline for one story, scores the result, prints
// the reports, and optionally exports them. Shared by run and queue.
func runStory(cmd *cobra.Command, app *App, s *story.Story, sessionID string, doExport bool) (*pipeline.Result, error) {
	qaContext := s.QAContext
	if qaContext == "" {
		qaContext = app.Config.Pipeline.DefaultQAContext
	}

	app.Logger.Info("starting pipeline run",
		zap.String("session_id", sessionID),
		zap.String("title", s.Title))

	result, err := app.Runner.RunPipeline(cmd.Context(), pipeline.Input{
		SessionID:          sessionID,
		Title:              s.Title,
		Description:        s.Description,
		AcceptanceCriteria: s.AcceptanceCriteria,
		QAContext:          qaContext,
	})
	if err != nil {
		app.Printer.Error("pipeline run failed: %v", err)
		return nil, NewExitError(1)
	}

	consistency := evaluation.EvaluateConsistency(result.PlannerOutput, result.TestcaseOutput)
	quality := evaluation.EvaluateA2A(result.PlannerOutput, result.TestcaseOutput)

	app.Printer.PipelineResult(result)
	app.Printer.ConsistencyReport(consistency)
	app.Printer.A2AReport(quality)

	if doExport {
		if err := exportRun(app, result, consistency, quality); err != nil {
			app.Printer.Error("export failed: %v", err)
			return nil, NewExitError(1)
		}
	}

	return result, nil
}

// exportRun writes the Markdown report and the raw JSON artifacts for a run.
func exportRun(app *App, result *pipeline.Result, consistency evaluation.ConsistencyReport, quality evaluation.A2AReport) error {
	mdResult, err := app.Exporter.SaveMarkdown(result.SessionID+".md", markdownReport(result, consistency, quality))
	if err != nil {
		return err
	}
	app.Printer.Export(mdResult)

	jsonResult, err := app.Exporter.SaveJSON(result.SessionID+".json", map[string]any{
		"result":      result,
		"consistency": consistency,
		"quality":     quality,
	})
	if err != nil {
		return err
	}
	app.Printer.Export(jsonResult)
	return nil
}
