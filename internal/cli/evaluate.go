package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qasentinel/internal/evaluation"
	"qasentinel/internal/session"
)

func newEvaluateCommand(app *App) *cobra.Command {
	var (
		plannerPath  string
		testcasePath string
		sessionID    string
		doExport     bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score saved artifacts without invoking the model",
		Long: `Run the consistency and quality evaluators on existing artifacts.

Artifacts come from JSON files (--planner and --testcase) or from a
recorded session (--session). Evaluation is deterministic: the same
artifacts always produce the same scores.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, testcase, err := loadArtifacts(app, plannerPath, testcasePath, sessionID)
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			consistency := evaluation.EvaluateConsistency(planner, testcase)
			quality := evaluation.EvaluateA2A(planner, testcase)

			app.Printer.ConsistencyReport(consistency)
			app.Printer.A2AReport(quality)

			if doExport {
				name := sessionID
				if name == "" {
					name = "evaluation"
				}
				result, err := app.Exporter.SaveJSON(name+"-evaluation.json", map[string]any{
					"consistency": consistency,
					"quality":     quality,
				})
				if err != nil {
					app.Printer.Error("export failed: %v", err)
					return NewExitError(1)
				}
				app.Printer.Export(result)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&plannerPath, "planner", "", "path to a planner artifact JSON file")
	cmd.Flags().StringVar(&testcasePath, "testcase", "", "path to a test case artifact JSON file")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "evaluate artifacts from a recorded session")
	cmd.Flags().BoolVar(&doExport, "export", false, "export the evaluation report to the export directory")

	return cmd
}

// loadArtifacts resolves the planner and test case artifacts from either a
// recorded session or a pair of JSON files.
func loadArtifacts(app *App, plannerPath, testcasePath, sessionID string) (planner, testcase map[string]any, err error) {
	if sessionID != "" {
		sess, ok := app.Store.GetSession(sessionID)
		if !ok {
			return nil, nil, fmt.Errorf("session %s: %w", sessionID, session.ErrUnknownSession)
		}
		planner, _ = sess.StageOutput(session.StagePlanner)
		testcase, _ = sess.StageOutput(session.StageTestcase)
		return planner, testcase, nil
	}

	if plannerPath == "" || testcasePath == "" {
		return nil, nil, fmt.Errorf("provide --session, or both --planner and --testcase")
	}

	planner, err = readArtifactFile(plannerPath)
	if err != nil {
		return nil, nil, err
	}
	testcase, err = readArtifactFile(testcasePath)
	if err != nil {
		return nil, nil, err
	}
	return planner, testcase, nil
}

func readArtifactFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact file: %w", err)
	}
	var artifact map[string]any
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact file %s: %w", path, err)
	}
	return artifact, nil
}
