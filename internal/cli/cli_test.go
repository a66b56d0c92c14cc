package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qasentinel/internal/export"
	"qasentinel/internal/session"
)

func executeCommand(t *testing.T, app *App, args ...string) error {
	t.Helper()

	rootCmd := NewRootCommand(app)
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestRunCommand_Demo(t *testing.T) {
	runner := &MockRunner{Result: cannedResult()}
	app, buf := newTestApp(t, runner)

	err := executeCommand(t, app, "run", "--demo")
	require.NoError(t, err)

	require.Len(t, runner.Inputs, 1)
	assert.Equal(t, "User updates profile information", runner.Inputs[0].Title)
	assert.NotEmpty(t, runner.Inputs[0].SessionID)

	out := buf.String()
	assert.Contains(t, out, "Consistency")
	assert.Contains(t, out, "Quality")
}

func TestRunCommand_NoInput(t *testing.T) {
	runner := &MockRunner{Result: cannedResult()}
	app, buf := newTestApp(t, runner)

	err := executeCommand(t, app, "run")
	require.Error(t, err)

	code, ok := IsExitError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Empty(t, runner.Inputs)
	assert.Contains(t, buf.String(), "--input")
}

func TestRunCommand_StoryFile(t *testing.T) {
	path := writeTestFile(t, "story.yaml", `
title: Password reset
description: As a user, I want to reset my password.
acceptance_criteria:
  - Reset email is sent
qa_context: Check expiry of reset links.
`)

	runner := &MockRunner{Result: cannedResult()}
	app, _ := newTestApp(t, runner)

	err := executeCommand(t, app, "run", "--input", path, "--session", "sess-42")
	require.NoError(t, err)

	require.Len(t, runner.Inputs, 1)
	input := runner.Inputs[0]
	assert.Equal(t, "sess-42", input.SessionID)
	assert.Equal(t, "Password reset", input.Title)
	assert.Equal(t, []string{"Reset email is sent"}, input.AcceptanceCriteria)
	assert.Equal(t, "Check expiry of reset links.", input.QAContext)
}

func TestRunCommand_DefaultQAContext(t *testing.T) {
	path := writeTestFile(t, "story.yaml", `
title: Story without context
acceptance_criteria:
  - AC
`)

	runner := &MockRunner{Result: cannedResult()}
	app, _ := newTestApp(t, runner)
	app.Config.Pipeline.DefaultQAContext = "default context"

	err := executeCommand(t, app, "run", "--input", path)
	require.NoError(t, err)

	require.Len(t, runner.Inputs, 1)
	assert.Equal(t, "default context", runner.Inputs[0].QAContext)
}

func TestRunCommand_DefaultSessionIsUUID(t *testing.T) {
	runner := &MockRunner{Result: cannedResult()}
	app, _ := newTestApp(t, runner)

	err := executeCommand(t, app, "run", "--demo")
	require.NoError(t, err)

	require.Len(t, runner.Inputs, 1)
	_, parseErr := uuid.Parse(runner.Inputs[0].SessionID)
	assert.NoError(t, parseErr)
}

func TestRunCommand_PipelineFailure(t *testing.T) {
	runner := &MockRunner{Err: errors.New("model unavailable")}
	app, buf := newTestApp(t, runner)

	err := executeCommand(t, app, "run", "--demo")
	require.Error(t, err)

	code, ok := IsExitError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "pipeline run failed")
}

func TestRunCommand_Export(t *testing.T) {
	runner := &MockRunner{Result: cannedResult()}
	app, buf := newTestApp(t, runner)
	exportDir := t.TempDir()
	app.Exporter = export.NewExporter(exportDir)

	err := executeCommand(t, app, "run", "--demo", "--session", "sess-export", "--export")
	require.NoError(t, err)

	mdPath := filepath.Join(exportDir, "markdown", "sess-export.md")
	jsonPath := filepath.Join(exportDir, "json", "sess-export.json")
	assert.FileExists(t, mdPath)
	assert.FileExists(t, jsonPath)

	md, readErr := os.ReadFile(mdPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(md), "# QA Report:")
	assert.Contains(t, buf.String(), "exported")
}

func TestQueueCommand(t *testing.T) {
	path := writeTestFile(t, "batch.yaml", `
stories:
  - id: story-a
    title: First story
    acceptance_criteria:
      - AC one
  - title: Second story
    acceptance_criteria:
      - AC two
`)

	runner := &MockRunner{Result: cannedResult()}
	app, buf := newTestApp(t, runner)

	err := executeCommand(t, app, "queue", path)
	require.NoError(t, err)

	require.Len(t, runner.Inputs, 2)
	// Story id becomes the session id when present; otherwise a fresh UUID
	assert.Equal(t, "story-a", runner.Inputs[0].SessionID)
	_, parseErr := uuid.Parse(runner.Inputs[1].SessionID)
	assert.NoError(t, parseErr)
	assert.Contains(t, buf.String(), "queue complete: 2 stories")
}

func TestQueueCommand_StopsOnFailure(t *testing.T) {
	path := writeTestFile(t, "batch.yaml", `
stories:
  - title: First story
    acceptance_criteria:
      - AC
  - title: Second story
    acceptance_criteria:
      - AC
`)

	runner := &MockRunner{
		Result:     cannedResult(),
		FailOnCall: 1,
		FailErr:    errors.New("planner stage failed"),
	}
	app, buf := newTestApp(t, runner)

	err := executeCommand(t, app, "queue", path)
	require.Error(t, err)

	code, ok := IsExitError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	// Fail-fast: the second story never runs
	assert.Len(t, runner.Inputs, 1)
	assert.Contains(t, buf.String(), "queue stopped at story 1 of 2")
}

func TestQueueCommand_BadBatchFile(t *testing.T) {
	runner := &MockRunner{Result: cannedResult()}
	app, _ := newTestApp(t, runner)

	err := executeCommand(t, app, "queue", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	code, ok := IsExitError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Empty(t, runner.Inputs)
}

func TestEvaluateCommand_Files(t *testing.T) {
	plannerPath := writeTestFile(t, "planner.json", `{
		"scenarios": [{"scenario_id": "SC-1", "title": "Login"}]
	}`)
	testcasePath := writeTestFile(t, "testcase.json", `{
		"test_cases": [{
			"id": "TC-1",
			"title": "Covers SC-1",
			"steps": ["Given a user", "When they log in", "Then they see the dashboard"],
			"expected_result": "Dashboard shown"
		}]
	}`)

	app, buf := newTestApp(t, &MockRunner{Result: cannedResult()})

	err := executeCommand(t, app, "evaluate", "--planner", plannerPath, "--testcase", testcasePath)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Consistency")
	assert.Contains(t, out, "100.0 / 100")
}

func TestEvaluateCommand_MissingFlags(t *testing.T) {
	app, buf := newTestApp(t, &MockRunner{Result: cannedResult()})

	err := executeCommand(t, app, "evaluate")
	require.Error(t, err)

	code, ok := IsExitError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "--planner")
}

func TestEvaluateCommand_Session(t *testing.T) {
	app, buf := newTestApp(t, &MockRunner{Result: cannedResult()})

	require.NoError(t, app.Store.StartSession("sess-1", "Login", "ctx"))
	require.NoError(t, app.Store.SaveStageOutput("sess-1", session.StagePlanner, map[string]any{
		"scenarios": []any{map[string]any{"scenario_id": "SC-1", "title": "Login"}},
	}))
	require.NoError(t, app.Store.SaveStageOutput("sess-1", session.StageTestcase, map[string]any{
		"test_cases": []any{map[string]any{
			"id": "TC-1", "title": "Covers SC-1",
			"steps":           []any{"Given a user", "When they log in", "Then access granted"},
			"expected_result": "Access granted",
		}},
	}))

	err := executeCommand(t, app, "evaluate", "--session", "sess-1")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Consistency")
}

func TestEvaluateCommand_UnknownSession(t *testing.T) {
	app, buf := newTestApp(t, &MockRunner{Result: cannedResult()})

	err := executeCommand(t, app, "evaluate", "--session", "nope")
	require.Error(t, err)

	code, ok := IsExitError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "nope")
}

func TestSessionsCommand(t *testing.T) {
	app, buf := newTestApp(t, &MockRunner{Result: cannedResult()})
	require.NoError(t, app.Store.StartSession("sess-1", "Login", "ctx"))
	require.NoError(t, app.Store.StartSession("sess-2", "Logout", "ctx"))

	err := executeCommand(t, app, "sessions")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "sess-1")
	assert.Contains(t, out, "sess-2")
}

func TestExitError(t *testing.T) {
	err := NewExitError(3)
	assert.Equal(t, "exit status 3", err.Error())

	code, ok := IsExitError(err)
	assert.True(t, ok)
	assert.Equal(t, 3, code)

	code, ok = IsExitError(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, 0, code)
}
