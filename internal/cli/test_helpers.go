package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"qasentinel/internal/config"
	"qasentinel/internal/export"
	"qasentinel/internal/memory"
	"qasentinel/internal/output"
	"qasentinel/internal/pipeline"
	"qasentinel/internal/session"
)

// MockRunner is a PipelineRunner for testing.
type MockRunner struct {
	// Inputs records every RunPipeline invocation in order.
	Inputs []pipeline.Input
	// Result is returned on success.
	Result *pipeline.Result
	// Err, when set, fails every invocation.
	Err error
	// FailOnCall, when > 0, fails only the Nth invocation.
	FailOnCall int
	// FailErr is the error used by FailOnCall.
	FailErr error
}

func (m *MockRunner) RunPipeline(ctx context.Context, input pipeline.Input) (*pipeline.Result, error) {
	m.Inputs = append(m.Inputs, input)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.FailOnCall > 0 && len(m.Inputs) == m.FailOnCall {
		return nil, m.FailErr
	}

	result := *m.Result
	result.SessionID = input.SessionID
	result.Title = input.Title
	result.QAContext = input.QAContext
	return &result, nil
}

// cannedResult returns a plausible pipeline result with one covered scenario.
func cannedResult() *pipeline.Result {
	return &pipeline.Result{
		PlannerOutput: map[string]any{
			"scenarios": []any{
				map[string]any{"scenario_id": "SC-1", "title": "Update name"},
			},
		},
		TestcaseOutput: map[string]any{
			"test_cases": []any{
				map[string]any{
					"id":    "TC-1",
					"title": "Covers SC-1",
					"steps": []any{
						"Given a logged-in user",
						"When they change their name",
						"Then the profile shows the new name",
					},
					"expected_result": "Name is updated",
				},
			},
			"edge_cases": []any{},
			"bug_risks":  []any{},
		},
		GlobalValidationOutput: map[string]any{
			"valid":    true,
			"errors":   []any{},
			"warnings": []any{},
		},
	}
}

// newTestApp builds an App with a mock runner, capture-buffer printer, and
// a temp-dir exporter.
func newTestApp(t *testing.T, runner *MockRunner) (*App, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	return &App{
		Config:   config.DefaultConfig(),
		Store:    session.NewStore(),
		Memory:   memory.New(),
		Runner:   runner,
		Exporter: export.NewExporter(t.TempDir()),
		Printer:  output.NewPrinterWithWriter(buf),
		Logger:   zap.NewNop(),
	}, buf
}

// writeTestFile writes content to a file in a temp dir and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}
