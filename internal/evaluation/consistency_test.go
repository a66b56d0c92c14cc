package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannerArtifact(ids ...string) map[string]any {
	scenarios := make([]any, len(ids))
	for i, id := range ids {
		scenarios[i] = map[string]any{
			"scenario_id":         id,
			"title":               "Scenario " + id,
			"acceptance_criteria": "criterion",
			"tags":                []any{"functional"},
		}
	}
	return map[string]any{
		"features":  []any{"Feature under test"},
		"scenarios": scenarios,
		"notes":     []any{},
	}
}

func testCase(id, title string, steps []any, expected string) map[string]any {
	return map[string]any{
		"id":              id,
		"title":           title,
		"preconditions":   []any{},
		"steps":           steps,
		"expected_result": expected,
	}
}

func TestEvaluateConsistency_PerfectScore(t *testing.T) {
	planner := plannerArtifact("SC-1")
	testcases := map[string]any{
		"test_cases": []any{
			testCase("TC-1", "Covers SC-1",
				[]any{"Given X", "When Y", "Then Z"}, "Z happens"),
		},
	}

	report := EvaluateConsistency(planner, testcases)

	assert.Equal(t, 100.0, report.Score)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 1, report.Coverage.TotalScenarios)
	assert.Equal(t, 1, report.Coverage.CoveredScenarios)
	assert.Equal(t, 1, report.Coverage.TotalTestCases)
	assert.Equal(t, 100.0, report.Coverage.CoveragePercentage)
}

func TestEvaluateConsistency_UncoveredScenario(t *testing.T) {
	planner := plannerArtifact("SC-1", "SC-2")
	testcases := map[string]any{
		"test_cases": []any{
			testCase("TC-1", "Covers SC-1",
				[]any{"Given X", "When Y", "Then Z"}, "Z happens"),
		},
	}

	report := EvaluateConsistency(planner, testcases)

	// -20 for the uncovered scenario, nothing else
	assert.Equal(t, 80.0, report.Score)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "SC-2")
	assert.Equal(t, 1, report.Coverage.CoveredScenarios)
	assert.Equal(t, 50.0, report.Coverage.CoveragePercentage)
}

func TestEvaluateConsistency_QualityDeductions(t *testing.T) {
	planner := plannerArtifact("SC-1")
	// References SC-1 but has no Then step and no expected result
	testcases := map[string]any{
		"test_cases": []any{
			testCase("TC-1", "Covers SC-1",
				[]any{"Given X", "When Y"}, ""),
		},
	}

	report := EvaluateConsistency(planner, testcases)

	// -5 missing Then, -5 missing expected_result
	assert.Equal(t, 90.0, report.Score)
	assert.Contains(t, report.Issues, "Test case TC-1 missing 'Then' step")
	assert.Contains(t, report.Issues, "Test case TC-1 missing expected_result")
}

func TestEvaluateConsistency_OrphanTestCase(t *testing.T) {
	planner := plannerArtifact("SC-1")
	testcases := map[string]any{
		"test_cases": []any{
			testCase("TC-1", "Covers SC-1",
				[]any{"Given X", "When Y", "Then Z"}, "Z happens"),
			testCase("TC-2", "Unrelated check",
				[]any{"Given A", "When B", "Then C"}, "C happens"),
		},
	}

	report := EvaluateConsistency(planner, testcases)

	// -3 for TC-2 referencing no scenario
	assert.Equal(t, 97.0, report.Score)
	assert.Contains(t, report.Issues, "Test case TC-2 does not reference any scenario")
}

func TestEvaluateConsistency_DeductionsStack(t *testing.T) {
	planner := plannerArtifact("SC-1")
	// One test case triggering quality and consistency deductions at once
	testcases := map[string]any{
		"test_cases": []any{
			testCase("TC-1", "No reference here", []any{}, ""),
		},
	}

	report := EvaluateConsistency(planner, testcases)

	// -20 coverage, -5*4 quality, -3 consistency: all apply independently
	assert.Equal(t, 100.0-20-20-3, report.Score)
}

func TestEvaluateConsistency_EmptyArtifacts(t *testing.T) {
	report := EvaluateConsistency(map[string]any{}, map[string]any{})

	// No scenarios means coverage is vacuously full; only the structure
	// deductions apply (scenarios, features, test_cases all missing).
	assert.Equal(t, 100.0, report.Coverage.CoveragePercentage)
	assert.Equal(t, 100.0-3*10, report.Score)
	assert.Len(t, report.Issues, 3)
	assert.Equal(t, 0, report.Coverage.TotalScenarios)
	assert.Equal(t, 0, report.Coverage.TotalTestCases)
}

func TestEvaluateConsistency_NilArtifacts(t *testing.T) {
	report := EvaluateConsistency(nil, nil)

	assert.Equal(t, 100.0-3*10, report.Score)
	assert.Equal(t, 100.0, report.Coverage.CoveragePercentage)
}

func TestEvaluateConsistency_PrefixMatching(t *testing.T) {
	// SC-1 matches inside SC-10 by design; the substring rule is intentional.
	planner := plannerArtifact("SC-1")
	testcases := map[string]any{
		"test_cases": []any{
			testCase("TC-1", "Covers SC-10",
				[]any{"Given X", "When Y", "Then Z"}, "Z happens"),
		},
	}

	report := EvaluateConsistency(planner, testcases)
	assert.Equal(t, 1, report.Coverage.CoveredScenarios)
}

func TestEvaluateConsistency_ScoreFloor(t *testing.T) {
	planner := plannerArtifact("SC-1", "SC-2", "SC-3")
	var cases []any
	for i := 0; i < 10; i++ {
		cases = append(cases, testCase("TC-x", "No reference", []any{}, ""))
	}
	testcases := map[string]any{"test_cases": cases}

	report := EvaluateConsistency(planner, testcases)
	assert.Equal(t, 0.0, report.Score)
}
