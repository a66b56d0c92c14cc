package evaluation

import (
	"fmt"
	"sort"
	"strings"
)

// Deduction weights for the consistency score.
const (
	coverageDeduction    = 20 // any scenario left without a test case
	qualityDeduction     = 5  // per missing Given/When/Then step or expected result
	consistencyDeduction = 3  // per test case that references no scenario
	structureDeduction   = 10 // per missing top-level artifact field
)

// CoverageMetrics summarizes how well test cases cover planner scenarios.
type CoverageMetrics struct {
	// TotalScenarios is the number of distinct scenario ids in the planner
	// artifact.
	TotalScenarios int `json:"total_scenarios"`

	// CoveredScenarios is the number of scenario ids referenced by at least
	// one test case.
	CoveredScenarios int `json:"covered_scenarios"`

	// TotalTestCases is the number of test cases in the generation artifact.
	TotalTestCases int `json:"total_test_cases"`

	// CoveragePercentage is covered/total as a percentage. 100 when the
	// planner produced no scenarios (vacuously full coverage).
	CoveragePercentage float64 `json:"coverage_percentage"`
}

// ConsistencyReport is the result of [EvaluateConsistency].
type ConsistencyReport struct {
	// Score is 100 minus all deductions, floored at 0.
	Score float64 `json:"score"`

	// Issues describes each problem found, one line per deduction source.
	Issues []string `json:"issues"`

	// Coverage holds the scenario coverage metrics.
	Coverage CoverageMetrics `json:"coverage"`
}

// EvaluateConsistency scores the agreement between a planning artifact and a
// generation artifact.
//
// Deductions are additive and independent; when several categories apply to
// the same test case, all of them count. Checks:
//   - coverage: every scenario referenced by ≥1 test case (−20 once if any
//     is missed)
//   - quality: each test case has Given, When, Then, and an expected result
//     (−5 per missing element)
//   - consistency: each test case references some scenario (−3 per orphan,
//     only when scenarios exist)
//   - structure: planner has scenarios and features, generation artifact has
//     test_cases (−10 per missing field)
func EvaluateConsistency(plannerOutput, testcaseOutput map[string]any) ConsistencyReport {
	issues := []string{}
	deductions := 0

	ids := scenarioIDs(plannerOutput)
	testCases := mapItems(sliceField(testcaseOutput, "test_cases"))

	// Coverage: which scenarios appear in some test case's title or steps.
	covered := make(map[string]bool)
	for _, tc := range testCases {
		combined := combinedText(tc)
		for _, id := range ids {
			if mentionsScenario(combined, id) {
				covered[id] = true
			}
		}
	}

	var missing []string
	for _, id := range ids {
		if !covered[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		deductions += coverageDeduction
		issues = append(issues, fmt.Sprintf("Missing test cases for scenarios: %s", strings.Join(missing, ", ")))
	}

	// Quality: Given/When/Then structure and expected result per test case.
	for _, tc := range testCases {
		tcID := stringField(tc, "id")
		if tcID == "" {
			tcID = "unknown"
		}
		hasGiven, hasWhen, hasThen, hasExpected := stepChecks(tc)

		if !hasGiven {
			deductions += qualityDeduction
			issues = append(issues, fmt.Sprintf("Test case %s missing 'Given' step", tcID))
		}
		if !hasWhen {
			deductions += qualityDeduction
			issues = append(issues, fmt.Sprintf("Test case %s missing 'When' step", tcID))
		}
		if !hasThen {
			deductions += qualityDeduction
			issues = append(issues, fmt.Sprintf("Test case %s missing 'Then' step", tcID))
		}
		if !hasExpected {
			deductions += qualityDeduction
			issues = append(issues, fmt.Sprintf("Test case %s missing expected_result", tcID))
		}
	}

	// Consistency: every test case should reference at least one scenario.
	if len(ids) > 0 {
		for _, tc := range testCases {
			combined := combinedText(tc)
			references := false
			for _, id := range ids {
				if mentionsScenario(combined, id) {
					references = true
					break
				}
			}
			if !references {
				tcID := stringField(tc, "id")
				if tcID == "" {
					tcID = "unknown"
				}
				deductions += consistencyDeduction
				issues = append(issues, fmt.Sprintf("Test case %s does not reference any scenario", tcID))
			}
		}
	}

	// Structure: required top-level fields on both artifacts.
	if len(sliceField(plannerOutput, "scenarios")) == 0 {
		deductions += structureDeduction
		issues = append(issues, "planner_output missing 'scenarios' field")
	}
	if len(sliceField(plannerOutput, "features")) == 0 {
		deductions += structureDeduction
		issues = append(issues, "planner_output missing 'features' field")
	}
	if len(sliceField(testcaseOutput, "test_cases")) == 0 {
		deductions += structureDeduction
		issues = append(issues, "testcase_output missing 'test_cases' field")
	}

	score := float64(100 - deductions)
	if score < 0 {
		score = 0
	}

	coveragePct := 100.0
	if len(ids) > 0 {
		coveragePct = float64(len(ids)-len(missing)) / float64(len(ids)) * 100
	}

	return ConsistencyReport{
		Score:  score,
		Issues: issues,
		Coverage: CoverageMetrics{
			TotalScenarios:     len(ids),
			CoveredScenarios:   len(ids) - len(missing),
			TotalTestCases:     len(testCases),
			CoveragePercentage: coveragePct,
		},
	}
}
