package evaluation

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Component weights for the overall A2A score.
const (
	completenessWeight = 0.30
	qualityWeight      = 0.30
	alignmentWeight    = 0.25
	coverageWeight     = 0.15
)

// A2AReport is the result of [EvaluateA2A]: a meta-evaluation of the planner
// and generator artifacts in the style of one agent reviewing another's
// work, computed without any model call.
type A2AReport struct {
	// OverallScore is the weighted sum of the component scores, rounded to
	// two decimal places.
	OverallScore float64 `json:"overall_score"`

	// ComponentScores holds the individual completeness, quality, alignment,
	// and coverage scores (each 0-100).
	ComponentScores map[string]float64 `json:"component_scores"`

	// QualitativeReasoning explains each component's assessment in prose.
	QualitativeReasoning []string `json:"qualitative_reasoning"`

	// QuantitativeMetrics holds the raw counts and ratios behind the scores.
	QuantitativeMetrics map[string]any `json:"quantitative_metrics"`

	// Recommendations lists improvement suggestions triggered by weak
	// components. Each trigger contributes one fixed suggestion.
	Recommendations []string `json:"recommendations"`
}

// EvaluateA2A produces a weighted meta-evaluation of a planning artifact and
// a generation artifact.
//
// Components and weights:
//   - completeness (0.30): fraction of scenarios referenced by test cases
//   - quality (0.30): Given/When/Then structure and expected results
//   - alignment (0.25): planner outputs have corresponding test cases
//   - coverage (0.15): edge cases and bug risks identified
func EvaluateA2A(plannerOutput, testcaseOutput map[string]any) A2AReport {
	reasoning := []string{}
	metrics := map[string]any{}

	testCases := mapItems(sliceField(testcaseOutput, "test_cases"))

	completeness := evaluateCompleteness(plannerOutput, testCases, &reasoning, metrics)
	quality := evaluateQuality(testCases, &reasoning, metrics)
	alignment := evaluateAlignment(plannerOutput, testCases, &reasoning, metrics)
	coverage := evaluateRiskCoverage(plannerOutput, testcaseOutput, &reasoning, metrics)

	componentScores := map[string]float64{
		"completeness": completeness,
		"quality":      quality,
		"alignment":    alignment,
		"coverage":     coverage,
	}

	overall := completeness*completenessWeight +
		quality*qualityWeight +
		alignment*alignmentWeight +
		coverage*coverageWeight

	return A2AReport{
		OverallScore:         round2(overall),
		ComponentScores:      componentScores,
		QualitativeReasoning: reasoning,
		QuantitativeMetrics:  metrics,
		Recommendations:      buildRecommendations(componentScores, metrics),
	}
}

func evaluateCompleteness(plannerOutput map[string]any, testCases []map[string]any, reasoning *[]string, metrics map[string]any) float64 {
	ids := scenarioIDs(plannerOutput)

	covered := make(map[string]bool)
	for _, tc := range testCases {
		combined := combinedText(tc)
		for _, id := range ids {
			if strings.Contains(combined, strings.ToLower(id)) {
				covered[id] = true
			}
		}
	}

	ratio := 1.0
	if len(ids) > 0 {
		ratio = float64(len(covered)) / float64(len(ids))
	}

	var missing []string
	for _, id := range ids {
		if !covered[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)

	metrics["total_scenarios"] = len(ids)
	metrics["covered_scenarios"] = len(covered)
	metrics["coverage_ratio"] = math.Round(ratio*1000) / 1000

	switch {
	case ratio == 1.0:
		*reasoning = append(*reasoning, "All scenarios are covered by test cases. Excellent completeness.")
	case ratio >= 0.8:
		*reasoning = append(*reasoning, fmt.Sprintf(
			"Good coverage (%.1f%%), but %d scenario(s) lack test cases: %s",
			ratio*100, len(missing), strings.Join(missing, ", ")))
	default:
		*reasoning = append(*reasoning, fmt.Sprintf(
			"Low coverage (%.1f%%). Missing test cases for %d scenario(s): %s",
			ratio*100, len(missing), strings.Join(missing, ", ")))
	}

	return ratio * 100
}

func evaluateQuality(testCases []map[string]any, reasoning *[]string, metrics map[string]any) float64 {
	total := len(testCases)
	if total == 0 {
		metrics["total_test_cases"] = 0
		*reasoning = append(*reasoning, "No test cases found.")
		return 0
	}

	withGWT := 0
	withExpected := 0
	wellStructured := 0
	for _, tc := range testCases {
		hasGiven, hasWhen, hasThen, hasExpected := stepChecks(tc)
		if hasGiven && hasWhen && hasThen {
			withGWT++
		}
		if hasExpected {
			withExpected++
		}
		if hasGiven && hasWhen && hasThen && hasExpected {
			wellStructured++
		}
	}

	gwtRatio := float64(withGWT) / float64(total)
	expectedRatio := float64(withExpected) / float64(total)
	structuredRatio := float64(wellStructured) / float64(total)

	metrics["total_test_cases"] = total
	metrics["with_given_when_then"] = withGWT
	metrics["with_expected_result"] = withExpected
	metrics["well_structured"] = wellStructured

	switch {
	case structuredRatio >= 0.9:
		*reasoning = append(*reasoning, fmt.Sprintf(
			"Excellent test case quality: %d/%d are well-structured with Given/When/Then and expected results.",
			wellStructured, total))
	case structuredRatio >= 0.7:
		*reasoning = append(*reasoning, fmt.Sprintf(
			"Good test case quality: %d/%d are well-structured. Some test cases lack proper structure.",
			wellStructured, total))
	default:
		*reasoning = append(*reasoning, fmt.Sprintf(
			"Test case quality needs improvement: Only %d/%d are well-structured. Many lack Given/When/Then steps or expected results.",
			wellStructured, total))
	}

	return (gwtRatio*0.5 + expectedRatio*0.3 + structuredRatio*0.2) * 100
}

func evaluateAlignment(plannerOutput map[string]any, testCases []map[string]any, reasoning *[]string, metrics map[string]any) float64 {
	features := sliceField(plannerOutput, "features")
	scenarios := sliceField(plannerOutput, "scenarios")

	featureAlignment := len(features) > 0 && len(testCases) > 0
	scenarioAlignment := len(scenarios) > 0 && len(testCases) > 0

	metrics["planner_features"] = len(features)
	metrics["planner_scenarios"] = len(scenarios)
	metrics["test_cases"] = len(testCases)
	metrics["feature_alignment"] = featureAlignment
	metrics["scenario_alignment"] = scenarioAlignment

	if featureAlignment && scenarioAlignment {
		*reasoning = append(*reasoning, "Outputs are well-aligned: Test cases correspond to planner features and scenarios.")
		return 100
	}
	*reasoning = append(*reasoning, "Alignment issues detected: Some planner outputs lack corresponding test cases.")
	return 50
}

func evaluateRiskCoverage(plannerOutput, testcaseOutput map[string]any, reasoning *[]string, metrics map[string]any) float64 {
	edgeCases := len(sliceField(testcaseOutput, "edge_cases"))
	bugRisks := len(sliceField(testcaseOutput, "bug_risks"))

	edgeScore := math.Min(float64(edgeCases)*10, 50)
	riskScore := math.Min(float64(bugRisks)*10, 50)

	metrics["edge_cases"] = edgeCases
	metrics["bug_risks"] = bugRisks
	metrics["scenarios"] = len(sliceField(plannerOutput, "scenarios"))

	switch {
	case edgeCases > 0 && bugRisks > 0:
		*reasoning = append(*reasoning, fmt.Sprintf(
			"Good coverage: %d edge case(s) and %d bug risk(s) identified. This shows thorough testing consideration.",
			edgeCases, bugRisks))
	case edgeCases > 0:
		*reasoning = append(*reasoning, fmt.Sprintf(
			"Edge cases identified (%d), but no bug risks documented. Consider adding bug risk analysis.",
			edgeCases))
	case bugRisks > 0:
		*reasoning = append(*reasoning, fmt.Sprintf(
			"Bug risks identified (%d), but no edge cases documented. Consider adding edge case scenarios.",
			bugRisks))
	default:
		*reasoning = append(*reasoning,
			"No edge cases or bug risks identified. Consider adding edge case scenarios and bug risk analysis for more comprehensive testing.")
	}

	return edgeScore + riskScore
}

func buildRecommendations(componentScores map[string]float64, metrics map[string]any) []string {
	recommendations := []string{}

	if componentScores["completeness"] < 80 {
		recommendations = append(recommendations,
			"Improve scenario coverage: Ensure every scenario from the planner has at least one corresponding test case.")
	}
	if componentScores["quality"] < 80 {
		recommendations = append(recommendations,
			"Enhance test case structure: Ensure all test cases include Given/When/Then steps and expected results.")
	}
	if count, _ := metrics["edge_cases"].(int); count == 0 {
		recommendations = append(recommendations, "Add edge case scenarios to improve test coverage.")
	}
	if count, _ := metrics["bug_risks"].(int); count == 0 {
		recommendations = append(recommendations, "Document bug risks to help identify potential issues.")
	}

	mean := (componentScores["completeness"] + componentScores["quality"] +
		componentScores["alignment"] + componentScores["coverage"]) / 4
	if mean < 70 {
		recommendations = append(recommendations,
			"Overall quality needs improvement. Review planner output and test case generation for better alignment.")
	}

	return recommendations
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
