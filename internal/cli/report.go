package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"qasentinel/internal/evaluation"
	"qasentinel/internal/pipeline"
)

// markdownReport renders a completed run as a Markdown document for export.
func markdownReport(result *pipeline.Result, consistency evaluation.ConsistencyReport, quality evaluation.A2AReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# QA Report: %s\n\n", result.Title)
	fmt.Fprintf(&b, "- Session: `%s`\n", result.SessionID)
	fmt.Fprintf(&b, "- QA context: %s\n\n", result.QAContext)

	fmt.Fprintf(&b, "## Scores\n\n")
	fmt.Fprintf(&b, "| Evaluator | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Consistency | %.1f / 100 |\n", consistency.Score)
	fmt.Fprintf(&b, "| Quality | %.1f / 100 |\n\n", quality.OverallScore)

	fmt.Fprintf(&b, "Coverage: %d/%d scenarios (%.1f%%), %d test cases.\n\n",
		consistency.Coverage.CoveredScenarios,
		consistency.Coverage.TotalScenarios,
		consistency.Coverage.CoveragePercentage,
		consistency.Coverage.TotalTestCases)

	if len(consistency.Issues) > 0 {
		fmt.Fprintf(&b, "## Issues\n\n")
		for _, issue := range consistency.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	if len(quality.QualitativeReasoning) > 0 {
		fmt.Fprintf(&b, "## Assessment\n\n")
		for _, line := range quality.QualitativeReasoning {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	if len(quality.Recommendations) > 0 {
		fmt.Fprintf(&b, "## Recommendations\n\n")
		for _, rec := range quality.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Artifacts\n\n")
	writeArtifactSection(&b, "Scenario Plan", result.PlannerOutput)
	writeArtifactSection(&b, "Test Cases", result.TestcaseOutput)
	writeArtifactSection(&b, "Validation", result.GlobalValidationOutput)

	return b.String()
}

func writeArtifactSection(b *strings.Builder, title string, artifact map[string]any) {
	fmt.Fprintf(b, "### %s\n\n", title)
	encoded, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		fmt.Fprintf(b, "_unrenderable artifact: %v_\n\n", err)
		return
	}
	fmt.Fprintf(b, "```json\n%s\n```\n\n", encoded)
}
