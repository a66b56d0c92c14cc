// Package output renders pipeline progress and reports to the terminal.
//
// The [Printer] is the single point where styling happens; everything else
// in the codebase hands it structured values and lets it decide how they
// look. Styling uses lipgloss and degrades gracefully on dumb terminals.
//
// Create a printer with [NewPrinter] for stdout, or
// [NewPrinterWithWriter] to capture output in tests.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qasentinel/internal/evaluation"
	"qasentinel/internal/export"
	"qasentinel/internal/pipeline"
)

// Printer writes styled terminal output.
type Printer struct {
	w io.Writer

	headerStyle  lipgloss.Style
	stageStyle   lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	warnStyle    lipgloss.Style
	dimStyle     lipgloss.Style
	scoreStyle   lipgloss.Style
}

// NewPrinter creates a [Printer] writing to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a [Printer] writing to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{
		w:            w,
		headerStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		stageStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		successStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		errorStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		warnStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		dimStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		scoreStyle:   lipgloss.NewStyle().Bold(true),
	}
}

// Header prints a bold section header.
func (p *Printer) Header(text string) {
	fmt.Fprintln(p.w, p.headerStyle.Render(text))
}

// Stage prints a pipeline stage transition.
func (p *Printer) Stage(name string) {
	fmt.Fprintln(p.w, p.stageStyle.Render("▸ "+name))
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.w, p.errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.warnStyle.Render("! "+fmt.Sprintf(format, args...)))
}

// Info prints a plain informational line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.w, fmt.Sprintf(format, args...))
}

// Dim prints a de-emphasized line.
func (p *Printer) Dim(format string, args ...any) {
	fmt.Fprintln(p.w, p.dimStyle.Render(fmt.Sprintf(format, args...)))
}

// PipelineResult prints a summary of a completed run: counts of
// scenarios, test cases, edge cases and bug risks, plus the validation
// verdict.
func (p *Printer) PipelineResult(result *pipeline.Result) {
	p.Header("Run " + result.SessionID)
	p.Info("  Story: %s", result.Title)

	p.Info("  Scenarios:  %d", countItems(result.PlannerOutput, "scenarios"))
	p.Info("  Test cases: %d", countItems(result.TestcaseOutput, "test_cases"))
	p.Info("  Edge cases: %d", countItems(result.TestcaseOutput, "edge_cases"))
	p.Info("  Bug risks:  %d", countItems(result.TestcaseOutput, "bug_risks"))

	if valid, ok := result.GlobalValidationOutput["valid"].(bool); ok && valid {
		p.Success("validation passed")
	} else {
		p.Warn("validation reported issues")
		for _, e := range stringList(result.GlobalValidationOutput, "errors") {
			p.Error("  %s", e)
		}
	}
	for _, w := range stringList(result.GlobalValidationOutput, "warnings") {
		p.Warn("  %s", w)
	}
}

// ConsistencyReport prints a consistency evaluation: score, coverage,
// and the list of issues.
func (p *Printer) ConsistencyReport(report evaluation.ConsistencyReport) {
	p.Header("Consistency")
	fmt.Fprintf(p.w, "  Score: %s\n", p.scoreStyle.Render(fmt.Sprintf("%.1f / 100", report.Score)))
	p.Info("  Coverage: %d/%d scenarios (%.1f%%)",
		report.Coverage.CoveredScenarios,
		report.Coverage.TotalScenarios,
		report.Coverage.CoveragePercentage)

	if len(report.Issues) == 0 {
		p.Success("no issues found")
		return
	}
	for _, issue := range report.Issues {
		p.Warn("  %s", issue)
	}
}

// A2AReport prints a quality evaluation: overall score, per-component
// scores in stable order, reasoning, and recommendations.
func (p *Printer) A2AReport(report evaluation.A2AReport) {
	p.Header("Quality")
	fmt.Fprintf(p.w, "  Overall: %s\n", p.scoreStyle.Render(fmt.Sprintf("%.1f / 100", report.OverallScore)))

	components := make([]string, 0, len(report.ComponentScores))
	for name := range report.ComponentScores {
		components = append(components, name)
	}
	sort.Strings(components)
	for _, name := range components {
		p.Info("  %-14s %.1f", name, report.ComponentScores[name])
	}

	for _, line := range report.QualitativeReasoning {
		p.Dim("  %s", line)
	}
	if len(report.Recommendations) > 0 {
		p.Info("  Recommendations:")
		for _, rec := range report.Recommendations {
			p.Warn("  %s", rec)
		}
	}
}

// Sessions prints the known session identifiers.
func (p *Printer) Sessions(ids []string) {
	p.Header("Sessions")
	if len(ids) == 0 {
		p.Dim("  no sessions recorded")
		return
	}
	for _, id := range ids {
		p.Info("  %s", id)
	}
}

// Export prints the location of a written export.
func (p *Printer) Export(result *export.Result) {
	p.Success("exported %s (%d bytes)", result.Path, result.BytesWritten)
}

// countItems returns the length of a list-valued field in an artifact.
func countItems(artifact map[string]any, field string) int {
	items, _ := artifact[field].([]any)
	return len(items)
}

// stringList extracts string entries from a list-valued field.
func stringList(artifact map[string]any, field string) []string {
	items, _ := artifact[field].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
