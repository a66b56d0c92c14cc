// Package memory provides the append-only style memory used to condition
// test case generation on past runs.
//
// [Memory] stores one [Example] per completed pipeline run and retrieves the
// most similar past examples by lexical title overlap. The similarity is
// deliberately simple (token intersection plus a substring bonus) and the
// interface is shaped so an embedding-backed implementation can replace it
// later without changing callers.
//
// The store performs no internal locking; concurrent SaveExample calls must
// be serialized by the caller.
package memory

import (
	"sort"
	"strings"
	"unicode"
)

// Example is one remembered pipeline run. Examples are immutable once saved
// and kept in arrival order; ordering carries no meaning beyond stable
// tie-breaking during similarity ranking.
type Example struct {
	// StoryID identifies the run, normally the session id.
	StoryID string `yaml:"story_id" json:"story_id"`

	// Title is the user story title the similarity lookup matches against.
	Title string `yaml:"title" json:"title"`

	// AcceptanceCriteria are the input criteria of the remembered story.
	AcceptanceCriteria []string `yaml:"acceptance_criteria" json:"acceptance_criteria"`

	// PlannerOutput is the planning stage artifact of the remembered run.
	PlannerOutput map[string]any `yaml:"planner_output" json:"planner_output"`

	// TestcaseOutput is the generation stage artifact of the remembered run.
	TestcaseOutput map[string]any `yaml:"testcase_output" json:"testcase_output"`

	// QAContext is the QA preference string the run was conditioned on.
	QAContext string `yaml:"qa_context" json:"qa_context"`
}

// Memory is an in-memory append-only example store.
//
// Create with [New]. The zero value is usable but New keeps call sites
// uniform with the other stores.
type Memory struct {
	examples []Example
}

// New creates an empty [Memory].
func New() *Memory {
	return &Memory{}
}

// SaveExample appends one example. It never rejects input and never
// deduplicates; saving the same story twice stores it twice.
func (m *Memory) SaveExample(ex Example) {
	m.examples = append(m.examples, ex)
}

// SimilarExamples returns up to topK stored examples whose titles are
// lexically similar to queryTitle, most similar first.
//
// Each example scores the size of the intersection between the lowercase
// token sets of the two titles, plus 1 when either lowercased title is a
// substring of the other. Examples scoring 0 are excluded. Ties keep
// insertion order. Returns an empty slice when nothing matches or the store
// is empty.
func (m *Memory) SimilarExamples(queryTitle string, topK int) []Example {
	if len(m.examples) == 0 || topK <= 0 {
		return []Example{}
	}

	queryLower := strings.ToLower(queryTitle)
	queryTokens := tokenize(queryLower)

	type scored struct {
		score   int
		example Example
	}
	var matches []scored

	for _, ex := range m.examples {
		titleLower := strings.ToLower(ex.Title)
		titleTokens := tokenize(titleLower)

		score := 0
		for tok := range queryTokens {
			if titleTokens[tok] {
				score++
			}
		}
		if strings.Contains(titleLower, queryLower) || strings.Contains(queryLower, titleLower) {
			score++
		}

		if score > 0 {
			matches = append(matches, scored{score: score, example: ex})
		}
	}

	// Stable keeps insertion order among equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}

	result := make([]Example, len(matches))
	for i, sc := range matches {
		result[i] = sc.example
	}
	return result
}

// All returns a copy of every stored example in arrival order.
func (m *Memory) All() []Example {
	out := make([]Example, len(m.examples))
	copy(out, m.examples)
	return out
}

// Clear removes all stored examples. Useful for resetting between
// evaluation runs.
func (m *Memory) Clear() {
	m.examples = nil
}

// Len returns the number of stored examples.
func (m *Memory) Len() int {
	return len(m.examples)
}

// tokenize splits s into its set of alphanumeric runs. The input is expected
// to be lowercased already.
func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[tok] = true
	}
	return tokens
}
