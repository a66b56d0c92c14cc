// Package evaluation scores pipeline artifacts deterministically.
//
// Two independent evaluators consume the planning and generation artifacts
// after a run, without any further model calls:
//   - [EvaluateConsistency] - deduction-based consistency score with issues
//   - [EvaluateA2A] - weighted component scores with qualitative reasoning
//
// Both evaluators are pure functions and tolerate malformed artifacts:
// absent lists and fields are treated as empty, every ratio defines its
// zero-denominator case explicitly, and neither ever returns an error.
//
// Scenario coverage is textual on purpose: a scenario is covered when a test
// case's title or steps mention its id as a case-insensitive substring. This
// can false-positive when one id is a prefix of another (SC-1 inside SC-10);
// the behavior is kept as-is because tightening it would shift scores for
// existing artifacts.
package evaluation

import (
	"strings"
)

// sliceField returns the list stored under key, or nil when the field is
// absent or not a list.
func sliceField(artifact map[string]any, key string) []any {
	if artifact == nil {
		return nil
	}
	list, _ := artifact[key].([]any)
	return list
}

// mapItems filters a decoded list down to its mapping elements.
func mapItems(list []any) []map[string]any {
	items := make([]map[string]any, 0, len(list))
	for _, el := range list {
		if m, ok := el.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// stringField returns the string stored under key, or "" when the field is
// absent or not a string.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// stringItems filters a decoded list down to its string elements.
func stringItems(list []any) []string {
	items := make([]string, 0, len(list))
	for _, el := range list {
		if s, ok := el.(string); ok {
			items = append(items, s)
		}
	}
	return items
}

// scenarioIDs extracts the unique scenario ids from a planner artifact,
// preserving first-seen order.
func scenarioIDs(plannerOutput map[string]any) []string {
	scenarios := mapItems(sliceField(plannerOutput, "scenarios"))

	seen := make(map[string]bool)
	var ids []string
	for _, sc := range scenarios {
		id := stringField(sc, "scenario_id")
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// combinedText concatenates a test case's title and steps, lowercased, for
// scenario-id substring matching.
func combinedText(testCase map[string]any) string {
	title := strings.ToLower(stringField(testCase, "title"))
	steps := stringItems(sliceField(testCase, "steps"))
	return title + " " + strings.ToLower(strings.Join(steps, " "))
}

// mentionsScenario reports whether the combined test case text references the
// scenario id, bare or prefixed with the word "scenario".
func mentionsScenario(combined, scenarioID string) bool {
	id := strings.ToLower(scenarioID)
	return strings.Contains(combined, id) || strings.Contains(combined, "scenario "+id)
}

// stepChecks reports which of the Given/When/Then step kinds a test case
// contains and whether it has a non-empty expected result.
func stepChecks(testCase map[string]any) (hasGiven, hasWhen, hasThen, hasExpected bool) {
	for _, step := range stringItems(sliceField(testCase, "steps")) {
		lowered := strings.ToLower(strings.TrimSpace(step))
		switch {
		case strings.HasPrefix(lowered, "given"):
			hasGiven = true
		case strings.HasPrefix(lowered, "when"):
			hasWhen = true
		case strings.HasPrefix(lowered, "then"):
			hasThen = true
		}
	}
	hasExpected = stringField(testCase, "expected_result") != ""
	return hasGiven, hasWhen, hasThen, hasExpected
}
