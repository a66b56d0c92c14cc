package stage

import "fmt"

// Stage instruction blocks. Each prompt demands strict JSON so the contract
// can decode the response; the fence-strip in Normalize absorbs models that
// wrap output in markdown anyway.

const plannerInstructions = `You are a senior QA analyst.

Break the user story into:
- 3-8 features
- Scenarios with ids SC-1, SC-2, ...
- Notes

Every acceptance criterion must be linked to at least one scenario.

Return ONLY strict JSON with this structure:
{
  "features": ["..."],
  "scenarios": [
    {
      "scenario_id": "SC-1",
      "title": "",
      "acceptance_criteria": "",
      "tags": []
    }
  ],
  "notes": ["..."],
  "acceptance_criteria_input": ["..."]
}`

const generatorInstructions = `You are a senior QA test case generator.

Convert the scenarios in planner_output into test cases. For EACH scenario,
generate 1-3 test cases. Use qa_context to influence style, and treat
similar_examples as style references for tone and level of detail.

ID rules: test_cases TC-1, TC-2...; edge_cases EC-1, EC-2...; bug_risks BR-1, BR-2...
Steps MUST be Gherkin style strings: 'Given ...', 'When ...', 'Then ...'.
Each test case must include at least one Given, one When, and one Then step.
For every scenario_id in planner_output.scenarios, at least one test case
must clearly reference that scenario in its title or steps.

Echo the original planner_output JSON under the key 'planner_output'.

DO NOT explain. Return ONLY strict JSON with this structure:
{
  "test_cases": [
    {
      "id": "TC-1",
      "title": "",
      "preconditions": [],
      "steps": ["Given ...", "When ...", "Then ..."],
      "expected_result": ""
    }
  ],
  "edge_cases": [{"id": "EC-1", "description": ""}],
  "bug_risks": [{"id": "BR-1", "description": ""}],
  "planner_output": {}
}`

const validatorInstructions = `You are a senior QA validator reviewing the ENTIRE pipeline output for
consistency, completeness, and quality.

Validate these cross-stage rules:
1. Every scenario in planner_output.scenarios maps to at least one test case.
2. Every test case has at least one Given, one When, and one Then step.
3. Expected results are specific and testable, not vague.
4. No duplicate test cases with the same title or identical steps.
5. Edge cases and bug risks are meaningful and related to the story.
6. Titles, scenario ids, and flows are consistent across artifacts.
7. Preferences stated in qa_context appear in the test cases or edge cases.

DO NOT modify the artifacts. Only evaluate and report.
DO NOT explain. Return ONLY strict JSON with this structure:
{
  "valid": true,
  "errors": ["..."],
  "warnings": ["..."]
}`

// buildPrompt combines the stage instructions with the serialized input
// payload.
func buildPrompt(kind Kind, payloadJSON string) string {
	var instructions string
	switch kind {
	case KindPlanner:
		instructions = plannerInstructions
	case KindGenerator:
		instructions = generatorInstructions
	case KindValidator:
		instructions = validatorInstructions
	}
	return fmt.Sprintf("%s\n\nInput:\n%s\n", instructions, payloadJSON)
}
