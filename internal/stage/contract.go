// Package stage adapts raw generative-model text into structured artifacts.
//
// Each pipeline stage (planning, generation, validation) is represented by a
// [Contract]: a pure adapter around a [genai.Client] that serializes the
// stage's input payload into a prompt, invokes the model, and normalizes the
// free-text response into a JSON mapping.
//
// A contract call is total with respect to model output: transport failures
// surface as errors, but unparseable model text never does. Malformed output
// becomes the sentinel artifact produced by [ErrorArtifact], keeping the
// failure observable without breaking the stage's return shape.
package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"qasentinel/internal/genai"
)

// Kind identifies which pipeline stage a [Contract] drives.
type Kind string

const (
	// KindPlanner breaks a user story into features and scenarios.
	KindPlanner Kind = "planner"

	// KindGenerator converts scenarios into test cases, edge cases, and bug
	// risks.
	KindGenerator Kind = "generator"

	// KindValidator reviews the planner and generator artifacts and emits a
	// verdict.
	KindValidator Kind = "validator"
)

// errInvalidOutput is the sentinel error field value marking an artifact that
// could not be parsed from model output.
const errInvalidOutput = "invalid output"

// Contract runs one generative stage and guarantees a structured result.
//
// Create with [NewContract]. The zero value is not usable.
type Contract struct {
	kind   Kind
	client genai.Client
}

// NewContract creates a [Contract] of the given kind backed by the given
// client.
func NewContract(kind Kind, client genai.Client) *Contract {
	return &Contract{kind: kind, client: client}
}

// Kind returns the stage kind this contract drives.
func (c *Contract) Kind() Kind {
	return c.kind
}

// Run invokes the stage with the given input payload.
//
// The payload is serialized as JSON and embedded in the stage's prompt. The
// model's response is fence-stripped and decoded; if decoding fails the
// sentinel artifact from [ErrorArtifact] is returned instead. The returned
// mapping is never nil when err is nil.
//
// An error is returned only when the payload cannot be serialized or the
// model call itself fails; model output problems never produce an error.
func (c *Contract) Run(ctx context.Context, payload map[string]any) (map[string]any, error) {
	input, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s stage: failed to encode input: %w", c.kind, err)
	}

	prompt := buildPrompt(c.kind, string(input))

	text, err := c.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s stage: %w", c.kind, err)
	}

	return Normalize(c.kind, text), nil
}

// Normalize converts raw model text into a structured artifact for the given
// stage kind: fence markers are stripped and the remainder decoded as a JSON
// mapping. Undecodable text yields the sentinel artifact from
// [ErrorArtifact] carrying the original text.
func Normalize(kind Kind, text string) map[string]any {
	stripped := StripFences(text)

	var artifact map[string]any
	if err := json.Unmarshal([]byte(stripped), &artifact); err != nil || artifact == nil {
		return ErrorArtifact(kind, text)
	}
	return artifact
}

// StripFences removes a leading markdown fence line (with optional language
// tag) and a trailing closing fence from text.
//
// The strip is a prefix/suffix operation only; interior content is never
// modified. Text without a leading fence is returned trimmed.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	// Drop the opening marker line, language tag included.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}

	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// ErrorArtifact builds the sentinel artifact for model output that could not
// be parsed. The original text is preserved under "raw_output" so the
// failure is observable downstream. Validator-stage sentinels additionally
// carry "valid": false so verdict consumers read them as a rejection.
func ErrorArtifact(kind Kind, raw string) map[string]any {
	artifact := map[string]any{
		"error":      errInvalidOutput,
		"raw_output": raw,
	}
	if kind == KindValidator {
		artifact["valid"] = false
	}
	return artifact
}

// IsErrorArtifact reports whether the artifact is the sentinel shape
// produced by [ErrorArtifact].
func IsErrorArtifact(artifact map[string]any) bool {
	if artifact == nil {
		return true
	}
	msg, ok := artifact["error"].(string)
	if !ok {
		return false
	}
	_, hasRaw := artifact["raw_output"]
	return msg == errInvalidOutput && hasRaw
}
