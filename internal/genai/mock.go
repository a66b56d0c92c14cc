package genai

import "context"

// MockClient is a [Client] for testing.
//
// Responses are returned in order, one per Complete call; when they run out
// the last response repeats. Err, when set, is returned by every call.
type MockClient struct {
	// Responses are the texts to return, in call order.
	Responses []string

	// Err causes every Complete call to fail when non-nil.
	Err error

	// RecordedPrompts captures every prompt passed to Complete.
	RecordedPrompts []string

	calls int
}

// Complete records the prompt and returns the next canned response.
func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	m.RecordedPrompts = append(m.RecordedPrompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}

	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := m.calls
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	m.calls++
	return m.Responses[idx], nil
}
