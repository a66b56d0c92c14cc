package pipeline

// State is the orchestrator's position in a pipeline run.
//
// Runs move strictly forward through the sequence returned by [States];
// [StateFailed] is absorbing and reachable from any non-terminal state.
type State string

const (
	// StateInit is the starting state before the session is registered.
	StateInit State = "INIT"

	// StatePlanning covers the planning stage call.
	StatePlanning State = "PLANNING"

	// StateMemoryLookup covers the style-memory similarity query.
	StateMemoryLookup State = "MEMORY_LOOKUP"

	// StateGenerating covers the test case generation stage call.
	StateGenerating State = "GENERATING"

	// StateValidating covers the validation stage call.
	StateValidating State = "VALIDATING"

	// StatePersisted means every stage artifact has been checkpointed.
	StatePersisted State = "PERSISTED"

	// StateDone is the successful terminal state.
	StateDone State = "DONE"

	// StateFailed is the absorbing failure state.
	StateFailed State = "FAILED"
)

// States lists the forward progression of a successful run, in order.
var States = []State{
	StateInit,
	StatePlanning,
	StateMemoryLookup,
	StateGenerating,
	StateValidating,
	StatePersisted,
	StateDone,
}

// Terminal reports whether no further transitions are possible from s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransition reports whether a run may move from one state to another:
// either one step forward in the sequence, or into [StateFailed] from any
// non-terminal state.
func CanTransition(from, to State) bool {
	if to == StateFailed {
		return !from.Terminal()
	}
	for i, s := range States[:len(States)-1] {
		if s == from {
			return States[i+1] == to
		}
	}
	return false
}
