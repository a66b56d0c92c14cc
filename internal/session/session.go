// Package session tracks per-run pipeline state keyed by session identifier.
//
// A [Session] holds the story metadata captured when the run starts plus one
// artifact slot per pipeline stage. The [Store] keeps sessions in memory for
// the lifetime of the process; it is intentionally not a persistent store,
// and the interface is kept narrow so a database-backed implementation can
// replace it without touching the orchestrator.
//
// Key types:
//   - [Store] - In-memory session container with duplicate-id protection
//   - [Session] - Per-run state record with fixed stage slots
//   - [Stage] - Typed name of an artifact slot
//
// The store performs no internal locking. Distinct sessions may be driven
// from separate goroutines, but writes to the same session id, or concurrent
// StartSession calls, must be serialized by the caller.
package session

import (
	"time"
)

// Stage identifies one of the fixed artifact slots of a session.
//
// Only the four declared constants are accepted by [Store.SaveStageOutput];
// any other value fails with [ErrInvalidStage].
type Stage string

const (
	// StagePlanner holds the feature/scenario breakdown produced by the
	// planning stage.
	StagePlanner Stage = "planner_output"

	// StageTestcase holds the test cases, edge cases, and bug risks produced
	// by the generation stage.
	StageTestcase Stage = "testcase_output"

	// StageAutomation is reserved for automation artifacts. No pipeline stage
	// writes it today, but the slot exists on every session.
	StageAutomation Stage = "automation_output"

	// StageGlobalValidation holds the validator stage verdict.
	StageGlobalValidation Stage = "global_validation_output"
)

// Stages lists all valid stage names in pipeline order.
var Stages = []Stage{
	StagePlanner,
	StageTestcase,
	StageAutomation,
	StageGlobalValidation,
}

// IsValid reports whether s is one of the four declared stage names.
func (s Stage) IsValid() bool {
	switch s {
	case StagePlanner, StageTestcase, StageAutomation, StageGlobalValidation:
		return true
	}
	return false
}

// Metadata captures the story information recorded when a session starts.
type Metadata struct {
	// Title is the user story title.
	Title string

	// QAContext describes the QA preferences that condition the run.
	QAContext string

	// CreatedAt is when the session was started.
	CreatedAt time.Time
}

// Session is the per-run state record.
//
// Stage slots start absent (nil map entry) and are filled by the orchestrator
// as stages complete. Slots may be overwritten; a repeated write replaces the
// previous artifact. Artifacts are stored as received and never re-validated
// here.
type Session struct {
	// ID is the caller-supplied session identifier, unique across the store.
	ID string

	// Metadata is the story information captured at start.
	Metadata Metadata

	// Stages maps each fixed stage name to its artifact, or to nil while the
	// stage has not produced output yet.
	Stages map[Stage]map[string]any
}

// StageOutput returns the artifact stored for the given stage and whether the
// stage has produced output yet.
func (s *Session) StageOutput(stage Stage) (map[string]any, bool) {
	data, ok := s.Stages[stage]
	if !ok || data == nil {
		return nil, false
	}
	return data, true
}
