package pipeline

import (
	"errors"
	"fmt"

	"qasentinel/internal/stage"
)

// ErrUnusableArtifact indicates a stage returned output the pipeline cannot
// proceed with: the contract's sentinel error artifact or an empty mapping.
var ErrUnusableArtifact = errors.New("stage produced unusable output")

// StageError is a fatal pipeline failure attributed to a specific stage.
//
// The underlying cause is preserved for errors.Is/As inspection; session
// state persisted before the failing stage is left intact.
type StageError struct {
	// Stage names the stage the failure is attributed to.
	Stage stage.Kind

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface with stage attribution.
func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed at %s stage: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

// newStageError wraps err with stage attribution.
func newStageError(kind stage.Kind, err error) *StageError {
	return &StageError{Stage: kind, Err: err}
}
