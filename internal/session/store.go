package session

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for store operations.
var (
	// ErrDuplicateSession indicates StartSession was called with an id that
	// already exists. The caller should pick a fresh id and retry the whole
	// run; the existing session is left untouched.
	ErrDuplicateSession = errors.New("session already exists")

	// ErrUnknownSession indicates an operation referenced a session id that
	// was never started.
	ErrUnknownSession = errors.New("session does not exist")

	// ErrInvalidStage indicates SaveStageOutput was called with a stage name
	// outside the fixed set declared by [Stages].
	ErrInvalidStage = errors.New("invalid stage name")
)

// Store is an in-memory session container.
//
// Create with [NewStore]. The zero value is not usable.
type Store struct {
	sessions map[string]*Session
}

// NewStore creates an empty [Store].
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// StartSession creates a new session with the given id and story metadata.
//
// All four stage slots are initialized to absent. Returns
// [ErrDuplicateSession] (wrapped with the offending id) if the id is already
// present; in that case no state changes.
func (st *Store) StartSession(id, title, qaContext string) error {
	if _, ok := st.sessions[id]; ok {
		return fmt.Errorf("session %q: %w", id, ErrDuplicateSession)
	}

	st.sessions[id] = &Session{
		ID: id,
		Metadata: Metadata{
			Title:     title,
			QAContext: qaContext,
			CreatedAt: time.Now(),
		},
		Stages: map[Stage]map[string]any{
			StagePlanner:          nil,
			StageTestcase:         nil,
			StageAutomation:       nil,
			StageGlobalValidation: nil,
		},
	}
	return nil
}

// SaveStageOutput stores a stage artifact on an existing session.
//
// The write is idempotent: saving to an already-populated slot replaces the
// previous value. Returns [ErrUnknownSession] if the id was never started and
// [ErrInvalidStage] if the stage name is not one of the fixed four.
func (st *Store) SaveStageOutput(id string, stage Stage, data map[string]any) error {
	sess, ok := st.sessions[id]
	if !ok {
		return fmt.Errorf("session %q: %w", id, ErrUnknownSession)
	}
	if !stage.IsValid() {
		return fmt.Errorf("stage %q: %w", stage, ErrInvalidStage)
	}

	sess.Stages[stage] = data
	return nil
}

// GetSession returns the session for the given id, or (nil, false) if the id
// is unknown. The returned session is the live record, not a copy.
func (st *Store) GetSession(id string) (*Session, bool) {
	sess, ok := st.sessions[id]
	return sess, ok
}

// ListSessions returns all known session ids. Order is not specified.
func (st *Store) ListSessions() []string {
	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	return ids
}
