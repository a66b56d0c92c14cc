package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_StartSession(t *testing.T) {
	store := NewStore()

	err := store.StartSession("sess-1", "User login", "focus on negative testing")
	require.NoError(t, err)

	sess, ok := store.GetSession("sess-1")
	require.True(t, ok)
	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, "User login", sess.Metadata.Title)
	assert.Equal(t, "focus on negative testing", sess.Metadata.QAContext)
	assert.False(t, sess.Metadata.CreatedAt.IsZero())

	// All four stage slots exist and are absent
	assert.Len(t, sess.Stages, 4)
	for _, stage := range Stages {
		_, populated := sess.StageOutput(stage)
		assert.False(t, populated, "stage %s should start absent", stage)
	}
}

func TestStore_StartSession_Duplicate(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.StartSession("sess-1", "Title", "ctx"))

	err := store.StartSession("sess-1", "Other title", "other ctx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSession)

	// Original session is untouched
	sess, ok := store.GetSession("sess-1")
	require.True(t, ok)
	assert.Equal(t, "Title", sess.Metadata.Title)
}

func TestStore_SaveStageOutput(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.StartSession("sess-1", "Title", "ctx"))

	data := map[string]any{"features": []any{"auth"}}
	require.NoError(t, store.SaveStageOutput("sess-1", StagePlanner, data))

	sess, _ := store.GetSession("sess-1")
	got, ok := sess.StageOutput(StagePlanner)
	require.True(t, ok)
	assert.Equal(t, data, got)

	// Overwrite is allowed and replaces the value
	replacement := map[string]any{"features": []any{"profile"}}
	require.NoError(t, store.SaveStageOutput("sess-1", StagePlanner, replacement))
	got, _ = sess.StageOutput(StagePlanner)
	assert.Equal(t, replacement, got)
}

func TestStore_SaveStageOutput_UnknownSession(t *testing.T) {
	store := NewStore()

	err := store.SaveStageOutput("missing", StagePlanner, map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestStore_SaveStageOutput_InvalidStage(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.StartSession("sess-1", "Title", "ctx"))

	err := store.SaveStageOutput("sess-1", Stage("bogus_output"), map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestStore_GetSession_Missing(t *testing.T) {
	store := NewStore()

	sess, ok := store.GetSession("missing")
	assert.False(t, ok)
	assert.Nil(t, sess)
}

func TestStore_ListSessions(t *testing.T) {
	store := NewStore()
	assert.Empty(t, store.ListSessions())

	require.NoError(t, store.StartSession("a", "A", ""))
	require.NoError(t, store.StartSession("b", "B", ""))

	ids := store.ListSessions()
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestStage_IsValid(t *testing.T) {
	for _, stage := range Stages {
		assert.True(t, stage.IsValid(), "stage %s", stage)
	}
	assert.False(t, Stage("planner").IsValid())
	assert.False(t, Stage("").IsValid())
}
