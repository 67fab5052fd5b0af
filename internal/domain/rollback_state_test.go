package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollbackState(t *testing.T) {
	t.Run("Should start pending with no operations", func(t *testing.T) {
		state := NewRollbackState("session-1")
		assert.Equal(t, "session-1", state.SessionID)
		assert.Equal(t, WorkflowStatusPending, state.Status)
		assert.Empty(t, state.Operations)
		assert.Nil(t, state.GetLastOperation())
	})

	t.Run("Should move an operation through its lifecycle", func(t *testing.T) {
		state := NewRollbackState("session-1")
		op := state.AddOperation(OperationTypeCreateTag)
		assert.Equal(t, OperationStatusPending, op.Status)
		assert.Contains(t, op.ID, "create_tag_")

		state.MarkOperationStarted(OperationTypeCreateTag)
		assert.Equal(t, OperationStatusRunning, state.Operations[0].Status)

		state.MarkOperationCompleted(OperationTypeCreateTag, map[string]any{"tag": "v1.0.0"})
		completed := state.Operations[0]
		assert.Equal(t, OperationStatusCompleted, completed.Status)
		require.NotNil(t, completed.CompletedAt)
		assert.Equal(t, "v1.0.0", completed.RollbackData["tag"])
	})

	t.Run("Should record failures on the operation and the workflow", func(t *testing.T) {
		state := NewRollbackState("session-1")
		state.AddOperation(OperationTypePushTag)
		state.MarkOperationStarted(OperationTypePushTag)

		state.MarkOperationFailed(OperationTypePushTag, errors.New("rejected"))

		assert.Equal(t, OperationStatusFailed, state.Operations[0].Status)
		assert.Equal(t, "rejected", state.Operations[0].Error)
		assert.Equal(t, WorkflowStatusFailed, state.Status)
		assert.Equal(t, "rejected", state.Error)
	})

	t.Run("Should list completed operations newest first", func(t *testing.T) {
		state := NewRollbackState("session-1")
		for _, opType := range []OperationType{OperationTypeCreateTag, OperationTypePushTag, OperationTypeGithubRelease} {
			state.AddOperation(opType)
			state.MarkOperationStarted(opType)
		}
		state.MarkOperationCompleted(OperationTypeCreateTag, nil)
		state.MarkOperationCompleted(OperationTypePushTag, nil)

		completed := state.GetCompletedOperations()

		require.Len(t, completed, 2)
		assert.Equal(t, OperationTypePushTag, completed[0].Type)
		assert.Equal(t, OperationTypeCreateTag, completed[1].Type)
		assert.Equal(t, OperationTypeGithubRelease, state.GetLastOperation().Type)
	})

	t.Run("Should find an operation by type", func(t *testing.T) {
		state := NewRollbackState("session-1")
		state.AddOperation(OperationTypeCreateTag)
		state.AddOperation(OperationTypePushTag)

		op := state.FindOperation(OperationTypePushTag)

		require.NotNil(t, op)
		assert.Equal(t, OperationTypePushTag, op.Type)
		assert.Nil(t, state.FindOperation(OperationTypeGithubRelease))
	})
}
