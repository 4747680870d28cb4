package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presentapp/present/internal/app/models"
)

func TestActivityServiceRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("entry persisted with actor", func(t *testing.T) {
		store := &fakeActivityLogs{}
		svc := NewActivityService(store)

		actorID := int64(7)
		svc.Record(ctx, &actorID, models.ActionCreate, "Created new subject: Mathematics")

		require.Len(t, store.entries, 1)
		entry := store.entries[0]
		require.NotNil(t, entry.UserID)
		assert.Equal(t, actorID, *entry.UserID)
		assert.Equal(t, models.ActionCreate, entry.ActionType)
		assert.Equal(t, "Created new subject: Mathematics", entry.Description)
	})

	t.Run("nil actor denotes system action", func(t *testing.T) {
		store := &fakeActivityLogs{}
		svc := NewActivityService(store)

		svc.Record(ctx, nil, models.ActionDelete, "Deleted school year: 2024-2025")

		require.Len(t, store.entries, 1)
		assert.Nil(t, store.entries[0].UserID)
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		store := &fakeActivityLogs{insertErr: errStoreDown}
		svc := NewActivityService(store)

		// must not panic or surface the failure
		svc.Record(ctx, nil, models.ActionLogin, "jane logged in")
		assert.Empty(t, store.entries)
	})
}

func TestActivityServiceList(t *testing.T) {
	ctx := context.Background()
	store := &fakeActivityLogs{}
	svc := NewActivityService(store)

	svc.Record(ctx, nil, models.ActionCreate, "Created new subject: Mathematics")
	svc.Record(ctx, nil, models.ActionLogin, "jane logged in")
	svc.Record(ctx, nil, models.ActionCreate, "Created new folder: Quizzes")

	t.Run("newest first", func(t *testing.T) {
		entries, total, err := svc.List(ctx, nil, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, entries, 3)
		assert.Equal(t, "Created new folder: Quizzes", entries[0].Description)
	})

	t.Run("filter by action type", func(t *testing.T) {
		action := models.ActionCreate
		entries, total, err := svc.List(ctx, &action, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, entry := range entries {
			assert.Equal(t, models.ActionCreate, entry.ActionType)
		}
	})

	t.Run("unknown filter matches nothing", func(t *testing.T) {
		action := models.ActionType("reboot")
		entries, total, err := svc.List(ctx, &action, 0, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, entries)
	})
}
