// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
)

func newTestTaskStore(t *testing.T) *TaskStore {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTaskStore(db)
}

func TestTaskStore_CreateAndGet(t *testing.T) {
	store := newTestTaskStore(t)
	ctx := context.Background()

	task := &datatypes.Task{ID: "t1", Title: "hello", Status: "pending", Priority: "medium", OwnerID: "u1"}
	require.NoError(t, store.Create(ctx, task))
	assert.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	got, err := store.Get(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title)
	assert.Equal(t, "u1", got.OwnerID)
}

// The owner is part of the primary key: a lookup with the wrong owner
// is indistinguishable from a lookup for a task that never existed.
func TestTaskStore_CompoundKeyLookup(t *testing.T) {
	store := newTestTaskStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &datatypes.Task{ID: "t1", Title: "x", OwnerID: "u1"}))

	_, wrongOwner := store.Get(ctx, "u2", "t1")
	_, missing := store.Get(ctx, "u1", "nope")

	assert.ErrorIs(t, wrongOwner, ErrNotFound)
	assert.ErrorIs(t, missing, ErrNotFound)
}

func TestTaskStore_UpdateBumpsUpdatedAt(t *testing.T) {
	store := newTestTaskStore(t)
	ctx := context.Background()

	task := &datatypes.Task{ID: "t1", Title: "before", OwnerID: "u1"}
	require.NoError(t, store.Create(ctx, task))
	created := task.CreatedAt

	task.Title = "after"
	require.NoError(t, store.Update(ctx, task))

	got, err := store.Get(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, created.Unix(), got.CreatedAt.Unix())
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestTaskStore_Delete(t *testing.T) {
	store := newTestTaskStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &datatypes.Task{ID: "t1", Title: "x", OwnerID: "u1"}))

	assert.ErrorIs(t, store.Delete(ctx, "u2", "t1"), ErrNotFound)
	require.NoError(t, store.Delete(ctx, "u1", "t1"))
	assert.ErrorIs(t, store.Delete(ctx, "u1", "t1"), ErrNotFound)
}

func TestTaskStore_ListByOwnerIsScoped(t *testing.T) {
	store := newTestTaskStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &datatypes.Task{ID: "t1", Title: "a", OwnerID: "u1"}))
	require.NoError(t, store.Create(ctx, &datatypes.Task{ID: "t2", Title: "b", OwnerID: "u1"}))
	// "u1x" shares a prefix with "u1"; the trailing key separator must
	// keep it out of u1's listing.
	require.NoError(t, store.Create(ctx, &datatypes.Task{ID: "t3", Title: "c", OwnerID: "u1x"}))

	got, err := store.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTaskStore_ListByOwnerEmpty(t *testing.T) {
	store := newTestTaskStore(t)

	got, err := store.ListByOwner(context.Background(), "nobody")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
