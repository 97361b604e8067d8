// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
	"github.com/AleutianAI/TaskDeck/services/taskapi/storage"
)

// =============================================================================
// Test Setup
// =============================================================================

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(storage.NewTaskStore(db))
}

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, svc *Service, owner string, req datatypes.CreateTaskRequest) *datatypes.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), owner, req)
	require.NoError(t, err)
	// Badger stamps CreatedAt with wall-clock time; keep creations
	// strictly ordered for the sorting assertions below.
	time.Sleep(2 * time.Millisecond)
	return task
}

// =============================================================================
// Create Tests
// =============================================================================

func TestCreate_AppliesDefaults(t *testing.T) {
	svc := newTestService(t)

	task := mustCreate(t, svc, "owner-1", datatypes.CreateTaskRequest{Title: "Buy milk"})

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, datatypes.StatusPending, task.Status)
	assert.Equal(t, datatypes.PriorityMedium, task.Priority)
	assert.Equal(t, "owner-1", task.OwnerID)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestCreate_SanitizesFreeText(t *testing.T) {
	svc := newTestService(t)

	task := mustCreate(t, svc, "owner-1", datatypes.CreateTaskRequest{
		Title:       "  <b>Buy milk</b>  ",
		Description: strPtr("<i>semi-skimmed</i>"),
	})

	assert.Equal(t, "bBuy milk/b", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "isemi-skimmed/i", *task.Description)
}

func TestCreate_EmptyTitleAlwaysRejected(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		req  datatypes.CreateTaskRequest
	}{
		{"title missing", datatypes.CreateTaskRequest{}},
		{"title whitespace", datatypes.CreateTaskRequest{Title: "   "}},
		{"title sanitizes to empty", datatypes.CreateTaskRequest{Title: " <> "}},
		{"other field also invalid", datatypes.CreateTaskRequest{Priority: "critical"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "owner-1", tt.req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Errors, "Title is required")
		})
	}
}

func TestCreate_ParsesDueDate(t *testing.T) {
	svc := newTestService(t)

	task := mustCreate(t, svc, "owner-1", datatypes.CreateTaskRequest{
		Title:   "Pay rent",
		DueDate: "2026-09-01",
	})

	require.NotNil(t, task.DueDate)
	assert.Equal(t, 2026, task.DueDate.Year())
	assert.Equal(t, time.September, task.DueDate.Month())
}

func TestCreate_RejectsBadDueDate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), "owner-1", datatypes.CreateTaskRequest{
		Title:   "Pay rent",
		DueDate: "next tuesday",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "Due date must be a valid date")
}

// =============================================================================
// Ownership Scoping Tests
// =============================================================================

func TestOwnership_OtherPrincipalNeverSeesTask(t *testing.T) {
	svc := newTestService(t)
	task := mustCreate(t, svc, "alice", datatypes.CreateTaskRequest{Title: "Alice's task"})

	listed, err := svc.List(context.Background(), "bob", datatypes.ListTasksQuery{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = svc.Get(context.Background(), "bob", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(context.Background(), "bob", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Owner still sees it after the failed cross-owner delete.
	got, err := svc.Get(context.Background(), "alice", task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestGet_MissingAndForeignLookAlike(t *testing.T) {
	svc := newTestService(t)
	task := mustCreate(t, svc, "alice", datatypes.CreateTaskRequest{Title: "secret"})

	_, missingErr := svc.Get(context.Background(), "bob", "no-such-id")
	_, foreignErr := svc.Get(context.Background(), "bob", task.ID)

	assert.Equal(t, missingErr, foreignErr)
}

// =============================================================================
// List Filter and Sort Tests
// =============================================================================

func TestList_FiltersByPriority(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "low one", Priority: "low"})
	high := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "high one", Priority: "high"})

	got, err := svc.List(context.Background(), "x", datatypes.ListTasksQuery{Priority: "high"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, high.ID, got[0].ID)
}

func TestList_FiltersConjunctively(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "a", Status: "pending", Priority: "high"})
	match := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "b", Status: "completed", Priority: "high"})
	mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "c", Status: "completed", Priority: "low"})

	got, err := svc.List(context.Background(), "x",
		datatypes.ListTasksQuery{Status: "completed", Priority: "high"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, match.ID, got[0].ID)
}

func TestList_DefaultSortNewestFirst(t *testing.T) {
	svc := newTestService(t)
	first := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "first"})
	second := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "second"})

	got, err := svc.List(context.Background(), "x", datatypes.ListTasksQuery{})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

// An unrecognized sort field behaves exactly like no sort field at all.
func TestList_UnknownSortFieldFallsBack(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "zebra"})
	mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "apple"})

	plain, err := svc.List(context.Background(), "x", datatypes.ListTasksQuery{})
	require.NoError(t, err)

	unknown, err := svc.List(context.Background(), "x",
		datatypes.ListTasksQuery{SortBy: "foo", Order: "asc"})
	require.NoError(t, err)

	assert.Equal(t, plain, unknown)
}

func TestList_SortByTitle(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "zebra"})
	mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "apple"})
	mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "Mango"})

	asc, err := svc.List(context.Background(), "x", datatypes.ListTasksQuery{SortBy: "title"})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, "apple", asc[0].Title)
	assert.Equal(t, "Mango", asc[1].Title)
	assert.Equal(t, "zebra", asc[2].Title)

	desc, err := svc.List(context.Background(), "x",
		datatypes.ListTasksQuery{SortBy: "title", Order: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "zebra", desc[0].Title)
}

func TestList_SortByDueDateNilsLast(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "no deadline"})
	soon := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "soon", DueDate: "2026-01-01"})
	later := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "later", DueDate: "2026-06-01"})

	got, err := svc.List(context.Background(), "x", datatypes.ListTasksQuery{SortBy: "dueDate"})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, soon.ID, got[0].ID)
	assert.Equal(t, later.ID, got[1].ID)
	assert.Equal(t, "no deadline", got[2].Title)
}

// =============================================================================
// Update Tests
// =============================================================================

func TestUpdate_PartialPayloadKeepsOtherFields(t *testing.T) {
	svc := newTestService(t)
	task := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{
		Title:       "Buy milk",
		Description: strPtr("two litres"),
	})

	updated, err := svc.Update(context.Background(), "x", task.ID,
		datatypes.UpdateTaskRequest{Status: strPtr("completed")})

	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "Buy milk", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "two litres", *updated.Description)

	// The merged record is what got persisted.
	got, err := svc.Get(context.Background(), "x", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "Buy milk", got.Title)
}

func TestUpdate_DescriptionExplicitPresence(t *testing.T) {
	svc := newTestService(t)
	task := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{
		Title:       "Buy milk",
		Description: strPtr("two litres"),
	})

	// Absent key keeps the stored description.
	kept, err := svc.Update(context.Background(), "x", task.ID,
		datatypes.UpdateTaskRequest{Title: strPtr("Buy oat milk")})
	require.NoError(t, err)
	require.NotNil(t, kept.Description)
	assert.Equal(t, "two litres", *kept.Description)

	// Present-but-empty key clears it.
	cleared, err := svc.Update(context.Background(), "x", task.ID,
		datatypes.UpdateTaskRequest{Description: strPtr("")})
	require.NoError(t, err)
	require.NotNil(t, cleared.Description)
	assert.Equal(t, "", *cleared.Description)
}

func TestUpdate_ValidatesEffectiveRecord(t *testing.T) {
	svc := newTestService(t)
	task := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "Buy milk"})

	_, err := svc.Update(context.Background(), "x", task.ID,
		datatypes.UpdateTaskRequest{Status: strPtr("done")})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Status must be pending, in-progress, or completed"}, verr.Errors)

	// Rejected update left the stored record untouched.
	got, err := svc.Get(context.Background(), "x", task.ID)
	require.NoError(t, err)
	assert.Equal(t, datatypes.StatusPending, got.Status)
}

func TestUpdate_NotFoundForForeignTask(t *testing.T) {
	svc := newTestService(t)
	task := mustCreate(t, svc, "alice", datatypes.CreateTaskRequest{Title: "hers"})

	_, err := svc.Update(context.Background(), "bob", task.ID,
		datatypes.UpdateTaskRequest{Title: strPtr("mine now")})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_OwnerNeverChanges(t *testing.T) {
	svc := newTestService(t)
	task := mustCreate(t, svc, "alice", datatypes.CreateTaskRequest{Title: "hers"})

	updated, err := svc.Update(context.Background(), "alice", task.ID,
		datatypes.UpdateTaskRequest{Title: strPtr("renamed")})

	require.NoError(t, err)
	assert.Equal(t, "alice", updated.OwnerID)
}

// =============================================================================
// Delete and End-to-End Tests
// =============================================================================

func TestDelete_ThenGetNotFound(t *testing.T) {
	svc := newTestService(t)
	task := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "temp"})

	require.NoError(t, svc.Delete(context.Background(), "x", task.ID))

	_, err := svc.Get(context.Background(), "x", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), "x", task.ID), ErrNotFound)
}

func TestLifecycle_CreateUpdateDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, "x", datatypes.CreateTaskRequest{Title: "Buy milk"})
	assert.Equal(t, datatypes.StatusPending, task.Status)
	assert.Equal(t, datatypes.PriorityMedium, task.Priority)

	_, err := svc.Update(ctx, "x", task.ID, datatypes.UpdateTaskRequest{Status: strPtr("completed")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "x", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "Buy milk", got.Title)

	require.NoError(t, svc.Delete(ctx, "x", task.ID))
	_, err = svc.Get(ctx, "x", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
