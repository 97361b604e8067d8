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
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
)

// Store is the slice of persistence the lifecycle service needs.
// *storage.TaskStore satisfies it.
type Store interface {
	Create(ctx context.Context, task *datatypes.Task) error
	Get(ctx context.Context, ownerID, taskID string) (*datatypes.Task, error)
	Update(ctx context.Context, task *datatypes.Task) error
	Delete(ctx context.Context, ownerID, taskID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]datatypes.Task, error)
}

// Service owns create/read/update/delete semantics for tasks. Every
// operation is scoped by the calling principal's id; the compound
// (owner, id) lookup in the store is the single ownership check.
//
// The service holds no state between calls, so it is safe for
// concurrent use; per-record write ordering is the store's problem.
type Service struct {
	store Store
}

// NewService creates a task lifecycle service on the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// =============================================================================
// Create
// =============================================================================

// Create validates and persists a new task owned by ownerID.
//
// Free-text fields are sanitized after validation, on the exact value
// that is persisted. Status defaults to "pending" and priority to
// "medium" when omitted. Returns *ValidationError when the payload is
// rejected.
func (s *Service) Create(ctx context.Context, ownerID string, req datatypes.CreateTaskRequest) (*datatypes.Task, error) {
	// Validation sees the sanitized title so a title that is nothing
	// but markup characters cannot slip through as non-empty.
	title := Sanitize(req.Title)
	errs := ValidateTaskInput(title, req.Status, req.Priority)

	var due *time.Time
	if req.DueDate != "" {
		parsed, err := parseDueDate(req.DueDate)
		if err != nil {
			errs = append(errs, "Due date must be a valid date")
		} else {
			due = &parsed
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	task := &datatypes.Task{
		ID:       uuid.NewString(),
		Title:    title,
		Status:   defaultString(req.Status, datatypes.StatusPending),
		Priority: defaultString(req.Priority, datatypes.PriorityMedium),
		DueDate:  due,
		OwnerID:  ownerID,
	}
	if req.Description != nil {
		if desc := Sanitize(*req.Description); desc != "" {
			task.Description = &desc
		}
	}

	if err := s.store.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// =============================================================================
// List
// =============================================================================

// List returns the caller's tasks, optionally filtered by exact status
// and/or priority (conjunctive), ordered by the requested sort field.
//
// Recognized sort fields are title, status, priority, dueDate and
// createdAt; order "desc" sorts descending, anything else ascending.
// An unrecognized or absent sort field falls back to createdAt
// descending, newest first.
func (s *Service) List(ctx context.Context, ownerID string, q datatypes.ListTasksQuery) ([]datatypes.Task, error) {
	all, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	tasks := make([]datatypes.Task, 0, len(all))
	for _, t := range all {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		tasks = append(tasks, t)
	}

	sortTasks(tasks, q.SortBy, q.Order)
	return tasks, nil
}

// =============================================================================
// Get / Update / Delete
// =============================================================================

// Get returns the task only if it exists and belongs to ownerID,
// otherwise ErrNotFound.
func (s *Service) Get(ctx context.Context, ownerID, taskID string) (*datatypes.Task, error) {
	return s.store.Get(ctx, ownerID, taskID)
}

// Update merges a partial payload over the stored task and persists
// the result.
//
// Validation runs against the effective merged record, not just the
// fields that were sent, so a partial update can never leave the
// stored record invalid. Description follows explicit-presence
// semantics: a present key overwrites (empty string clears), an
// absent key keeps the stored value. Returns ErrNotFound when the
// task is missing or owned by someone else.
func (s *Service) Update(ctx context.Context, ownerID, taskID string, req datatypes.UpdateTaskRequest) (*datatypes.Task, error) {
	existing, err := s.store.Get(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	title := existing.Title
	if req.Title != nil && *req.Title != "" {
		title = Sanitize(*req.Title)
	}
	status := existing.Status
	if req.Status != nil && *req.Status != "" {
		status = *req.Status
	}
	priority := existing.Priority
	if req.Priority != nil && *req.Priority != "" {
		priority = *req.Priority
	}

	errs := ValidateTaskInput(title, status, priority)

	due := existing.DueDate
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, perr := parseDueDate(*req.DueDate)
		if perr != nil {
			errs = append(errs, "Due date must be a valid date")
		} else {
			due = &parsed
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	existing.Title = title
	existing.Status = status
	existing.Priority = priority
	existing.DueDate = due
	if req.Description != nil {
		desc := Sanitize(*req.Description)
		existing.Description = &desc
	}

	if err := s.store.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete permanently removes the task, or ErrNotFound when it is
// missing or owned by someone else.
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) error {
	return s.store.Delete(ctx, ownerID, taskID)
}

// =============================================================================
// Helpers
// =============================================================================

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// parseDueDate accepts RFC 3339 timestamps or bare dates.
func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

var sortFields = map[string]func(a, b datatypes.Task) bool{
	"title":     func(a, b datatypes.Task) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) },
	"status":    func(a, b datatypes.Task) bool { return a.Status < b.Status },
	"priority":  func(a, b datatypes.Task) bool { return a.Priority < b.Priority },
	"dueDate":   func(a, b datatypes.Task) bool { return beforePtr(a.DueDate, b.DueDate) },
	"createdAt": func(a, b datatypes.Task) bool { return a.CreatedAt.Before(b.CreatedAt) },
}

// beforePtr orders nil due dates after any concrete date.
func beforePtr(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// sortTasks orders tasks in place. A recognized field honors the
// requested order; anything else means createdAt descending and the
// order parameter is ignored.
func sortTasks(tasks []datatypes.Task, sortBy, order string) {
	less, ok := sortFields[sortBy]
	if !ok {
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[j].CreatedAt.Before(tasks[i].CreatedAt)
		})
		return
	}
	desc := order == "desc"
	sort.SliceStable(tasks, func(i, j int) bool {
		if desc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}
