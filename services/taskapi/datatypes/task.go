// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures for the taskapi service.
//
// This file contains the task record and the request/response types for
// the task CRUD endpoints. Account types are in account.go.
package datatypes

import "time"

// =============================================================================
// Enumerated Field Values
// =============================================================================

// Task status values. Any other value is rejected before persistence.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priority values. Any other value is rejected before persistence.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// =============================================================================
// Task Record
// =============================================================================

// Task is the central record of the service.
//
// OwnerID is set once at creation and never changes. Description and
// DueDate are nullable and serialize as JSON null when absent.
// CreatedAt and UpdatedAt are maintained by the storage layer.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	OwnerID     string     `json:"ownerId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// =============================================================================
// Request Types
// =============================================================================

// CreateTaskRequest is the body of POST /tasks.
//
// Status and Priority default to "pending" and "medium" when omitted.
// DueDate accepts RFC 3339 or a bare YYYY-MM-DD date.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     string  `json:"dueDate"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id. All fields are
// optional; absent fields keep their stored value.
//
// Description is a pointer so the handler can tell "key absent" (nil,
// keep the stored value) from "key present with empty string" (clear
// the stored value). The other fields treat empty as absent, matching
// create defaults.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// ListTasksQuery carries the optional filter and sort parameters of
// GET /tasks.
type ListTasksQuery struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	SortBy   string `form:"sortBy"`
	Order    string `form:"order"`
}

// =============================================================================
// Admin Response Types
// =============================================================================

// OwnerSummary is the slice of account data attached to each task in
// the admin listing. Credentials are never included here.
type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TaskWithOwner is a task annotated with its owning account, as
// returned by GET /tasks/admin/all.
type TaskWithOwner struct {
	Task
	Owner OwnerSummary `json:"user"`
}
