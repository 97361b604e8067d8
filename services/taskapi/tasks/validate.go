// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tasks implements the owner-scoped task lifecycle: input
// validation, sanitization, and CRUD semantics over the storage layer.
package tasks

import (
	"strings"

	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
)

var validStatuses = map[string]bool{
	datatypes.StatusPending:    true,
	datatypes.StatusInProgress: true,
	datatypes.StatusCompleted:  true,
}

var validPriorities = map[string]bool{
	datatypes.PriorityLow:    true,
	datatypes.PriorityMedium: true,
	datatypes.PriorityHigh:   true,
}

// ValidateTaskInput checks a candidate task payload and returns the
// full ordered list of problems. An empty list means the payload is
// acceptable. All errors are collected, never fail-fast, so the caller
// can fix everything in one round trip.
//
// Status and priority are only checked when non-empty; defaults are
// applied later by the service.
func ValidateTaskInput(title, status, priority string) []string {
	errs := []string{}

	if strings.TrimSpace(title) == "" {
		errs = append(errs, "Title is required")
	}
	if status != "" && !validStatuses[status] {
		errs = append(errs, "Status must be pending, in-progress, or completed")
	}
	if priority != "" && !validPriorities[priority] {
		errs = append(errs, "Priority must be low, medium, or high")
	}

	return errs
}

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// Sanitize strips angle brackets and surrounding whitespace from
// free-text input before it is persisted. Idempotent: sanitizing an
// already-sanitized string returns it unchanged.
func Sanitize(s string) string {
	return strings.TrimSpace(angleBrackets.Replace(s))
}
