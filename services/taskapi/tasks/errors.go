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
	"strings"

	"github.com/AleutianAI/TaskDeck/services/taskapi/storage"
)

// ErrNotFound is returned when a task does not exist or does not belong
// to the calling principal. The two cases are deliberately not
// distinguishable, so task ids cannot be enumerated across owners.
var ErrNotFound = storage.ErrNotFound

// ValidationError carries the ordered list of human-readable problems
// found in a task payload. The caller gets the whole list at once.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}
