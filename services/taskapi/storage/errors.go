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

import "errors"

var (
	// ErrNotFound is returned when a record does not exist, or when a
	// task lookup was keyed with an owner the task does not belong to.
	// Callers cannot distinguish the two cases.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an account create would reuse
	// an email address.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateUsername is returned when an account create would
	// reuse a username.
	ErrDuplicateUsername = errors.New("username already taken")
)
