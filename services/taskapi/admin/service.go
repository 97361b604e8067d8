// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package admin implements the read-only cross-user listings exposed to
// administrators. It offers no filtering, pagination, or mutation, and
// its routes sit behind the admin role gate.
package admin

import (
	"context"
	"sort"

	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
)

// TaskLister is the system-wide task scan the service needs.
type TaskLister interface {
	ListAll(ctx context.Context) ([]datatypes.Task, error)
}

// AccountLister is the system-wide account scan the service needs.
type AccountLister interface {
	ListAll(ctx context.Context) ([]datatypes.Account, error)
}

// Service answers administrative listings. Read-only: accounts are
// consumed here, never written.
type Service struct {
	tasks    TaskLister
	accounts AccountLister
}

// NewService creates an admin query service on the given stores.
func NewService(tasks TaskLister, accounts AccountLister) *Service {
	return &Service{tasks: tasks, accounts: accounts}
}

// ListAllTasks returns every task in the system, newest-created first,
// each annotated with a summary of its owning account.
func (s *Service) ListAllTasks(ctx context.Context) ([]datatypes.TaskWithOwner, error) {
	tasks, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]datatypes.OwnerSummary, len(accounts))
	for _, a := range accounts {
		owners[a.ID] = datatypes.OwnerSummary{ID: a.ID, Username: a.Username, Email: a.Email}
	}

	annotated := make([]datatypes.TaskWithOwner, 0, len(tasks))
	for _, t := range tasks {
		annotated = append(annotated, datatypes.TaskWithOwner{Task: t, Owner: owners[t.OwnerID]})
	}
	sort.SliceStable(annotated, func(i, j int) bool {
		return annotated[j].CreatedAt.Before(annotated[i].CreatedAt)
	})
	return annotated, nil
}

// ListAllAccounts returns every account, newest-created first,
// including the stored one-way password hash. Plaintext credentials
// never exist in this system.
func (s *Service) ListAllAccounts(ctx context.Context) ([]datatypes.AccountWithCredentials, error) {
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]datatypes.AccountWithCredentials, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, datatypes.AccountWithCredentials{
			ID:        a.ID,
			Username:  a.Username,
			Email:     a.Email,
			Password:  a.Password,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].CreatedAt.Before(out[i].CreatedAt)
	})
	return out, nil
}
