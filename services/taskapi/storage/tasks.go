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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
)

const taskPrefix = "task/"

// taskKey builds the compound primary key. Owner is part of the key, so
// a lookup with the wrong owner misses exactly like a missing record.
func taskKey(ownerID, taskID string) []byte {
	return []byte(taskPrefix + ownerID + "/" + taskID)
}

// TaskStore persists tasks in BadgerDB.
//
// All methods are safe for concurrent use. Each write is a single
// badger transaction, so concurrent updates to one task resolve by
// last-write-wins.
type TaskStore struct {
	db *badger.DB
}

// NewTaskStore creates a TaskStore on an open database.
func NewTaskStore(db *badger.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create persists a new task. CreatedAt and UpdatedAt are stamped here.
func (s *TaskStore) Create(ctx context.Context, task *datatypes.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", task.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(taskKey(task.OwnerID, task.ID), data)
	})
	if err != nil {
		return fmt.Errorf("store task %s: %w", task.ID, err)
	}
	return nil
}

// Get returns the task with the given id if it belongs to ownerID.
// A missing task and a task owned by someone else both yield ErrNotFound.
func (s *TaskStore) Get(ctx context.Context, ownerID, taskID string) (*datatypes.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var task datatypes.Task
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(taskKey(ownerID, taskID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &task)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", taskID, err)
	}
	return &task, nil
}

// Update overwrites an existing task record and bumps UpdatedAt.
// The caller is expected to have loaded the task through Get, so the
// ownership check has already happened.
func (s *TaskStore) Update(ctx context.Context, task *datatypes.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	task.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", task.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(taskKey(task.OwnerID, task.ID), data)
	})
	if err != nil {
		return fmt.Errorf("store task %s: %w", task.ID, err)
	}
	return nil
}

// Delete permanently removes the task. ErrNotFound when the compound
// key does not exist. There is no recoverable trash state.
func (s *TaskStore) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := taskKey(ownerID, taskID)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	return nil
}

// ListByOwner returns every task owned by ownerID, in storage order.
// Ordering is applied by the caller.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID string) ([]datatypes.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scan([]byte(taskPrefix + ownerID + "/"))
}

// ListAll returns every task in the system regardless of owner, in
// storage order. Admin listings only.
func (s *TaskStore) ListAll(ctx context.Context) ([]datatypes.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scan([]byte(taskPrefix))
}

func (s *TaskStore) scan(prefix []byte) ([]datatypes.Task, error) {
	tasks := []datatypes.Task{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var task datatypes.Task
				if err := json.Unmarshal(val, &task); err != nil {
					return err
				}
				tasks = append(tasks, task)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	return tasks, nil
}
