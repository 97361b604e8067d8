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
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
)

const (
	accountPrefix  = "account/"
	emailIdxPrefix = "accountemail/"
	userIdxPrefix  = "accountuser/"
)

func accountKey(id string) []byte {
	return []byte(accountPrefix + id)
}

func emailIdxKey(email string) []byte {
	return []byte(emailIdxPrefix + strings.ToLower(email))
}

func usernameIdxKey(username string) []byte {
	return []byte(userIdxPrefix + strings.ToLower(username))
}

// AccountStore persists accounts in BadgerDB.
//
// Besides the primary record it maintains two index keys, one per
// email and one per username, written in the same transaction as the
// record so uniqueness holds even under concurrent registration.
type AccountStore struct {
	db *badger.DB
}

// NewAccountStore creates an AccountStore on an open database.
func NewAccountStore(db *badger.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Create persists a new account. Fails with ErrDuplicateEmail or
// ErrDuplicateUsername when an index key is already taken.
func (s *AccountStore) Create(ctx context.Context, account *datatypes.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("marshal account %s: %w", account.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailIdxKey(account.Email)); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if _, err := txn.Get(usernameIdxKey(account.Username)); err == nil {
			return ErrDuplicateUsername
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(accountKey(account.ID), data); err != nil {
			return err
		}
		if err := txn.Set(emailIdxKey(account.Email), []byte(account.ID)); err != nil {
			return err
		}
		return txn.Set(usernameIdxKey(account.Username), []byte(account.ID))
	})
	if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrDuplicateUsername) {
		return err
	}
	if err != nil {
		return fmt.Errorf("store account %s: %w", account.ID, err)
	}
	return nil
}

// Get returns the account with the given id, or ErrNotFound.
func (s *AccountStore) Get(ctx context.Context, id string) (*datatypes.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var account datatypes.Account
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &account)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", id, err)
	}
	return &account, nil
}

// GetByEmail resolves the email index and loads the account.
// Email comparison is case-insensitive.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*datatypes.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailIdxKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve account email: %w", err)
	}
	return s.Get(ctx, id)
}

// Update overwrites an existing account record and bumps UpdatedAt.
// Email and username are treated as immutable here; only the record
// body is rewritten.
func (s *AccountStore) Update(ctx context.Context, account *datatypes.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	account.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("marshal account %s: %w", account.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(accountKey(account.ID)); err != nil {
			return err
		}
		return txn.Set(accountKey(account.ID), data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store account %s: %w", account.ID, err)
	}
	return nil
}

// ListAll returns every account, in storage order.
func (s *AccountStore) ListAll(ctx context.Context) ([]datatypes.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	accounts := []datatypes.Account{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(accountPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var account datatypes.Account
				if err := json.Unmarshal(val, &account); err != nil {
					return err
				}
				accounts = append(accounts, account)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan accounts: %w", err)
	}
	return accounts, nil
}
