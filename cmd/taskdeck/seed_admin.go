// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/TaskDeck/services/taskapi/auth"
	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
	"github.com/AleutianAI/TaskDeck/services/taskapi/storage"
)

var (
	seedUsername string
	seedEmail    string
	seedPassword string
)

// seedAdminCmd creates an admin account, or promotes an existing
// account registered with the same email. Registration through the API
// always produces the user role, so this is the way the first admin
// comes into existence.
var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create or promote an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbCfg := storage.DefaultConfig()
		dbCfg.Path = cfg.DataDir
		db, err := storage.Open(dbCfg)
		if err != nil {
			return err
		}
		defer db.Close()

		accounts := storage.NewAccountStore(db)
		ctx := cmd.Context()

		existing, err := accounts.GetByEmail(ctx, seedEmail)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if existing != nil {
			if existing.Role == datatypes.RoleAdmin {
				fmt.Printf("%s is already an admin\n", existing.Email)
				return nil
			}
			existing.Role = datatypes.RoleAdmin
			if err := accounts.Update(ctx, existing); err != nil {
				return err
			}
			fmt.Printf("promoted %s to admin\n", existing.Email)
			return nil
		}

		hash, err := auth.HashPassword(seedPassword)
		if err != nil {
			return err
		}
		account := &datatypes.Account{
			ID:       uuid.NewString(),
			Username: seedUsername,
			Email:    seedEmail,
			Password: hash,
			Role:     datatypes.RoleAdmin,
		}
		if err := accounts.Create(ctx, account); err != nil {
			return err
		}
		fmt.Printf("created admin account %s\n", account.Email)
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedUsername, "username", "admin", "admin username")
	seedAdminCmd.Flags().StringVar(&seedEmail, "email", "", "admin email (required)")
	seedAdminCmd.Flags().StringVar(&seedPassword, "password", "", "admin password (required when creating)")
	_ = seedAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(seedAdminCmd)
}
