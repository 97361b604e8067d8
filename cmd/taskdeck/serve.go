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
	"net/http"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/TaskDeck/services/taskapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TaskDeck API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := taskapi.New(cfg)
		if err != nil {
			return err
		}
		if err := srv.Run(cmd.Context()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
