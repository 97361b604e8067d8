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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/TaskDeck/pkg/logging"
	"github.com/AleutianAI/TaskDeck/services/taskapi/config"
)

var (
	cfgPath string
	cfg     *config.Config
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "TaskDeck task management service",
	Long: `TaskDeck is a personal task management service with role-based
administration. Run "taskdeck serve" to start the API server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml",
		"path to the YAML configuration file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		logger, err = logging.New(logging.Config{
			Level:   logging.ParseLevel(cfg.LogLevel),
			LogDir:  cfg.LogDir,
			Service: "taskapi",
			JSON:    true,
		})
		if err != nil {
			return err
		}
		logger.SetAsDefault()
		return nil
	}
}

func closeLogger() {
	if logger != nil {
		logger.Close()
	}
}
