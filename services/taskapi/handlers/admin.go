// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/TaskDeck/services/taskapi/admin"
)

// Admin listings. The role gate runs before these handlers, so the
// caller is known to be an admin by the time they execute.

func ListAllTasks(svc *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListAllTasks(c.Request.Context())
		if err != nil {
			slog.Error("failed to list all tasks", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while fetching all tasks",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(list),
			"tasks":   list,
		})
	}
}

func ListAllUsers(svc *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListAllAccounts(c.Request.Context())
		if err != nil {
			slog.Error("failed to list all accounts", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while fetching users",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(list),
			"users":   list,
		})
	}
}
