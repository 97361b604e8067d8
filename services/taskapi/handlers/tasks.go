// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the gin handlers for the taskapi service.
// Handlers are thin: they bind input, call a service, and translate
// service errors into the response envelope. All invariants live in
// the services.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
	"github.com/AleutianAI/TaskDeck/services/taskapi/middleware"
	"github.com/AleutianAI/TaskDeck/services/taskapi/tasks"
)

func CreateTask(svc *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid request body",
			})
			return
		}

		task, err := svc.Create(c.Request.Context(), middleware.GetPrincipalID(c), req)
		var verr *tasks.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Validation failed",
				"errors":  verr.Errors,
			})
			return
		}
		if err != nil {
			slog.Error("failed to create task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while creating task",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Task created successfully",
			"task":    task,
		})
	}
}

func ListTasks(svc *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query datatypes.ListTasksQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid query parameters",
			})
			return
		}

		list, err := svc.List(c.Request.Context(), middleware.GetPrincipalID(c), query)
		if err != nil {
			slog.Error("failed to list tasks", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while fetching tasks",
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

func GetTask(svc *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := svc.Get(c.Request.Context(), middleware.GetPrincipalID(c), c.Param("id"))
		if errors.Is(err, tasks.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Task not found",
			})
			return
		}
		if err != nil {
			slog.Error("failed to fetch task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while fetching task",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"task":    task,
		})
	}
}

func UpdateTask(svc *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.UpdateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid request body",
			})
			return
		}

		task, err := svc.Update(c.Request.Context(), middleware.GetPrincipalID(c), c.Param("id"), req)
		if errors.Is(err, tasks.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Task not found",
			})
			return
		}
		var verr *tasks.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Validation failed",
				"errors":  verr.Errors,
			})
			return
		}
		if err != nil {
			slog.Error("failed to update task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while updating task",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Task updated successfully",
			"task":    task,
		})
	}
}

func DeleteTask(svc *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Delete(c.Request.Context(), middleware.GetPrincipalID(c), c.Param("id"))
		if errors.Is(err, tasks.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Task not found",
			})
			return
		}
		if err != nil {
			slog.Error("failed to delete task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error while deleting task",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Task deleted successfully",
		})
	}
}
