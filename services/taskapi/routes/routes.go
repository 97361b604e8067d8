// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/TaskDeck/services/taskapi/admin"
	"github.com/AleutianAI/TaskDeck/services/taskapi/auth"
	"github.com/AleutianAI/TaskDeck/services/taskapi/handlers"
	"github.com/AleutianAI/TaskDeck/services/taskapi/middleware"
	"github.com/AleutianAI/TaskDeck/services/taskapi/storage"
	"github.com/AleutianAI/TaskDeck/services/taskapi/tasks"
)

// Deps bundles everything the route table wires together.
type Deps struct {
	Tasks    *tasks.Service
	Admin    *admin.Service
	Accounts *storage.AccountStore
	Tokens   *auth.TokenManager
}

// SetupRoutes installs all endpoints on the router.
//
// The same API is mounted under /api/v1 and the legacy /api prefix the
// first frontend generation still calls.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/", handlers.Welcome)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.NoRoute(handlers.NotFound)

	for _, prefix := range []string{"/api/v1", "/api"} {
		registerAPI(router.Group(prefix), deps)
	}
}

func registerAPI(api *gin.RouterGroup, deps Deps) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", handlers.Register(deps.Accounts, deps.Tokens))
		authGroup.POST("/login", handlers.Login(deps.Accounts, deps.Tokens))
	}

	// All task routes require an authenticated principal; the admin
	// listing additionally passes the role gate.
	taskGroup := api.Group("/tasks")
	taskGroup.Use(middleware.SessionMiddleware(deps.Tokens))
	{
		taskGroup.POST("", handlers.CreateTask(deps.Tasks))
		taskGroup.GET("", handlers.ListTasks(deps.Tasks))
		taskGroup.GET("/admin/all", middleware.RequireAdmin(deps.Accounts), handlers.ListAllTasks(deps.Admin))
		taskGroup.GET("/:id", handlers.GetTask(deps.Tasks))
		taskGroup.PUT("/:id", handlers.UpdateTask(deps.Tasks))
		taskGroup.DELETE("/:id", handlers.DeleteTask(deps.Tasks))
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.SessionMiddleware(deps.Tokens), middleware.RequireAdmin(deps.Accounts))
	{
		adminGroup.GET("/users", handlers.ListAllUsers(deps.Admin))
	}
}
