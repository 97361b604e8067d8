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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AleutianAI/TaskDeck/services/taskapi/auth"
	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
	"github.com/AleutianAI/TaskDeck/services/taskapi/storage"
)

// SessionTTL bounds how long an issued session token stays valid.
const SessionTTL = 24 * time.Hour

func Register(accounts *storage.AccountStore, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Validation failed",
				"errors":  bindingErrors(err),
			})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error during registration",
			})
			return
		}

		account := &datatypes.Account{
			ID:       uuid.NewString(),
			Username: req.Username,
			Email:    req.Email,
			Password: hash,
			Role:     datatypes.RoleUser,
		}
		err = accounts.Create(c.Request.Context(), account)
		if errors.Is(err, storage.ErrDuplicateEmail) || errors.Is(err, storage.ErrDuplicateUsername) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "An account with that email or username already exists",
			})
			return
		}
		if err != nil {
			slog.Error("failed to create account", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error during registration",
			})
			return
		}

		token, err := tokens.Issue(account.ID)
		if err != nil {
			slog.Error("failed to issue session token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error during registration",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Account created successfully",
			"token":   token,
			"user":    account,
		})
	}
}

func Login(accounts *storage.AccountStore, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Validation failed",
				"errors":  bindingErrors(err),
			})
			return
		}

		account, err := accounts.GetByEmail(c.Request.Context(), req.Email)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Error("failed to look up account", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error during login",
			})
			return
		}
		// Unknown email and wrong password produce the same response.
		if account == nil || !auth.CheckPassword(account.Password, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid email or password",
			})
			return
		}

		token, err := tokens.Issue(account.ID)
		if err != nil {
			slog.Error("failed to issue session token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error during login",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"token":   token,
			"user":    account,
		})
	}
}

// bindingErrors flattens gin's binding failure into the same ordered
// message list the task validation uses.
func bindingErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid request body"}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, "Email must be a valid email address")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return msgs
}
