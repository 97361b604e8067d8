// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the taskapi service.
//
// # Authentication Flow
//
// The session middleware extracts a bearer token from the Authorization
// header, verifies it, and stores the principal id in the Gin context
// for downstream handlers. Requests without a resolvable principal are
// rejected here and never reach a handler.
//
//	Request
//	   │
//	   ▼
//	SessionMiddleware
//	   │
//	   ├─► Extract token from "Authorization: Bearer <token>"
//	   │
//	   ├─► tokens.Verify(token)
//	   │
//	   └─► Store principal id in context
//	           │
//	           ▼
//	       Role gate (optional) ─► Handler
//
// The role gate (roles.go) is separate: it resolves the principal's
// current role from the account store per request and enforces it.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/TaskDeck/services/taskapi/auth"
)

// Context keys. Typed constants prevent collisions with other values.
const (
	principalIDKey   = "taskdeck_principal_id"
	principalRoleKey = "taskdeck_principal_role"
)

// =============================================================================
// Context Helpers
// =============================================================================

// SetPrincipalID stores the authenticated account id in the Gin context.
func SetPrincipalID(c *gin.Context, id string) {
	c.Set(principalIDKey, id)
}

// GetPrincipalID retrieves the authenticated account id, or "" when the
// request did not pass the session middleware.
func GetPrincipalID(c *gin.Context) string {
	return c.GetString(principalIDKey)
}

// SetPrincipalRole stores the role resolved by the role gate.
func SetPrincipalRole(c *gin.Context, role string) {
	c.Set(principalRoleKey, role)
}

// GetPrincipalRole retrieves the resolved role, or "" when no gate ran.
func GetPrincipalRole(c *gin.Context) string {
	return c.GetString(principalRoleKey)
}

// =============================================================================
// Session Middleware
// =============================================================================

// SessionMiddleware authenticates requests with a bearer session token.
//
// A missing, malformed, or invalid token aborts the request with 401
// before any handler runs. On success the principal id is stored in
// the context for handlers and the role gate.
func SessionMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}

		accountID, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		SetPrincipalID(c, accountID)
		c.Next()
	}
}

// extractBearerToken extracts the token from the Authorization header.
// Returns empty string if the header is missing or malformed. The
// "Bearer" prefix is case-insensitive per RFC 7235.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
