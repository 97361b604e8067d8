// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/TaskDeck/services/taskapi/datatypes"
	"github.com/AleutianAI/TaskDeck/services/taskapi/storage"
)

// AccountResolver is the single account lookup the role gate performs.
// *storage.AccountStore satisfies it.
type AccountResolver interface {
	Get(ctx context.Context, id string) (*datatypes.Account, error)
}

// RequireAdmin gates a route on the admin role.
//
// The principal's role is resolved from the account store on every
// invocation; nothing is cached across requests, so a role change is
// effective immediately. A missing account and a non-admin role
// produce the identical 403 response, so the gate never leaks whether
// an account exists. A store failure is a 500, distinct from denial.
func RequireAdmin(accounts AccountResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := accounts.Get(c.Request.Context(), GetPrincipalID(c))
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Error("role gate lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error during authorization",
			})
			return
		}
		if account == nil || account.Role != datatypes.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Access denied. Admin privileges required.",
			})
			return
		}

		SetPrincipalRole(c, account.Role)
		c.Next()
	}
}

// RequireRole gates a route on membership in a set of acceptable
// roles. The denial message enumerates the acceptable roles. Lookup
// semantics match RequireAdmin: one uncached store read per request,
// missing account indistinguishable from role mismatch.
func RequireRole(accounts AccountResolver, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := accounts.Get(c.Request.Context(), GetPrincipalID(c))
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Error("role gate lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error during authorization",
			})
			return
		}
		if account == nil || !roleAllowed(account.Role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Access denied. Required role: " + strings.Join(roles, " or "),
			})
			return
		}

		SetPrincipalRole(c, account.Role)
		c.Next()
	}
}

func roleAllowed(role string, roles []string) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}
