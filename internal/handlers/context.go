package handlers

import (
	"context"
)

// Context keys
type contextKey string

const (
	// UserIDKey is the key for the authenticated user's ID in the context
	UserIDKey contextKey = "userID"

	// UserRoleKey is the key for the authenticated user's role in the context
	UserRoleKey contextKey = "userRole"
)

// NewContextWithUser adds the authenticated user's ID and role to the context
func NewContextWithUser(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UserRoleKey, role)
}

// UserIDFromContext extracts the authenticated user's ID from the context
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// RoleFromContext extracts the authenticated user's role from the context
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}
