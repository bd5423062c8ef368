package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/acadly/paperpay/pkg/auth"
)

type contextKey string

// Context keys for authenticated request values
const (
	StudentIDKey contextKey = "student_id"
	EmailKey     contextKey = "email"
	RoleKey      contextKey = "role"
)

// AuthMiddleware validates the session JWT and stores claims in the context
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondJSON(w, http.StatusUnauthorized, Response{
				Success: false,
				Error:   "Authorization header required",
			})
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondJSON(w, http.StatusUnauthorized, Response{
				Success: false,
				Error:   "Invalid authorization header format",
			})
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, Response{
				Success: false,
				Error:   "Invalid token",
			})
			return
		}

		ctx := context.WithValue(r.Context(), StudentIDKey, claims.StudentID)
		ctx = context.WithValue(ctx, EmailKey, claims.Email)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// TeacherMiddleware restricts coupon administration to teachers and admins
func TeacherMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(RoleKey).(string)
		if !ok || (role != "teacher" && role != "admin") {
			respondJSON(w, http.StatusForbidden, Response{
				Success: false,
				Error:   "Teacher access required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
