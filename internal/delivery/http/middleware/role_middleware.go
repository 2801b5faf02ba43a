package middleware

import (
	"net/http"

	"health-info-api/internal/domain/entity"
	"health-info-api/pkg/response"

	"github.com/gorilla/mux"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireAdminOrDoctor is a convenience middleware for admin or doctor endpoints
func RequireAdminOrDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, entity.RoleDoctor)(next)
}

// RequireOwner allows the request when the route variable param names the
// authenticated user. Admins pass as well when allowAdmin is set.
func RequireOwner(param string, allowAdmin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "User information not found")
				return
			}

			if mux.Vars(r)[param] == userID {
				next.ServeHTTP(w, r)
				return
			}

			if role, _ := GetRoleFromContext(r.Context()); allowAdmin && role == entity.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}

			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}

// RequireSelfOrAdmin is RequireOwner with admins allowed.
func RequireSelfOrAdmin(param string) func(http.Handler) http.Handler {
	return RequireOwner(param, true)
}

// RequireSelf is RequireOwner without the admin bypass.
func RequireSelf(param string) func(http.Handler) http.Handler {
	return RequireOwner(param, false)
}
