package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/models"
	"github.com/brunocorregedoria/reforma2/internal/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// respondError writes the standard error envelope
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Authenticate verifies the bearer token and re-resolves the user row, so a
// token issued for a since-deleted user is rejected. A missing header is 401;
// an invalid token or vanished user is 403.
func Authenticate(db *gorm.DB, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "access token required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			userID, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				respondError(w, http.StatusForbidden, "invalid token")
				return
			}

			var user models.User
			if err := db.First(&user, userID).Error; err != nil {
				respondError(w, http.StatusForbidden, "invalid token")
				return
			}

			// Note the acting user on the audit record, if one is active
			if rec, ok := r.Context().Value(auditContextKey).(*AuditRecord); ok {
				id := user.ID
				rec.userID = &id
			}

			ctx := context.WithValue(r.Context(), userContextKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user attached by Authenticate
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// RequireRoles allows only the listed roles through. An empty list means any
// authenticated user.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "user not authenticated")
				return
			}
			if len(allowed) > 0 && !allowed[user.Role] {
				respondError(w, http.StatusForbidden, "access denied: insufficient permission")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
