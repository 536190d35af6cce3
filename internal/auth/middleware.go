package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/horizonbtp/vitrine/internal/errors"
)

// Middleware extracts an optional bearer token and attaches the verified
// session to the request context. Requests without a token pass through
// unauthenticated; a present-but-invalid token is rejected immediately.
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header {
				writeAuthError(w, http.StatusUnauthorized, apperrors.ErrAuthToken, "malformed authorization header")
				return
			}

			session, err := v.Parse(token)
			if err != nil {
				status := http.StatusUnauthorized
				writeAuthError(w, status, apperrors.CodeOf(err), "invalid session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireRole rejects requests whose session lacks the role. Must run after
// Middleware.
func RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := FromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, apperrors.ErrAuthToken, "authentication required")
				return
			}
			if !HasRole(session, role) {
				writeAuthError(w, http.StatusForbidden, apperrors.ErrAuthRole, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, code apperrors.ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
		"code":  string(code),
	})
}
