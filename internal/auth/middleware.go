package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/httputil"
	"github.com/taskboard/taskboard-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	// UserContextKey holds the authenticated *user.User
	UserContextKey ContextKey = "auth_user"
)

// UserFinder is the user lookup the middleware needs to resolve a
// verified token to a live account.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	users        UserFinder
}

func NewMiddleware(tokenService TokenService, users UserFinder) *Middleware {
	return &Middleware{tokenService: tokenService, users: users}
}

// RequireAuth validates the bearer token and attaches the resolved user
// to the request context. It is a pure gate: it never mutates state.
//
// Outcomes: missing/malformed header -> 401 "no token"; verification
// failure -> 401 "token failed"; account gone -> 401 "user not found".
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondError(w, "Not authorized, no token", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondError(w, "Not authorized, no token", http.StatusUnauthorized)
			return
		}

		userID, err := m.tokenService.VerifyToken(parts[1])
		if err != nil {
			httputil.RespondError(w, "Not authorized, token failed", http.StatusUnauthorized)
			return
		}

		u, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httputil.RespondError(w, "Not authorized, user not found", http.StatusUnauthorized)
				return
			}
			httputil.RespondError(w, "Server Error", http.StatusInternalServerError)
			return
		}

		// The context copy never carries the hash downstream
		clean := *u
		clean.PasswordHash = ""

		ctx := context.WithValue(r.Context(), UserContextKey, &clean)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSelf enforces resource ownership: the authenticated user's id
// must equal the {id} path parameter. A malformed id can never match,
// so it is rejected the same way.
func (m *Middleware) RequireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := GetUserFromContext(r.Context())
		if !ok {
			httputil.RespondError(w, "Not authorized, no token", http.StatusUnauthorized)
			return
		}

		if chi.URLParam(r, "id") != u.ID.String() {
			httputil.RespondError(w, "Unauthorized access", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*user.User)
	return u, ok
}
