package http

import (
	"context"
	"net/http"
	"strings"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/security"
	"printdesk-backend/internal/service"
)

type contextKey string

const actorKey contextKey = "actor"

// AuthMiddleware authenticates requests with a Bearer access token and
// injects the verified user into the request context. Token validation
// alone is not enough; the session epoch and active flag are rechecked
// against the database on every call.
type AuthMiddleware struct {
	tokens  security.TokenManager
	authSvc service.AuthService
}

func NewAuthMiddleware(tokens security.TokenManager, authSvc service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, authSvc: authSvc}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{errorDetail{Code: "UNAUTHENTICATED", Message: "missing bearer token"}})
			return
		}

		actor, err := m.authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

// authenticate resolves an access token to its live user record.
func (m *AuthMiddleware) authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}
	if claims.Type != security.TokenTypeAccess {
		return nil, domain.ErrSessionInvalid
	}
	return m.authSvc.VerifySession(ctx, claims.UserID, claims.SessionEpoch)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:], true
	}
	return "", false
}

// actorFrom returns the authenticated user placed by AuthMiddleware.
func actorFrom(r *http.Request) *domain.User {
	actor, _ := r.Context().Value(actorKey).(*domain.User)
	return actor
}
