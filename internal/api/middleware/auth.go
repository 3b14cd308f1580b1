package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/service"
	"github.com/mdr/duck-rewards-website/internal/session"
)

type contextKey string

const (
	SessionKey contextKey = "session"
)

// Session resolves the request's session from its bearer token and stores a
// snapshot in the request context. It never rejects a request itself: an
// absent, expired, or invalid token is simply an anonymous session, and the
// access gate decides what that visitor may see.
//
// A valid identity whose profile row cannot be loaded degrades to an
// identity-only session rather than failing the request.
func Session(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := session.Session{}

			if token := bearerToken(r); token != "" {
				if identity, user := resolveToken(r.Context(), authService, token); identity != nil {
					snap.Identity = identity
					snap.Profile = user
				}
			}

			ctx := context.WithValue(r.Context(), SessionKey, snap)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func resolveToken(ctx context.Context, authService *service.AuthService, token string) (*domain.Identity, *domain.User) {
	claims, err := authService.ValidateToken(token)
	if err != nil {
		return nil, nil
	}

	sub, ok := (*claims)["sub"].(string)
	if !ok {
		return nil, nil
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, nil
	}
	email, _ := (*claims)["email"].(string)
	identity := &domain.Identity{ID: userID, Email: email}

	user, err := authService.GetUserByID(ctx, userID)
	if err != nil {
		log.Printf("ERROR [middleware.Session] profile load failed for %s: %v", userID, err)
		return identity, nil
	}
	if user.IsSuspended {
		// A suspended account's token no longer establishes an identity.
		return nil, nil
	}
	return identity, user
}

// GetSession returns the session snapshot resolved for this request.
func GetSession(ctx context.Context) (session.Session, bool) {
	snap, ok := ctx.Value(SessionKey).(session.Session)
	return snap, ok
}

// GetUserID returns the authenticated user's id, if any.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	snap, ok := GetSession(ctx)
	if !ok || snap.Identity == nil {
		return uuid.Nil, false
	}
	return snap.Identity.ID, true
}
