package sessioncookie

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portal_backend/internal/feature/auth/domain"
	"portal_backend/internal/feature/auth/domain/entity"
)

const (
	// ContextUser holds the *entity.SessionUser of an authenticated request.
	ContextUser = "sessionUser"
	// ContextSessionID holds the verified session identifier, if any.
	ContextSessionID = "sessionID"
)

// SessionGate resolves a session identifier to its user.
type SessionGate interface {
	CurrentUser(ctx context.Context, sessionID string) (*entity.SessionUser, error)
}

// LoadUser returns a middleware that resolves the session cookie and stores
// the session identifier and user in the gin context. Requests without a
// valid session continue anonymously.
func LoadUser(m *Manager, gate SessionGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := m.SessionID(c)
		if err != nil {
			c.Next()
			return
		}
		c.Set(ContextSessionID, id)

		user, err := gate.CurrentUser(c.Request.Context(), id)
		switch domain.KindOf(err) {
		case domain.KindNone:
			c.Set(ContextUser, user)
		case domain.KindSessionNotFound:
			// anonymous
		default:
			slog.Error("session lookup failed", "error", err, "kind", domain.KindOf(err).String(), "remote_addr", c.ClientIP())
		}
		c.Next()
	}
}

// RequireUser redirects anonymous requests to /login.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFrom(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserFrom returns the authenticated user loaded by LoadUser.
func UserFrom(c *gin.Context) (*entity.SessionUser, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.SessionUser)
	return user, ok && user != nil
}

// SessionIDFrom returns the verified session identifier loaded by LoadUser.
func SessionIDFrom(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
