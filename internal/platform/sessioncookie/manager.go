// Package sessioncookie carries the opaque session identifier in a signed cookie.
// The identifier is wrapped in an HS256 token keyed by the session secret, so a
// tampered cookie is rejected before the session store is consulted.
package sessioncookie

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultName is the cookie name used when none is configured.
const DefaultName = "sid"

// ErrNoSession is returned when the request carries no valid session cookie.
var ErrNoSession = errors.New("no session cookie")

// Manager signs, reads and clears the session cookie.
type Manager struct {
	secret []byte
	name   string
	secure bool
	maxAge time.Duration
}

// NewManager creates a Manager. A zero maxAge issues a browser-session cookie.
func NewManager(secret string, secure bool, maxAge time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		name:   DefaultName,
		secure: secure,
		maxAge: maxAge,
	}
}

// NewID returns a fresh random session identifier.
func NewID() string {
	return uuid.NewString()
}

// Sign wraps sessionID in a signed token.
func (m *Manager) Sign(sessionID string) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:       sessionID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	if m.maxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(m.maxAge))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and returns the session identifier it carries.
func (m *Manager) Parse(value string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: missing session id", ErrNoSession)
	}
	return claims.ID, nil
}

// Issue signs sessionID and sets it as the session cookie on the response.
func (m *Manager) Issue(c *gin.Context, sessionID string) error {
	value, err := m.Sign(sessionID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.name, value, int(m.maxAge.Seconds()), "/", "", m.secure, true)
	return nil
}

// SessionID returns the verified session identifier from the request cookie.
func (m *Manager) SessionID(c *gin.Context) (string, error) {
	value, err := c.Cookie(m.name)
	if err != nil || value == "" {
		return "", ErrNoSession
	}
	return m.Parse(value)
}

// Clear expires the session cookie in the browser.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.name, "", -1, "/", "", m.secure, true)
}
