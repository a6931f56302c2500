package usecase

import (
	"context"

	"portal_backend/internal/feature/auth/domain/entity"
)

// SessionRepository abstracts the server-side session store.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SessionRepository interface {
	// Create stores a new session under session.ID.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its opaque identifier.
	// It returns domain.ErrSessionNotFound if none exists.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes all expired sessions from storage.
	// Returns the number of deleted sessions.
	DeleteExpired(ctx context.Context) (int64, error)
}
