// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "portal_backend/internal/feature/auth/adapters"
	"portal_backend/internal/feature/auth/usecase"
	"portal_backend/internal/platform/session"
)

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the SQL sessions table.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		slog.Info("session store selected", "backend", "redis")
		return session.NewSessionRedis(rdb, "session")
	}
	slog.Info("session store selected", "backend", "sql")
	return authadapters.NewSessionGorm(db)
}
