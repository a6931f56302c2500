package adapters

import (
	"encoding/json"
	"fmt"
	"time"

	"portal_backend/internal/feature/auth/domain/entity"
)

// SessionModel is the GORM model for the sessions table.
// The SessionUser snapshot is stored as a JSON document.
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:64"`
	Payload   string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"not null"`
	ExpiresAt *time.Time `gorm:"index"` // nil if the session never expires
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity converts the GORM model to a domain entity.
func (m *SessionModel) ToEntity() (*entity.Session, error) {
	var user entity.SessionUser
	if err := json.Unmarshal([]byte(m.Payload), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session payload: %w", err)
	}
	s := &entity.Session{
		ID:        m.ID,
		User:      user,
		CreatedAt: m.CreatedAt,
	}
	if m.ExpiresAt != nil {
		s.ExpiresAt = *m.ExpiresAt
	}
	return s, nil
}

// SessionModelFromEntity converts a domain entity to a GORM model.
func SessionModelFromEntity(s *entity.Session) (*SessionModel, error) {
	payload, err := json.Marshal(s.User)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session payload: %w", err)
	}
	m := &SessionModel{
		ID:        s.ID,
		Payload:   string(payload),
		CreatedAt: s.CreatedAt,
	}
	if !s.ExpiresAt.IsZero() {
		expiresAt := s.ExpiresAt
		m.ExpiresAt = &expiresAt
	}
	return m, nil
}
