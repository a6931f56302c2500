package usecase_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"portal_backend/internal/feature/auth/adapters"
	"portal_backend/internal/feature/auth/domain"
	"portal_backend/internal/feature/auth/domain/entity"
	"portal_backend/internal/feature/auth/usecase"
	"portal_backend/internal/platform/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// authFlow is the surface of the auth usecase exercised end to end.
type authFlow interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (*entity.SessionUser, error)
	CreateSession(ctx context.Context, id string, user *entity.SessionUser) error
	Logout(ctx context.Context, sessionID string)
	CurrentUser(ctx context.Context, sessionID string) (*entity.SessionUser, error)
}

// setupFlow wires the usecase to the SQL adapters over an in-memory SQLite database.
func setupFlow(t *testing.T) (*gorm.DB, authFlow) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}, &adapters.SessionModel{}))

	uc := usecase.NewAuthUsecase(
		adapters.NewUserPostgres(db),
		adapters.NewSessionGorm(db),
		password.NewBcryptHasher(bcrypt.MinCost),
		entity.Quota{CPU: 100, RAM: 2048, Disk: 10240, Time: "5h"},
		0,
	)
	return db, uc
}

func TestAuthFlow_Scenario(t *testing.T) {
	db, uc := setupFlow(t)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, "alice", "a@x.com", "secret1"))

	user, err := uc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, 100, user.CPU)
	assert.Equal(t, 2048, user.RAM)
	assert.Equal(t, 10240, user.Disk)
	assert.Equal(t, "5h", user.Time)

	// The session payload never carries the digest
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$")

	_, err = uc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	err = uc.Register(ctx, "alice2", "a@x.com", "secret2")
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	var n int64
	require.NoError(t, db.Model(&entity.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestAuthFlow_LoginDistinguishesFailures(t *testing.T) {
	_, uc := setupFlow(t)
	ctx := context.Background()
	require.NoError(t, uc.Register(ctx, "alice", "a@x.com", "secret1"))

	_, err := uc.Login(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)

	for _, wrong := range []string{"secret", "Secret1", "SECRET1", "s"} {
		_, err := uc.Login(ctx, "a@x.com", wrong)
		assert.ErrorIs(t, err, domain.ErrInvalidCredential, "password %q", wrong)
	}
}

func TestAuthFlow_LoginRejectsSuffixBeyondBcryptLimit(t *testing.T) {
	_, uc := setupFlow(t)
	ctx := context.Background()
	pw := strings.Repeat("a", 72)
	require.NoError(t, uc.Register(ctx, "alice", "a@x.com", pw))

	user, err := uc.Login(ctx, "a@x.com", pw+"EXTRA")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = uc.Login(ctx, "nobody@x.com", pw+"EXTRA")
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)

	user, err = uc.Login(ctx, "a@x.com", pw)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthFlow_DuplicateUsername(t *testing.T) {
	db, uc := setupFlow(t)
	ctx := context.Background()
	require.NoError(t, uc.Register(ctx, "alice", "a@x.com", "secret1"))

	err := uc.Register(ctx, "alice", "b@x.com", "secret1")
	assert.Equal(t, domain.KindDuplicateIdentity, domain.KindOf(err))

	var n int64
	require.NoError(t, db.Model(&entity.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestAuthFlow_SessionLifecycle(t *testing.T) {
	_, uc := setupFlow(t)
	ctx := context.Background()
	require.NoError(t, uc.Register(ctx, "alice", "a@x.com", "secret1"))

	// Anonymous
	_, err := uc.CurrentUser(ctx, "sid-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Anonymous -> Authenticated
	user, err := uc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, uc.CreateSession(ctx, "sid-1", user))

	current, err := uc.CurrentUser(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, user, current)

	// Authenticated -> Anonymous, twice
	uc.Logout(ctx, "sid-1")
	uc.Logout(ctx, "sid-1")

	_, err = uc.CurrentUser(ctx, "sid-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
