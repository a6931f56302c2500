// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portal_backend/internal/feature/auth/domain"
	"portal_backend/internal/feature/auth/domain/entity"
)

const (
	// maxPasswordBytes はbcryptが受け付けるパスワードの最大バイト数です。
	maxPasswordBytes = 72

	// dummyDigest はユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュです。
	dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// メールアドレスまたはユーザー名が重複する場合、domain.ErrDuplicateIdentityを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrIdentityNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// PasswordHasher はパスワードの一方向ハッシュを抽象化します。
type PasswordHasher interface {
	// Hash はソルト付きダイジェストを返します。
	Hash(plaintext string) (string, error)
	// Verify は平文がダイジェストに一致するかを返します。
	Verify(plaintext, digest string) (bool, error)
}

// authUsecase は認証ビジネスロジックを実装します。
// 呼び出しごとの状態は持たず、依存はすべてコンストラクタで注入されます。
type authUsecase struct {
	users      UserRepository
	sessions   SessionRepository
	hasher     PasswordHasher
	quota      entity.Quota
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// quotaは登録時に付与される初期リソース、sessionTTLが0以下の場合セッションは期限切れになりません。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, hasher PasswordHasher,
	quota entity.Quota, sessionTTL time.Duration) *authUsecase {
	return &authUsecase{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		quota:      quota,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// validateRegistration は必須フィールドとパスワード長を検証します。
func validateRegistration(username, email, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}
	return nil
}

// Register はハッシュ化されたパスワードと初期クォータで新規ユーザーを登録します。
func (u *authUsecase) Register(ctx context.Context, username, email, password string) error {
	if err := validateRegistration(username, email, password); err != nil {
		return err
	}

	digest, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: digest,
		CPU:      u.quota.CPU,
		RAM:      u.quota.RAM,
		Disk:     u.quota.Disk,
		Time:     u.quota.Time,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return err
		}
		return storeFailure("create user", err)
	}
	return nil
}

// Login はメールアドレスとパスワードを検証し、成功時にパスワードを除いたユーザー情報を返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.SessionUser, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, storeFailure("find user", err)
	}

	// bcryptは先頭72バイトしか比較しないため、超過分は登録済みパスワードと一致し得ない
	tooLong := len(password) > maxPasswordBytes

	digest := dummyDigest
	if err == nil && !tooLong {
		digest = user.Password
	}
	ok, verifyErr := u.hasher.Verify(password, digest)

	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}
	if tooLong {
		return nil, domain.ErrInvalidCredential
	}
	if verifyErr != nil {
		return nil, verifyErr
	}
	if !ok {
		return nil, domain.ErrInvalidCredential
	}
	return user.ToSessionUser(), nil
}

// CreateSession は呼び出し側が生成した識別子でセッションを保存します。
// 識別子を異なるユーザー間で再利用しないことは呼び出し側の責任です。
func (u *authUsecase) CreateSession(ctx context.Context, id string, user *entity.SessionUser) error {
	if id == "" || user == nil {
		return fmt.Errorf("%w: session id and user are required", domain.ErrValidation)
	}

	now := u.now()
	session := &entity.Session{
		ID:        id,
		User:      *user,
		CreatedAt: now,
	}
	if u.sessionTTL > 0 {
		session.ExpiresAt = now.Add(u.sessionTTL)
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return storeFailure("create session", err)
	}
	return nil
}

// Logout はセッションを無条件に破棄します。存在しないセッションの破棄は何もしません。
func (u *authUsecase) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := u.sessions.Delete(ctx, sessionID); err != nil {
		slog.Warn("failed to destroy session", "error", err)
	}
}

// CurrentUser はセッションに紐づくユーザーを返します。状態遷移や副作用はありません。
func (u *authUsecase) CurrentUser(ctx context.Context, sessionID string) (*entity.SessionUser, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	session, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, storeFailure("find session", err)
	}
	if session.IsExpired() {
		return nil, domain.ErrSessionNotFound
	}
	user := session.User
	return &user, nil
}

// PruneSessions は期限切れのセッションを削除し、削除件数を返します。
func (u *authUsecase) PruneSessions(ctx context.Context) (int64, error) {
	n, err := u.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, storeFailure("delete expired sessions", err)
	}
	return n, nil
}
