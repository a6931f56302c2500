// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portal_backend/internal/feature/auth/domain"
	"portal_backend/internal/feature/auth/domain/entity"
	"portal_backend/internal/feature/auth/transport/http/dto"
	"portal_backend/internal/platform/sessioncookie"
)

// ユーザー向けエラーメッセージ。エラー種別から選択され、ユースケースの制御フローとは独立しています。
const (
	msgValidation        = "All fields are required"
	msgDuplicateIdentity = "Identifier already claimed"
	msgRegisterFailed    = "Registration protocols failed"
	msgIdentityNotFound  = "Identity not found"
	msgInvalidCredential = "Invalid security token"
	msgUplinkFailure     = "Uplink failure (DB Error)"
	msgSessionFailed     = "Session could not be established"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は指定されたユーザー名・メールアドレス・パスワードで新規ユーザーを登録します。
	Register(ctx context.Context, username, email, password string) error
	// Login は認証に成功した場合、パスワードを除いたユーザー情報を返します。
	Login(ctx context.Context, email, password string) (*entity.SessionUser, error)
	// CreateSession は識別子とユーザー情報でセッションを保存します。
	CreateSession(ctx context.Context, id string, user *entity.SessionUser) error
	// Logout はセッションを破棄します。
	Logout(ctx context.Context, sessionID string)
}

// AuthHandler は認証画面のHTTPリクエストを処理します。
type AuthHandler struct {
	auth    AuthUsecase
	cookies *sessioncookie.Manager
	appName string
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseとセッションクッキー管理を注入します。
func NewAuthHandler(auth AuthUsecase, cookies *sessioncookie.Manager, appName string) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies, appName: appName}
}

// render はAPP_NAMEと現在のユーザーを付与してテンプレートを描画します。
func (h *AuthHandler) render(c *gin.Context, status int, page string, errMsg string) {
	data := gin.H{"APP_NAME": h.appName, "user": nil, "error": nil}
	if user, ok := sessioncookie.UserFrom(c); ok {
		data["user"] = user
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	c.HTML(status, page, data)
}

// logFailure はエラー種別に応じたレベルでログを出力します。
// ストア障害と内部エラーのみerrorレベルで記録します。
func logFailure(c *gin.Context, msg string, err error, attrs ...any) {
	kind := domain.KindOf(err)
	attrs = append(attrs, "error", err, "kind", kind.String(), "remote_addr", c.ClientIP())
	switch kind {
	case domain.KindStoreUnavailable, domain.KindInternal:
		slog.Error(msg, attrs...)
	default:
		slog.Warn(msg, attrs...)
	}
}

// Home は GET / を処理します。RequireUserミドルウェアの後段で呼ばれます。
func (h *AuthHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "index.html", "")
}

// ShowLogin は GET /login を処理します。
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", "")
}

// ShowRegister は GET /register を処理します。
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", "")
}

// Register は POST /register を処理します。
// - 必須フィールド欠落時は400でフォームを再描画
// - 重複時・ストア障害時はエラーメッセージ付きでフォームを再描画
// - 成功時は /login へリダイレクト
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterForm
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		h.render(c, http.StatusBadRequest, "register.html", msgValidation)
		return
	}

	err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		logFailure(c, "register failed", err, "email", req.Email, "username", req.Username)
		switch domain.KindOf(err) {
		case domain.KindValidation:
			h.render(c, http.StatusBadRequest, "register.html", msgValidation)
		case domain.KindDuplicateIdentity:
			h.render(c, http.StatusOK, "register.html", msgDuplicateIdentity)
		default:
			h.render(c, http.StatusOK, "register.html", msgRegisterFailed)
		}
		return
	}

	slog.Info("user registration successful", "email", req.Email, "username", req.Username, "remote_addr", c.ClientIP())
	c.Redirect(http.StatusFound, "/login")
}

// Login は POST /login を処理します。
// - 認証成功時は新しいセッションを発行し / へリダイレクト
// - 失敗時はエラー種別ごとのメッセージでフォームを再描画
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginForm
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		h.render(c, http.StatusBadRequest, "login.html", msgValidation)
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logFailure(c, "login failed", err, "email", req.Email)
		switch domain.KindOf(err) {
		case domain.KindValidation:
			h.render(c, http.StatusBadRequest, "login.html", msgValidation)
		case domain.KindIdentityNotFound:
			h.render(c, http.StatusOK, "login.html", msgIdentityNotFound)
		case domain.KindInvalidCredential:
			h.render(c, http.StatusOK, "login.html", msgInvalidCredential)
		default:
			h.render(c, http.StatusOK, "login.html", msgUplinkFailure)
		}
		return
	}

	// 以前のセッションは破棄し、常に新しい識別子を発行する
	if old := sessioncookie.SessionIDFrom(c); old != "" {
		h.auth.Logout(c.Request.Context(), old)
	}
	sessionID := sessioncookie.NewID()
	if err := h.auth.CreateSession(c.Request.Context(), sessionID, user); err != nil {
		logFailure(c, "session creation failed", err, "email", req.Email)
		h.render(c, http.StatusOK, "login.html", msgSessionFailed)
		return
	}
	if err := h.cookies.Issue(c, sessionID); err != nil {
		logFailure(c, "session cookie signing failed", err, "email", req.Email)
		h.auth.Logout(c.Request.Context(), sessionID)
		h.render(c, http.StatusOK, "login.html", msgSessionFailed)
		return
	}

	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.Redirect(http.StatusFound, "/")
}

// Logout は GET /logout を処理します。セッションの有無にかかわらず /login へリダイレクトします。
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), sessioncookie.SessionIDFrom(c))
	h.cookies.Clear(c)
	c.Redirect(http.StatusFound, "/login")
}
