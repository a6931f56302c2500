package router

import (
	"html/template"

	"github.com/gin-gonic/gin"

	authhandler "portal_backend/internal/feature/auth/transport/handler"
	"portal_backend/internal/platform/http/handler"
	"portal_backend/internal/platform/http/middleware"
	"portal_backend/internal/platform/sessioncookie"
)

// NewRouter はページ・認証・ヘルスチェックのルートを登録したエンジンを返します。
func NewRouter(tmpl *template.Template, authHandler *authhandler.AuthHandler,
	cookies *sessioncookie.Manager, gate sessioncookie.SessionGate, db handler.Pinger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog())
	r.SetHTMLTemplate(tmpl)

	// 導通確認用（セッション解決より前に登録）
	health := handler.NewHealth(db)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	// 以降のルートはセッションクッキーから現在のユーザーを解決する
	pages := r.Group("/")
	pages.Use(sessioncookie.LoadUser(cookies, gate))
	{
		// 認証不要
		pages.GET("/login", authHandler.ShowLogin)
		pages.POST("/login", authHandler.Login)
		pages.GET("/register", authHandler.ShowRegister)
		pages.POST("/register", authHandler.Register)
		pages.GET("/logout", authHandler.Logout)

		// 認証必須
		pages.GET("/", sessioncookie.RequireUser(), authHandler.Home)
	}

	return r
}
