// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger はデータベースなどの依存先への疎通確認を抽象化します。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewHealth は /healthz エンドポイント用のハンドラーを返します。
// pingerがnilの場合は依存先を確認せずに成功を返します。
func NewHealth(pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		status, body := http.StatusOK, gin.H{"status": "ok"}
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pinger.PingContext(ctx); err != nil {
				slog.Error("health check failed", "error", err)
				status, body = http.StatusServiceUnavailable, gin.H{"status": "unavailable"}
			}
		}

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(status)
		default:
			c.JSON(status, body)
		}
	}
}
