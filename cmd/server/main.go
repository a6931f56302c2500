package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"portal_backend/internal/app/di"
	"portal_backend/internal/app/router"
	"portal_backend/internal/app/web"
	"portal_backend/internal/config"
	authadapters "portal_backend/internal/feature/auth/adapters"
	authhandler "portal_backend/internal/feature/auth/transport/handler"
	authusecase "portal_backend/internal/feature/auth/usecase"
	"portal_backend/internal/platform/db"
	"portal_backend/internal/platform/logging"
	"portal_backend/internal/platform/password"
	infraredis "portal_backend/internal/platform/redis"
	"portal_backend/internal/platform/sessioncookie"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if _, err := logging.Setup(cfg.LogLevel, cfg.LogJSON, os.Stdout); err != nil {
		log.Fatalf("invalid logging configuration: %v", err)
	}

	// db
	gormDB, err := db.OpenDB(cfg.DB, cfg.RunMigrations)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		slog.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(cfg.Redis); err != nil {
		if errors.Is(err, infraredis.ErrNotConfigured) {
			slog.Info("redis not configured; storing sessions in the database")
		} else {
			slog.Warn("redis unavailable; storing sessions in the database", "error", err)
		}
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserPostgres(gormDB)
	sessionRepo := di.NewSessionRepository(rdb, gormDB)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, password.NewBcryptHasher(password.DefaultCost),
		cfg.Quota, cfg.SessionTTL)

	// Handler
	cookies := sessioncookie.NewManager(cfg.SessionSecret, cfg.CookieSecure, cfg.SessionTTL)
	authH := authhandler.NewAuthHandler(authUC, cookies, cfg.AppName)

	tmpl, err := web.Templates()
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	// ルータ生成
	engine := router.NewRouter(tmpl, authH, cookies, authUC, sqlDB)

	// SESSION_SECRETチェック（開発中の注意喚起）
	if cfg.SessionSecret == config.DefaultSessionSecret {
		slog.Warn("SESSION_SECRET is not set; using the fallback secret. Set a strong secret in production.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SessionTTL > 0 {
		go pruneSessions(ctx, authUC, cfg.SessionTTL)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "app", cfg.AppName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}

type sessionPruner interface {
	PruneSessions(ctx context.Context) (int64, error)
}

// pruneSessions は期限切れセッションを定期的に削除します。
func pruneSessions(ctx context.Context, p sessionPruner, ttl time.Duration) {
	interval := min(ttl, time.Hour)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PruneSessions(ctx)
			if err != nil {
				slog.Warn("session prune failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions pruned", "count", n)
			}
		}
	}
}
