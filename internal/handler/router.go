package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/suivi/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Health        HealthChecker
	Session       SessionReader
	Notifications NotificationReader
	// Metrics はnilなら/metricsを公開しない。
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewRouter はwatchモードのステータスサーバーのルーティングを構成する。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	h := NewStatusHandler(deps.Health, deps.Session, deps.Notifications, logger)
	r.Get("/health", h.Health)
	r.Get("/session", h.Session)
	r.Get("/notification", h.Notification)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "Ressource introuvable.")
	})
	return r
}
