package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/suivi/internal/middleware"
	"github.com/hitoshi/suivi/internal/model"
	"github.com/hitoshi/suivi/internal/notify"
	"github.com/hitoshi/suivi/internal/session"
)

// HealthChecker は依存先の疎通を確認する。Postgresのセッション保存先などが実装する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// SessionReader はセッションの現在の状態を返す。
type SessionReader interface {
	State() session.State
	User() (model.User, bool)
}

// NotificationReader は表示中の通知を返す。
type NotificationReader interface {
	Current() (notify.Message, bool)
}

// StatusHandler はwatchモードの状態を公開するハンドラー。
type StatusHandler struct {
	health        HealthChecker
	session       SessionReader
	notifications NotificationReader
	logger        *slog.Logger
}

// NewStatusHandler はStatusHandlerを生成する。healthとnotificationsはnilでもよい。
func NewStatusHandler(health HealthChecker, sess SessionReader, notifications NotificationReader, logger *slog.Logger) *StatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusHandler{
		health:        health,
		session:       sess,
		notifications: notifications,
		logger:        logger,
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Health は依存先の疎通を確認する。
// GET /health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.health.PingContext(ctx); err != nil {
			h.logger.Warn("health check failed", slog.String("error", err.Error()))
			middleware.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Error: "storage unreachable"})
			return
		}
	}
	middleware.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type sessionResponse struct {
	State session.State `json:"state"`
	User  *model.User   `json:"user,omitempty"`
}

// Session はセッションの状態とユーザーを返す。トークンは含めない。
// GET /session
func (h *StatusHandler) Session(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{State: h.session.State()}
	if u, ok := h.session.User(); ok {
		resp.User = &u
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

type notificationResponse struct {
	Text  string       `json:"text"`
	Level notify.Level `json:"level"`
	At    time.Time    `json:"at"`
}

// Notification は表示中の通知を返す。通知がなければ204。
// GET /notification
func (h *StatusHandler) Notification(w http.ResponseWriter, r *http.Request) {
	if h.notifications == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	msg, ok := h.notifications.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, notificationResponse{Text: msg.Text, Level: msg.Level, At: msg.At})
}
