package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hitoshi/suivi/internal/handler"
	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/metrics"
	"github.com/hitoshi/suivi/internal/notify"
	"github.com/hitoshi/suivi/internal/query"
	"github.com/hitoshi/suivi/internal/session"
)

// ErrSessionExpired はwatch中にセッションが無効になったことを示す。
var ErrSessionExpired = errors.New("session expired: run « suivi login » again")

// runWatch はダッシュボードを一定間隔で再取得して表示し続ける。
// 再取得のたびにセッションを再検証し、無効になったら終了する。
// SIGINTまたはSIGTERMシグナルを受信すると終了する。
func runWatch(e *env) error {
	cfg := e.rt.Config
	fs, asJSON := e.flags("watch")
	interval := fs.Duration("interval", cfg.RefreshInterval, "intervalle de rafraîchissement")
	statusAddr := fs.String("status-addr", cfg.StatusAddr, "adresse du serveur d'état (vide pour le désactiver)")
	activity := fs.Int("activity", cfg.ActivityLimit, "nombre d'actions récentes")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if *interval <= 0 {
		return fmt.Errorf("watch: invalid interval %s", *interval)
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(e.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := e.rt.Logger
	validator := session.NewValidator(e.rt.Session, cfg.ValidateDebounce, log)
	defer validator.Stop()
	e.rt.Client.UseResponse(httpclient.OnStatus(http.StatusUnauthorized, func(*http.Response) {
		validator.Trigger(ctx)
	}))

	if *statusAddr != "" {
		shutdown, err := startStatusServer(e.rt, *statusAddr)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	dash := query.NewDashboard(ctx, e.rt.Services.Stats, *activity, queryOptions[int](e.rt)...)
	defer dash.Close()
	changes, unsubscribe := dash.Subscribe()
	defer unsubscribe()
	notes, unsubscribeNotes := e.rt.Notifications.Subscribe()
	defer unsubscribeNotes()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	log.Info("watch started",
		slog.Duration("interval", *interval),
		slog.String("status_addr", *statusAddr),
	)

	p := e.printer(*asJSON)
	var lastErr string
	for {
		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			return nil
		case <-ticker.C:
			if e.rt.Session.State() == session.StateAnonymous {
				return ErrSessionExpired
			}
			validator.Trigger(ctx)
			dash.Refetch()
		case msg, ok := <-notes:
			if ok {
				p.notification(msg)
			}
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			st := dash.State()
			view := query.View(st)
			if view != query.ViewLoading && st.Err != lastErr && st.Err != "" {
				level := notify.LevelWarning
				if view == query.ViewError {
					level = notify.LevelError
				}
				e.rt.Notifications.Show(st.Err, level)
			}
			if st.Err == "" && lastErr != "" {
				e.rt.Notifications.Clear()
			}
			if view != query.ViewLoading {
				lastErr = st.Err
			}
			if view == query.ViewReady && !st.Loading {
				if err := renderDashboard(p, st.Data); err != nil {
					return err
				}
			}
		}
	}
}

func renderDashboard(p *printer, d query.Dashboard) error {
	if !p.json {
		fmt.Fprintf(p.w, "\n== Tableau de bord (%s) ==\n", time.Now().Format("15:04:05"))
	}
	return p.dashboard(d)
}

// startStatusServer はステータスサーバーを起動し、停止関数を返す。
func startStatusServer(rt *Runtime, addr string) (func(), error) {
	deps := &handler.RouterDeps{
		Session:       rt.Session,
		Notifications: rt.Notifications,
		Metrics:       metrics.Handler(rt.Registry),
		Logger:        rt.Logger,
	}
	if rt.DB != nil {
		deps.Health = rt.DB
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("status server listen: %w", err)
	}

	go func() {
		rt.Logger.Info("status server starting", slog.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			rt.Logger.Error("status server error", slog.String("error", err.Error()))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			rt.Logger.Error("status server shutdown failed", slog.String("error", err.Error()))
		}
	}, nil
}
