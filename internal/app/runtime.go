package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/suivi/internal/config"
	"github.com/hitoshi/suivi/internal/database"
	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/metrics"
	"github.com/hitoshi/suivi/internal/mutation"
	"github.com/hitoshi/suivi/internal/notify"
	"github.com/hitoshi/suivi/internal/query"
	"github.com/hitoshi/suivi/internal/security"
	"github.com/hitoshi/suivi/internal/service"
	"github.com/hitoshi/suivi/internal/session"
)

// storagePingTimeout はPostgreSQLセッションストレージの疎通確認のタイムアウト。
const storagePingTimeout = 5 * time.Second

// Runtime はコマンド実行に必要な依存関係一式。
type Runtime struct {
	Config        *config.Config
	Logger        *slog.Logger
	Registry      *prometheus.Registry
	Metrics       *metrics.Collector
	HTTPClient    *http.Client
	Client        *httpclient.Client
	Services      *service.Services
	Session       *session.Store
	Notifications *notify.Channel
	Sanitizer     *security.TextSanitizer
	Downloader    *security.Downloader

	// DB はセッションストレージがpostgresのときだけ設定される。
	DB *sql.DB
}

// storeCredentials はクライアントの生成後にセッションストアを差し込むためのホルダー。
type storeCredentials struct {
	store *session.Store
}

func (c *storeCredentials) AccessToken() string {
	if c.store == nil {
		return ""
	}
	return c.store.AccessToken()
}

// NewRuntime は設定から依存関係を組み立てる。永続化された資格情報の読み込みは行わない。
func NewRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	hc, err := httpclient.NewHTTPClient(cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	creds := &storeCredentials{}
	client := httpclient.New(cfg.APIBaseURL,
		httpclient.WithHTTPClient(hc),
		httpclient.WithScheme(authScheme(cfg.AuthScheme)),
		httpclient.WithCredentials(creds),
		httpclient.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		httpclient.WithRecorder(collector),
		httpclient.WithLogger(logger),
	)
	client.UseRequest(httpclient.RequestID())

	auth, err := service.NewAuthenticator(cfg.AuthScheme, client)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:        cfg,
		Logger:        logger,
		Registry:      registry,
		Metrics:       collector,
		HTTPClient:    hc,
		Client:        client,
		Services:      service.New(client),
		Notifications: notify.NewChannel(),
		Sanitizer:     security.NewTextSanitizer(),
	}

	storage, err := rt.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	rt.Session = session.NewStore(storage, auth,
		session.WithLogger(logger),
		session.WithRecorder(collector),
	)
	creds.store = rt.Session

	rt.Downloader, err = security.NewDownloader(cfg.APIBaseURL, hc, cfg.DownloadTimeout, cfg.DownloadMaxSize, logger)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to create downloader: %w", err)
	}

	return rt, nil
}

func (rt *Runtime) openStorage(ctx context.Context) (session.Storage, error) {
	cfg := rt.Config
	switch cfg.SessionStore {
	case config.StoreMemory:
		return session.NewMemoryStorage(), nil
	case config.StorePostgres:
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := database.Ping(ctx, db, storagePingTimeout); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		rt.DB = db
		rt.Logger.Debug("session storage connected",
			slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
			slog.String("profile", cfg.SessionProfile),
		)
		return session.NewPostgresStorage(db, cfg.SessionProfile), nil
	default:
		path := cfg.SessionFile
		if path == "" {
			path = session.DefaultFilePath()
		}
		return session.NewFileStorage(path), nil
	}
}

// Bootstrap は保存された資格情報からセッションを復元する。
func (rt *Runtime) Bootstrap(ctx context.Context) error {
	if err := rt.Session.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	return nil
}

// MutationDeps はミューテーションに渡す依存関係を返す。
func (rt *Runtime) MutationDeps() mutation.Deps {
	return mutation.Deps{
		Notifier: rt.Notifications,
		Recorder: rt.Metrics,
		Logger:   rt.Logger,
	}
}

// Close は保持しているリソースを解放する。
func (rt *Runtime) Close() error {
	if rt.DB != nil {
		return rt.DB.Close()
	}
	return nil
}

// queryOptions はクエリ共通のオプションを返す。
func queryOptions[F any](rt *Runtime) []query.Option[F] {
	return []query.Option[F]{
		query.WithRecorder[F](rt.Metrics),
		query.WithLogger[F](rt.Logger),
	}
}

func authScheme(name string) string {
	if name == "token" {
		return httpclient.SchemeToken
	}
	return httpclient.SchemeBearer
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
