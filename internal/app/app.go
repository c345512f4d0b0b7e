package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/hitoshi/suivi/internal/config"
	"github.com/hitoshi/suivi/internal/database"
	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/logger"
	"github.com/hitoshi/suivi/internal/query"
	"github.com/hitoshi/suivi/internal/session"
)

// ErrUnknownCommand はサポート外のサブコマンドが指定されたことを示す。
var ErrUnknownCommand = errors.New("unknown command")

// IO はコマンドの入出力先。
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Init はアプリケーションの初期化を行う。
// .envと環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
func Init(w io.Writer) (*config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(os.Getenv("SUIVI_ENV_FILE")); err != nil {
		return nil, nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))
	return cfg, log, nil
}

// Run はアプリケーションのメインエントリーポイント。
// argsにはos.Args[1:]を渡す。
func Run(ctx context.Context, stdio IO, args []string) error {
	cmd, ok := ParseCommand(args)
	if !ok {
		PrintUsage(stdio.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	if cmd == CommandHelp {
		PrintUsage(stdio.Stdout)
		return nil
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		addr := os.Getenv("SUIVI_STATUS_ADDR")
		if addr == "" {
			addr = ":9090"
		}
		return runHealthcheck(addr)
	}

	cfg, log, err := Init(stdio.Stderr)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	if cmd == CommandMigrate {
		return runMigrate(cfg, stdio.Stdout)
	}

	rt, err := NewRuntime(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer rt.Close()

	if err := rt.Bootstrap(ctx); err != nil {
		return err
	}

	log.Debug("running command",
		slog.String("command", string(cmd)),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("session", string(rt.Session.State())),
	)

	e := &env{ctx: ctx, rt: rt, io: stdio, args: args[1:]}
	return dispatch(cmd, e)
}

func dispatch(cmd Command, e *env) error {
	switch cmd {
	case CommandLogin:
		return runLogin(e)
	case CommandLogout:
		return runLogout(e)
	case CommandWhoami:
		return runWhoami(e)
	case CommandProjects:
		return runProjects(e)
	case CommandEquipment:
		return runEquipment(e)
	case CommandDossiers:
		return runDossiers(e)
	case CommandCourriers:
		return runCourriers(e)
	case CommandDocuments:
		return runDocuments(e)
	case CommandHistory:
		return runHistory(e)
	case CommandRegions:
		return runRegions(e)
	case CommandStats:
		return runStats(e)
	case CommandCreate:
		return runCreate(e)
	case CommandUpdate:
		return runUpdate(e)
	case CommandValidate:
		return runDecision(e, true)
	case CommandReject:
		return runDecision(e, false)
	case CommandDelete:
		return runDelete(e)
	case CommandUpload:
		return runUpload(e)
	case CommandDownload:
		return runDownload(e)
	case CommandWatch:
		return runWatch(e)
	default:
		PrintUsage(e.io.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

// env は1回のコマンド実行の文脈。
type env struct {
	ctx  context.Context
	rt   *Runtime
	io   IO
	args []string
}

// flags はサブコマンド用のFlagSetを生成する。全コマンドで--jsonを受け付ける。
func (e *env) flags(name string) (*pflag.FlagSet, *bool) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(e.io.Stderr)
	asJSON := fs.Bool("json", false, "JSONで出力する")
	return fs, asJSON
}

func (e *env) printer(asJSON bool) *printer {
	return newPrinter(e.io.Stdout, asJSON, e.rt.Sanitizer)
}

// requireSession は保護された操作の前にログイン状態を確認する。
func (e *env) requireSession() error {
	if err := e.rt.Session.RequireAuthenticated(); err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			return fmt.Errorf("%w (exécutez « suivi login »)", err)
		}
		return err
	}
	return nil
}

// fetchOnce はクエリの初回取得を待ち、結果を返してクエリを閉じる。
func fetchOnce[F, T any](ctx context.Context, q *query.Query[F, T]) (T, error) {
	defer q.Close()
	st, err := q.Wait(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if st.Err != "" {
		return st.Data, errors.New(st.Err)
	}
	return st.Data, nil
}

// parseIDs は位置引数を正のIDの列として解析する。
func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ErrorMessage はエラーを利用者向けの文言に変換する。
func ErrorMessage(err error) string {
	return httpclient.Message(err, err.Error())
}

// runMigrate はセッションストレージのマイグレーションを実行する。
func runMigrate(cfg *config.Config, w io.Writer) error {
	if cfg.DatabaseURL == "" {
		return errors.New("SUIVI_DATABASE_URL is required for migrate")
	}
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	fmt.Fprintf(w, "Migrations appliquées (version %d).\n", version)
	return nil
}

// runHealthcheck はwatchモードのステータスサーバーの/healthを確認する。
func runHealthcheck(addr string) error {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	url := fmt.Sprintf("http://%s/health", host)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
