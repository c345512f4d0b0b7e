package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// セッションの保存先。
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config はCLI全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// API
	APIBaseURL     string
	AuthScheme     string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int

	// Session
	SessionStore     string
	SessionFile      string
	SessionProfile   string
	DatabaseURL      string
	ValidateDebounce time.Duration

	// Watch
	ActivityLimit   int
	RefreshInterval time.Duration
	StatusAddr      string

	// Download
	DownloadMaxSize int64
	DownloadTimeout time.Duration

	// Logging
	LogLevel string
}

// LoadDotEnv はpathの.envファイルを環境変数に読み込む。既に設定済みの変数は上書きしない。
// ファイルが存在しない場合は何もしない。
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合や値が不正な場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.APIBaseURL = strings.TrimRight(os.Getenv("SUIVI_API_BASE_URL"), "/")
	if cfg.APIBaseURL == "" {
		missing = append(missing, "SUIVI_API_BASE_URL")
	}

	cfg.SessionStore = strings.ToLower(getEnvString("SUIVI_SESSION_STORE", StoreFile))
	cfg.DatabaseURL = os.Getenv("SUIVI_DATABASE_URL")
	if cfg.SessionStore == StorePostgres && cfg.DatabaseURL == "" {
		missing = append(missing, "SUIVI_DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	switch cfg.SessionStore {
	case StoreFile, StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("invalid SUIVI_SESSION_STORE %q: want file, postgres or memory", cfg.SessionStore)
	}

	cfg.AuthScheme = strings.ToLower(getEnvString("SUIVI_AUTH_SCHEME", "bearer"))
	if cfg.AuthScheme != "bearer" && cfg.AuthScheme != "token" {
		return nil, fmt.Errorf("invalid SUIVI_AUTH_SCHEME %q: want bearer or token", cfg.AuthScheme)
	}

	// Optional fields with defaults
	cfg.RequestTimeout = getEnvDuration("SUIVI_REQUEST_TIMEOUT", 0)
	cfg.RateLimit = getEnvFloat("SUIVI_RATE_LIMIT", 0)
	cfg.RateBurst = getEnvInt("SUIVI_RATE_BURST", 1)
	cfg.SessionFile = getEnvString("SUIVI_SESSION_FILE", "")
	cfg.SessionProfile = getEnvString("SUIVI_SESSION_PROFILE", "default")
	cfg.ValidateDebounce = getEnvDuration("SUIVI_VALIDATE_DEBOUNCE", 300*time.Millisecond)
	cfg.ActivityLimit = getEnvInt("SUIVI_ACTIVITY_LIMIT", 15)
	cfg.RefreshInterval = getEnvDuration("SUIVI_REFRESH_INTERVAL", 30*time.Second)
	cfg.StatusAddr = getEnvString("SUIVI_STATUS_ADDR", ":9090")
	cfg.DownloadMaxSize = getEnvInt64("SUIVI_DOWNLOAD_MAX_SIZE", 50<<20)
	cfg.DownloadTimeout = getEnvDuration("SUIVI_DOWNLOAD_TIMEOUT", 60*time.Second)
	cfg.LogLevel = getEnvString("SUIVI_LOG_LEVEL", "info")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
