// Package session は認証セッションの状態と資格情報の永続化を管理する。
// 資格情報を書き換えるのはLogin、Logout、Bootstrap（と再検証）だけである。
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hitoshi/suivi/internal/model"
)

// State はセッションの状態。
type State string

const (
	StateAnonymous     State = "anonymous"
	StateBootstrapping State = "bootstrapping"
	StateAuthenticated State = "authenticated"
)

// 永続化に使うキー。
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// 復元したトークンからユーザー名が得られない場合の表示名。
const defaultUsername = "user"

var (
	// ErrBootstrapping は識別情報の解決中であることを示す。
	ErrBootstrapping = errors.New("session: identity is being resolved")
	// ErrUnauthenticated は未ログインであることを示す。
	ErrUnauthenticated = errors.New("session: not authenticated")
)

// Authenticator はバックエンドの認証規約を抽象化する。
type Authenticator interface {
	// Login は資格情報をトークンと交換する。
	Login(ctx context.Context, username, password string) (model.TokenPair, error)
	// Identity はアクセストークンに対応するユーザーを解決する。
	Identity(ctx context.Context, accessToken string) (model.User, error)
	// Logout はバックエンドにログアウトを通知する。
	Logout(ctx context.Context, accessToken string) error
}

// Recorder はセッション状態のメトリクスを記録する。
type Recorder interface {
	SetAuthenticated(authenticated bool)
}

// Store はセッションの状態と資格情報を保持する。
// 呼び出し側に明示的に渡して使い、グローバルには置かない。
type Store struct {
	storage  Storage
	auth     Authenticator
	logger   *slog.Logger
	recorder Recorder

	mu     sync.RWMutex
	state  State
	user   *model.User
	access string
}

// Option はStoreの設定を変更する。
type Option func(*Store)

// WithLogger はロガーを設定する。
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithRecorder はメトリクスの記録先を設定する。
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// NewStore は匿名状態のStoreを生成する。
func NewStore(storage Storage, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		auth:    auth,
		state:   StateAnonymous,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// State は現在の状態を返す。
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User は認証済みユーザーを返す。未認証ならfalse。
func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// AccessToken はトランスポートに渡す資格情報を返す。
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RequireAuthenticated は保護された操作の前に呼ぶガード。
func (s *Store) RequireAuthenticated() error {
	switch s.State() {
	case StateAuthenticated:
		return nil
	case StateBootstrapping:
		return ErrBootstrapping
	default:
		return ErrUnauthenticated
	}
}

// Login は資格情報をトークンと交換して永続化し、識別情報を解決する。
// トークン交換後の識別情報の取得に失敗した場合は、入力したユーザー名だけで認証済みとする。
func (s *Store) Login(ctx context.Context, username, password string) (model.User, error) {
	if err := (model.LoginPayload{Username: username, Password: password}).Validate(); err != nil {
		return model.User{}, err
	}

	pair, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return model.User{}, fmt.Errorf("login: %w", err)
	}

	if err := s.storage.Set(ctx, KeyAccessToken, pair.Access); err != nil {
		return model.User{}, fmt.Errorf("persist access token: %w", err)
	}
	if pair.Refresh != "" {
		if err := s.storage.Set(ctx, KeyRefreshToken, pair.Refresh); err != nil {
			if derr := s.storage.Delete(ctx, KeyAccessToken); derr != nil {
				s.logger.Warn("failed to roll back access token", slog.String("error", derr.Error()))
			}
			return model.User{}, fmt.Errorf("persist refresh token: %w", err)
		}
	}

	s.mu.Lock()
	s.access = pair.Access
	s.mu.Unlock()

	user, err := s.auth.Identity(ctx, pair.Access)
	if err != nil {
		s.logger.Warn("identity resolution failed after login",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		user = model.User{Username: username}
	}
	if user.Username == "" {
		user.Username = username
	}

	s.setAuthenticated(pair.Access, user)
	s.logger.Info("login succeeded", slog.String("username", user.Username))
	return user, nil
}

// Bootstrap は永続化された資格情報からセッションを復元する。
// 識別情報の解決に失敗した場合は資格情報を消して匿名状態に戻す。
// 失敗は通知せず、ストレージの読み書きに失敗した場合だけエラーを返す。
func (s *Store) Bootstrap(ctx context.Context) error {
	token, err := s.storage.Get(ctx, KeyAccessToken)
	if err != nil {
		s.setAnonymous()
		return fmt.Errorf("read access token: %w", err)
	}
	if token == "" {
		s.setAnonymous()
		return nil
	}

	s.mu.Lock()
	s.state = StateBootstrapping
	s.access = token
	s.mu.Unlock()

	user, err := s.auth.Identity(ctx, token)
	if err != nil {
		s.logger.Info("stored session rejected", slog.String("error", err.Error()))
		return s.clear(ctx)
	}
	if user.Username == "" {
		user.Username = defaultUsername
	}

	s.setAuthenticated(token, user)
	return nil
}

// Revalidate は現在の資格情報がまだ有効かを確認する。
// 確認中も状態は変えず、失敗した場合だけ匿名状態に戻す。
func (s *Store) Revalidate(ctx context.Context) error {
	token := s.AccessToken()
	if token == "" {
		return nil
	}

	user, err := s.auth.Identity(ctx, token)

	// 確認中にログアウトや再ログインがあった場合は結果を捨てる
	if s.AccessToken() != token {
		return nil
	}
	if err != nil {
		s.logger.Info("session revalidation failed", slog.String("error", err.Error()))
		return s.clear(ctx)
	}

	s.mu.Lock()
	if user.Username == "" && s.user != nil {
		user.Username = s.user.Username
	}
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Logout はバックエンドへの通知を試み、結果にかかわらず資格情報を消去する。
func (s *Store) Logout(ctx context.Context) error {
	if token := s.AccessToken(); token != "" {
		if err := s.auth.Logout(ctx, token); err != nil {
			s.logger.Debug("logout notification failed", slog.String("error", err.Error()))
		}
	}
	return s.clear(ctx)
}

func (s *Store) clear(ctx context.Context) error {
	s.setAnonymous()
	if err := s.storage.Delete(ctx, KeyAccessToken, KeyRefreshToken); err != nil {
		s.logger.Warn("failed to clear stored credentials", slog.String("error", err.Error()))
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *Store) setAuthenticated(token string, user model.User) {
	s.mu.Lock()
	s.state = StateAuthenticated
	s.access = token
	s.user = &user
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.SetAuthenticated(true)
	}
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.access = ""
	s.user = nil
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.SetAuthenticated(false)
	}
}
