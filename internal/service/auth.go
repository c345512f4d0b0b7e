package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/model"
	"github.com/hitoshi/suivi/internal/session"
)

// BearerAuth はJWTアクセストークンを使う認証規約。
// 識別情報はトークンのクレームから読み取り、ログアウトはローカルの消去だけで済む。
type BearerAuth struct {
	client *httpclient.Client
	now    func() time.Time
}

// NewBearerAuth はBearerAuthを生成する。
func NewBearerAuth(c *httpclient.Client) *BearerAuth {
	return &BearerAuth{client: c, now: time.Now}
}

// Login は資格情報をアクセス/リフレッシュトークンと交換する。
func (a *BearerAuth) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	return httpclient.Call[model.TokenPair](ctx, a.client, httpclient.Request{
		Method:   http.MethodPost,
		Path:     "/api/token/",
		Body:     model.LoginPayload{Username: username, Password: password},
		SkipAuth: true,
	})
}

// Identity はトークンのクレームからユーザーを解決する。
func (a *BearerAuth) Identity(_ context.Context, accessToken string) (model.User, error) {
	return session.UserFromToken(accessToken, a.now())
}

// Logout はバックエンドに通知するエンドポイントがないため何もしない。
func (a *BearerAuth) Logout(context.Context, string) error {
	return nil
}

// TokenAuth は不透明なトークンと "Token" スキームを使う旧来の認証規約。
type TokenAuth struct {
	client *httpclient.Client
}

// NewTokenAuth はTokenAuthを生成する。
func NewTokenAuth(c *httpclient.Client) *TokenAuth {
	return &TokenAuth{client: c}
}

type tokenLoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Login は資格情報をトークンと交換する。
func (a *TokenAuth) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	resp, err := httpclient.Call[tokenLoginResponse](ctx, a.client, httpclient.Request{
		Method:   http.MethodPost,
		Path:     "/api/auth/login/",
		Body:     model.LoginPayload{Username: username, Password: password},
		SkipAuth: true,
	})
	if err != nil {
		return model.TokenPair{}, err
	}
	if resp.Token == "" {
		return model.TokenPair{}, errors.New("login response without token")
	}
	return model.TokenPair{Access: resp.Token}, nil
}

// Identity はプロフィールAPIからユーザーを解決する。
func (a *TokenAuth) Identity(ctx context.Context, accessToken string) (model.User, error) {
	user, err := httpclient.Call[model.User](ctx, a.client, httpclient.Request{
		Path:   "/api/auth/dashboard/",
		Header: authHeader(accessToken),
	})
	if err != nil {
		return model.User{}, err
	}
	if user.Username == "" {
		return model.User{}, errors.New("profile response without username")
	}
	return user, nil
}

// Logout はバックエンドにトークンの破棄を依頼する。
func (a *TokenAuth) Logout(ctx context.Context, accessToken string) error {
	return a.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/api/logout/",
		Body:   map[string]string{"token": accessToken},
		Header: authHeader(accessToken),
	}, nil)
}

func authHeader(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", httpclient.SchemeToken+" "+token)
	return h
}

// NewAuthenticator は設定されたスキームに対応する認証規約を返す。
func NewAuthenticator(scheme string, c *httpclient.Client) (session.Authenticator, error) {
	switch scheme {
	case "", "bearer", httpclient.SchemeBearer:
		return NewBearerAuth(c), nil
	case "token", httpclient.SchemeToken:
		return NewTokenAuth(c), nil
	default:
		return nil, fmt.Errorf("unknown auth scheme %q (expected bearer or token)", scheme)
	}
}

var (
	_ session.Authenticator = (*BearerAuth)(nil)
	_ session.Authenticator = (*TokenAuth)(nil)
)
