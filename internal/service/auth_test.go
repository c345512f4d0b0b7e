package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/session"
)

func TestBearerAuth_LoginScenario(t *testing.T) {
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"email":    "alice@example.com",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/token/" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("ログインに Authorization を付与してはならない")
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" || body["password"] != "pw" {
			t.Errorf("body = %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"access": access, "refresh": "r1"})
	}))
	defer server.Close()

	storage := session.NewMemoryStorage()
	store := session.NewStore(storage, NewBearerAuth(httpclient.New(server.URL)))

	user, err := store.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login がエラーを返した: %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Errorf("user = %+v", user)
	}
	if store.State() != session.StateAuthenticated {
		t.Errorf("State = %s", store.State())
	}
	if v, _ := storage.Get(context.Background(), session.KeyAccessToken); v != access {
		t.Error("access_token が保存されていない")
	}
	if v, _ := storage.Get(context.Background(), session.KeyRefreshToken); v != "r1" {
		t.Errorf("refresh_token = %q", v)
	}
}

func TestBearerAuth_UserIDOnlyToken(t *testing.T) {
	// simplejwt の既定クレームには username も sub もない
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    7,
		"token_type": "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"access": access, "refresh": "r1"})
	}))
	defer server.Close()

	storage := session.NewMemoryStorage()
	auth := NewBearerAuth(httpclient.New(server.URL))
	ctx := context.Background()

	user, err := session.NewStore(storage, auth).Login(ctx, "alice", "x")
	if err != nil {
		t.Fatalf("Login がエラーを返した: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("login Username = %q, want alice", user.Username)
	}

	restored := session.NewStore(storage, auth)
	if err := restored.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap がエラーを返した: %v", err)
	}
	if u, ok := restored.User(); !ok || u.Username != "user" {
		t.Errorf("bootstrap User = %+v, %v, want user", u, ok)
	}
}

func TestBearerAuth_IdentityRejectsExpired(t *testing.T) {
	a := NewBearerAuth(httpclient.New("http://unused"))
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "bob",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))

	if _, err := a.Identity(context.Background(), expired); !errors.Is(err, session.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
	if err := a.Logout(context.Background(), expired); err != nil {
		t.Errorf("Logout = %v, want nil", err)
	}
}

func TestTokenAuth_LoginIdentityLogout(t *testing.T) {
	var logoutBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login/":
			io.WriteString(w, `{"token":"opaque","username":"carol","first_name":"Carole","last_name":"Petit"}`)
		case "/api/auth/dashboard/":
			if got := r.Header.Get("Authorization"); got != "Token opaque" {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"detail":"Informations d'authentification non fournies."}`)
				return
			}
			io.WriteString(w, `{"username":"carol","email":"carol@example.com"}`)
		case "/api/logout/":
			json.NewDecoder(r.Body).Decode(&logoutBody)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	a := NewTokenAuth(httpclient.New(server.URL, httpclient.WithScheme(httpclient.SchemeToken)))
	ctx := context.Background()

	pair, err := a.Login(ctx, "carol", "pw")
	if err != nil {
		t.Fatalf("Login がエラーを返した: %v", err)
	}
	if pair.Access != "opaque" || pair.Refresh != "" {
		t.Errorf("pair = %+v", pair)
	}

	user, err := a.Identity(ctx, "opaque")
	if err != nil {
		t.Fatalf("Identity がエラーを返した: %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Errorf("user = %+v", user)
	}

	if _, err := a.Identity(ctx, "stale"); !httpclient.IsUnauthorized(err) {
		t.Errorf("expected 401, got %v", err)
	}

	if err := a.Logout(ctx, "opaque"); err != nil {
		t.Fatalf("Logout がエラーを返した: %v", err)
	}
	if logoutBody["token"] != "opaque" {
		t.Errorf("logout body = %v", logoutBody)
	}
}

func TestNewAuthenticator(t *testing.T) {
	c := httpclient.New("http://unused")
	if a, err := NewAuthenticator("bearer", c); err != nil {
		t.Errorf("bearer: %v", err)
	} else if _, ok := a.(*BearerAuth); !ok {
		t.Errorf("bearer: got %T", a)
	}
	if a, err := NewAuthenticator("token", c); err != nil {
		t.Errorf("token: %v", err)
	} else if _, ok := a.(*TokenAuth); !ok {
		t.Errorf("token: got %T", a)
	}
	if _, err := NewAuthenticator("basic", c); err == nil {
		t.Error("未知のスキームはエラーになるべき")
	}
}
