package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

type fakeRecorder struct {
	mu       sync.Mutex
	statuses []int
}

func (r *fakeRecorder) RecordRequest(method string, statusCode int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, statusCode)
}

func TestClient_Do_DecodesJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("HTTPメソッド = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/regions/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"nom":"Nord","code":"N"}]`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := New(server.URL+"/", WithLogger(newTestLogger(&buf)))

	type region struct {
		ID   int    `json:"id"`
		Code string `json:"code"`
	}
	got, err := Call[[]region](context.Background(), c, Request{Path: "/api/regions/"})
	if err != nil {
		t.Fatalf("Call がエラーを返した: %v", err)
	}
	if len(got) != 1 || got[0].Code != "N" {
		t.Errorf("got = %+v", got)
	}
	if !strings.Contains(buf.String(), `"msg":"api_request"`) {
		t.Error("リクエストログが出力されていない")
	}
}

func TestClient_Do_AttachesAuthorization(t *testing.T) {
	tests := []struct {
		name     string
		scheme   string
		token    string
		skipAuth bool
		want     string
	}{
		{"bearer", SchemeBearer, "abc", false, "Bearer abc"},
		{"legacy token", SchemeToken, "abc", false, "Token abc"},
		{"no token", SchemeBearer, "", false, ""},
		{"skip auth", SchemeBearer, "abc", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			c := New(server.URL, WithScheme(tt.scheme), WithCredentials(staticToken(tt.token)))
			if err := c.Do(context.Background(), Request{Path: "/x", SkipAuth: tt.skipAuth}, nil); err != nil {
				t.Fatalf("Do がエラーを返した: %v", err)
			}
			if got != tt.want {
				t.Errorf("Authorization = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_Do_EncodesJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["nom"] != "Poste" {
			t.Errorf("body = %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9}`))
	}))
	defer server.Close()

	c := New(server.URL)
	var out struct {
		ID int `json:"id"`
	}
	err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/projets/", Body: map[string]string{"nom": "Poste"}}, &out)
	if err != nil {
		t.Fatalf("Do がエラーを返した: %v", err)
	}
	if out.ID != 9 {
		t.Errorf("ID = %d, want 9", out.ID)
	}
}

func TestClient_Do_MultipartBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary=") {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("courrier") != "3" {
			t.Errorf("courrier = %q", r.FormValue("courrier"))
		}
		f, hdr, err := r.FormFile("fichier")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "pv.pdf" || string(data) != "%PDF" {
			t.Errorf("file = %s %q", hdr.Filename, data)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	body := (&Multipart{}).Field("courrier", "3").File("fichier", "pv.pdf", strings.NewReader("%PDF"))
	c := New(server.URL)
	if err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/documents/", Body: body}, nil); err != nil {
		t.Fatalf("Do がエラーを返した: %v", err)
	}
}

func TestClient_Do_HTTPErrorWithJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Commentaire obligatoire"}`))
	}))
	defer server.Close()

	rec := &fakeRecorder{}
	c := New(server.URL, WithRecorder(rec))
	err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/dossiers/1/refuser/"}, nil)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d", httpErr.Status)
	}
	if httpErr.Detail() != "Commentaire obligatoire" {
		t.Errorf("Detail = %q", httpErr.Detail())
	}
	if httpErr.Method != http.MethodPost || httpErr.Path != "/api/dossiers/1/refuser/" {
		t.Errorf("Method/Path = %s %s", httpErr.Method, httpErr.Path)
	}
	if len(rec.statuses) != 1 || rec.statuses[0] != 400 {
		t.Errorf("recorded = %v", rec.statuses)
	}
}

func TestClient_Do_HTTPErrorWithTextBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<h1>Bad Gateway</h1>"))
	}))
	defer server.Close()

	err := New(server.URL).Do(context.Background(), Request{Path: "/api/projets/"}, nil)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if s, ok := httpErr.Body.(string); !ok || s != "<h1>Bad Gateway</h1>" {
		t.Errorf("Body = %#v", httpErr.Body)
	}
}

func TestClient_Do_TextResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	got, err := Call[string](context.Background(), New(server.URL), Request{Path: "/ping"})
	if err != nil {
		t.Fatalf("Call がエラーを返した: %v", err)
	}
	if got != "ok" {
		t.Errorf("got = %q, want ok", got)
	}
}

func TestClient_Do_CancelledContextIsAborted(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- New(server.URL).Do(ctx, Request{Path: "/slow"}, nil)
	}()

	<-started
	cancel()

	select {
	case err := <-errCh:
		if !IsAborted(err) {
			t.Errorf("expected aborted error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("キャンセル後もリクエストが終了しない")
	}
}

func TestClient_Interceptors_Order(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Trace"); got != "first,second" {
			t.Errorf("X-Trace = %q", got)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("X-Request-ID が付与されていない")
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL)
	c.UseRequest(func(req *http.Request) error {
		req.Header.Set("X-Trace", "first")
		return nil
	})
	c.UseRequest(func(req *http.Request) error {
		req.Header.Set("X-Trace", req.Header.Get("X-Trace")+",second")
		return nil
	})
	c.UseRequest(RequestID())

	var seen []string
	c.UseResponse(func(resp *http.Response) (*http.Response, error) {
		seen = append(seen, "a")
		return resp, nil
	})
	c.UseResponse(OnStatus(http.StatusUnauthorized, func(*http.Response) {
		seen = append(seen, "401")
	}))

	err := c.Do(context.Background(), Request{Path: "/api/auth/dashboard/"}, nil)
	if !IsUnauthorized(err) {
		t.Errorf("expected 401 error, got %v", err)
	}
	if strings.Join(seen, ",") != "a,401" {
		t.Errorf("response interceptors = %v", seen)
	}
}

func TestClient_ResponseInterceptorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL)
	sentinel := errors.New("rejected")
	c.UseResponse(func(resp *http.Response) (*http.Response, error) {
		return nil, sentinel
	})

	if err := c.Do(context.Background(), Request{Path: "/"}, nil); !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel, got %v", err)
	}
}

func TestClient_CustomHeaderOverrides(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token override" {
			t.Errorf("Authorization = %q", got)
		}
	}))
	defer server.Close()

	c := New(server.URL, WithCredentials(staticToken("abc")))
	h := http.Header{}
	h.Set("Authorization", "Token override")
	if err := c.Do(context.Background(), Request{Path: "/", Header: h}, nil); err != nil {
		t.Fatalf("Do がエラーを返した: %v", err)
	}
}

func TestClient_QueryString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "statut=Refus%C3%A9&equipement=5" {
			t.Errorf("RawQuery = %q", r.URL.RawQuery)
		}
	}))
	defer server.Close()

	q := Params{}.Add("statut", "Refusé").AddInt("equipement", 5)
	if err := New(server.URL).Do(context.Background(), Request{Path: "/api/dossiers/", Query: q}, nil); err != nil {
		t.Fatalf("Do がエラーを返した: %v", err)
	}
}

func TestClient_RateLimit_CancelledWait(t *testing.T) {
	c := New("http://127.0.0.1:0", WithRateLimit(0.001, 1))
	// 最初のトークンを消費する
	c.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Do(ctx, Request{Path: "/"}, nil); err == nil {
		t.Error("キャンセル済みのコンテキストでは待機がエラーになるべき")
	}
}

func TestNewHTTPClient_HasCookieJar(t *testing.T) {
	hc, err := NewHTTPClient(2 * time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient がエラーを返した: %v", err)
	}
	if hc.Jar == nil {
		t.Error("cookie jar should be set")
	}
	if hc.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v", hc.Timeout)
	}
}
