// Package httpclient はバックエンドAPIへのHTTPトランスポートを提供する。
// 認証ヘッダーの付与、JSON/multipartのエンコード、応答の解析、
// インターセプター、キャンセルを一か所にまとめる。
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// 認証ヘッダーのスキーム。バックエンドの規約に合わせて設定で選ぶ。
const (
	SchemeBearer = "Bearer"
	SchemeToken  = "Token"
)

// CredentialSource はAuthorizationヘッダーに載せるトークンを提供する。
// 空文字列を返した場合はヘッダーを付与しない。
type CredentialSource interface {
	AccessToken() string
}

// Recorder はリクエスト結果のメトリクスを記録する。
type Recorder interface {
	RecordRequest(method string, statusCode int, duration time.Duration)
}

// Request は1回のAPI呼び出しを表す。
type Request struct {
	Method string
	Path   string
	Query  Params
	// Body はJSONにエンコードされる。*Multipartの場合はmultipartで送る。
	Body   any
	Header http.Header
	// SkipAuth がtrueの場合はAuthorizationヘッダーを付与しない。
	SkipAuth bool
}

// Client はAPIのベースURLに対してリクエストを送るトランスポート。
type Client struct {
	baseURL     string
	httpClient  *http.Client
	scheme      string
	credentials CredentialSource
	limiter     *rate.Limiter
	recorder    Recorder
	logger      *slog.Logger

	mu                   sync.RWMutex
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// Option はClientの設定を変更する。
type Option func(*Client)

// WithHTTPClient は内部で使う*http.Clientを差し替える。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithScheme は認証ヘッダーのスキームを設定する。
func WithScheme(scheme string) Option {
	return func(c *Client) { c.scheme = scheme }
}

// WithCredentials はトークンの取得元を設定する。
func WithCredentials(src CredentialSource) Option {
	return func(c *Client) { c.credentials = src }
}

// WithRateLimit はクライアント側の送信レートを制限する。perSecondが0以下なら無効。
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithRecorder はメトリクスの記録先を設定する。
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithLogger はロガーを設定する。
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New は新しいClientを生成する。
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		scheme:     SchemeBearer,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// NewHTTPClient はクッキージャー付きの*http.Clientを生成する。
// timeoutが0の場合はタイムアウトを設定しない。
func NewHTTPClient(timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
	}, nil
}

// BaseURL は設定されたベースURLを返す。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do はリクエストを送信し、成功時の応答をoutにデコードする。
// outがnilの場合は応答ボディを捨てる。2xx以外は*HTTPErrorを返す。
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: wait rate limiter: %w", method, r.Path, err)
		}
	}

	req, err := c.newRequest(ctx, method, r)
	if err != nil {
		return err
	}

	for _, fn := range c.requestHooks() {
		if err := fn(req); err != nil {
			return fmt.Errorf("%s %s: request interceptor: %w", method, r.Path, err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, method, r.Path, 0, time.Since(start))
		return fmt.Errorf("%s %s: %w", method, r.Path, err)
	}

	for _, fn := range c.responseHooks() {
		next, err := fn(resp)
		if err != nil {
			resp.Body.Close()
			c.record(ctx, method, r.Path, resp.StatusCode, time.Since(start))
			return fmt.Errorf("%s %s: response interceptor: %w", method, r.Path, err)
		}
		resp = next
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.record(ctx, method, r.Path, resp.StatusCode, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, r.Path, err)
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			Status: resp.StatusCode,
			Body:   parseErrorBody(body, isJSON),
			Method: method,
			Path:   r.Path,
		}
	}

	return decodeBody(body, isJSON, out)
}

func (c *Client) newRequest(ctx context.Context, method string, r Request) (*http.Request, error) {
	target := c.baseURL + r.Path
	if q := r.Query.Encode(); q != "" {
		target += "?" + q
	}

	var (
		body        io.Reader
		contentType string
	)
	switch b := r.Body.(type) {
	case nil:
		contentType = "application/json"
	case *Multipart:
		buf, ct, err := b.encode()
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode multipart: %w", method, r.Path, err)
		}
		body, contentType = buf, ct
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", method, r.Path, err)
		}
		body, contentType = bytes.NewReader(encoded), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: create request: %w", method, r.Path, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	if !r.SkipAuth && c.credentials != nil {
		if token := c.credentials.AccessToken(); token != "" {
			req.Header.Set("Authorization", c.scheme+" "+token)
		}
	}
	for k, vs := range r.Header {
		req.Header[k] = vs
	}
	return req, nil
}

func (c *Client) record(ctx context.Context, method, path string, status int, d time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordRequest(method, status, d)
	}

	level := slog.LevelDebug
	if status == 0 || status >= 500 {
		level = slog.LevelError
	} else if status >= 400 {
		level = slog.LevelWarn
	}
	if status == 0 && IsAborted(ctx.Err()) {
		level = slog.LevelDebug
	}
	c.logger.Log(ctx, level, "api_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("duration_ms", float64(d.Nanoseconds())/float64(time.Millisecond)),
	)
}

func parseErrorBody(body []byte, isJSON bool) any {
	if isJSON && len(body) > 0 {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			return v
		}
	}
	return string(body)
}

func decodeBody(body []byte, isJSON bool, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if isJSON {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = string(body)
		return nil
	}
	return fmt.Errorf("decode response: unexpected non-JSON body (%d bytes)", len(body))
}

// Call はリクエストを送信し、応答をT型で返す。
func Call[T any](ctx context.Context, c *Client, r Request) (T, error) {
	var out T
	if err := c.Do(ctx, r, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
