package httpclient

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestInterceptor は送信前のリクエストを変更する。登録順に同期的に適用される。
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor は受信した応答を検査し、必要なら差し替える。
// 登録順に1つずつ適用される。差し替える場合は元の応答ボディを閉じる責任を負う。
type ResponseInterceptor func(resp *http.Response) (*http.Response, error)

// UseRequest はリクエストインターセプターを追加する。
func (c *Client) UseRequest(fn RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestInterceptors = append(c.requestInterceptors, fn)
}

// UseResponse はレスポンスインターセプターを追加する。
func (c *Client) UseResponse(fn ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseInterceptors = append(c.responseInterceptors, fn)
}

func (c *Client) requestHooks() []RequestInterceptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]RequestInterceptor(nil), c.requestInterceptors...)
}

func (c *Client) responseHooks() []ResponseInterceptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ResponseInterceptor(nil), c.responseInterceptors...)
}

// RequestIDHeader はリクエストIDを載せるヘッダー名。
const RequestIDHeader = "X-Request-ID"

// RequestID は未設定のリクエストにUUIDv4のX-Request-IDを付与する。
func RequestID() RequestInterceptor {
	return func(req *http.Request) error {
		if req.Header.Get(RequestIDHeader) == "" {
			req.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return nil
	}
}

// OnStatus は指定したステータスの応答を受けたときにfnを呼ぶ。応答は変更しない。
func OnStatus(status int, fn func(resp *http.Response)) ResponseInterceptor {
	return func(resp *http.Response) (*http.Response, error) {
		if resp.StatusCode == status {
			fn(resp)
		}
		return resp, nil
	}
}
