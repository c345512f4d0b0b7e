package httpclient

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// HTTPError は2xx以外の応答を表す。Bodyは解析済みJSONまたは生テキストを保持する。
type HTTPError struct {
	Status int
	Body   any
	Method string
	Path   string
}

// Error はerrorインターフェースを実装する。
func (e *HTTPError) Error() string {
	if detail := e.Detail(); detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

// Detail はバックエンドが返したdetailフィールドを取り出す。
// フィールド単位のバリデーションエラーは最初のメッセージを返す。
func (e *HTTPError) Detail() string {
	switch body := e.Body.(type) {
	case map[string]any:
		if d, ok := body["detail"].(string); ok {
			return d
		}
		if d, ok := body["error"].(string); ok {
			return d
		}
		keys := make([]string, 0, len(body))
		for k := range body {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msgs, ok := body[k].([]any); ok && len(msgs) > 0 {
				if s, ok := msgs[0].(string); ok {
					return s
				}
			}
		}
	case string:
		return strings.TrimSpace(body)
	}
	return ""
}

// IsUnauthorized は401応答かどうかを返す。
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == 401
}

// IsAborted は呼び出し元のキャンセルで中断された要求かどうかを返す。
// タイムアウトは中断ではなく失敗として扱う。
func IsAborted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Message はエラーを利用者向けの文言に変換する。
// 詳細がない場合やトランスポート障害ではfallbackを返す。
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if detail := httpErr.Detail(); detail != "" && len(detail) < 300 {
			return detail
		}
		return fallback
	}
	var msgErr interface{ UserMessage() string }
	if errors.As(err, &msgErr) {
		if msg := msgErr.UserMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
