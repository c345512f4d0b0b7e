package httpclient

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Param はクエリ文字列のキーと値の組。
type Param struct {
	Key   string
	Value string
}

// Params は挿入順を保持するクエリパラメータ。
// url.Valuesはキーをソートしてエンコードするため、送信順を固定したいフィルタには使わない。
type Params []Param

// Add はキーと値を末尾に追加する。
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// AddString は値が空でない場合だけ追加する。
func (p Params) AddString(key, value string) Params {
	if value == "" {
		return p
	}
	return p.Add(key, value)
}

// AddInt は値が0でない場合だけ追加する。
func (p Params) AddInt(key string, value int) Params {
	if value == 0 {
		return p
	}
	return p.Add(key, strconv.Itoa(value))
}

// Get は最初に一致したキーの値を返す。
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Encode は挿入順のままクエリ文字列を生成する。先頭の?は含まない。
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

// DecodeQuery はクエリ文字列を出現順のParamsに戻す。先頭の?は無視する。
func DecodeQuery(raw string) (Params, error) {
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return nil, nil
	}
	var params Params
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("decode query key %q: %w", key, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("decode query value %q: %w", value, err)
		}
		params = params.Add(k, v)
	}
	return params, nil
}
