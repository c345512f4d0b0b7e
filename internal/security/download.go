// Package security はサーバーから受け取った値を端末やファイルに渡す前の防御を提供する。
package security

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

var (
	// ErrBlockedURL はダウンロード先が許可されない場合に返される。
	ErrBlockedURL = errors.New("blocked download url")
	// ErrTooLarge はダウンロードサイズが上限を超えた場合に返される。
	ErrTooLarge = errors.New("download exceeds maximum size")
)

// blockedNetworks はAPI以外のホストに対して拒否するネットワーク範囲。
var blockedNetworks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	// クラウドメタデータ (169.254.169.254) を含む
	"169.254.0.0/16",
	"0.0.0.0/8",
	"::1/128",
	"fe80::/10",
	"fc00::/7",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR %s: %v", cidr, err))
		}
		nets = append(nets, n)
	}
	return nets
}

// Downloader は文書のurl_fichierを取得する。
// APIと同じオリジンのURLは通常のクライアントで取得し、
// それ以外のホストはsafeurlのクライアントでプライベートアドレスへの接続を拒否する。
type Downloader struct {
	origin  *url.URL
	trusted *http.Client
	guarded *http.Client
	maxSize int64
	logger  *slog.Logger
}

// NewDownloader はAPIのベースURLを信頼するオリジンとしてDownloaderを生成する。
// trustedがnilの場合はタイムアウトだけを設定したクライアントを使う。
func NewDownloader(apiBaseURL string, trusted *http.Client, timeout time.Duration, maxSize int64, logger *slog.Logger) (*Downloader, error) {
	origin, err := url.Parse(apiBaseURL)
	if err != nil || origin.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", apiBaseURL)
	}
	if trusted == nil {
		trusted = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return &Downloader{
		origin:  origin,
		trusted: trusted,
		guarded: safeurl.Client(config).Client,
		maxSize: maxSize,
		logger:  logger,
	}, nil
}

// Resolve は相対URLをAPIのオリジン基準で解決し、許可されるURLかを静的に検証する。
// 戻り値のboolはAPIと同じオリジンかどうか。
func (d *Downloader) Resolve(raw string) (*url.URL, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, false, fmt.Errorf("%w: empty url", ErrBlockedURL)
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrBlockedURL, err)
	}
	u := d.origin.ResolveReference(ref)

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, false, fmt.Errorf("%w: scheme %q", ErrBlockedURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, false, fmt.Errorf("%w: empty host", ErrBlockedURL)
	}
	if sameOrigin(u, d.origin) {
		return u, true, nil
	}

	host := strings.ToLower(u.Hostname())
	if host == "localhost" {
		return nil, false, fmt.Errorf("%w: host %s", ErrBlockedURL, host)
	}
	if ip := net.ParseIP(host); ip != nil {
		for _, n := range blockedNetworks {
			if n.Contains(ip) {
				return nil, false, fmt.Errorf("%w: address %s", ErrBlockedURL, ip)
			}
		}
	}
	return u, false, nil
}

// Download はrawのURLを取得してwに書き込み、書き込んだバイト数を返す。
// 上限を超えた場合は途中まで書き込んだ上でErrTooLargeを返す。
func (d *Downloader) Download(ctx context.Context, raw string, w io.Writer) (int64, error) {
	u, trusted, err := d.Resolve(raw)
	if err != nil {
		return 0, err
	}
	client := d.guarded
	if trusted {
		client = d.trusted
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: unexpected status %d", u.Redacted(), resp.StatusCode)
	}
	if d.maxSize > 0 && resp.ContentLength > d.maxSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	var body io.Reader = resp.Body
	if d.maxSize > 0 {
		body = io.LimitReader(resp.Body, d.maxSize+1)
	}
	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", u.Redacted(), err)
	}
	if d.maxSize > 0 && n > d.maxSize {
		return n, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, d.maxSize)
	}

	d.logger.Info("document downloaded",
		slog.String("url", u.Redacted()),
		slog.Bool("api_origin", trusted),
		slog.Int64("bytes", n),
	)
	return n, nil
}

func sameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}
