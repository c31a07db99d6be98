package asset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/shouni/gemini-storybook-kit/pkg/domain"
	"github.com/shouni/gemini-storybook-kit/pkg/imgutil"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/sync/errgroup"
)

const (
	// maxInlineBytes を超えた取得データはJPEGへ再圧縮してから返します。
	// Gemini へインライン送信するパーツが肥大化するのを防ぐためです。
	maxInlineBytes     = 4 << 20
	compressionQuality = 75
)

// ImageCacher は、解決済みアセットをキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// Resolver はテーマアセット（背景・POIマップ・スタイル参照）を URL から取得し、
// domain.Image として実体化するコンポーネントです。
type Resolver struct {
	httpClient httpkit.ClientInterface
	reader     remoteio.InputReader
	cache      ImageCacher
	cacheTTL   time.Duration
}

// NewResolver は依存関係を注入して Resolver を初期化します。
func NewResolver(httpClient httpkit.ClientInterface, reader remoteio.InputReader, cache ImageCacher, cacheTTL time.Duration) (*Resolver, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	// cache は nil を許容（キャッシュなし動作）

	return &Resolver{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}, nil
}

// Resolve は URL のアセットを取得して Image に変換します。
// メディアタイプはデータのスニッフィングで判定し、判定できない場合は
// 拡張子（.jpg/.jpeg/.png）にフォールバックします。
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (domain.Image, error) {
	if r.cache != nil {
		if cached, found := r.cache.Get(rawURL); found {
			if img, ok := cached.(domain.Image); ok {
				return img, nil
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", rawURL, "type", fmt.Sprintf("%T", cached))
		}
	}

	data, err := r.fetchData(ctx, rawURL)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: %s: %v", domain.ErrAssetFetch, rawURL, err)
	}

	mimeType := sniffImageMimeType(data)
	if mimeType == "" {
		mimeType = mimeTypeFromURL(rawURL)
	}
	if !domain.IsSupportedMimeType(mimeType) {
		return domain.Image{}, fmt.Errorf("%w: %s", domain.ErrUnknownMediaType, rawURL)
	}

	// 大きすぎるアセットはJPEGに落としてから流します
	if len(data) > maxInlineBytes {
		if compressed, err := imgutil.CompressToJPEG(data, compressionQuality); err == nil {
			data = compressed
			mimeType = domain.MimeJPEG
		}
	}

	img := domain.Image{Data: data, MimeType: mimeType}
	if r.cache != nil {
		r.cache.Set(rawURL, img, r.cacheTTL)
	}
	return img, nil
}

// ResolvePair は2つのアセット（背景とPOIマップ等）を並行取得します。
// どちらかが失敗した場合は全体が失敗し、部分的な結果は返しません。
func (r *Resolver) ResolvePair(ctx context.Context, urlA, urlB string) (domain.Image, domain.Image, error) {
	return resolveBoth(ctx,
		func(ctx context.Context) (domain.Image, error) { return r.Resolve(ctx, urlA) },
		func(ctx context.Context) (domain.Image, error) { return r.Resolve(ctx, urlB) },
	)
}

// resolveBoth は2つの取得処理を errgroup で束ね、失敗時は両方とも破棄します。
func resolveBoth(ctx context.Context, fnA, fnB func(context.Context) (domain.Image, error)) (domain.Image, domain.Image, error) {
	var imgA, imgB domain.Image

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		imgA, err = fnA(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		imgB, err = fnB(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Image{}, domain.Image{}, err
	}
	return imgA, imgB, nil
}

// fetchData は gs:// を InputReader 経由で、http(s) を HTTPクライアント経由で取得します。
func (r *Resolver) fetchData(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "gs://") {
		rc, err := r.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	if safe, err := isSafeURL(rawURL); err != nil || !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}
	return r.httpClient.FetchBytes(ctx, rawURL)
}

// sniffImageMimeType はデータ先頭から JPEG / PNG を判定します。それ以外は空文字です。
func sniffImageMimeType(data []byte) string {
	switch detected := http.DetectContentType(data); detected {
	case domain.MimeJPEG, domain.MimePNG:
		return detected
	default:
		return ""
	}
}

// mimeTypeFromURL は拡張子からのフォールバック判定です。
// 開発用サーバーが正しい Content-Type を返さないケースの救済です。
func mimeTypeFromURL(rawURL string) string {
	switch strings.ToLower(path.Ext(rawURL)) {
	case ".jpg", ".jpeg":
		return domain.MimeJPEG
	case ".png":
		return domain.MimePNG
	default:
		return ""
	}
}

// isSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func isSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP

	// 1. IPアドレスが直接指定されているか確認
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		// 2. ホスト名の場合、すべての IP を取得する
		resolvedIPs, err := net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	// すべての解決された IP を検証する
	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
