package asset

import (
	"context"
	"fmt"
	"io"

	"github.com/shouni/gemini-storybook-kit/pkg/domain"
)

// LoadUpload はユーザー端末側のファイル（ローカルパスまたは gs://）を読み込み、
// Image として実体化します。受け入れるのは JPEG / PNG のみで、
// それ以外は domain.ErrInvalidUpload になります。
func (r *Resolver) LoadUpload(ctx context.Context, path string) (domain.Image, error) {
	rc, err := r.reader.Open(ctx, path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidUpload, path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidUpload, path, err)
	}

	// アップロードは拡張子を信用せず、中身のスニッフィングだけで判定します
	mimeType := sniffImageMimeType(data)
	if mimeType == "" {
		return domain.Image{}, fmt.Errorf("%w: JPEG/PNG 以外は受け付けません: %s", domain.ErrInvalidUpload, path)
	}

	return domain.Image{Data: data, MimeType: mimeType}, nil
}

// LoadUploadPair は人物とペットの写真を並行で読み込みます。
func (r *Resolver) LoadUploadPair(ctx context.Context, userPath, petPath string) (domain.Image, domain.Image, error) {
	return resolveBoth(ctx,
		func(ctx context.Context) (domain.Image, error) { return r.LoadUpload(ctx, userPath) },
		func(ctx context.Context) (domain.Image, error) { return r.LoadUpload(ctx, petPath) },
	)
}
