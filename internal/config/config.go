// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DefaultModel は画像生成に使う既定のモデル名です。
const DefaultModel = "gemini-2.5-flash-image-preview"

// defaultCacheTTL はテーマアセットキャッシュの既定の有効期限です。
const defaultCacheTTL = 10 * time.Minute

// Config はアプリケーション全体の設定です。
type Config struct {
	// APIKey は Gemini API の認証キーです。必須です。
	APIKey string

	// Model は生成に使うモデル名です。
	Model string

	// AssetBaseURL はテーマアセットの配信元です。
	// 相対パスのアセットURLはこのベースに連結されます。
	AssetBaseURL string

	// CacheTTL は解決済みアセットのキャッシュ有効期限です。
	CacheTTL time.Duration
}

// Load は .env（あれば）と環境変数から設定を組み立てます。
func Load() (*Config, error) {
	// .env はローカル開発用の便宜なので、無くてもエラーにしません
	_ = godotenv.Load()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY が設定されていません")
	}

	cfg := &Config{
		APIKey:       apiKey,
		Model:        getenvDefault("STORYBOOK_MODEL", DefaultModel),
		AssetBaseURL: os.Getenv("STORYBOOK_ASSET_BASE_URL"),
		CacheTTL:     defaultCacheTTL,
	}

	if raw := os.Getenv("STORYBOOK_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("STORYBOOK_CACHE_TTL の値が不正です: %w", err)
		}
		cfg.CacheTTL = ttl
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
