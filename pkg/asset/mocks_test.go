package asset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// mockHTTPClient は httpkit.ClientInterface のテスト用モックなのだ。
type mockHTTPClient struct {
	calls     []string
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls = append(m.calls, url)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return nil, fmt.Errorf("unexpected fetch: %s", url)
}

// 以下は httpkit.ClientInterface を満たすためのスタブなのだ（テストでは未使用）。
func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockHTTPClient) DoRequest(req *http.Request) ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockHTTPClient) FetchAndDecodeJSON(ctx context.Context, url string, v any) error {
	return fmt.Errorf("not implemented")
}

func (m *mockHTTPClient) PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockHTTPClient) PostRawBodyAndFetchBytes(ctx context.Context, url string, body []byte, contentType string) ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockHTTPClient) IsSafeURL(urlStr string) (bool, error) {
	return false, fmt.Errorf("not implemented")
}

func (m *mockHTTPClient) IsSecureServiceURL(serviceURL string) bool {
	return false
}

// mockReader は remoteio.InputReader のテスト用モックなのだ。
// files マップの URI だけ開けます。
type mockReader struct {
	calls []string
	files map[string][]byte
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.calls = append(m.calls, uri)
	data, ok := m.files[uri]
	if !ok {
		return nil, fmt.Errorf("not found: %s", uri)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}

// mockCache は ImageCacher のテスト用モックなのだ。
type mockCache struct {
	data map[string]any
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string]any{}}
}

func (m *mockCache) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	m.sets++
	m.data[key] = value
}
