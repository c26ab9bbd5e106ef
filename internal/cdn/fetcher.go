// Package cdn wraps the emoji CDN with the fixed URL template used by the
// cache layer. A Fetcher performs exactly one GET per asset; retry policy,
// dedup and persistence all live above this package.
package cdn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnexpectedStatus 表示 CDN 返回了非 200 状态码。
var ErrUnexpectedStatus = errors.New("unexpected upstream status")

// Fetcher 按固定模板 <base>/<id>.png?size=<n>&quality=lossless 拉取表情图片。
type Fetcher struct {
	client  *http.Client
	baseURL string
}

// NewFetcher 构造 CDN 取图器，baseURL 结尾的斜杠会被去除。
func NewFetcher(client *http.Client, baseURL string) *Fetcher {
	return &Fetcher{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// EmojiURL 拼出指定表情与尺寸的规范下载地址。
func (f *Fetcher) EmojiURL(id string, size int) string {
	return fmt.Sprintf("%s/%s.png?size=%d&quality=lossless", f.baseURL, id, size)
}

// Fetch 单次 GET 指定表情，调用方负责关闭返回的 Body。
func (f *Fetcher) Fetch(ctx context.Context, id string, size int) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.EmojiURL(id, size), nil)
	if err != nil {
		return nil, fmt.Errorf("build emoji request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return resp.Body, nil
}
