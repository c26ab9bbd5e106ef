package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if !isSupportedEmojiSize(g.EmojiSize) {
		return newFieldError("Global.EmojiSize", fmt.Sprintf("仅支持 %s", supportedEmojiSizeList))
	}
	if g.UpstreamTimeout.DurationValue() <= 0 {
		return newFieldError("Global.UpstreamTimeout", "必须大于 0")
	}

	base := strings.TrimSpace(g.CDNBaseURL)
	if base == "" {
		return newFieldError("Global.CDNBaseURL", "不能为空")
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return newFieldError("Global.CDNBaseURL", "必须是合法的绝对 URL")
	}

	return nil
}

func isSupportedEmojiSize(size int) bool {
	for _, allowed := range SupportedEmojiSizes {
		if size == allowed {
			return true
		}
	}
	return false
}
