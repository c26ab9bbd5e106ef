// Package ingest turns free-form message text into cacheable asset
// references. It only understands the custom emoji token syntax; deciding
// which collection a message belongs to is the caller's job.
package ingest

import (
	"regexp"

	"github.com/emoji-hub/emoji-hub/internal/cache"
)

// emojiTokenPattern 匹配消息中的自定义表情标记 <:name:id>，动图形式 <a:name:id>
// 同样命中。ID 捕获组只接受 ASCII 数字，与磁盘文件名的可反解后缀保持一致。
var emojiTokenPattern = regexp.MustCompile(`<a?:([A-Za-z0-9_]+):(\d+)>`)

// Extract 从一段消息文本提取表情引用，collection 注入为每个结果的所属集合。
// 同一条消息内重复出现的 ID 只保留第一次，顺序按首次出现排列。
func Extract(content, collection string) []cache.AssetRef {
	matches := emojiTokenPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	refs := make([]cache.AssetRef, 0, len(matches))
	for _, match := range matches {
		id := match[2]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		refs = append(refs, cache.AssetRef{
			ID:         id,
			Name:       match[1],
			Collection: collection,
		})
	}
	return refs
}
