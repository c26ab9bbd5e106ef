package cache

import (
	"context"
	"io"
)

// AssetRef 唯一描述一次待缓存的表情引用（ID + 展示名 + 所属集合）。
// 由消息摄取层构造，随批次产生和消费，不做长期持有。
type AssetRef struct {
	ID         string
	Name       string
	Collection string
}

// Result 表示一次缓存操作的结果。NewlyCached 仅在本次实际下载并落盘时为 true；
// 命中内存集合时 Path 为空，命中磁盘既有文件时 Path 为该文件路径。
type Result struct {
	NewlyCached bool
	Path        string
}

// Fetcher 抽象 CDN 取图原语，按 ID 与像素尺寸返回图片正文流。
// 实现只做单次尝试，重试策略不在本层。
type Fetcher interface {
	Fetch(ctx context.Context, id string, size int) (io.ReadCloser, error)
}

// ValidID 报告 id 是否为非空的纯 ASCII 数字串。ID 会原样拼入文件名，
// 含路径段的 ID 可以逃逸缓存根目录，非数字 ID 则永远无法被 Bootstrap
// 按 `-(\d+).png` 后缀反解，因此两者都必须在入口处拒绝。
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
