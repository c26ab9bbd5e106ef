package cache

import (
	"os"
	"path/filepath"
	"strings"
)

// assetExt 是磁盘条目的固定扩展名，Bootstrap 依赖它反解文件名。
const assetExt = ".png"

// ResolveRoot 返回缓存根目录。override 含有效内容时优先生效（支持 ~ 前缀展开），
// 否则落到用户数据目录下的固定位置。只做路径运算，不触碰磁盘。
func ResolveRoot(override string) string {
	trimmed := strings.TrimSpace(override)
	if trimmed != "" {
		return expandHome(trimmed)
	}

	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = "."
	}
	return filepath.Join(base, "emoji-hub", "emojis")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// EntryPath 计算资产的最终缓存路径：<root>/<集合>/<名称>-<ID>.png。
// 集合与名称都会经过 Sanitize，ID 一律原样拼接，保证 Bootstrap
// 始终能按 `-(\d+).png` 后缀从文件名恢复出 ID。
func EntryPath(root, collection, name, id string) string {
	return filepath.Join(CollectionDir(root, collection), Sanitize(name)+"-"+id+assetExt)
}

// CollectionDir 返回某个集合的子目录路径。
func CollectionDir(root, collection string) string {
	return filepath.Join(root, Sanitize(collection))
}
