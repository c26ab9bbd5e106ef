package cache

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"
)

// entryIDPattern 从文件名尾部恢复资产 ID。ASCII 数字 + .png 的后缀是
// 磁盘布局的兼容面，不匹配的文件一律静默跳过。
var entryIDPattern = regexp.MustCompile(`-(\d+)\.png$`)

// Bootstrap 确保根目录存在并扫描既有缓存文件，把识别出的 ID 补入去重集合，
// 返回新识别的数量。扫描失败只降级为部分结果：根目录不可读时返回 0，
// 单个集合目录不可读时跳过该集合继续其余扫描。空集合对上层是安全回退，
// 最坏情况只是多下载一次，磁盘存在性检查仍是第二道防线。
func (m *Manager) Bootstrap() int {
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		m.logger.WithError(err).WithFields(logrus.Fields{
			"action": "bootstrap_root_failed",
			"root":   m.root,
		}).Warn("缓存根目录初始化失败")
		return 0
	}

	entries, err := os.ReadDir(m.root)
	if err != nil {
		m.logger.WithError(err).WithFields(logrus.Fields{
			"action": "bootstrap_scan_failed",
			"root":   m.root,
		}).Warn("缓存根目录扫描失败")
		return 0
	}

	recognized := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		files, err := os.ReadDir(filepath.Join(m.root, entry.Name()))
		if err != nil {
			m.logger.WithError(err).WithFields(logrus.Fields{
				"action":     "bootstrap_collection_failed",
				"collection": entry.Name(),
			}).Warn("集合目录扫描失败，跳过")
			continue
		}

		ids := make([]string, 0, len(files))
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			matches := entryIDPattern.FindStringSubmatch(file.Name())
			if matches == nil {
				continue
			}
			ids = append(ids, matches[1])
		}
		recognized += m.tracker.AddAll(ids)
	}
	return recognized
}
