package cache

import (
	"strings"
	"unicode"
)

// fallbackSegment 在清洗后得到空串时兜底，避免产生空路径段。
const fallbackSegment = "unknown"

// Sanitize 将任意显示名转换为可安全用作单个路径段的字符串：
// 控制字符、空白、路径分隔符与保留标点替换为下划线，去掉结尾的句点。
// 纯函数且幂等，Sanitize(Sanitize(x)) == Sanitize(x) 恒成立。
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if isUnsafePathRune(r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.TrimRight(b.String(), ".")
	if cleaned == "" {
		return fallbackSegment
	}
	return cleaned
}

func isUnsafePathRune(r rune) bool {
	if r < 0x20 || r == 0x7f {
		return true
	}
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
		return true
	}
	return false
}
