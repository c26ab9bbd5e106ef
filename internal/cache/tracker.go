package cache

import "sync"

// Tracker 记录进程内已知缓存的表情 ID 集合。集合只增不减（无淘汰），
// 它是磁盘状态的乐观视图而非权威来源：写入前仍会独立检查文件是否存在，
// 因此 Tracker 丢失条目最多造成一次多余下载，不会产生错误结果。
type Tracker struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewTracker 构造空的去重集合。
func NewTracker() *Tracker {
	return &Tracker{ids: make(map[string]struct{})}
}

// Has 报告指定 ID 是否已知缓存。
func (t *Tracker) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[id]
	return ok
}

// Add 将 ID 标记为已缓存，重复添加是无害的幂等操作。
func (t *Tracker) Add(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids[id] = struct{}{}
}

// AddAll 批量添加扫描得到的 ID，返回实际新增的数量。
func (t *Tracker) AddAll(ids []string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	added := 0
	for _, id := range ids {
		if _, ok := t.ids[id]; ok {
			continue
		}
		t.ids[id] = struct{}{}
		added++
	}
	return added
}

// Len 返回当前已知缓存的 ID 数量。
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}
