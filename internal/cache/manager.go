package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/emoji-hub/emoji-hub/internal/logging"
)

// defaultEmojiSize 是未显式配置时向 CDN 请求的像素尺寸。
const defaultEmojiSize = 128

// Options 控制 Manager 的构造参数。RootOverride 为空时使用默认数据目录。
type Options struct {
	RootOverride string
	Size         int
	Fetcher      Fetcher
	Logger       *logrus.Logger
}

// Manager 拥有去重集合与根目录配置，是缓存子系统的唯一入口。
// 通过独立构造多个实例即可在测试中彼此隔离，不依赖任何包级可变状态。
// 同一 ID 的并发缓存操作经 entryLock 串行化，避免对 CDN 的重复下载。
type Manager struct {
	root    string
	size    int
	fetcher Fetcher
	logger  *logrus.Logger
	tracker *Tracker

	mu    sync.Mutex
	locks map[string]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager 构造缓存管理器。fetcher 与 logger 必填，size 为 0 时退回默认值。
func NewManager(opts Options) (*Manager, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}

	size := opts.Size
	if size == 0 {
		size = defaultEmojiSize
	}

	return &Manager{
		root:    ResolveRoot(opts.RootOverride),
		size:    size,
		fetcher: opts.Fetcher,
		logger:  opts.Logger,
		tracker: NewTracker(),
		locks:   make(map[string]*entryLock),
	}, nil
}

// Root 返回解析后的缓存根目录，供日志与诊断输出。
func (m *Manager) Root() string {
	return m.root
}

// Size 返回向 CDN 请求的像素尺寸，供日志与诊断输出。
func (m *Manager) Size() int {
	return m.size
}

// TrackedCount 返回当前已知缓存的表情数量。
func (m *Manager) TrackedCount() int {
	return m.tracker.Len()
}

// CacheOne 保证单个表情至多被下载一次：
//  1. 命中内存集合直接返回，不做任何 I/O；
//  2. 磁盘已有同路径文件时补录集合（修复遗漏的 Bootstrap 条目）并返回；
//  3. 否则拉取 CDN 正文并原子写盘，成功后才录入集合。
//
// 任何失败都会带上资产字段记录日志并以 error 返回，调用方可安全忽略；
// 失败不会污染去重集合，下一次调用会重新尝试。
func (m *Manager) CacheOne(ctx context.Context, ref AssetRef) (Result, error) {
	if !ValidID(ref.ID) {
		return Result{}, fmt.Errorf("invalid emoji id: %q", ref.ID)
	}

	if m.tracker.Has(ref.ID) {
		return Result{}, nil
	}

	unlock := m.lockEntry(ref.ID)
	defer unlock()

	// 等锁期间可能已有并发批次完成同一 ID 的缓存。
	if m.tracker.Has(ref.ID) {
		return Result{}, nil
	}

	filePath := EntryPath(m.root, ref.Collection, ref.Name, ref.ID)

	info, err := os.Stat(filePath)
	if err == nil && !info.IsDir() {
		m.tracker.Add(ref.ID)
		return Result{NewlyCached: false, Path: filePath}, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logFailure(ref, "stat_failed", err)
		return Result{}, fmt.Errorf("stat cache entry %s: %w", ref.ID, err)
	}

	body, err := m.fetcher.Fetch(ctx, ref.ID, m.size)
	if err != nil {
		m.logFailure(ref, "fetch_failed", err)
		return Result{}, fmt.Errorf("fetch emoji %s: %w", ref.ID, err)
	}
	defer body.Close()

	if _, err := writeEntry(ctx, filePath, body); err != nil {
		m.logFailure(ref, "write_failed", err)
		return Result{}, fmt.Errorf("write emoji %s: %w", ref.ID, err)
	}

	m.tracker.Add(ref.ID)
	return Result{NewlyCached: true, Path: filePath}, nil
}

// CacheAll 依次处理一批引用并返回新增缓存的数量。顺序处理是对 CDN 的
// 礼貌约定而非硬性要求；单个条目失败只影响自身，不会中断批次。
func (m *Manager) CacheAll(ctx context.Context, refs []AssetRef) int {
	cached := 0
	for _, ref := range refs {
		result, err := m.CacheOne(ctx, ref)
		if err != nil {
			continue // CacheOne 已记录失败日志
		}
		if result.NewlyCached {
			cached++
		}
	}
	return cached
}

func (m *Manager) lockEntry(id string) func() {
	m.mu.Lock()
	lock := m.locks[id]
	if lock == nil {
		lock = &entryLock{}
		m.locks[id] = lock
	}
	lock.refs++
	m.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		m.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) logFailure(ref AssetRef, action string, err error) {
	fields := logging.AssetFields(ref.ID, ref.Name, ref.Collection)
	fields["action"] = action
	m.logger.WithError(err).WithFields(fields).Warn("emoji_cache_failed")
}
