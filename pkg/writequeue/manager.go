// Package writequeue provides a per-key serial write queue
// Package writequeue 提供按键串行化的写队列
// Used to serialize revision folds and purges for the same note so that two
// folds never race for the same order slot and a purge never interleaves with
// a concurrent latest-revision read.
// 用于串行化同一笔记的修订折叠与清理操作，避免两个折叠竞争同一顺序槽位，
// 也避免清理与并发的最新版本读取交叉执行。
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Error definitions
// 错误定义
var (
	// ErrQueueFull returned when a key's write queue is full
	// ErrQueueFull 当某个键的写队列已满时返回
	ErrQueueFull = errors.New("write queue is full")
	// ErrQueueClosed returned when the manager is closed
	// ErrQueueClosed 当写队列管理器已关闭时返回
	ErrQueueClosed = errors.New("write queue is closed")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity per-key queue capacity, default 100
	// QueueCapacity 每个键的队列容量，默认 100
	QueueCapacity int
	// WriteTimeout write operation timeout, default 30 seconds
	// WriteTimeout 写操作超时时间，默认 30 秒
	WriteTimeout time.Duration
	// IdleTimeout idle queue cleanup timeout, default 10 minutes
	// IdleTimeout 空闲队列清理超时时间，默认 10 分钟
	IdleTimeout time.Duration
}

// DefaultConfig returns default configuration
// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

// writeOp write operation
// writeOp 写操作
type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

// keyQueue single key write queue
// keyQueue 单个键的写队列
type keyQueue struct {
	key      int64
	ch       chan writeOp
	lastUsed atomic.Int64
	stopCh   chan struct{}
	workerWg sync.WaitGroup
}

// Manager manages write queues for all keys
// Manager 管理所有键的写队列
type Manager struct {
	config Config
	logger *zap.Logger

	queues sync.Map // map[int64]*keyQueue

	mu     sync.RWMutex
	closed bool

	cleanupDone chan struct{}
	cleanupWg   sync.WaitGroup
}

// New creates a write queue manager
// New 创建写队列管理器
func New(cfg *Config, logger *zap.Logger) *Manager {
	if cfg == nil {
		defaultCfg := DefaultConfig()
		cfg = &defaultCfg
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 100
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config:      *cfg,
		logger:      logger,
		cleanupDone: make(chan struct{}),
	}

	m.cleanupWg.Add(1)
	go m.cleanupLoop()

	return m
}

// Submit executes fn serialized with all other writes for the same key
// Submit 执行 fn，并与同一键的其他写操作串行化
// Blocks until fn completes or ctx is cancelled.
// 阻塞直到 fn 执行完成或 ctx 被取消。
func (m *Manager) Submit(ctx context.Context, key int64, fn func() error) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrQueueClosed
	}
	m.mu.RUnlock()

	q := m.getQueue(key)
	q.lastUsed.Store(time.Now().UnixNano())

	op := writeOp{
		ctx:    ctx,
		fn:     fn,
		result: make(chan error, 1),
	}

	select {
	case q.ch <- op:
	default:
		return ErrQueueFull
	}

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return context.DeadlineExceeded
	}
}

// getQueue returns the queue for a key, starting its worker on first use
// getQueue 返回键对应的队列，首次使用时启动其 worker
func (m *Manager) getQueue(key int64) *keyQueue {
	if v, ok := m.queues.Load(key); ok {
		return v.(*keyQueue)
	}

	q := &keyQueue{
		key:    key,
		ch:     make(chan writeOp, m.config.QueueCapacity),
		stopCh: make(chan struct{}),
	}
	actual, loaded := m.queues.LoadOrStore(key, q)
	if loaded {
		return actual.(*keyQueue)
	}

	q.workerWg.Add(1)
	go m.worker(q)
	return q
}

// worker drains a single key queue, one op at a time
// worker 串行消费单个键队列
func (m *Manager) worker(q *keyQueue) {
	defer q.workerWg.Done()
	for {
		select {
		case op := <-q.ch:
			if op.ctx != nil && op.ctx.Err() != nil {
				op.result <- op.ctx.Err()
				continue
			}
			op.result <- op.fn()
		case <-q.stopCh:
			// Drain remaining ops before exiting
			// 退出前处理剩余操作
			for {
				select {
				case op := <-q.ch:
					op.result <- op.fn()
				default:
					return
				}
			}
		}
	}
}

// cleanupLoop removes queues idle longer than IdleTimeout
// cleanupLoop 清理空闲超过 IdleTimeout 的队列
func (m *Manager) cleanupLoop() {
	defer m.cleanupWg.Done()
	ticker := time.NewTicker(m.config.IdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-m.config.IdleTimeout).UnixNano()
			m.queues.Range(func(k, v any) bool {
				q := v.(*keyQueue)
				if q.lastUsed.Load() < cutoff && len(q.ch) == 0 {
					m.queues.Delete(k)
					close(q.stopCh)
					m.logger.Debug("write queue removed for idle key",
						zap.Int64("key", q.key))
				}
				return true
			})
		case <-m.cleanupDone:
			return
		}
	}
}

// Close stops all queue workers after draining pending writes
// Close 在处理完待写操作后停止所有队列 worker
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	close(m.cleanupDone)
	m.cleanupWg.Wait()

	m.queues.Range(func(k, v any) bool {
		q := v.(*keyQueue)
		close(q.stopCh)
		q.workerWg.Wait()
		m.queues.Delete(k)
		return true
	})
}
