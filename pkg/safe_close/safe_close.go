// Package safe_close 提供多组件协同关闭控制
package safe_close

import (
	"sync"
)

// SafeClose 协调多个长期运行组件的关闭
// 组件通过 Attach 注册，收到关闭信号后各自清理，WaitClosed 等待全部完成
type SafeClose struct {
	mu          sync.Mutex
	closeOnce   sync.Once
	closeSignal chan struct{}
	wg          sync.WaitGroup
	err         error
}

// NewSafeClose 创建 SafeClose 实例
func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach 注册一个组件运行函数并在新协程中启动
// f 必须在退出前调用 done，并监听 closeSignal 以响应关闭
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	done := func() {
		once.Do(s.wg.Done)
	}
	go f(done, s.closeSignal)
}

// SendCloseSignal 发出关闭信号，首个非 nil 错误被保留
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	if s.err == nil && err != nil {
		s.err = err
	}
	s.mu.Unlock()

	s.closeOnce.Do(func() {
		close(s.closeSignal)
	})
}

// WaitClosed 阻塞直到所有组件完成关闭，返回首个关闭错误
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
