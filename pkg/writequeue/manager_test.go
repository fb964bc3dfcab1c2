package writequeue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 同一键的写操作必须串行执行
func TestSubmitSerializesSameKey(t *testing.T) {
	m := New(nil, nil)
	defer m.Close()

	var mu sync.Mutex
	var running int
	var maxRunning int

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Submit(context.Background(), 42, func() error {
				mu.Lock()
				running++
				if running > maxRunning {
					maxRunning = running
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxRunning, "same-key writes must never overlap")
}

// 不同键的写操作互不阻塞
func TestSubmitDifferentKeysIndependent(t *testing.T) {
	m := New(nil, nil)
	defer m.Close()

	started := make(chan int64, 2)
	release := make(chan struct{})

	go func() {
		_ = m.Submit(context.Background(), 1, func() error {
			started <- 1
			<-release
			return nil
		})
	}()

	// 等键 1 的操作开始执行后，键 2 的操作仍然应当能完成
	<-started
	err := m.Submit(context.Background(), 2, func() error { return nil })
	assert.NoError(t, err)

	close(release)
}

func TestSubmitAfterClose(t *testing.T) {
	m := New(nil, nil)
	m.Close()

	err := m.Submit(context.Background(), 1, func() error { return nil })
	assert.ErrorIs(t, err, ErrQueueClosed)
}
