package safe_close

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeCloseWaitsForAllComponents(t *testing.T) {
	sc := NewSafeClose()
	started := make(chan struct{}, 2)
	finished := make(chan struct{}, 2)

	for i := 0; i < 2; i++ {
		sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			started <- struct{}{}
			<-closeSignal
			finished <- struct{}{}
		})
	}

	<-started
	<-started

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
	assert.Len(t, finished, 2)
}

func TestSafeCloseKeepsFirstError(t *testing.T) {
	sc := NewSafeClose()
	sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
	})

	first := errors.New("listen failed")
	sc.SendCloseSignal(first)
	sc.SendCloseSignal(errors.New("later"))

	assert.ErrorIs(t, sc.WaitClosed(), first)
}

func TestSafeCloseSignalIsIdempotent(t *testing.T) {
	sc := NewSafeClose()
	sc.SendCloseSignal(nil)
	sc.SendCloseSignal(nil)

	done := make(chan struct{})
	go func() {
		_ = sc.WaitClosed()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitClosed did not return")
	}
}
