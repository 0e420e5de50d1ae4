package shutdown_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/pkg/shutdown"
)

const hookWaitLimit = 2 * time.Second

func TestWaitExecutesHooksOnSignal(t *testing.T) {
	hook1Called := make(chan struct{})
	hook2Called := make(chan struct{})

	waitDone := make(chan struct{})
	go func() {
		shutdown.Wait(context.Background(), time.Second,
			func(context.Context) error { close(hook1Called); return nil },
			func(context.Context) error { close(hook2Called); return errors.New("close failed") },
		)
		close(waitDone)
	}()

	time.Sleep(100 * time.Millisecond)

	process, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, process.Signal(syscall.SIGTERM))

	for i, ch := range []chan struct{}{hook1Called, hook2Called, waitDone} {
		select {
		case <-ch:
		case <-time.After(hookWaitLimit):
			t.Fatalf("step %d did not complete", i)
		}
	}
}

func TestWaitReturnsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var called atomic.Bool

	waitDone := make(chan struct{})
	go func() {
		shutdown.Wait(ctx, time.Second, func(hookCtx context.Context) error {
			called.Store(true)
			return hookCtx.Err()
		})
		close(waitDone)
	}()

	cancel()

	select {
	case <-waitDone:
	case <-time.After(hookWaitLimit):
		t.Fatal("Wait did not return after context cancel")
	}
	assert.True(t, called.Load(), "hook should run with a live context")
}

func TestRunRespectsTimeout(t *testing.T) {
	slowHook := func(ctx context.Context) error {
		select {
		case <-time.After(2 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	start := time.Now()
	shutdown.Run(context.Background(), 200*time.Millisecond, slowHook)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRunExecutesEveryHookWhenOneFails(t *testing.T) {
	var closed atomic.Int32
	failing := func(_ context.Context) error {
		closed.Add(1)
		return errors.New("redis: client is closed")
	}
	succeeding := func(_ context.Context) error {
		closed.Add(1)
		return nil
	}

	shutdown.Run(context.Background(), time.Second, failing, succeeding)
	assert.Equal(t, int32(2), closed.Load())
}
