package app_test

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coby5502/dango/internal/app"
)

func TestApp_Run_ServeErrorSkipsHooks(t *testing.T) {
	lifecycle := app.New()
	lifecycle.AddShutdownHook("store", func(context.Context) error {
		t.Error("hooks must not run when serve fails on its own")
		return nil
	})

	serveErr := errors.New("listen tcp :8080: address already in use")
	err := lifecycle.Run(context.Background(), func(ctx context.Context) error {
		return serveErr
	})
	assert.ErrorIs(t, err, serveErr)
}

func TestApp_Run_SignalRunsHooksNewestFirst(t *testing.T) {
	lifecycle := app.New()

	var order []string
	lifecycle.AddShutdownHook("store", func(context.Context) error {
		order = append(order, "store")
		return nil
	})
	lifecycle.AddShutdownHook("http server", func(context.Context) error {
		order = append(order, "http server")
		return nil
	})

	serving := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- lifecycle.Run(context.Background(), func(ctx context.Context) error {
			close(serving)
			<-ctx.Done()
			return nil
		})
	}()

	<-serving
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown never completed")
	}
	assert.Equal(t, []string{"http server", "store"}, order)
}

func TestApp_Run_HookFailuresAreNamedAndJoined(t *testing.T) {
	lifecycle := app.New()

	storeErr := errors.New("database is locked")
	lifecycle.AddShutdownHook("store", func(context.Context) error {
		return storeErr
	})
	lifecycle.AddShutdownHook("http server", func(context.Context) error {
		return nil
	})

	serving := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- lifecycle.Run(context.Background(), func(ctx context.Context) error {
			close(serving)
			<-ctx.Done()
			return nil
		})
	}()

	<-serving
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		assert.Contains(t, err.Error(), "store > ")
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown never completed")
	}
}
