package main

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	startErr    error
	shutdownErr error
	stopped     chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{stopped: make(chan struct{})}
}

func (s *fakeServer) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	<-s.stopped
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(context.Context) error {
	close(s.stopped)
	return s.shutdownErr
}

func TestServe(t *testing.T) {
	t.Run("штатная остановка", func(t *testing.T) {
		srv := newFakeServer()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		stopped := false
		err := serve(ctx, srv, time.Second, func() { stopped = true })
		require.NoError(t, err)
		assert.True(t, stopped)
	})

	t.Run("ошибка запуска", func(t *testing.T) {
		srv := newFakeServer()
		srv.startErr = errors.New("address already in use")

		stopped := false
		err := serve(context.Background(), srv, time.Second, func() { stopped = true })
		require.ErrorIs(t, err, srv.startErr)
		assert.True(t, stopped, "отложенные изменения сбрасываются и при ошибке запуска")
	})

	t.Run("ошибка остановки", func(t *testing.T) {
		srv := newFakeServer()
		srv.shutdownErr = context.DeadlineExceeded
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		stopped := false
		err := serve(ctx, srv, time.Second, func() { stopped = true })
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, stopped, "отложенные изменения сбрасываются и при ошибке остановки")
	})
}
