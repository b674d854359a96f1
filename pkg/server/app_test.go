package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSnap/pkg/config"
	xhttp "MarketSnap/pkg/http"
	"MarketSnap/pkg/logger"
)

func TestRunReturnsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	srv := xhttp.NewServer(logger.Nop(), nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(busy.Addr().(*net.TCPAddr).Port))
	app := New(&config.Config{}, logger.Nop(), srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = app.Run(ctx)
	require.Error(t, err)
	assert.NoError(t, ctx.Err(), "Run must fail fast instead of waiting for shutdown")
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := xhttp.NewServer(logger.Nop(), nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithTimeouts(time.Second, time.Second, time.Second))
	app := New(&config.Config{}, logger.Nop(), srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
