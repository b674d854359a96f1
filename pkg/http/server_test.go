package http

import (
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSnap/pkg/logger"
)

func TestServerStartFailsOnBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	s := NewServer(logger.Nop(), nil, WithHost("127.0.0.1"), WithPort(busy.Addr().(*net.TCPAddr).Port))
	err = s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server: listen")
	assert.Nil(t, s.Addr())
}

func TestServerStartServesHealthz(t *testing.T) {
	s := NewServer(logger.Nop(), nil, WithHost("127.0.0.1"), WithPort(0))
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	resp, err := http.Get("http://" + s.Addr().String() + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case err := <-s.Err():
		t.Fatalf("unexpected serve error: %v", err)
	default:
	}
}
