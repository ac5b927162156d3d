package bootstrap_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go-leave/internal/bootstrap"
	"go-leave/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeHTTP_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- bootstrap.ServeHTTP(ctx, http.NotFoundHandler(), "0", config.HTTPConfig{ReadTimeout: time.Second})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeHTTP_ListenError(t *testing.T) {
	err := bootstrap.ServeHTTP(context.Background(), http.NotFoundHandler(), "not-a-port", config.HTTPConfig{})

	require.Error(t, err)
}
