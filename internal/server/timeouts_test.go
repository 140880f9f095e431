package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/tutorials/internal/config"
)

func TestNew_AppliesDefaults(t *testing.T) {
	srv := New(config.HTTP{ListenAddr: ":0", WriteTimeout: 3 * time.Second}, http.NotFoundHandler())

	if srv.ReadTimeout != defaultRead || srv.IdleTimeout != defaultIdle {
		t.Fatalf("defaults not applied: read=%v idle=%v", srv.ReadTimeout, srv.IdleTimeout)
	}
	if srv.WriteTimeout != 3*time.Second {
		t.Fatalf("WriteTimeout = %v, want 3s", srv.WriteTimeout)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	srv := New(config.HTTP{ListenAddr: addr}, http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, zap.NewNop().Sugar()) }()

	// Wait until the listener is up.
	for i := 0; i < 50; i++ {
		if c, err := net.Dial("tcp", addr); err == nil {
			_ = c.Close()
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ReturnsListenError(t *testing.T) {
	srv := New(config.HTTP{ListenAddr: "256.0.0.1:99999"}, http.NotFoundHandler())
	if err := Run(context.Background(), srv, zap.NewNop().Sugar()); err == nil {
		t.Fatal("expected listen error")
	}
}
