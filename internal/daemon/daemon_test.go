package daemon

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Storage.Dir = t.TempDir()
	return cfg
}

func TestNew_WiresServices(t *testing.T) {
	d, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer d.Close()

	if d.Records == nil || d.Herd == nil || d.Finance == nil || d.Sessions == nil {
		t.Fatal("New() left a service nil")
	}
	if !d.Sessions.DemoMode() {
		t.Error("empty password should run in demo mode")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	d.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("/health = %d, want 200", w.Code)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	cfg := testConfig(t)
	cfg.API.Port = port
	d, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + cfg.Addr() + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error: %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
