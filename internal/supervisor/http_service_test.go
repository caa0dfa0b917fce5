// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// mockHTTPServer scripts ListenAndServe and Shutdown behavior.
type mockHTTPServer struct {
	serveErr    error
	shutdownErr error

	started   chan struct{}
	release   chan struct{}
	shutdowns atomic.Int32
}

func newMockHTTPServer(serveErr error) *mockHTTPServer {
	return &mockHTTPServer{
		serveErr: serveErr,
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	close(m.started)
	if m.serveErr != nil {
		return m.serveErr
	}
	// Block like a real server until Shutdown releases us.
	<-m.release
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(ctx context.Context) error {
	m.shutdowns.Add(1)
	close(m.release)
	return m.shutdownErr
}

func TestHTTPServerService_ListenFailurePropagates(t *testing.T) {
	listenErr := errors.New("listen tcp :8083: address already in use")
	svc := NewHTTPServerService(newMockHTTPServer(listenErr), time.Second)

	err := svc.Serve(context.Background())
	if !errors.Is(err, listenErr) {
		t.Errorf("Serve() = %v, want wrapped %v", err, listenErr)
	}
}

func TestHTTPServerService_ContextCancelShutsDown(t *testing.T) {
	srv := newMockHTTPServer(nil)
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-srv.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if got := srv.shutdowns.Load(); got != 1 {
		t.Errorf("shutdown called %d times, want 1", got)
	}
}

func TestHTTPServerService_ShutdownFailureIsReported(t *testing.T) {
	srv := newMockHTTPServer(nil)
	srv.shutdownErr = errors.New("connections did not drain")
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-srv.started
	cancel()

	select {
	case err := <-done:
		if err == nil || !errors.Is(err, srv.shutdownErr) {
			t.Errorf("Serve() = %v, want wrapped shutdown error", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestHTTPServerService_ServerClosedIsClean(t *testing.T) {
	srv := newMockHTTPServer(http.ErrServerClosed)
	svc := NewHTTPServerService(srv, time.Second)

	if err := svc.Serve(context.Background()); err != nil {
		t.Errorf("Serve() = %v, want nil on ErrServerClosed", err)
	}
}

func TestHTTPServerService_String(t *testing.T) {
	svc := NewHTTPServerService(newMockHTTPServer(nil), 0)
	if got := svc.String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestTree_RunsAndStopsServices(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tree := NewTree(logger, DefaultTreeConfig())

	srv := newMockHTTPServer(nil)
	tree.AddAPIService(NewHTTPServerService(srv, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	select {
	case <-srv.started:
	case <-time.After(5 * time.Second):
		t.Fatal("supervised service never started")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree terminated with %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
	if got := srv.shutdowns.Load(); got != 1 {
		t.Errorf("shutdown called %d times, want 1", got)
	}
}
