// internal/server/timeouts.go
//
// HTTP server helper with explicit timeouts.
//
//   • ReadTimeout:  abort slow-loris headers (default 10 s)
//   • WriteTimeout: cap total response time (default 15 s)
//   • IdleTimeout:  close idle keep-alives (default 60 s)
//
// Run blocks until ctx is cancelled, then drains in-flight requests for
// at most ShutdownTimeout.

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Timeouts mirrors config.HTTP; zero fields take the defaults above.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Idle     time.Duration
	Shutdown time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Read <= 0 {
		t.Read = 10 * time.Second
	}
	if t.Write <= 0 {
		t.Write = 15 * time.Second
	}
	if t.Idle <= 0 {
		t.Idle = 60 * time.Second
	}
	if t.Shutdown <= 0 {
		t.Shutdown = 10 * time.Second
	}
	return t
}

// New constructs an *http.Server.
func New(addr string, handler http.Handler, t Timeouts) *http.Server {
	t = t.withDefaults()
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: t.Read,
		WriteTimeout:      t.Write,
		IdleTimeout:       t.Idle,
	}
}

// Run serves srv until ctx is done, then shuts it down gracefully.
func Run(ctx context.Context, srv *http.Server, shutdown time.Duration) error {
	if shutdown <= 0 {
		shutdown = 10 * time.Second
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zap.L().Info("http server shutting down", zap.Duration("grace", shutdown))
	sctx, cancel := context.WithTimeout(context.Background(), shutdown)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
