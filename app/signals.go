// app/signals.go
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// WithShutdownSignals returns a context cancelled on Ctrl+C or SIGTERM. A
// cancelled run stops scheduling cases and reports what it finished.
func WithShutdownSignals(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			if logger != nil {
				logger.Info("shutdown signal received", zap.Any("signal", sig))
			}
			cancel()
		case <-ctx.Done():
		}
		// sigCh is left open; nothing reads it after Stop.
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
