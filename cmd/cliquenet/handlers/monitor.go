package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Monitor serves Prometheus metrics on listen and refreshes the status gauges of
// every registered network each interval until ctx is cancelled.
func Monitor(ctx context.Context, opts *GlobalOptions, listen string, interval time.Duration) error {
	return withApp(opts, func(a *app) error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.metrics.Handler())

		srv := &http.Server{
			Addr:              listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()
		a.log.Info("serving metrics", "address", listen, "path", "/metrics")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		known := make(map[string]bool)
		refreshStatus(ctx, a, known)
		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("metrics server failed: %w", err)
				}
				return nil
			case <-ticker.C:
				refreshStatus(ctx, a, known)
			}
		}
	})
}

// refreshStatus records the status of every registered network and drops the
// gauges of networks in known that are no longer registered. Failures are logged
// and the network is skipped.
func refreshStatus(ctx context.Context, a *app, known map[string]bool) {
	networks, err := a.controller.ListNetworks()
	if err != nil {
		a.log.Error(err, "failed to read registry")
		return
	}

	current := make(map[string]bool, len(networks))
	for _, n := range networks {
		current[n.ID] = true
	}
	for id := range known {
		if !current[id] {
			a.metrics.ForgetNetwork(id)
			delete(known, id)
		}
	}

	for _, n := range networks {
		known[n.ID] = true
		status, err := a.controller.NetworkStatus(ctx, n.ID)
		if err != nil {
			a.log.Error(err, "failed to get network status", "network", n.ID)
			continue
		}
		a.metrics.RecordStatus(status)
	}
}
