package testing

import (
	"context"
	"testing"
	"time"

	"github.com/imamik/cliquenet/internal/config"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewConfig returns a configuration rooted in a fresh temporary directory with
// every delay set to zero.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.BaseDir = t.TempDir()
	cfg.BootnodeSettle = 0
	cfg.NodeStartDelay = 0
	cfg.PullRetries = 0
	return cfg
}
