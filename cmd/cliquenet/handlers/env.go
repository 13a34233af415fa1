// Package handlers implements the business logic for CLI commands.
//
// Each handler loads the configuration, wires the controller and renders the
// result. Dependencies are created through package-level factory variables so
// tests can replace the container runtime and the output writer.
package handlers

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/imamik/cliquenet/internal/config"
	"github.com/imamik/cliquenet/internal/logging"
	"github.com/imamik/cliquenet/internal/metrics"
	"github.com/imamik/cliquenet/internal/orchestration"
	"github.com/imamik/cliquenet/internal/platform/docker"
	"github.com/imamik/cliquenet/internal/provisioning"
	"github.com/imamik/cliquenet/internal/registry"
)

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
}

// Factory function variables - can be replaced in tests.
var (
	// loadConfig loads the configuration file and environment overrides.
	loadConfig = config.Load

	// newLogger builds the process logger.
	newLogger = func(verbose bool) logr.Logger {
		return logging.New(logging.Options{Verbose: verbose})
	}

	// newRuntime connects to the container runtime.
	newRuntime = func(cfg *config.Config) (docker.Runtime, func() error, error) {
		var opts []docker.ClientOption
		if cfg.DockerHost != "" {
			opts = append(opts, docker.WithHost(cfg.DockerHost))
		}
		client, err := docker.NewClient(opts...)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}

	// stdout receives rendered command output.
	stdout io.Writer = os.Stdout
)

// app is the wired set of components a command works with.
type app struct {
	cfg        *config.Config
	log        logr.Logger
	runtime    docker.Runtime
	controller *provisioning.Controller
	metrics    *metrics.Collector
	close      func() error
}

func newApp(opts *GlobalOptions) (*app, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	log := newLogger(opts.Verbose)
	rt, closeRuntime, err := newRuntime(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to docker: %w", err)
	}

	collector := metrics.New()
	orch := orchestration.New(rt, cfg, log.WithName("orchestrator"))
	reg := registry.New(cfg.Registry(), log.WithName("registry"))
	ctrl := provisioning.New(cfg, reg, orch,
		provisioning.WithObserver(provisioning.NewLogObserver(log)),
		provisioning.WithMetrics(collector),
	)

	return &app{
		cfg:        cfg,
		log:        log,
		runtime:    rt,
		controller: ctrl,
		metrics:    collector,
		close:      closeRuntime,
	}, nil
}

// withApp runs fn with a wired app and releases the runtime connection afterwards.
func withApp(opts *GlobalOptions, fn func(a *app) error) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			a.log.V(1).Info("failed to close docker client", "error", err.Error())
		}
	}()
	return fn(a)
}
