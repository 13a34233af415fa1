package orchestration

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/cliquenet/internal/config"
	"github.com/imamik/cliquenet/internal/platform/docker"
	"github.com/imamik/cliquenet/internal/util/labels"
	"github.com/imamik/cliquenet/internal/util/naming"
	"github.com/imamik/cliquenet/internal/util/retry"
)

// Orchestrator sequences container operations for chain networks.
type Orchestrator struct {
	runtime     docker.Runtime
	cfg         *config.Config
	log         logr.Logger
	pullBackoff time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPullBackoff sets the initial delay between image pull attempts.
func WithPullBackoff(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.pullBackoff = d
	}
}

// New returns an Orchestrator using rt.
func New(rt docker.Runtime, cfg *config.Config, log logr.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runtime:     rt,
		cfg:         cfg,
		log:         log.WithName("orchestrator"),
		pullBackoff: time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// EnsureImage pulls the client and tools images when they are not present locally.
func (o *Orchestrator) EnsureImage(ctx context.Context) error {
	images := []string{o.cfg.ClientImage}
	if o.cfg.ToolsImage != o.cfg.ClientImage {
		images = append(images, o.cfg.ToolsImage)
	}

	for _, ref := range images {
		exists, err := o.runtime.ImageExists(ctx, ref)
		if err != nil {
			return fmt.Errorf("failed to check image %s: %w", ref, err)
		}
		if exists {
			o.log.V(1).Info("image present", "image", ref)
			continue
		}

		o.log.Info("pulling image", "image", ref)
		policy := retry.Policy{
			Retries:  o.cfg.PullRetries,
			Delay:    o.pullBackoff,
			MaxDelay: 30 * time.Second,
			Notify: func(attempt int, err error) {
				o.log.Info("image pull failed, retrying", "image", ref, "attempt", attempt, "error", err.Error())
			},
		}
		err = retry.Do(ctx, policy, func(ctx context.Context) error {
			if err := o.runtime.PullImage(ctx, ref); err != nil {
				if docker.IsNotFound(err) {
					return retry.Permanent(err)
				}
				return err
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to pull image %s: %w", ref, err)
		}
	}
	return nil
}

// RemoveIfExists removes the named container whatever its state. A missing container
// is not an error.
func (o *Orchestrator) RemoveIfExists(ctx context.Context, name string) error {
	info, err := o.runtime.InspectContainer(ctx, name)
	if docker.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	log := o.log.WithValues("container", name, "state", string(info.State))
	log.V(1).Info("removing existing container")

	force := false
	switch info.State {
	case docker.StateRunning, docker.StateRestarting:
		if err := o.runtime.StopContainer(ctx, name); err != nil {
			return err
		}
	case docker.StatePaused:
		if err := o.runtime.UnpauseContainer(ctx, name); err != nil {
			return err
		}
		if err := o.runtime.StopContainer(ctx, name); err != nil {
			return err
		}
	case docker.StateCreated, docker.StateExited, docker.StateDead:
	default:
		log.Info("unknown container state, forcing removal")
		force = true
	}

	if err := o.runtime.RemoveContainer(ctx, name, force); err != nil && !docker.IsNotFound(err) {
		return err
	}
	return nil
}

// helperRun is the outcome of a one-shot helper container.
type helperRun struct {
	ExitCode int64
	Stdout   string
	Stderr   string
}

// runHelper runs a one-shot container with dir mounted at the setup data dir and
// removes it afterwards.
func (o *Orchestrator) runHelper(ctx context.Context, networkID, node, image string, entrypoint, cmd []string, dir string) (*helperRun, error) {
	name := naming.Helper(networkID, node)
	if err := o.RemoveIfExists(ctx, name); err != nil {
		return nil, err
	}

	bind, err := bindMount(dir, setupDataDir)
	if err != nil {
		return nil, err
	}

	_, err = o.runtime.CreateContainer(ctx, docker.ContainerSpec{
		Name:       name,
		Image:      image,
		Entrypoint: entrypoint,
		Cmd:        cmd,
		Binds:      []string{bind},
		Labels:     labels.NewLabelBuilder(networkID).WithNode(node).Build(),
	})
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := o.RemoveIfExists(context.WithoutCancel(ctx), name); err != nil {
			o.log.Error(err, "failed to remove helper container", "container", name)
		}
	}()

	if err := o.runtime.StartContainer(ctx, name); err != nil {
		return nil, err
	}
	code, err := o.runtime.WaitContainer(ctx, name)
	if err != nil {
		return nil, err
	}
	stdout, stderr, err := o.runtime.ContainerLogs(ctx, name)
	if err != nil {
		return nil, err
	}

	o.log.V(1).Info("helper finished", "container", name, "exitCode", code)
	return &helperRun{ExitCode: code, Stdout: stdout, Stderr: stderr}, nil
}

func bindMount(hostDir, containerDir string) (string, error) {
	abs, err := filepath.Abs(hostDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", hostDir, err)
	}
	return abs + ":" + containerDir, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var (
	errNoAccount       = errors.New("no account in keystore")
	errSeveralAccounts = errors.New("more than one account in keystore")
)
