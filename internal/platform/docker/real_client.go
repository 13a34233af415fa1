package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	dnetwork "github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
)

// RealClient implements Runtime using the Docker Engine API.
type RealClient struct {
	cli *client.Client
}

// ClientOption configures a RealClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	host string
}

// WithHost overrides DOCKER_HOST.
func WithHost(host string) ClientOption {
	return func(o *clientOptions) {
		o.host = host
	}
}

// NewClient connects to the engine configured by the environment.
func NewClient(opts ...ClientOption) (*RealClient, error) {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	clientOpts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if o.host != "" {
		clientOpts = append(clientOpts, client.WithHost(o.host))
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &RealClient{cli: cli}, nil
}

// Close releases the underlying HTTP transport.
func (c *RealClient) Close() error {
	return c.cli.Close()
}

// Ping checks that the engine is reachable.
func (c *RealClient) Ping(ctx context.Context) error {
	_, err := c.cli.Ping(ctx)
	return wrap("ping", c.cli.DaemonHost(), err)
}

func (c *RealClient) ImageExists(ctx context.Context, ref string) (bool, error) {
	_, _, err := c.cli.ImageInspectWithRaw(ctx, ref)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, wrap("inspect image", ref, err)
}

func (c *RealClient) PullImage(ctx context.Context, ref string) error {
	rc, err := c.cli.ImagePull(ctx, ref, types.ImagePullOptions{})
	if err != nil {
		return wrap("pull", ref, err)
	}
	defer rc.Close()

	// The pull only completes once the progress stream is drained.
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return wrap("pull", ref, err)
	}
	return nil
}

func (c *RealClient) CreateContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	cfg := &container.Config{
		Image:      spec.Image,
		Cmd:        spec.Cmd,
		Entrypoint: spec.Entrypoint,
		Hostname:   spec.Hostname,
		Labels:     spec.Labels,
	}
	hostCfg := &container.HostConfig{
		Binds: spec.Binds,
	}

	if len(spec.Ports) > 0 {
		cfg.ExposedPorts = nat.PortSet{}
		hostCfg.PortBindings = nat.PortMap{}
		for _, p := range spec.Ports {
			port, err := nat.NewPort("tcp", strconv.Itoa(p))
			if err != nil {
				return "", wrap("create", spec.Name, err)
			}
			cfg.ExposedPorts[port] = struct{}{}
			hostCfg.PortBindings[port] = []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: strconv.Itoa(p)}}
		}
	}

	var netCfg *dnetwork.NetworkingConfig
	if spec.Network != "" {
		hostCfg.NetworkMode = container.NetworkMode(spec.Network)
		endpoint := &dnetwork.EndpointSettings{}
		if spec.IPv4Address != "" {
			endpoint.IPAMConfig = &dnetwork.EndpointIPAMConfig{IPv4Address: spec.IPv4Address}
		}
		netCfg = &dnetwork.NetworkingConfig{
			EndpointsConfig: map[string]*dnetwork.EndpointSettings{spec.Network: endpoint},
		}
	}

	resp, err := c.cli.ContainerCreate(ctx, cfg, hostCfg, netCfg, nil, spec.Name)
	if err != nil {
		return "", wrap("create", spec.Name, err)
	}
	return resp.ID, nil
}

func (c *RealClient) StartContainer(ctx context.Context, name string) error {
	return wrap("start", name, c.cli.ContainerStart(ctx, name, types.ContainerStartOptions{}))
}

func (c *RealClient) StopContainer(ctx context.Context, name string) error {
	return wrap("stop", name, c.cli.ContainerStop(ctx, name, container.StopOptions{}))
}

func (c *RealClient) UnpauseContainer(ctx context.Context, name string) error {
	return wrap("unpause", name, c.cli.ContainerUnpause(ctx, name))
}

func (c *RealClient) RemoveContainer(ctx context.Context, name string, force bool) error {
	return wrap("remove", name, c.cli.ContainerRemove(ctx, name, types.ContainerRemoveOptions{Force: force}))
}

func (c *RealClient) InspectContainer(ctx context.Context, name string) (ContainerInfo, error) {
	info, err := c.cli.ContainerInspect(ctx, name)
	if err != nil {
		return ContainerInfo{}, wrap("inspect", name, err)
	}

	out := ContainerInfo{ID: info.ID, Name: name, Image: info.Image}
	if info.State != nil {
		out.State = ContainerState(info.State.Status)
	}
	return out, nil
}

func (c *RealClient) WaitContainer(ctx context.Context, name string) (int64, error) {
	statusCh, errCh := c.cli.ContainerWait(ctx, name, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return -1, wrap("wait", name, err)
	case status := <-statusCh:
		if status.Error != nil {
			return status.StatusCode, wrap("wait", name, fmt.Errorf("%s", status.Error.Message))
		}
		return status.StatusCode, nil
	case <-ctx.Done():
		return -1, wrap("wait", name, ctx.Err())
	}
}

func (c *RealClient) ContainerLogs(ctx context.Context, name string) (string, string, error) {
	rc, err := c.cli.ContainerLogs(ctx, name, types.ContainerLogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", "", wrap("logs", name, err)
	}
	defer rc.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, rc); err != nil {
		return "", "", wrap("logs", name, err)
	}
	return stdout.String(), stderr.String(), nil
}

func (c *RealClient) CreateNetwork(ctx context.Context, spec NetworkSpec) (string, error) {
	resp, err := c.cli.NetworkCreate(ctx, spec.Name, types.NetworkCreate{
		CheckDuplicate: true,
		Driver:         "bridge",
		Attachable:     true,
		IPAM: &dnetwork.IPAM{
			Config: []dnetwork.IPAMConfig{{Subnet: spec.Subnet}},
		},
		Labels: spec.Labels,
	})
	if err != nil {
		return "", wrap("create network", spec.Name, err)
	}
	return resp.ID, nil
}

func (c *RealClient) RemoveNetwork(ctx context.Context, name string) error {
	return wrap("remove network", name, c.cli.NetworkRemove(ctx, name))
}
