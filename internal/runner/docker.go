package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/m3rciful/tutorbot/core/logger"
	"log/slog"
)

const (
	dockerDefaultImage = "python:3-alpine"

	dockerMemoryLimitBytes = 128 * 1024 * 1024
	dockerCPUQuota         = 50000 // 0.5 CPU
	dockerPidsLimit        = 64
)

// DockerRunner executes each submission in a one-shot container with
// resource limits and no network. Selected by runner mode "docker".
type DockerRunner struct {
	cli     *client.Client
	image   string
	timeout time.Duration
}

// NewDockerRunner connects to the Docker daemon from the environment.
func NewDockerRunner(image string, timeout time.Duration) (*DockerRunner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("runner: create docker client: %w", err)
	}
	if image == "" {
		image = dockerDefaultImage
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &DockerRunner{cli: cli, image: image, timeout: timeout}, nil
}

// Run creates a container, waits for it to exit, and returns the demuxed
// stdout. Non-zero exits surface stderr as the error text.
func (r *DockerRunner) Run(ctx context.Context, source string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cfg := &container.Config{
		Image:           r.image,
		Cmd:             []string{"python3", "-c", source},
		NetworkDisabled: true,
	}
	hostCfg := &container.HostConfig{
		AutoRemove: false,
		Resources: container.Resources{
			Memory:    dockerMemoryLimitBytes,
			CPUQuota:  dockerCPUQuota,
			PidsLimit: ptr(int64(dockerPidsLimit)),
		},
	}

	resp, err := r.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("runner: create container: %w", err)
	}
	defer func() {
		removeCtx, removeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer removeCancel()
		if err := r.cli.ContainerRemove(removeCtx, resp.ID, container.RemoveOptions{Force: true}); err != nil {
			logger.RUN.Warn("container cleanup failed",
				slog.String("event", "run.docker.cleanup"),
				slog.String("err", err.Error()),
			)
		}
	}()

	if err := r.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("runner: start container: %w", err)
	}

	var exitCode int64
	waitCh, errCh := r.cli.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case res := <-waitCh:
		exitCode = res.StatusCode
	case err := <-errCh:
		return "", fmt.Errorf("runner: wait container: %w", err)
	case <-ctx.Done():
		return "", fmt.Errorf("runner: execution timed out")
	}

	stdout, stderr, err := r.collectLogs(resp.ID)
	if err != nil {
		return "", err
	}

	logger.RUN.Debug("code executed",
		slog.String("event", "run.docker"),
		slog.Int64("count", exitCode),
	)

	if exitCode != 0 {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = fmt.Sprintf("exit status %d", exitCode)
		}
		return stdout, fmt.Errorf("%s", msg)
	}
	return stdout, nil
}

func (r *DockerRunner) collectLogs(containerID string) (string, string, error) {
	logCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reader, err := r.cli.ContainerLogs(logCtx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return "", "", fmt.Errorf("runner: read container logs: %w", err)
	}
	defer reader.Close()

	var stdout, stderr strings.Builder
	if _, err := stdcopy.StdCopy(&stdout, &stderr, reader); err != nil {
		return "", "", fmt.Errorf("runner: demux container logs: %w", err)
	}
	return truncate(stdout.String(), defaultMaxOutput), truncate(stderr.String(), defaultMaxOutput), nil
}

func ptr[T any](v T) *T {
	return &v
}
