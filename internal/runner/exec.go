package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/m3rciful/tutorbot/core/logger"
	"log/slog"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultMaxOutput = 16 * 1024
)

// ExecRunner pipes source into an interpreter subprocess and captures
// stdout. This mirrors the original direct-evaluation behaviour: there is
// no sandbox beyond the timeout and output cap, which is a documented risk.
type ExecRunner struct {
	// Command is the interpreter invocation; source is written to its
	// stdin. Defaults to {"python3", "-"}.
	Command   []string
	Timeout   time.Duration
	MaxOutput int
}

// NewExecRunner builds a subprocess runner with defaults applied.
func NewExecRunner(command []string, timeout time.Duration) *ExecRunner {
	return &ExecRunner{Command: command, Timeout: timeout}
}

func (r *ExecRunner) command() []string {
	if len(r.Command) > 0 {
		return r.Command
	}
	return []string{"python3", "-"}
}

func (r *ExecRunner) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return defaultTimeout
}

func (r *ExecRunner) maxOutput() int {
	if r.MaxOutput > 0 {
		return r.MaxOutput
	}
	return defaultMaxOutput
}

// Run executes source and returns captured stdout. On failure the error
// carries the interpreter's stderr text.
func (r *ExecRunner) Run(ctx context.Context, source string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	argv := r.command()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	out := truncate(stdout.String(), r.maxOutput())

	logger.RUN.Debug("code executed",
		slog.String("event", "run.exec"),
		slog.String("status", logger.Status(err)),
		slog.Int("count", len(source)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return out, errors.New("execution timed out")
		}
		msg := strings.TrimSpace(truncate(stderr.String(), r.maxOutput()))
		if msg == "" {
			msg = err.Error()
		}
		return out, errors.New(msg)
	}
	return out, nil
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "\n... (output truncated)"
}
