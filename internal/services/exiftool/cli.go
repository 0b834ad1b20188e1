package exiftool

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"prismrestore/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the CLI backend.
type Option func(*CLI)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *CLI) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// CLI runs one exiftool process per restored file.
type CLI struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// NewCLI constructs a CLI backend. A non-positive timeout disables the
// per-invocation deadline.
func NewCLI(binary string, timeoutSeconds int, opts ...Option) (*CLI, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("exiftool binary required")
	}
	c := &CLI{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Restore copies every tag from the sidecar onto targetPath in place.
func (c *CLI) Restore(ctx context.Context, sidecarPath, targetPath string) error {
	if strings.TrimSpace(sidecarPath) == "" || strings.TrimSpace(targetPath) == "" {
		return services.Wrap(services.ErrExternalTool, "restore", "exiftool", "sidecar and target paths required", nil)
	}
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	output, err := c.exec.Run(runCtx, c.binary, Args(sidecarPath, targetPath))
	if err == nil {
		return nil
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return services.Wrap(services.ErrTimeout, "restore", "exiftool",
			fmt.Sprintf("no result after %s", c.timeout), err)
	}
	return services.Wrap(services.ErrExternalTool, "restore", "exiftool", summarizeOutput(output), err)
}

// Args returns the exiftool argument list that restores sidecarPath onto targetPath.
func Args(sidecarPath, targetPath string) []string {
	return []string{"-tagsfromfile", sidecarPath, targetPath, "-overwrite_original"}
}

func summarizeOutput(output []byte) string {
	text := strings.TrimSpace(string(output))
	if text == "" {
		return "exiftool failed"
	}
	lines := strings.Split(text, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if len(last) > 240 {
		last = last[:240]
	}
	return last
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}
