// Package proc runs external engine binaries: text on stdin, captured stdout/stderr, and a
// wall-clock limit after which the process is killed.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// ErrTimeout is returned when the process exceeded its wall-clock limit and was killed.
var ErrTimeout = errors.New("process timed out")

// waitDelay bounds how long Wait blocks on stray pipe holders after the process exits.
const waitDelay = 2 * time.Second

// Command describes one invocation.
type Command struct {
	Path    string
	Args    []string
	Stdin   io.Reader
	Env     []string // appended to the current environment when non-empty
	Dir     string
	Timeout time.Duration // zero means no limit beyond ctx
}

// Result captures a finished process. A nonzero ExitCode is not an error.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Run executes cmd to completion. It returns an error only when the process could not be
// started, was killed by the timeout, or ctx was cancelled.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Stdin = cmd.Stdin
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	c.WaitDelay = waitDelay

	start := time.Now()
	err := c.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("%s: %w after %v", cmd.Path, ErrTimeout, cmd.Timeout)
		}
		return res, fmt.Errorf("%s: %w", cmd.Path, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("run %s: %w", cmd.Path, err)
	}
	return res, nil
}
