// Package toolcheck decides whether a path is a runnable external tool by
// invoking it with a self-check argument under a hard timeout.
package toolcheck

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/stwalsh4118/pie/internal/logger"
	"github.com/stwalsh4118/pie/internal/models"
)

const (
	// DefaultTimeout bounds a single probe
	DefaultTimeout = 3 * time.Second

	// waitDelay bounds how long Wait keeps draining I/O after the process is killed
	waitDelay = 500 * time.Millisecond
)

// Probe failure reasons. Callers of Probe only see ValidityInvalid;
// Check exposes the reason.
var (
	ErrUnknownKind   = errors.New("unknown tool kind")
	ErrEmptyPath     = errors.New("tool path is empty")
	ErrNotExecutable = errors.New("tool not found or not executable")
	ErrTimeout       = errors.New("tool self-check timed out")
	ErrExitStatus    = errors.New("tool self-check exited with failure")
	ErrLaunchFailed  = errors.New("tool could not be launched")
)

// Validator probes tool paths. It keeps no state between calls and is safe
// for concurrent use.
type Validator struct {
	timeout time.Duration
}

// New creates a validator with the given per-probe timeout.
// A non-positive timeout selects DefaultTimeout.
func New(timeout time.Duration) *Validator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Validator{timeout: timeout}
}

// Timeout returns the per-probe timeout
func (v *Validator) Timeout() time.Duration {
	return v.timeout
}

// Probe reports whether path runs cleanly with the self-check argument of kind.
// Output is ignored; only the exit status matters.
func (v *Validator) Probe(ctx context.Context, path string, kind models.ToolKind) models.Validity {
	start := time.Now()
	err := v.Check(ctx, path, kind)

	if err != nil {
		logger.Log.Debug().
			Err(err).
			Str("tool", kind.String()).
			Str("path", path).
			Dur("elapsed", time.Since(start)).
			Msg("Tool path rejected")
		return models.ValidityInvalid
	}

	logger.Log.Debug().
		Str("tool", kind.String()).
		Str("path", path).
		Dur("elapsed", time.Since(start)).
		Msg("Tool path accepted")
	return models.ValidityValid
}

// Check runs the self-check and returns the reason it failed, or nil
func (v *Validator) Check(ctx context.Context, path string, kind models.ToolKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}

	resolved, err := exec.LookPath(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotExecutable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, resolved, kind.SelfCheckArg())
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, v.timeout)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s", ErrExitStatus, exitErr.ProcessState.String())
		}

		return fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	return nil
}
