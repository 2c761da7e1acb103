package toolcheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stwalsh4118/pie/internal/models"
)

// writeScript creates an executable shell script in dir
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are not supported on windows")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}
	return path
}

func TestNew_DefaultTimeout(t *testing.T) {
	if got := New(0).Timeout(); got != DefaultTimeout {
		t.Errorf("New(0).Timeout() = %v, want %v", got, DefaultTimeout)
	}
	if got := New(time.Second).Timeout(); got != time.Second {
		t.Errorf("New(1s).Timeout() = %v, want 1s", got)
	}
}

func TestValidator_Check(t *testing.T) {
	dir := t.TempDir()

	okTool := writeScript(t, dir, "ok-tool", "exit 0")
	failingTool := writeScript(t, dir, "failing-tool", "exit 1")
	exiftoolOnly := writeScript(t, dir, "exiftool-only", `[ "$1" = "-ver" ] || exit 2`)
	noisyTool := writeScript(t, dir, "noisy-tool", "echo garbage; echo more garbage >&2; exit 0")

	plainFile := filepath.Join(dir, "not-executable")
	if err := os.WriteFile(plainFile, []byte("#!/bin/sh\nexit 0\n"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		kind    models.ToolKind
		wantErr error
	}{
		{"clean exit", okTool, models.ToolFfmpeg, nil},
		{"output is ignored", noisyTool, models.ToolMagick, nil},
		{"non-zero exit", failingTool, models.ToolFfmpeg, ErrExitStatus},
		{"kind specific argument accepted", exiftoolOnly, models.ToolExiftool, nil},
		{"kind specific argument rejected", exiftoolOnly, models.ToolMagick, ErrExitStatus},
		{"empty path", "", models.ToolFfmpeg, ErrEmptyPath},
		{"blank path", "   ", models.ToolFfmpeg, ErrEmptyPath},
		{"missing file", filepath.Join(dir, "missing"), models.ToolFfmpeg, ErrNotExecutable},
		{"not executable", plainFile, models.ToolExiftool, ErrNotExecutable},
		{"directory", dir, models.ToolFfmpeg, ErrNotExecutable},
		{"unknown kind", okTool, models.ToolKind("gimp"), ErrUnknownKind},
	}

	v := New(2 * time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(context.Background(), tt.path, tt.kind)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Check() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Check() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidator_Probe(t *testing.T) {
	dir := t.TempDir()
	okTool := writeScript(t, dir, "ok-tool", "exit 0")
	failingTool := writeScript(t, dir, "failing-tool", "exit 3")

	v := New(2 * time.Second)
	ctx := context.Background()

	if got := v.Probe(ctx, okTool, models.ToolFfmpeg); got != models.ValidityValid {
		t.Errorf("Probe(ok) = %s, want valid", got)
	}
	if got := v.Probe(ctx, failingTool, models.ToolFfmpeg); got != models.ValidityInvalid {
		t.Errorf("Probe(failing) = %s, want invalid", got)
	}
	if got := v.Probe(ctx, filepath.Join(dir, "nope"), models.ToolMagick); got != models.ValidityInvalid {
		t.Errorf("Probe(missing) = %s, want invalid", got)
	}
}

func TestValidator_ProbeTimeout(t *testing.T) {
	dir := t.TempDir()
	slowTool := writeScript(t, dir, "slow-tool", "sleep 10 &\nexec sleep 10")

	v := New(200 * time.Millisecond)

	start := time.Now()
	err := v.Check(context.Background(), slowTool, models.ToolFfmpeg)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Check() error = %v, want %v", err, ErrTimeout)
	}
	if elapsed > 3*time.Second {
		t.Errorf("probe took %v, want it bounded near the timeout", elapsed)
	}
	if got := v.Probe(context.Background(), slowTool, models.ToolFfmpeg); got != models.ValidityInvalid {
		t.Errorf("Probe(slow) = %s, want invalid", got)
	}
}

func TestValidator_ProbeCancelledContext(t *testing.T) {
	dir := t.TempDir()
	okTool := writeScript(t, dir, "ok-tool", "exit 0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := New(time.Second).Probe(ctx, okTool, models.ToolFfmpeg); got != models.ValidityInvalid {
		t.Errorf("Probe() with cancelled context = %s, want invalid", got)
	}
}

func TestValidator_ConcurrentProbes(t *testing.T) {
	dir := t.TempDir()
	okTool := writeScript(t, dir, "ok-tool", "exit 0")
	failingTool := writeScript(t, dir, "failing-tool", "exit 1")

	v := New(2 * time.Second)
	var wg sync.WaitGroup
	results := make([]models.Validity, 10)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := okTool
			if i%2 == 1 {
				path = failingTool
			}
			results[i] = v.Probe(context.Background(), path, models.ToolFfmpeg)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		want := models.ValidityValid
		if i%2 == 1 {
			want = models.ValidityInvalid
		}
		if got != want {
			t.Errorf("results[%d] = %s, want %s", i, got, want)
		}
	}
}
