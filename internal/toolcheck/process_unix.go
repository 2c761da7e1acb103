//go:build !windows

package toolcheck

import (
	"errors"
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the tool in its own process group so a
// timeout kills any children it spawned, not just the direct child
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return err
	}
}
