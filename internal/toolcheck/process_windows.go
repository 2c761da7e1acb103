//go:build windows

package toolcheck

import (
	"os/exec"
)

// configureProcessGroup kills the direct child on timeout
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return cmd.Process.Kill()
	}
}
