//go:build windows

package exec

import (
	"os/exec"
	"syscall"
)

// defaultSysProcAttr returns nil: Windows has no Setpgid-style process
// groups.
func defaultSysProcAttr() *syscall.SysProcAttr {
	return nil
}

// killFunc kills the child process itself; there is no group to reach.
func killFunc(cmd *exec.Cmd) func() error {
	return func() error {
		return cmd.Process.Kill()
	}
}

// extractSignal is a no-op on Windows.
func extractSignal(_ any) (syscall.Signal, bool) {
	return 0, false
}
