//go:build unix

package exec

import (
	"os/exec"
	"syscall"
)

// defaultSysProcAttr puts the child in its own process group so a
// timeout kill reaches wine's forked children too.
func defaultSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killFunc returns the cancel action: SIGKILL to the whole group.
func killFunc(cmd *exec.Cmd) func() error {
	return func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

// extractSignal reports the signal that terminated the child, if any.
func extractSignal(state any) (syscall.Signal, bool) {
	if ws, ok := state.(syscall.WaitStatus); ok && ws.Signaled() {
		return ws.Signal(), true
	}
	return 0, false
}
