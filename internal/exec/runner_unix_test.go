//go:build unix

package exec

import (
	"syscall"
	"testing"
)

func TestDefaultSysProcAttr_NewProcessGroup(t *testing.T) {
	attr := defaultSysProcAttr()
	if attr == nil || !attr.Setpgid {
		t.Errorf("defaultSysProcAttr() = %+v, want Setpgid set", attr)
	}
}

func TestExtractSignal(t *testing.T) {
	// WaitStatus encodes a signaled exit in the low bits.
	killed := syscall.WaitStatus(uint32(syscall.SIGKILL))
	if sig, ok := extractSignal(killed); !ok || sig != syscall.SIGKILL {
		t.Errorf("extractSignal(killed) = (%v, %v), want (SIGKILL, true)", sig, ok)
	}

	exited := syscall.WaitStatus(0)
	if _, ok := extractSignal(exited); ok {
		t.Error("extractSignal reported a signal for a clean exit")
	}

	if _, ok := extractSignal("not a wait status"); ok {
		t.Error("extractSignal accepted a non-WaitStatus state")
	}
}
