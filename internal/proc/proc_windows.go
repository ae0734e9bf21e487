//go:build windows

package proc

import (
	"os"
	"os/exec"
	"syscall"
)

// isAlive checks process existence. Windows has no signal 0; finding the
// process handle is the closest non-disruptive probe.
func isAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	defer func() {
		_ = p.Release()
	}()
	return true
}

// killTree kills the process. Child processes are not tracked on Windows.
func killTree(pid int) {
	p, err := os.FindProcess(pid)
	if err != nil {
		return
	}
	_ = p.Kill()
}

// setDetached detaches the child from the monitor's console and lifetime.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
}
