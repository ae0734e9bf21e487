//go:build !windows

package proc

import (
	"os/exec"
	"syscall"
)

// isAlive checks process existence with signal 0, which probes without
// delivering anything.
func isAlive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

// killTree kills the process and, where it leads its own group, the group too
// so respawned children do not linger.
func killTree(pid int) {
	if pgid, err := syscall.Getpgid(pid); err == nil && pgid == pid {
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
	}
	_ = syscall.Kill(pid, syscall.SIGKILL)
}

// setDetached places the child in its own session so it survives the monitor
// exiting, with standard streams discarded.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
}
