//go:build !windows

// Package process terminates browser processes left behind after a report run.
package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid, which takes down
// Chrome together with its renderer and GPU helpers. Non-positive pids are
// ignored: -0 would target our own group.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
