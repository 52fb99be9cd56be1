//go:build windows

// Package process terminates browser processes left behind after a report run.
package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-kills pid and its child processes with taskkill.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
