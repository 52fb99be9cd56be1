//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// notifyContext cancels the run on Ctrl-C or on the SIGTERM sent by batch
// schedulers when a job is preempted. Reports already written are kept;
// queued ones fail with the context error.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
