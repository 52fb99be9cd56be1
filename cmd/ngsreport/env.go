package main

import (
	"io"
	"os"
	"time"

	ngsreport "github.com/alnah/go-ngsreport"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	// NewPool builds the converter pool for a run. Tests swap in a fake
	// so no browser is started.
	NewPool func(size int, opts ...ngsreport.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NewPool: newConverterPool,
	}
}
