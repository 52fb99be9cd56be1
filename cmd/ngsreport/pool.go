package main

import (
	"context"
	"fmt"

	ngsreport "github.com/alnah/go-ngsreport"
)

// CLIConverter is the interface for report conversion.
type CLIConverter interface {
	Convert(ctx context.Context, input ngsreport.Input) (*ngsreport.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*ngsreport.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() CLIConverter
	Release(CLIConverter)
	Size() int
	InitError() error
	Close() error
}

// poolAdapter exposes a *ngsreport.ConverterPool as a Pool.
type poolAdapter struct {
	pool *ngsreport.ConverterPool
}

var _ Pool = (*poolAdapter)(nil)

// newConverterPool is the production Environment.NewPool.
func newConverterPool(size int, opts ...ngsreport.Option) Pool {
	return &poolAdapter{pool: ngsreport.NewConverterPool(size, opts...)}
}

// Acquire returns nil, not a typed nil, when no converter could be created.
func (a *poolAdapter) Acquire() CLIConverter {
	conv := a.pool.Acquire()
	if conv == nil {
		return nil
	}
	return conv
}

// Release panics on a converter this adapter did not hand out.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*ngsreport.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) InitError() error {
	return a.pool.InitError()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
