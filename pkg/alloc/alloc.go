// Package alloc provides the memory regions traversed by the access patterns.
package alloc

import (
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

// CacheLineSize is the access unit region sizes are rounded up to.
const CacheLineSize = 64

const (
	Auto      = "auto"
	NUMA      = "numa"
	Anonymous = "anonymous"
	Heap      = "heap"
	File      = "file"
)

var (
	ErrAllocation         = errors.New("memory allocation failed")
	ErrInsufficientMemory = errors.New("insufficient memory")
	ErrUnknownAllocator   = errors.New("unknown allocator")
)

// Allocator hands out regions and takes them back. Regions are zeroed and at
// least cache-line aligned.
type Allocator interface {
	Allocate(size uint64, node int) ([]byte, error)
	Free(b []byte) error
}

type Options struct {
	// BackingFile is the path mapped by the file allocator.
	BackingFile string
	// PrefaultWorkers bounds parallel first-touch; 0 uses GOMAXPROCS.
	PrefaultWorkers int
	Verbose         bool
}

// Names lists the accepted allocator names.
func Names() []string {
	return []string{Auto, NUMA, Anonymous, Heap, File}
}

func Validate(name string) error {
	for _, n := range Names() {
		if n == name {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownAllocator, name)
}

// New selects an allocator by name. "auto" picks the NUMA-aware allocator when
// the host exposes NUMA nodes and the generic one otherwise.
func New(name string, opts Options) (Allocator, error) {
	switch name {
	case "", Auto:
		if numaAvailable() {
			return newNUMA(opts), nil
		}

		return newAnonymous(opts), nil
	case NUMA:
		return newNUMA(opts), nil
	case Anonymous:
		return newAnonymous(opts), nil
	case Heap:
		return &HeapAllocator{}, nil
	case File:
		if opts.BackingFile == "" {
			return nil, fmt.Errorf("%w: file allocator needs a backing file", ErrAllocation)
		}

		return NewFileAllocator(opts.BackingFile), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownAllocator, name)
}

// AlignSize rounds size up to a whole number of cache lines.
func AlignSize(size uint64) uint64 {
	return ((size + CacheLineSize - 1) / CacheLineSize) * CacheLineSize
}

// CheckAvailable fails with ErrInsufficientMemory if the host cannot back a
// region of size bytes without swapping.
func CheckAvailable(size uint64) error {
	v, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("could not read host memory: %w", err)
	}

	if size > v.Available {
		return fmt.Errorf("%w: requested %v bytes, %v available", ErrInsufficientMemory, size, v.Available)
	}

	return nil
}

func checkSize(size uint64) error {
	if size == 0 {
		return fmt.Errorf("%w: zero size", ErrAllocation)
	}

	if size > uint64(maxInt-CacheLineSize) {
		return fmt.Errorf("%w: size %v exceeds address space", ErrAllocation, size)
	}

	return nil
}

const maxInt = int(^uint(0) >> 1)
