//go:build !linux

package alloc

import "log"

func newAnonymous(opts Options) Allocator {
	if opts.Verbose {
		log.Println("Anonymous mappings are only supported on Linux, using the heap")
	}

	return &HeapAllocator{}
}

func newNUMA(opts Options) Allocator {
	log.Println("NUMA support is only available on Linux, using the heap")

	return &HeapAllocator{}
}

func numaAvailable() bool {
	return false
}
