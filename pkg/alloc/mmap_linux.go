package alloc

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sys/unix"
)

const (
	mpolBind  = 2
	mpolFNode = 1
	mpolFAddr = 2

	prefaultChunkPages = 512
)

// AnonymousAllocator maps private anonymous memory and populates it up front.
// It ignores the NUMA node.
type AnonymousAllocator struct{}

func newAnonymous(opts Options) Allocator {
	return &AnonymousAllocator{}
}

func (a *AnonymousAllocator) Allocate(size uint64, node int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	b, err := unix.Mmap(
		-1,
		0,
		int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_POPULATE,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	return b, nil
}

func (a *AnonymousAllocator) Free(b []byte) error {
	return unix.Munmap(b)
}

// NUMAAllocator binds anonymous memory to one NUMA node and faults every page
// in before handing the region out, so the first timed pass does not pay for
// page faults.
type NUMAAllocator struct {
	workers int
	verbose bool
}

func newNUMA(opts Options) Allocator {
	return &NUMAAllocator{
		workers: opts.PrefaultWorkers,
		verbose: opts.Verbose,
	}
}

func (a *NUMAAllocator) Allocate(size uint64, node int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	if !nodeOnline(node) {
		log.Printf("Invalid NUMA node %v, using node 0", node)

		node = 0
	}

	b, err := unix.Mmap(
		-1,
		0,
		int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	if err := mbind(b, node); err != nil {
		log.Printf("Could not bind memory to NUMA node %v, continuing unbound: %v", node, err)
	}

	prefault(b, a.workers)

	if actual, err := nodeOf(b); err != nil {
		if a.verbose {
			log.Printf("Could not query NUMA node of region: %v", err)
		}
	} else if actual != node {
		log.Printf("Warning: memory allocated on node %v instead of requested node %v", actual, node)
	}

	if a.verbose {
		log.Printf("Allocated %v bytes on NUMA node %v", size, node)
	}

	return b, nil
}

func (a *NUMAAllocator) Free(b []byte) error {
	return unix.Munmap(b)
}

func numaAvailable() bool {
	return nodeOnline(0)
}

func nodeOnline(node int) bool {
	if node < 0 {
		return false
	}

	_, err := os.Stat(fmt.Sprintf("/sys/devices/system/node/node%v", node))

	return err == nil
}

func mbind(b []byte, node int) error {
	mask := make([]uint64, node/64+1)
	mask[node/64] |= 1 << (node % 64)

	if _, _, errno := unix.Syscall6(
		unix.SYS_MBIND,
		uintptr(unsafe.Pointer(&b[0])),
		uintptr(len(b)),
		mpolBind,
		uintptr(unsafe.Pointer(&mask[0])),
		uintptr(len(mask)*64+1),
		0,
	); errno != 0 {
		return errno
	}

	return nil
}

func nodeOf(b []byte) (int, error) {
	var node int32
	if _, _, errno := unix.Syscall6(
		unix.SYS_GET_MEMPOLICY,
		uintptr(unsafe.Pointer(&node)),
		0,
		0,
		uintptr(unsafe.Pointer(&b[0])),
		mpolFNode|mpolFAddr,
		0,
	); errno != 0 {
		return -1, errno
	}

	return int(node), nil
}

// prefault touches one byte per page, spreading chunks of pages over at most
// workers goroutines.
func prefault(b []byte, workers int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	page := os.Getpagesize()
	pages := (len(b) + page - 1) / page

	var wg sync.WaitGroup
	lock := semaphore.NewWeighted(int64(workers))

	for start := 0; start < pages; start += prefaultChunkPages {
		end := min(start+prefaultChunkPages, pages)

		wg.Add(1)

		go func(start, end int) {
			_ = lock.Acquire(context.Background(), 1)

			defer func() {
				lock.Release(1)

				wg.Done()
			}()

			for p := start; p < end; p++ {
				b[p*page] = 0
			}
		}(start, end)
	}

	wg.Wait()
}
