package alloc

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// FileAllocator backs regions with a shared mapping of a file, which is
// truncated to the region size.
type FileAllocator struct {
	path string

	lock  sync.Mutex
	files map[uintptr]*os.File
}

func NewFileAllocator(path string) *FileAllocator {
	return &FileAllocator{
		path:  path,
		files: map[uintptr]*os.File{},
	}
}

func (a *FileAllocator) Allocate(size uint64, node int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(a.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	if err := f.Truncate(0); err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	b, err := mmap.MapRegion(f, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	a.lock.Lock()
	a.files[base(b)] = f
	a.lock.Unlock()

	return b, nil
}

func (a *FileAllocator) Free(b []byte) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	f, ok := a.files[base(b)]
	if !ok {
		return fmt.Errorf("%w: region was not allocated from %v", ErrAllocation, a.path)
	}

	m := mmap.MMap(b)
	if err := m.Unmap(); err != nil {
		return err
	}

	delete(a.files, base(b))

	return f.Close()
}

func base(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
