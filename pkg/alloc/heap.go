package alloc

import "unsafe"

// HeapAllocator carves cache-line aligned regions out of the Go heap. It
// ignores the NUMA node and works everywhere.
type HeapAllocator struct{}

func (a *HeapAllocator) Allocate(size uint64, node int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	words := make([]uint64, (size+CacheLineSize)/8)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*8)

	offset := (CacheLineSize - int(uintptr(unsafe.Pointer(&b[0]))%CacheLineSize)) % CacheLineSize
	end := offset + int(size)

	return b[offset:end:end], nil
}

// Free is a no-op; the garbage collector reclaims the region once unreferenced.
func (a *HeapAllocator) Free(b []byte) error {
	return nil
}
