package patterns

import (
	"testing"
	"unsafe"
)

// newRegion returns a word-aligned region of size bytes and its word view.
func newRegion(tb testing.TB, size int) ([]byte, []uint64) {
	tb.Helper()

	words := make([]uint64, size/wordSize)

	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size), words
}

func options(mutate func(*Options)) Options {
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}

	return opts
}
