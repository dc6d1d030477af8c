package patterns

import "fmt"

const (
	// AccessUnit is the cache line size regions are aligned to.
	AccessUnit = 64

	wordSize = 8
)

const (
	DefaultIteration            = 1
	DefaultBytePerAccess        = 64
	DefaultAccessStride         = 4
	DefaultRandomSeed    uint64 = 12345
	DefaultNodeSize             = wordSize
)

// Options are the per-run parameters a pattern reads at Init.
type Options struct {
	Iteration     int
	BytePerAccess int
	AccessStride  int
	RandomSeed    uint64

	// NodeSize is the byte distance between pointer-chase nodes. Building the
	// chain needs a temporary shuffle buffer of 4 bytes per node (8 above
	// 2^32 nodes), so a 1 GiB region with 8-byte nodes costs another 512 MiB
	// of heap during Init; larger nodes shrink it proportionally.
	NodeSize int
	// ShuffleSeed makes the pointer-chase shuffle reproducible; 0 draws fresh entropy.
	ShuffleSeed uint64

	Verbose bool
}

func DefaultOptions() Options {
	return Options{
		Iteration:     DefaultIteration,
		BytePerAccess: DefaultBytePerAccess,
		AccessStride:  DefaultAccessStride,
		RandomSeed:    DefaultRandomSeed,
		NodeSize:      DefaultNodeSize,
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func validateBytePerAccess(n int) error {
	if !isPowerOfTwo(n) {
		return fmt.Errorf("%w: byte_per_access must be a power of 2, got: %v", ErrConfig, n)
	}

	return nil
}
