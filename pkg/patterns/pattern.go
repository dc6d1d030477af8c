// Package patterns implements the memory access patterns timed by the benchmark.
//
// A Pattern interprets a caller-owned region as a traversal order and walks it.
// Every loaded word is folded into the result checksum, which is then published
// to a package-level sink so the loads cannot be eliminated.
package patterns

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/pojntfx/memory-access-patterns/pkg/wyrand"
)

// Result describes one Access call.
type Result struct {
	// Reads is the number of 8-byte loads performed.
	Reads uint64
	// Checksum is the wrapping sum of all loaded words.
	Checksum uint64
}

// Pattern is one traversal strategy bound to a region. The zero value of the
// variant payload is unused until Init succeeds.
type Pattern struct {
	kind Kind
	opts Options

	words    []uint64
	size     uint64
	elements uint64

	rng   *wyrand.Source
	chain *chain

	initialized bool
}

func New(kind Kind) *Pattern {
	return &Pattern{kind: kind}
}

func (p *Pattern) Kind() Kind {
	return p.kind
}

func (p *Pattern) Name() string {
	return p.kind.String()
}

func (p *Pattern) Initialized() bool {
	return p.initialized
}

// Init binds the pattern to region. The region stays owned by the caller and
// must outlive the pattern; calling Init again discards previous state first.
// A failed Init leaves the pattern uninitialized.
func (p *Pattern) Init(region []byte, opts Options) error {
	p.reset()

	if opts.Iteration < 1 {
		return fmt.Errorf("%w: iteration must be positive, got: %v", ErrConfig, opts.Iteration)
	}

	words, err := wordView(region)
	if err != nil {
		return err
	}

	p.opts = opts
	p.words = words
	p.size = uint64(len(region))

	switch p.kind {
	case Sequential:
		err = p.initSequential()
	case Stride:
		err = p.initStride()
	case DynamicRandom:
		err = p.initDynamicRandom()
	case PointerChase:
		err = p.initPointerChase()
	default:
		err = fmt.Errorf("%w: %v", ErrUnknownPattern, int(p.kind))
	}

	if err != nil {
		p.reset()

		return err
	}

	p.initialized = true

	if opts.Verbose {
		p.logParameters()
	}

	return nil
}

// Access runs Iteration full passes over the region.
func (p *Pattern) Access() (Result, error) {
	if !p.initialized {
		return Result{}, fmt.Errorf("%w: %v", ErrNotInitialized, p.kind)
	}

	var (
		res Result
		err error
	)
	switch p.kind {
	case Sequential:
		res = p.accessSequential()
	case Stride:
		res = p.accessStride()
	case DynamicRandom:
		res = p.accessDynamicRandom()
	case PointerChase:
		res, err = p.chain.traverse(p.opts.Iteration)
	}

	observe(res.Checksum)

	if p.opts.Verbose {
		log.Printf("%v access pattern executed with %v reads", p.kind, res.Reads)
	}

	return res, err
}

// Release drops the reference to the region so it can be freed.
func (p *Pattern) Release() {
	p.reset()
}

func (p *Pattern) reset() {
	p.opts = Options{}
	p.words = nil
	p.size = 0
	p.elements = 0
	p.rng = nil
	p.chain = nil
	p.initialized = false
}

func (p *Pattern) logParameters() {
	switch p.kind {
	case Sequential, DynamicRandom:
		log.Printf("%v initialized with memory_size=%v iteration=%v byte_per_access=%v random_seed=%v", p.kind, p.size, p.opts.Iteration, p.opts.BytePerAccess, p.opts.RandomSeed)
	case Stride:
		log.Printf("%v initialized with memory_size=%v iteration=%v byte_per_access=%v access_stride=%v", p.kind, p.size, p.opts.Iteration, p.opts.BytePerAccess, p.opts.AccessStride)
	case PointerChase:
		log.Printf("%v initialized with memory_size=%v iteration=%v node_size=%v chain_length=%v", p.kind, p.size, p.opts.Iteration, p.opts.NodeSize, p.chain.nodes)
	}
}

// elementCount splits the region into byte_per_access sized elements,
// dropping a trailing partial element.
func (p *Pattern) elementCount() error {
	if err := validateBytePerAccess(p.opts.BytePerAccess); err != nil {
		return err
	}

	p.elements = p.size / uint64(p.opts.BytePerAccess)
	if p.elements == 0 {
		return fmt.Errorf("%w: memory size %v is smaller than byte_per_access %v", ErrResource, p.size, p.opts.BytePerAccess)
	}

	return nil
}

func wordView(region []byte) ([]uint64, error) {
	if len(region) == 0 {
		return nil, fmt.Errorf("%w: empty memory region", ErrResource)
	}

	if len(region)%AccessUnit != 0 {
		return nil, fmt.Errorf("%w: memory size %v is not a multiple of %v bytes", ErrResource, len(region), AccessUnit)
	}

	base := unsafe.Pointer(unsafe.SliceData(region))
	if uintptr(base)%wordSize != 0 {
		return nil, fmt.Errorf("%w: memory region is not %v-byte aligned", ErrResource, wordSize)
	}

	return unsafe.Slice((*uint64)(base), len(region)/wordSize), nil
}

var sink uint64

//go:noinline
func observe(v uint64) {
	sink += v
}
