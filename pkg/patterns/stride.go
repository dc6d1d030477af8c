package patterns

import "fmt"

func (p *Pattern) initStride() error {
	if p.opts.AccessStride < 1 {
		return fmt.Errorf("%w: access_stride must be positive, got: %v", ErrConfig, p.opts.AccessStride)
	}

	return p.elementCount()
}

// accessStride visits elements 0, stride, 2*stride, ... below the element
// count; strides beyond a page exercise TLB misses.
func (p *Pattern) accessStride() Result {
	var (
		words = p.words
		n     = p.elements
		bpa   = uint64(p.opts.BytePerAccess)
		step  = uint64(p.opts.AccessStride)
		res   Result
	)

	for it := 0; it < p.opts.Iteration; it++ {
		for i := uint64(0); i < n; i += step {
			res.Checksum += words[(i*bpa)/wordSize]
			res.Reads++
		}
	}

	return res
}
