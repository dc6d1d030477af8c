package patterns

import "github.com/pojntfx/memory-access-patterns/pkg/wyrand"

func (p *Pattern) initDynamicRandom() error {
	if err := p.elementCount(); err != nil {
		return err
	}

	p.rng = wyrand.New(p.opts.RandomSeed)

	return nil
}

// accessDynamicRandom draws element indices with replacement, so a pass may
// hit some elements repeatedly and skip others. The generator state carries
// over between calls.
func (p *Pattern) accessDynamicRandom() Result {
	var (
		words = p.words
		n     = p.elements
		size  = p.size
		bpa   = uint64(p.opts.BytePerAccess)
		rng   = p.rng
		res   Result
	)

	for it := 0; it < p.opts.Iteration; it++ {
		for i := uint64(0); i < n; i++ {
			offset := (rng.Uint64() % n) * bpa
			if offset < size {
				res.Checksum += words[offset/wordSize]
				res.Reads++
			}
		}
	}

	return res
}
