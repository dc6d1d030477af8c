package patterns

func (p *Pattern) initSequential() error {
	return p.elementCount()
}

func (p *Pattern) accessSequential() Result {
	var (
		words = p.words
		n     = p.elements
		bpa   = uint64(p.opts.BytePerAccess)
		res   Result
	)

	for it := 0; it < p.opts.Iteration; it++ {
		for i := uint64(0); i < n; i++ {
			res.Checksum += words[(i*bpa)/wordSize]
		}

		res.Reads += n
	}

	return res
}
