package patterns

import (
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"github.com/pojntfx/memory-access-patterns/pkg/wyrand"
)

// nilNode marks a node whose successor has not been linked yet.
const nilNode = math.MaxUint64

// chain is a single randomized cycle over fixed-size nodes laid out in the
// region. The first word of node i holds the index of its successor.
type chain struct {
	words  []uint64
	stride uint64
	nodes  uint64
	head   uint64
}

func (p *Pattern) initPointerChase() error {
	if p.opts.NodeSize < wordSize || !isPowerOfTwo(p.opts.NodeSize) {
		return fmt.Errorf("%w: node_size must be a power of 2 of at least %v, got: %v", ErrConfig, wordSize, p.opts.NodeSize)
	}

	c, err := buildChain(p.words, p.opts.NodeSize, p.opts.ShuffleSeed, p.opts.Verbose)
	if err != nil {
		return err
	}

	p.chain = c

	return nil
}

// ChainHead returns the traversal start of a built pointer chase.
func (p *Pattern) ChainHead() (uint64, error) {
	if !p.initialized || p.chain == nil {
		return 0, fmt.Errorf("%w: no pointer chain built", ErrNotInitialized)
	}

	return p.chain.head, nil
}

// ChainNodes returns the number of nodes in a built pointer chase, or 0.
func (p *Pattern) ChainNodes() uint64 {
	if p.chain == nil {
		return 0
	}

	return p.chain.nodes
}

func buildChain(words []uint64, nodeSize int, shuffleSeed uint64, verbose bool) (*chain, error) {
	stride := uint64(nodeSize / wordSize)
	nodes := uint64(len(words)) / stride

	if nodes < 2 {
		return nil, fmt.Errorf("%w: memory too small for pointer chase chain (%v nodes)", ErrResource, nodes)
	}

	if verbose {
		log.Printf("Building pointer chain with %v nodes, using %v bytes of temporary heap for the shuffle", nodes, permutationBytes(nodes))
	}

	c := &chain{
		words:  words,
		stride: stride,
		nodes:  nodes,
	}

	for i := uint64(0); i < nodes; i++ {
		words[i*stride] = nilNode
	}

	rng := newShuffler(shuffleSeed)
	if nodes <= math.MaxUint32 {
		linkChain(c, shuffled[uint32](nodes, rng))
	} else {
		linkChain(c, shuffled[uint64](nodes, rng))
	}

	return c, nil
}

// permutationBytes is the heap used by the shuffle buffer for nodes nodes.
func permutationBytes(nodes uint64) uint64 {
	if nodes <= math.MaxUint32 {
		return nodes * 4
	}

	return nodes * 8
}

func newShuffler(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return rand.New(wyrand.New(seed))
}

// shuffled returns a uniform permutation of [0, n) using Fisher-Yates.
func shuffled[T uint32 | uint64](n uint64, rng *rand.Rand) []T {
	perm := make([]T, n)
	for i := range perm {
		perm[i] = T(i)
	}

	for i := n - 1; i > 0; i-- {
		j := rng.Uint64N(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	return perm
}

func linkChain[T uint32 | uint64](c *chain, perm []T) {
	for i := 0; i < len(perm)-1; i++ {
		c.words[uint64(perm[i])*c.stride] = uint64(perm[i+1])
	}

	c.words[uint64(perm[len(perm)-1])*c.stride] = uint64(perm[0])
	c.head = uint64(perm[0])
}

// traverse follows successors from head until it returns there, iterations
// times. Each step's address depends on the previous load.
func (c *chain) traverse(iterations int) (Result, error) {
	var (
		words  = c.words
		stride = c.stride
		nodes  = c.nodes
		head   = c.head
		res    Result
	)

	for it := 0; it < iterations; it++ {
		current := head
		steps := uint64(0)

		for {
			next := words[current*stride]
			res.Checksum += next
			res.Reads++
			steps++

			if next >= nodes {
				return res, fmt.Errorf("%w: node %v points outside the chain", ErrBrokenChain, current)
			}

			current = next
			if current == head {
				break
			}

			if steps >= nodes {
				return res, fmt.Errorf("%w: head not reached after %v steps", ErrBrokenChain, steps)
			}
		}
	}

	return res, nil
}
