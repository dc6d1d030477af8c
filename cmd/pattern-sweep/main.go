package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pojntfx/memory-access-patterns/pkg/alloc"
	"github.com/pojntfx/memory-access-patterns/pkg/config"
	"github.com/pojntfx/memory-access-patterns/pkg/patterns"
	"github.com/pojntfx/memory-access-patterns/pkg/utils"
)

type sample struct {
	Size        uint64  `json:"size"`
	Reads       uint64  `json:"reads"`
	NsPerAccess float64 `json:"ns_per_access"`
}

func main() {
	pattern := flag.String("pattern", patterns.PointerChase.String(), "Access pattern to sweep")
	minSize := flag.String("min-size", "4KiB", "Smallest region size")
	maxSize := flag.String("max-size", "256MiB", "Largest region size")
	iteration := flag.Int("iteration", patterns.DefaultIteration, "Full passes per measurement")
	bytePerAccess := flag.Int("byte-per-access", patterns.DefaultBytePerAccess, "Addressing granularity in bytes")
	accessStride := flag.Int("access-stride", patterns.DefaultAccessStride, "Element stride for the stride pattern")
	nodeSize := flag.Int("node-size", patterns.DefaultNodeSize, "Pointer chase node size in bytes")
	randomSeed := flag.Uint64("random-seed", patterns.DefaultRandomSeed, "Seed for the dynamic random pattern")
	allocatorName := flag.String("allocator", alloc.Anonymous, fmt.Sprintf("Allocator to use (one of %v)", alloc.Names()))
	numaNode := flag.Int("numa-node", 0, "NUMA node to allocate on")
	jsonOutput := flag.Bool("json", false, "Print one JSON object per size")
	verbose := flag.Bool("verbose", false, "Enable verbose output")

	flag.Parse()

	from, err := config.ParseSize(*minSize)
	if err != nil {
		log.Fatalln("Invalid min-size:", err)
	}

	to, err := config.ParseSize(*maxSize)
	if err != nil {
		log.Fatalln("Invalid max-size:", err)
	}

	allocator, err := alloc.New(*allocatorName, alloc.Options{Verbose: *verbose})
	if err != nil {
		log.Fatalln("Invalid allocator:", err)
	}

	opts := patterns.Options{
		Iteration:     *iteration,
		BytePerAccess: *bytePerAccess,
		AccessStride:  *accessStride,
		RandomSeed:    *randomSeed,
		NodeSize:      *nodeSize,
		Verbose:       *verbose,
	}

	for _, size := range sizes(from, to) {
		s, err := measure(allocator, *pattern, size, *numaNode, opts)
		if err != nil {
			log.Fatalf("Could not measure %v bytes: %v", size, err)
		}

		if *jsonOutput {
			if err := utils.EncodeJSON(os.Stdout, s); err != nil {
				log.Fatalln("Could not print sample:", err)
			}

			continue
		}

		fmt.Println(s.Size, s.NsPerAccess)
	}
}

// sizes doubles from the cache-line aligned lower bound up to to.
func sizes(from, to uint64) []uint64 {
	from = max(alloc.AlignSize(from), alloc.CacheLineSize)

	rv := []uint64{}
	for size := from; size != 0 && size <= to; size *= 2 {
		rv = append(rv, size)
	}

	return rv
}

func measure(allocator alloc.Allocator, pattern string, size uint64, node int, opts patterns.Options) (sample, error) {
	b, err := allocator.Allocate(size, node)
	if err != nil {
		return sample{}, err
	}
	defer func() {
		if err := allocator.Free(b); err != nil {
			log.Println("Could not free memory:", err)
		}
	}()

	dispatcher := patterns.NewDispatcher()
	defer dispatcher.Release()

	if err := dispatcher.Init(pattern, b, opts); err != nil {
		return sample{}, err
	}

	// Warm up so the timed pass starts with a resident region
	if _, err := dispatcher.Access(); err != nil {
		return sample{}, err
	}

	beforeAccess := time.Now()

	res, err := dispatcher.Access()
	if err != nil {
		return sample{}, err
	}

	afterAccess := time.Since(beforeAccess)

	s := sample{
		Size:  size,
		Reads: res.Reads,
	}
	if res.Reads > 0 {
		s.NsPerAccess = float64(afterAccess.Nanoseconds()) / float64(res.Reads)
	}

	return s, nil
}
