package main

import (
	"bufio"
	"errors"
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

func main() {
	configPath := flag.String("config", "", "Config file path (required)")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	pause := flag.Bool("pause", false, "Pause before access")
	allocatorName := flag.String("allocator", "", fmt.Sprintf("Allocator to use, overrides the config (one of %v)", alloc.Names()))
	jsonOutput := flag.Bool("json", false, "Print the result as JSON")

	flag.Parse()

	if *configPath == "" {
		flag.Usage()

		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalln("Could not load config:", err)
	}

	if *verbose {
		cfg.Verbose = true
	}

	if *allocatorName != "" {
		cfg.Allocator = *allocatorName

		if err := cfg.Validate(); err != nil {
			log.Fatalln("Invalid allocator:", err)
		}
	}

	if cfg.Verbose {
		log.Println("Loaded config from", *configPath)

		if err := utils.EncodeJSON(log.Writer(), cfg); err != nil {
			log.Println("Could not print config:", err)
		}
	}

	size, err := cfg.MemSizeBytes()
	if err != nil {
		log.Fatalln("Invalid mem_size:", err)
	}

	alignedSize := alloc.AlignSize(size)

	if cfg.Allocator != alloc.File {
		if err := alloc.CheckAvailable(alignedSize); err != nil {
			if errors.Is(err, alloc.ErrInsufficientMemory) {
				log.Fatalln("Failed to allocate memory:", err)
			}

			log.Println("Could not check available memory:", err)
		}
	}

	allocator, err := alloc.New(cfg.Allocator, cfg.AllocatorOptions())
	if err != nil {
		log.Fatalln("Failed to allocate memory:", err)
	}

	region, err := allocator.Allocate(alignedSize, cfg.NUMANode)
	if err != nil {
		log.Fatalln("Failed to allocate memory:", err)
	}

	if cfg.Verbose {
		log.Printf("Memory allocated successfully: %v (%v bytes) on NUMA node %v", cfg.MemSize, alignedSize, cfg.NUMANode)
	}

	dispatcher := patterns.NewDispatcher()
	if err := dispatcher.Init(cfg.AccessPattern, region, cfg.Options()); err != nil {
		_ = allocator.Free(region)

		log.Fatalln("Failed to initialize access pattern:", err)
	}

	if *pause {
		fmt.Printf("initialized, press Enter to access memory by \033[31m%v\033[0m pattern\n", dispatcher.Current())

		if _, err := bufio.NewReader(os.Stdin).ReadString('\n'); err != nil {
			log.Println("Could not wait for Enter, continuing:", err)
		}
	}

	overhead := cycleOverhead()

	beforeAccess := time.Now()
	startCycles := cycleStart()

	res, accessErr := dispatcher.Access()

	endCycles := cycleEnd()
	afterAccess := time.Since(beforeAccess)

	dispatcher.Release()

	if err := allocator.Free(region); err != nil {
		log.Println("Could not free memory:", err)
	}

	if accessErr != nil {
		log.Fatalln("Access failed:", accessErr)
	}

	r := newReport(cfg.AccessPattern, alignedSize, cfg.Iteration, res, afterAccess, elapsedCycles(startCycles, endCycles, overhead))

	if *jsonOutput {
		if err := utils.EncodeJSON(os.Stdout, r); err != nil {
			log.Fatalln("Could not print result:", err)
		}

		return
	}

	fmt.Printf("Time taken: %v milliseconds\n", afterAccess.Milliseconds())
	fmt.Printf("Reads: %v (%.2f ns/access", r.Reads, r.NsPerAccess)
	if cyclesSupported {
		fmt.Printf(", %.2f cycles/access", r.CyclesPerAccess)
	}
	fmt.Printf(")\n")
	fmt.Printf("Load throughput: %.2f MB/s (%.2f Mb/s)\n", r.ThroughputMB, r.ThroughputMB*8)
}
