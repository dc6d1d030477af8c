package main

import (
	"time"

	"github.com/pojntfx/memory-access-patterns/pkg/patterns"
)

// loadSize is the number of bytes each counted read loads.
const loadSize = 8

type report struct {
	Pattern         string  `json:"pattern"`
	MemSize         uint64  `json:"mem_size"`
	Iteration       int     `json:"iteration"`
	Reads           uint64  `json:"reads"`
	Checksum        uint64  `json:"checksum"`
	DurationNs      int64   `json:"duration_ns"`
	Cycles          uint64  `json:"cycles,omitempty"`
	NsPerAccess     float64 `json:"ns_per_access"`
	CyclesPerAccess float64 `json:"cycles_per_access,omitempty"`
	ThroughputMB    float64 `json:"throughput_mb_s"`
}

func newReport(pattern string, memSize uint64, iteration int, res patterns.Result, elapsed time.Duration, cycles uint64) report {
	r := report{
		Pattern:    pattern,
		MemSize:    memSize,
		Iteration:  iteration,
		Reads:      res.Reads,
		Checksum:   res.Checksum,
		DurationNs: elapsed.Nanoseconds(),
		Cycles:     cycles,
	}

	if res.Reads > 0 {
		r.NsPerAccess = float64(elapsed.Nanoseconds()) / float64(res.Reads)
		r.CyclesPerAccess = float64(cycles) / float64(res.Reads)
	}

	if elapsed > 0 {
		r.ThroughputMB = float64(res.Reads*loadSize) / (1024 * 1024) / elapsed.Seconds()
	}

	return r
}

func elapsedCycles(start, end, overhead uint64) uint64 {
	if end < start+overhead {
		return 0
	}

	return end - start - overhead
}
