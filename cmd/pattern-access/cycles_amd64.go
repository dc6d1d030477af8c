package main

import "github.com/dterei/gotsc"

const cyclesSupported = true

func cycleOverhead() uint64 {
	return gotsc.TSCOverhead()
}

func cycleStart() uint64 {
	return gotsc.BenchStart()
}

func cycleEnd() uint64 {
	return gotsc.BenchEnd()
}
