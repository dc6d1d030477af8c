//go:build !amd64

package main

const cyclesSupported = false

func cycleOverhead() uint64 {
	return 0
}

func cycleStart() uint64 {
	return 0
}

func cycleEnd() uint64 {
	return 0
}
