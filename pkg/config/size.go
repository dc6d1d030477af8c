package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidSize = errors.New("invalid size")

var units = map[string]uint64{
	"b":   1,
	"k":   1 << 10,
	"kb":  1 << 10,
	"kib": 1 << 10,
	"m":   1 << 20,
	"mb":  1 << 20,
	"mib": 1 << 20,
	"g":   1 << 30,
	"gb":  1 << 30,
	"gib": 1 << 30,
	"t":   1 << 40,
	"tb":  1 << 40,
	"tib": 1 << 40,
}

// ParseSize converts a size string such as "1G", "512KiB" or "1.5 m" to bytes.
// Whitespace is ignored and the unit is case-insensitive; the unit is required.
func ParseSize(input string) (uint64, error) {
	trimmed := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, input)

	idx := strings.IndexFunc(trimmed, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.')
	})
	if idx == -1 {
		idx = len(trimmed)
	}

	if idx == 0 {
		return 0, fmt.Errorf("%w: missing number in %q", ErrInvalidSize, input)
	}

	value, err := strconv.ParseFloat(trimmed[:idx], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidSize, input, err)
	}

	unit := trimmed[idx:]
	multiplier, ok := units[strings.ToLower(unit)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidSize, unit)
	}

	bytes := math.Round(value * float64(multiplier))
	if bytes >= math.Ldexp(1, 64) {
		return 0, fmt.Errorf("%w: %q overflows 64 bits", ErrInvalidSize, input)
	}

	return uint64(bytes), nil
}
