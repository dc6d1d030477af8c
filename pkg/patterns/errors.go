package patterns

import (
	"errors"
	"fmt"
)

var (
	ErrConfig         = errors.New("configuration error")
	ErrResource       = errors.New("resource error")
	ErrNotInitialized = errors.New("access pattern not initialized")
	ErrBrokenChain    = errors.New("broken pointer chain")

	ErrUnknownPattern = fmt.Errorf("%w: unknown access pattern", ErrConfig)
)
