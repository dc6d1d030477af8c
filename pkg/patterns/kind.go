package patterns

import "fmt"

// Kind tags one of the closed set of traversal strategies.
type Kind int

const (
	Sequential Kind = iota
	Stride
	DynamicRandom
	PointerChase
)

var kindNames = [...]string{
	Sequential:    "sequential",
	Stride:        "stride",
	DynamicRandom: "dynamic_random",
	PointerChase:  "pointer_chase",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}

	return kindNames[k]
}

// ParseKind maps a configured pattern name to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}

// Kinds lists every supported pattern in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kinds {
		kinds[i] = Kind(i)
	}

	return kinds
}
