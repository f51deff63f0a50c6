package primitive

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind is returned when a primitive kind is not pll or mmcm.
	ErrUnknownKind = errors.New("unknown primitive kind")
	// ErrOutputIndex is returned for an output index the primitive lacks.
	ErrOutputIndex = errors.New("output index out of range")
	// ErrCascadeUnsupported is returned when cascading is requested on a PLL.
	ErrCascadeUnsupported = errors.New("primitive does not support cascading")
)

// Kind selects a primitive.
type Kind string

const (
	PLL  Kind = "pll"
	MMCM Kind = "mmcm"
)

// Kinds lists every supported primitive kind.
var Kinds = []Kind{PLL, MMCM}

// ParseKind accepts "pll" or "mmcm" in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case PLL:
		return PLL, nil
	case MMCM:
		return MMCM, nil
	}
	return "", fmt.Errorf("%w: %q (expected %q or %q)", ErrUnknownKind, s, PLL, MMCM)
}

// New returns a fresh primitive of the given kind.
func New(kind Kind) (Primitive, error) {
	switch kind {
	case PLL:
		return NewPLLE2(), nil
	case MMCM:
		return NewMMCME2(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
