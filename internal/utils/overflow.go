// Package utils holds overflow-checked arithmetic and narrowing conversions
// shared by the record reader, writer, and typed loaders.
package utils

import (
	"fmt"
	"math"
)

// MaxExactInteger is the largest magnitude an integer may have and still be
// recovered unambiguously from float64 (2^53 - 1). 2^53 itself is excluded
// because 2^53+1 rounds onto it.
const MaxExactInteger = 1<<53 - 1

// CheckMultiplyOverflow checks if multiplying two uint64 values would overflow.
func CheckMultiplyOverflow(a, b uint64) error {
	if a == 0 || b == 0 {
		return nil
	}
	if a > math.MaxUint64/b {
		return fmt.Errorf("multiplication overflow: %d * %d exceeds uint64 max", a, b)
	}
	return nil
}

// ElementCount returns the number of elements in an array of the given shape.
// An empty shape describes a scalar and yields 1.
func ElementCount(dims []uint64) (uint64, error) {
	count := uint64(1)
	for i, dim := range dims {
		if err := CheckMultiplyOverflow(count, dim); err != nil {
			return 0, fmt.Errorf("element count overflow at dimension %d: %w", i, err)
		}
		count *= dim
	}
	return count, nil
}

// ValidateDimensions rejects empty shapes and zero-length dimensions.
func ValidateDimensions(dims []uint64) error {
	if len(dims) == 0 {
		return fmt.Errorf("dimensions cannot be empty")
	}
	for i, dim := range dims {
		if dim == 0 {
			return fmt.Errorf("dimension %d cannot be 0", i)
		}
	}
	return nil
}

// MaxStringSize limits the width of a fixed-length string element to 16MB.
const MaxStringSize = 16 * 1024 * 1024
