package utils

import (
	"fmt"
	"math"
)

// NarrowInt32 converts v to int32, failing when v is out of range.
func NarrowInt32(v int64) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("value %d overflows int32", v)
	}
	return int32(v), nil
}

// NarrowFloat32 converts v to float32. Finite values whose magnitude exceeds
// float32 range are rejected; NaN and infinities pass through.
func NarrowFloat32(v float64) (float32, error) {
	f := float32(v)
	if math.IsInf(float64(f), 0) && !math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %g overflows float32", v)
	}
	return f, nil
}

// CheckExactInteger fails when v cannot survive widening to float64.
func CheckExactInteger(v int64) error {
	if v > MaxExactInteger || v < -MaxExactInteger {
		return fmt.Errorf("value %d exceeds exact integer range +/-%d", v, int64(MaxExactInteger))
	}
	return nil
}

// ExactInt64 converts a float64 produced by widening an integer back to int64.
// It fails for non-integral values and for magnitudes above MaxExactInteger,
// where the widening may already have rounded a neighbouring integer.
func ExactInt64(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("value %g is not an integer", v)
	}
	if math.Abs(v) > MaxExactInteger {
		return 0, fmt.Errorf("value %g exceeds exact integer range", v)
	}
	return int64(v), nil
}
