package util

import "cmp"

// Clamp clamps val to the range [low, high] for any ordered type.
// When low > high the result is low.
func Clamp[T cmp.Ordered](val, low, high T) T {
	if val > high {
		val = high
	}
	if val < low {
		return low
	}
	return val
}
