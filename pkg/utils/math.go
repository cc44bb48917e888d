package utils

import "math"

// NormalizeL2 scales x in place so its L2 norm is 1. A zero vector is left
// as is. The squared sum accumulates in float64 to limit rounding drift on
// long vectors.
func NormalizeL2(x []float32) {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range x {
		x[i] *= inv
	}
}
