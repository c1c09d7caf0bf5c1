// Package facedist provides the distance metric used to compare face
// descriptors. The descriptors themselves come from an external capture
// model; this package only measures how far apart two of them are.
package facedist

import (
	"errors"
	"math"
)

// ErrLengthMismatch is returned when the two vectors differ in length.
var ErrLengthMismatch = errors.New("descriptor length mismatch")

// Euclidean returns the Euclidean distance between two equal-length
// descriptor vectors.
func Euclidean(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
