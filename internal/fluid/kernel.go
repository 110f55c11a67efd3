package fluid

import "math"

// Influence is the cubic smoothing kernel (h - d)^3, clamped to zero at and
// beyond the smoothing radius h. distance must be the Euclidean norm, not its
// square.
//
// The kernel is continuous at d == h but its first derivative is not, so it is
// unsuitable for force gradients as is.
func Influence(distance, smoothingRadius float64) float64 {
	clamped := math.Max(0, smoothingRadius-distance)
	return clamped * clamped * clamped
}
