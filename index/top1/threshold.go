package top1

import "math"

// Threshold returns the search threshold τ for m directions.
// ln(ln m) is only defined for m ≥ 3; below that Threshold returns +Inf
// and no direction ever qualifies.
func Threshold(alpha float64, m int) float64 {
	if m < 3 {
		return math.Inf(1)
	}
	lnm := math.Log(float64(m))
	return alpha*math.Sqrt(2*lnm) - math.Sqrt(2*(1-alpha*alpha)*math.Log(lnm))
}

// CorridorBounds returns the window [left, right] used by the Corridor policy.
// ok is false for m < 3, where the window is undefined and no point is assigned.
func CorridorBounds(m int) (left, right float64, ok bool) {
	if m < 3 {
		return 0, 0, false
	}
	lnm := math.Log(float64(m))
	right = math.Sqrt(2 * lnm)
	left = right - 1.5*math.Log(lnm)/right
	return left, right, true
}
