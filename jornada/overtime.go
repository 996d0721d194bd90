package jornada

import "math"

const DefaultThreshold = 8.0

// Split divides an interval into regular and extra hours. The threshold
// applies to the day's cumulative regular hours, so priorRegular is what the
// day's earlier closed sessions already consumed.
func Split(priorRegular, interval, threshold float64) (regular, extra float64) {
	if interval <= 0 {
		return 0, 0
	}
	regular = math.Max(0, math.Min(threshold-priorRegular, interval))
	return regular, interval - regular
}
