package engine

// distance[i][j] is the number of king steps needed to go from square i to
// square j on an empty board (Chebyshev distance), used by king-tropism and
// passed-pawn-race evaluation terms.
var distance [SquareArraySize][SquareArraySize]int32

// max returns the maximum of a and b.
func max(a, b int32) int32 {
	if a >= b {
		return a
	}
	return b
}

// min returns the minimum of a and b.
func min(a, b int32) int32 {
	if a <= b {
		return a
	}
	return b
}

func init() {
	for i := SquareMinValue; i <= SquareMaxValue; i++ {
		for j := SquareMinValue; j <= SquareMaxValue; j++ {
			f, r := int32(i.File()-j.File()), int32(i.Rank()-j.Rank())
			f, r = max(f, -f), max(r, -r)
			distance[i][j] = max(f, r)
		}
	}
}
