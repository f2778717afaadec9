package engine

// accum.go implements the tapered mid/end-game score accumulator used by
// the evaluator (material.go, pawns.go). The design — a per-term {M, E}
// pair merged additively and blended by phase at the end — follows the
// teacher's own Score/Eval split, collapsed into one type since this
// repository does not carry the tuner that needed them separate.

// Score is a pair of mid-game and end-game centipawn values for one
// evaluation term; scaleToCentipawns blends them by game phase.
type Score struct {
	M, E int32
}

// Accum sums Scores for one side during evaluation.
type Accum struct {
	M, E int32
}

func (a *Accum) add(s Score) {
	a.M += s.M
	a.E += s.E
}

func (a *Accum) addN(s Score, n int) {
	a.M += s.M * int32(n)
	a.E += s.E * int32(n)
}

func (a *Accum) merge(o Accum) {
	a.M += o.M
	a.E += o.E
}

func (a *Accum) deduct(o Accum) {
	a.M -= o.M
	a.E -= o.E
}

// murmurSeed gives each color a different starting seed so that otherwise
// symmetric positions don't collide in the pawn-structure cache.
var murmurSeed = [ColorArraySize]uint64{0, 0x9E3779B97F4A7C15, 0xC2B2AE3D27D4EB4F}

// murmurMix is a 64-bit finalizer mix, used to fold position features into
// cache indices (pawns.go) and the counter-move table (move_ordering.go).
func murmurMix(h, k uint64) uint64 {
	h ^= k
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	h *= 0xC4CEB9FE1A85EC53
	h ^= h >> 33
	return h
}
