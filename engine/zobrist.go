// zobrist.go builds the random tables the incremental position hash in
// position.go folds a move's (piece, square), en-passant file, castling
// right, and side-to-move changes into.
//
// Background on Zobrist hashing: http://research.cs.wisc.edu/techreports/1970/TR88.pdf

package engine

import (
	"math/rand"
)

// ZobristPiece/Enpassant/Castle/Color hold the per-feature random words
// combined by Position.Zobrist(); see initZobristPiece etc. below for how
// each is populated.
var (
	ZobristPiece     [PieceArraySize][SquareArraySize]uint64
	ZobristEnpassant [SquareArraySize]uint64
	ZobristCastle    [CastleArraySize]uint64
	ZobristColor     [ColorArraySize]uint64
)

func rand64(r *rand.Rand) uint64 {
	return uint64(r.Int63())<<32 ^ uint64(r.Int63())
}

func initZobristPiece(r *rand.Rand) {
	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		for fig := FigureMinValue; fig <= FigureMaxValue; fig++ {
			for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
				ZobristPiece[ColorFigure(col, fig)][sq] = rand64(r)
			}
		}
	}
}

func initZobristEnpassant(r *rand.Rand) {
	for sq := SquareA3; sq <= SquareH3; sq++ {
		ZobristEnpassant[sq] = rand64(r)
	}
	for sq := SquareA6; sq <= SquareH6; sq++ {
		ZobristEnpassant[sq] = rand64(r)
	}
}

func initZobristCastle(r *rand.Rand) {
	for i := CastleMinValue; i < CastleMaxValue; i++ {
		ZobristCastle[i] = rand64(r)
	}
}

func initZobristColor(r *rand.Rand) {
	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		ZobristColor[col] = rand64(r)
	}
}

func init() {
	// Fixed seed: every process computes the same tables, so a Zobrist key
	// saved in a cache or test fixture stays valid across runs and builds.
	r := rand.New(rand.NewSource(1))
	initZobristPiece(r)
	initZobristEnpassant(r)
	initZobristCastle(r)
	initZobristColor(r)
}
