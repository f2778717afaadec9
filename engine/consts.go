package engine

// consts.go declares the fundamental square, piece and bitboard constants.
//
// Square 0 is a1, square 63 is h8: file = sq % 8, rank = sq / 8. Piece values
// follow the data model directly: 0 is NoPiece, 1..6 are the white figures
// and 7..12 are the same figures for black, so a Piece fits in a nibble and
// packs trivially alongside a Move into 32 bits (see PackedMove in basic.go).

const (
	SquareA1 Square = 8 * iota
	SquareA2
	SquareA3
	SquareA4
	SquareA5
	SquareA6
	SquareA7
	SquareA8
)

const (
	SquareB1 = SquareA1 + 1
	SquareC1 = SquareA1 + 2
	SquareD1 = SquareA1 + 3
	SquareE1 = SquareA1 + 4
	SquareF1 = SquareA1 + 5
	SquareG1 = SquareA1 + 6
	SquareH1 = SquareA1 + 7

	SquareB2, SquareC2, SquareD2, SquareE2, SquareF2, SquareG2, SquareH2 = SquareA2 + 1, SquareA2 + 2, SquareA2 + 3, SquareA2 + 4, SquareA2 + 5, SquareA2 + 6, SquareA2 + 7

	SquareB3 = SquareA3 + 1
	SquareH3 = SquareA3 + 7

	SquareC3, SquareD3, SquareE3, SquareF3, SquareG3 = SquareA3 + 2, SquareA3 + 3, SquareA3 + 4, SquareA3 + 5, SquareA3 + 6

	SquareB4, SquareC4, SquareD4, SquareE4, SquareF4, SquareG4, SquareH4 = SquareA4 + 1, SquareA4 + 2, SquareA4 + 3, SquareA4 + 4, SquareA4 + 5, SquareA4 + 6, SquareA4 + 7
	SquareB5, SquareC5, SquareD5, SquareE5, SquareF5, SquareG5, SquareH5 = SquareA5 + 1, SquareA5 + 2, SquareA5 + 3, SquareA5 + 4, SquareA5 + 5, SquareA5 + 6, SquareA5 + 7

	SquareB6 = SquareA6 + 1
	SquareH6 = SquareA6 + 7

	SquareC6, SquareD6, SquareE6, SquareF6, SquareG6 = SquareA6 + 2, SquareA6 + 3, SquareA6 + 4, SquareA6 + 5, SquareA6 + 6

	SquareB7, SquareC7, SquareD7, SquareE7, SquareF7, SquareG7, SquareH7 = SquareA7 + 1, SquareA7 + 2, SquareA7 + 3, SquareA7 + 4, SquareA7 + 5, SquareA7 + 6, SquareA7 + 7

	SquareB8 = SquareA8 + 1
	SquareC8 = SquareA8 + 2
	SquareD8 = SquareA8 + 3
	SquareE8 = SquareA8 + 4
	SquareF8 = SquareA8 + 5
	SquareG8 = SquareA8 + 6
	SquareH8 = SquareA8 + 7

	SquareMinValue  = SquareA1
	SquareMaxValue  = SquareH8
	SquareArraySize = int(SquareMaxValue) + 1
)

// NoPiece is the empty-square sentinel; White and Black figures occupy
// 1..6 and 7..12 respectively, matching the data model's encoding.
const (
	WhitePawn   = Piece(Pawn)
	WhiteKnight = Piece(Knight)
	WhiteBishop = Piece(Bishop)
	WhiteRook   = Piece(Rook)
	WhiteQueen  = Piece(Queen)
	WhiteKing   = Piece(King)

	BlackPawn   = WhitePawn + 6
	BlackKnight = WhiteKnight + 6
	BlackBishop = WhiteBishop + 6
	BlackRook   = WhiteRook + 6
	BlackQueen  = WhiteQueen + 6
	BlackKing   = WhiteKing + 6

	PieceMinValue  = WhitePawn
	PieceMaxValue  = BlackKing
	PieceArraySize = int(PieceMaxValue) + 1
)

const (
	BbEmpty Bitboard = 0
	BbFull  Bitboard = 0xFFFFFFFFFFFFFFFF

	BbFileA = Bitboard(0x0101010101010101)
	BbFileH = BbFileA << 7
	BbRank1 = Bitboard(0x00000000000000FF)
	BbRank2 = BbRank1 << 8
	BbRank3 = BbRank1 << 16
	BbRank4 = BbRank1 << 24
	BbRank5 = BbRank1 << 32
	BbRank6 = BbRank1 << 40
	BbRank7 = BbRank1 << 48
	BbRank8 = BbRank1 << 56
)
