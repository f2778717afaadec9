package engine

import "fmt"

// piece_string.go supplies String() methods for the small enums in
// basic.go. Written by hand rather than by `go generate` + stringer,
// since the literal Piece encoding (NoPiece, 1..6 white, 7..12 black)
// does not fit stringer's usual contiguous-range assumption as cleanly
// as a short hand-written table does.

var figureToName = [FigureArraySize]string{
	NoFigure: "NoFigure",
	Pawn:     "Pawn",
	Knight:   "Knight",
	Bishop:   "Bishop",
	Rook:     "Rook",
	Queen:    "Queen",
	King:     "King",
}

func (f Figure) String() string {
	if int(f) < len(figureToName) {
		return figureToName[f]
	}
	return fmt.Sprintf("Figure(%d)", f)
}

var colorToName = [ColorArraySize]string{
	NoColor: "NoColor",
	White:   "White",
	Black:   "Black",
}

func (c Color) String() string {
	if int(c) < len(colorToName) {
		return colorToName[c]
	}
	return fmt.Sprintf("Color(%d)", c)
}

var pieceToName = [PieceArraySize]string{
	NoPiece:     "NoPiece",
	WhitePawn:   "WhitePawn",
	WhiteKnight: "WhiteKnight",
	WhiteBishop: "WhiteBishop",
	WhiteRook:   "WhiteRook",
	WhiteQueen:  "WhiteQueen",
	WhiteKing:   "WhiteKing",
	BlackPawn:   "BlackPawn",
	BlackKnight: "BlackKnight",
	BlackBishop: "BlackBishop",
	BlackRook:   "BlackRook",
	BlackQueen:  "BlackQueen",
	BlackKing:   "BlackKing",
}

func (pi Piece) String() string {
	if int(pi) < len(pieceToName) {
		return pieceToName[pi]
	}
	return fmt.Sprintf("Piece(%d)", pi)
}

var moveTypeToName = map[MoveType]string{
	Normal:    "Normal",
	Promotion: "Promotion",
	Castling:  "Castling",
	Enpassant: "Enpassant",
}

func (mt MoveType) String() string {
	if s, ok := moveTypeToName[mt]; ok {
		return s
	}
	return fmt.Sprintf("MoveType(%d)", mt)
}

var nodeTypeToName = map[nodeType]string{
	noEntry:    "noEntry",
	exact:      "exact",
	failedLow:  "failedLow",
	failedHigh: "failedHigh",
}

func (nt nodeType) String() string {
	if s, ok := nodeTypeToName[nt]; ok {
		return s
	}
	return fmt.Sprintf("nodeType(%d)", nt)
}
