package engine

// moves.go converts moves to and from the two textual notations the
// engine needs: UCI's coordinate notation for the protocol, and SAN for
// reading test suites and PGN-derived book lines.

import (
	"fmt"
	"strings"
)

var (
	errWrongLength       = fmt.Errorf("%w: SAN string is too short", ErrInvalidMove)
	errUnknownFigure     = fmt.Errorf("%w: unknown figure symbol", ErrInvalidMove)
	errBadDisambiguation = fmt.Errorf("%w: bad disambiguation", ErrInvalidMove)
	errBadPromotion      = fmt.Errorf("%w: only pawns on the last rank can be promoted", ErrInvalidMove)
	errNoSuchMove        = fmt.Errorf("%w: no such move", ErrInvalidMove)
)

var symbolToFigure = map[rune]Figure{
	'P': Pawn, 'N': Knight, 'B': Bishop, 'R': Rook, 'Q': Queen, 'K': King,
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

// SANToMove parses s, in standard algebraic notation, into a legal move
// of pos. Accepted input is slightly looser than the FIDE handbook: 'x'
// (capture), '+' and '#' (check/mate) and "e.p." (en passant) markers are
// all accepted but not required to be correct.
func (pos *Position) SANToMove(s string) (Move, error) {
	piece := NoPiece
	move := Move{MoveType: Normal}
	r, f := -1, -1

	b, e := 0, len(s)
	if b == e {
		return Move{}, errWrongLength
	}
	for e > b && (s[e-1] == '#' || s[e-1] == '+') {
		e--
	}

	lower := strings.ToLower(s[b:e])
	switch lower {
	case "o-o":
		move, piece = pos.castlingSANMove(SquareG1, SquareG8)
	case "o-o-o":
		move, piece = pos.castlingSANMove(SquareC1, SquareC8)
	default:
		if ('a' <= s[b] && s[b] <= 'h') || s[b] == 'x' {
			piece = ColorFigure(pos.SideToMove, Pawn)
		} else {
			fig, ok := symbolToFigure[rune(s[b])]
			if !ok {
				return Move{}, errUnknownFigure
			}
			piece = ColorFigure(pos.SideToMove, fig)
			b++
		}
		move.Target = piece

		if e-4 > b && s[e-4:e] == "e.p." {
			e -= 4
		}

		if e-1 < b {
			return Move{}, errWrongLength
		}
		if !('1' <= s[e-1] && s[e-1] <= '8') {
			if piece.Figure() != Pawn {
				return Move{}, errBadPromotion
			}
			fig, ok := symbolToFigure[rune(s[e-1])]
			if !ok {
				return Move{}, errUnknownFigure
			}
			move.MoveType = Promotion
			move.Target = ColorFigure(pos.SideToMove, fig)
			e--
			if e-1 >= b && s[e-1] == '=' {
				e--
			}
		}

		if e-2 < b {
			return Move{}, errWrongLength
		}
		to, err := SquareFromString(s[e-2 : e])
		if err != nil {
			return Move{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
		}
		move.To = to
		if to == pos.EnpassantSquare() && piece.Figure() == Pawn {
			move.MoveType = Enpassant
			move.Capture = ColorFigure(pos.SideToMove.Opposite(), Pawn)
		} else {
			move.Capture = pos.Get(to)
		}
		e -= 2

		if e-1 >= b && (s[e-1] == 'x' || s[e-1] == '-') {
			e--
		}

		if e-b > 2 {
			return Move{}, errBadDisambiguation
		}
		for ; b < e; b++ {
			switch {
			case 'a' <= s[b] && s[b] <= 'h':
				f = int(s[b] - 'a')
			case '1' <= s[b] && s[b] <= '8':
				r = int(s[b] - '1')
			default:
				return Move{}, errBadDisambiguation
			}
		}
	}

	var moves []Move
	pos.GenerateMoves(All, &moves)
	for _, pm := range moves {
		if pm.Piece().Figure() != piece.Figure() {
			continue
		}
		if pm.MoveType != move.MoveType || pm.Capture != move.Capture {
			continue
		}
		if pm.To != move.To || pm.Target != move.Target {
			continue
		}
		if r != -1 && pm.From.Rank() != r {
			continue
		}
		if f != -1 && pm.From.File() != f {
			continue
		}
		return pm, nil
	}
	return Move{}, errNoSuchMove
}

func (pos *Position) castlingSANMove(whiteTo, blackTo Square) (Move, Piece) {
	if pos.SideToMove == White {
		m := Move{MoveType: Castling, From: SquareE1, To: whiteTo, Target: WhiteKing}
		return m, m.Target
	}
	m := Move{MoveType: Castling, From: SquareE8, To: blackTo, Target: BlackKing}
	return m, m.Target
}

// MoveToSAN converts m, legal in pos, to standard algebraic notation.
// Disambiguation is added only when more than one of the same figure can
// reach the destination; check/mate suffixes are not added, matching
// what SANToMove is willing to accept back.
func (pos *Position) MoveToSAN(m Move) string {
	if m.MoveType == Castling {
		if m.To == SquareG1 || m.To == SquareG8 {
			return "O-O"
		}
		return "O-O-O"
	}

	fig := m.Piece().Figure()
	var sb strings.Builder
	if fig != Pawn {
		sb.WriteString(figureToSymbol[fig])
		sb.WriteString(pos.sanDisambiguation(m))
	} else if m.Capture != NoPiece {
		sb.WriteByte(byte('a' + m.From.File()))
	}
	if m.Capture != NoPiece {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.MoveType == Promotion {
		sb.WriteByte('=')
		sb.WriteString(figureToSymbol[m.Target.Figure()])
	}
	return sb.String()
}

func (pos *Position) sanDisambiguation(m Move) string {
	fig := m.Piece().Figure()
	var moves []Move
	pos.GenerateMoves(All, &moves)

	sameFile, sameRank, ambiguous := false, false, false
	for _, other := range moves {
		if other.To != m.To || other.From == m.From {
			continue
		}
		if other.Piece().Figure() != fig {
			continue
		}
		ambiguous = true
		if other.From.File() == m.From.File() {
			sameFile = true
		}
		if other.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	if !ambiguous {
		return ""
	}
	switch {
	case !sameFile:
		return string([]byte{byte('a' + m.From.File())})
	case !sameRank:
		return string([]byte{byte('1' + m.From.Rank())})
	default:
		return m.From.String()
	}
}

// MoveToUCI converts a move to UCI coordinate notation, e.g. "e2e4" or
// "a7a8q" for a promotion. The UCI spec calls this "long algebraic
// notation", which is a misnomer: it is Pure Algebraic Coordinate
// Notation.
func (pos *Position) MoveToUCI(m Move) string {
	r := m.From.String() + m.To.String()
	if m.MoveType == Promotion {
		r += strings.ToLower(figureToSymbol[m.Target.Figure()])
	}
	return r
}

// UCIToMove parses s, in UCI coordinate notation, into a move of pos.
// s can be "a2a4" or "h7h8q" for pawn promotion. The returned move is
// only pseudo-legal; callers validate with IsLegalSoft or IsLegal.
func (pos *Position) UCIToMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q is not 4 or 5 characters", ErrInvalidMove, s)
	}
	from, err := SquareFromString(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	to, err := SquareFromString(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	pi := pos.Get(from)
	if pi == NoPiece {
		return Move{}, fmt.Errorf("%w: no piece on %v", ErrInvalidMove, from)
	}

	moveType := Normal
	capture := pos.Get(to)
	target := pi

	if pi.Figure() == Pawn && to == pos.EnpassantSquare() && pos.EnpassantSquare() != SquareNone {
		moveType = Enpassant
		capture = ColorFigure(pos.SideToMove.Opposite(), Pawn)
	}
	if pi == WhiteKing && from == SquareE1 && (to == SquareC1 || to == SquareG1) {
		moveType = Castling
	}
	if pi == BlackKing && from == SquareE8 && (to == SquareC8 || to == SquareG8) {
		moveType = Castling
	}
	if pi.Figure() == Pawn && len(s) == 5 && (to.Rank() == 0 || to.Rank() == 7) {
		fig, ok := symbolToFigure[rune(s[4])]
		if !ok {
			return Move{}, fmt.Errorf("%w: unknown promotion figure %q", ErrInvalidMove, s[4:5])
		}
		moveType = Promotion
		target = ColorFigure(pos.SideToMove, fig)
	}

	return Move{From: from, To: to, Capture: capture, Target: target, MoveType: moveType}, nil
}
