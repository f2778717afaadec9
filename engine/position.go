package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// SquareNone marks "no square": no en-passant target, no pinner, etc.
const SquareNone Square = 64

// lostCastleRights[sq] is the set of castling rights revoked when a piece
// leaves sq (king or rook moving) or is captured on sq (rook captured on
// its home square), keyed by the king/rook's home squares.
var lostCastleRights [SquareArraySize]Castle

func init() {
	lostCastleRights[SquareA1] = WhiteOOO
	lostCastleRights[SquareE1] = WhiteOOO | WhiteOO
	lostCastleRights[SquareH1] = WhiteOO
	lostCastleRights[SquareA8] = BlackOOO
	lostCastleRights[SquareE8] = BlackOOO | BlackOO
	lostCastleRights[SquareH8] = BlackOO
}

// state is the part of a Position that make/unmake restores by pushing
// and popping, rather than by recomputing (spec.md §3: "a stack of
// unmake records" alongside every move).
type state struct {
	move            Move
	castlingAbility Castle
	enpassant       Square
	halfMoveClock   int
	checkers        Bitboard
	inCheck         bool
	zobrist         uint64
}

// Position is the mutable board: per-figure and per-color bitboards, a
// mailbox board kept coherent with them, side to move, and a stack of
// state snapshots that make DoMove/UndoMove exact inverses (spec.md §3,
// §8 round-trip law).
type Position struct {
	ByFigure [FigureArraySize]Bitboard
	ByColor  [ColorArraySize]Bitboard
	board    [SquareArraySize]Piece

	SideToMove     Color
	HalfMoveClock  int
	FullMoveNumber int
	Ply            int

	states     []state
	curr       *state
	keyHistory []uint64 // keyHistory[i] is the Zobrist key after half-move i, for repetition detection
}

// FENStartPos is the standard chess starting position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewPosition returns an empty position, White to move, no castling
// rights, no en-passant target. Exported mainly for the FEN parser;
// most callers want PositionFromFEN.
func NewPosition() *Position {
	pos := &Position{
		FullMoveNumber: 1,
		states:         make([]state, 1, 64),
	}
	pos.curr = &pos.states[0]
	pos.curr.enpassant = SquareNone
	pos.keyHistory = append(pos.keyHistory[:0], pos.curr.zobrist)
	return pos
}

// PositionFromFEN parses fen (6-field or 4-field Forsyth-Edwards
// Notation, or the literal string "startpos") into a new Position.
func PositionFromFEN(fen string) (*Position, error) {
	if fen == "startpos" || fen == "" {
		fen = FENStartPos
	}
	fields := strings.Fields(fen)
	if len(fields) != 6 && len(fields) != 4 {
		return nil, fmt.Errorf("%w: expected 4 or 6 fields, got %d", ErrInvalidFen, len(fields))
	}

	pos := NewPosition()
	if err := ParsePiecePlacement(fields[0], pos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFen, err)
	}
	if err := ParseSideToMove(fields[1], pos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFen, err)
	}
	if err := ParseCastlingAbility(fields[2], pos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFen, err)
	}
	if err := ParseEnpassantSquare(fields[3], pos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFen, err)
	}
	if len(fields) == 6 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("%w: half-move clock: %v", ErrInvalidFen, err)
		}
		fm, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("%w: full-move number: %v", ErrInvalidFen, err)
		}
		pos.HalfMoveClock = hm
		pos.FullMoveNumber = fm
	}

	pos.updateCheckers()
	pos.keyHistory = append(pos.keyHistory[:0], pos.curr.zobrist)
	return pos, nil
}

// FEN renders pos back to Forsyth-Edwards Notation.
func (pos *Position) FEN() string {
	return fmt.Sprintf("%s %s %s %s %d %d",
		FormatPiecePlacement(pos), FormatSideToMove(pos), FormatCastlingAbility(pos),
		FormatEnpassantSquare(pos), pos.HalfMoveClock, pos.FullMoveNumber)
}

// Us returns the side to move.
func (pos *Position) Us() Color { return pos.SideToMove }

// Them returns the side not to move.
func (pos *Position) Them() Color { return pos.SideToMove.Opposite() }

// Get returns the piece occupying sq, or NoPiece.
func (pos *Position) Get(sq Square) Piece { return pos.board[sq] }

// Put places pi on sq (or clears it, if pi is NoPiece), updating the
// bitboards, mailbox board and Zobrist key. Used by FEN parsing; make and
// unmake use the lower-level xorPiece/unxorPiece directly.
func (pos *Position) Put(sq Square, pi Piece) {
	if old := pos.board[sq]; old != NoPiece {
		pos.xorPiece(sq, old)
	}
	if pi != NoPiece {
		pos.xorPiece(sq, pi)
	}
}

// xorPiece toggles pi on sq: present becomes absent, absent becomes
// present. Also folds the change into the Zobrist key.
func (pos *Position) xorPiece(sq Square, pi Piece) {
	bb := sq.Bitboard()
	if pos.board[sq] == pi {
		pos.board[sq] = NoPiece
	} else {
		pos.board[sq] = pi
	}
	pos.ByFigure[pi.Figure()] ^= bb
	pos.ByColor[pi.Color()] ^= bb
	pos.curr.zobrist ^= ZobristPiece[pi][sq]
}

// unxorPiece is xorPiece without the Zobrist update, for UndoMove, which
// discards the popped state's key wholesale rather than reversing it term
// by term.
func (pos *Position) unxorPiece(sq Square, pi Piece) {
	bb := sq.Bitboard()
	if pos.board[sq] == pi {
		pos.board[sq] = NoPiece
	} else {
		pos.board[sq] = pi
	}
	pos.ByFigure[pi.Figure()] ^= bb
	pos.ByColor[pi.Color()] ^= bb
}

// ByPiece returns the bitboard of figures of fig and color col.
func (pos *Position) ByPiece(col Color, fig Figure) Bitboard {
	return pos.ByFigure[fig] & pos.ByColor[col]
}

func (pos *Position) occupied() Bitboard { return pos.ByColor[White] | pos.ByColor[Black] }
func (pos *Position) empty() Bitboard    { return ^pos.occupied() }

// Zobrist returns the incrementally maintained hash of the position.
func (pos *Position) Zobrist() uint64 { return pos.curr.zobrist }

// Checkers returns the enemy pieces currently giving check to the side to
// move (spec.md §3).
func (pos *Position) Checkers() Bitboard { return pos.curr.checkers }

// IsChecked returns true if us's king is attacked. When us is the side to
// move this is a cached lookup; otherwise it is computed fresh, which lets
// callers validate "did the side that just moved leave itself in check"
// right after DoMove.
func (pos *Position) IsChecked(us Color) bool {
	if us == pos.SideToMove {
		return pos.curr.inCheck
	}
	kingSq := pos.ByPiece(us, King).AsSquare()
	return pos.attackersTo(kingSq, pos.occupied())&pos.ByColor[us.Opposite()] != 0
}

func (pos *Position) updateCheckers() {
	us := pos.SideToMove
	kingSq := pos.ByPiece(us, King).AsSquare()
	pos.curr.checkers = pos.attackersTo(kingSq, pos.occupied()) & pos.ByColor[us.Opposite()]
	pos.curr.inCheck = pos.curr.checkers != 0
}

// attackersTo returns every piece, of either color, attacking sq given
// occupancy occ. occ is a parameter rather than always pos.occupied() so
// callers can probe "through" a piece that is about to move (king safety
// while castling, SEE's swap list).
func (pos *Position) attackersTo(sq Square, occ Bitboard) Bitboard {
	att := KnightMobility(sq) & pos.ByFigure[Knight]
	att |= KingMobility(sq) & pos.ByFigure[King]
	att |= BishopMobility(sq, occ) & (pos.ByFigure[Bishop] | pos.ByFigure[Queen])
	att |= RookMobility(sq, occ) & (pos.ByFigure[Rook] | pos.ByFigure[Queen])
	bb := sq.Bitboard()
	att |= Backward(White, West(bb)|East(bb)) & pos.ByPiece(White, Pawn)
	att |= Backward(Black, West(bb)|East(bb)) & pos.ByPiece(Black, Pawn)
	return att
}

// IsAttacked returns true if any piece of color by attacks sq.
func (pos *Position) IsAttacked(sq Square, by Color) bool {
	return pos.attackersTo(sq, pos.occupied())&pos.ByColor[by] != 0
}

// CastlingAbility returns the current castling rights.
func (pos *Position) CastlingAbility() Castle { return pos.curr.castlingAbility }

// SetCastlingAbility overwrites castling rights, maintaining the Zobrist
// key incrementally.
func (pos *Position) SetCastlingAbility(c Castle) {
	pos.curr.zobrist ^= ZobristCastle[pos.curr.castlingAbility]
	pos.curr.castlingAbility = c
	pos.curr.zobrist ^= ZobristCastle[c]
}

// EnpassantSquare returns the current en-passant target square, or
// SquareNone.
func (pos *Position) EnpassantSquare() Square { return pos.curr.enpassant }

// SetEnpassantSquare overwrites the en-passant target square, maintaining
// the Zobrist key incrementally.
func (pos *Position) SetEnpassantSquare(sq Square) {
	if pos.curr.enpassant != SquareNone {
		pos.curr.zobrist ^= ZobristEnpassant[pos.curr.enpassant]
	}
	pos.curr.enpassant = sq
	if sq != SquareNone {
		pos.curr.zobrist ^= ZobristEnpassant[sq]
	}
}

// SetSideToMove overwrites the side to move, maintaining the Zobrist key
// incrementally.
func (pos *Position) SetSideToMove(c Color) {
	pos.curr.zobrist ^= ZobristColor[pos.SideToMove]
	pos.SideToMove = c
	pos.curr.zobrist ^= ZobristColor[c]
}

// InsufficientMaterial reports a draw by insufficient mating material
// (spec.md §4.4): no pawns, rooks or queens left, and either three or
// fewer pieces total, or bishops confined to one square color.
func (pos *Position) InsufficientMaterial() bool {
	if pos.ByFigure[Pawn]|pos.ByFigure[Rook]|pos.ByFigure[Queen] != 0 {
		return false
	}
	if pos.occupied().Popcnt() <= 3 {
		return true
	}
	if pos.ByFigure[Knight] != 0 {
		return false
	}
	bishops := pos.ByFigure[Bishop]
	const darkSquares = Bitboard(0xAA55AA55AA55AA55)
	return bishops&darkSquares == bishops || bishops&^darkSquares == bishops
}

// FiftyMoveRule reports a draw by the fifty-move rule.
func (pos *Position) FiftyMoveRule() bool { return pos.HalfMoveClock >= 100 }

// ThreeFoldRepetition returns how many times, including the current
// position, this exact Zobrist key has occurred since the last
// irreversible move; the half-move clock bounds how far back to look.
func (pos *Position) ThreeFoldRepetition() int {
	count := 0
	key := pos.curr.zobrist
	from := len(pos.keyHistory) - 1 - pos.HalfMoveClock
	if from < 0 {
		from = 0
	}
	for i := len(pos.keyHistory) - 1; i >= from; i -= 2 {
		if pos.keyHistory[i] == key {
			count++
		}
	}
	return count
}

// LastMove returns the move that led to the current position, or
// NullMove at the root or after a null move.
func (pos *Position) LastMove() Move { return pos.curr.move }

// DoMove executes m, which must be legal in the current position; it is
// the caller's responsibility to only play moves produced by
// GenerateMoves or validated with IsLegal (spec.md §4.3).
func (pos *Position) DoMove(m Move) {
	pos.states = append(pos.states, *pos.curr)
	pos.curr = &pos.states[len(pos.states)-1]
	pos.curr.move = m

	us := pos.SideToMove
	them := us.Opposite()

	pos.SetEnpassantSquare(SquareNone)

	switch m.MoveType {
	case Normal:
		if m.Capture != NoPiece {
			pos.xorPiece(m.To, m.Capture)
		}
		pos.xorPiece(m.From, m.Target)
		pos.xorPiece(m.To, m.Target)
		if m.Target.Figure() == Pawn {
			if d := m.To.Rank() - m.From.Rank(); d == 2 || d == -2 {
				// Only record the en-passant target when an enemy pawn could
				// actually capture there (the Polyglot convention), so two
				// positions that differ solely in an uncapturable ep file
				// still hash identically.
				epSq := RankFile((m.From.Rank()+m.To.Rank())/2, m.From.File())
				if (West(m.To.Bitboard())|East(m.To.Bitboard()))&pos.ByPiece(them, Pawn) != 0 {
					pos.SetEnpassantSquare(epSq)
				}
			}
		}
	case Promotion:
		if m.Capture != NoPiece {
			pos.xorPiece(m.To, m.Capture)
		}
		pos.xorPiece(m.From, ColorFigure(us, Pawn))
		pos.xorPiece(m.To, m.Target)
	case Enpassant:
		pos.xorPiece(m.CaptureSquare(), m.Capture)
		pos.xorPiece(m.From, m.Target)
		pos.xorPiece(m.To, m.Target)
	case Castling:
		pos.xorPiece(m.From, m.Target)
		pos.xorPiece(m.To, m.Target)
		rook, rookFrom, rookTo := CastlingRook(m.To)
		pos.xorPiece(rookFrom, rook)
		pos.xorPiece(rookTo, rook)
	}

	if newCastle := pos.curr.castlingAbility &^ (lostCastleRights[m.From] | lostCastleRights[m.To]); m != NullMove && newCastle != pos.curr.castlingAbility {
		pos.SetCastlingAbility(newCastle)
	}

	if m.Capture != NoPiece || m.Piece().Figure() == Pawn {
		pos.curr.halfMoveClock = 0
	} else {
		pos.curr.halfMoveClock++
	}
	if us == Black {
		pos.FullMoveNumber++
	}

	pos.SetSideToMove(them)
	pos.Ply++
	pos.updateCheckers()
	pos.keyHistory = append(pos.keyHistory, pos.curr.zobrist)
}

// UndoMove reverses the last DoMove exactly (spec.md §8 make/unmake
// round-trip law).
func (pos *Position) UndoMove() {
	m := pos.curr.move

	pos.keyHistory = pos.keyHistory[:len(pos.keyHistory)-1]
	pos.Ply--
	pos.SideToMove = pos.SideToMove.Opposite()
	mover := pos.SideToMove
	if mover == Black {
		pos.FullMoveNumber--
	}

	switch m.MoveType {
	case Normal:
		pos.unxorPiece(m.To, m.Target)
		pos.unxorPiece(m.From, m.Target)
		if m.Capture != NoPiece {
			pos.unxorPiece(m.To, m.Capture)
		}
	case Promotion:
		pos.unxorPiece(m.To, m.Target)
		pos.unxorPiece(m.From, ColorFigure(mover, Pawn))
		if m.Capture != NoPiece {
			pos.unxorPiece(m.To, m.Capture)
		}
	case Enpassant:
		pos.unxorPiece(m.To, m.Target)
		pos.unxorPiece(m.From, m.Target)
		pos.unxorPiece(m.CaptureSquare(), m.Capture)
	case Castling:
		rook, rookFrom, rookTo := CastlingRook(m.To)
		pos.unxorPiece(rookTo, rook)
		pos.unxorPiece(rookFrom, rook)
		pos.unxorPiece(m.To, m.Target)
		pos.unxorPiece(m.From, m.Target)
	}

	pos.states = pos.states[:len(pos.states)-1]
	pos.curr = &pos.states[len(pos.states)-1]
}

// DoNullMove flips the side to move without moving a piece, for null-move
// pruning (spec.md §4.7). Calling it while in check, or twice in a row,
// is undefined.
func (pos *Position) DoNullMove() {
	pos.states = append(pos.states, *pos.curr)
	pos.curr = &pos.states[len(pos.states)-1]
	pos.curr.move = NullMove

	pos.SetEnpassantSquare(SquareNone)
	pos.curr.halfMoveClock++
	pos.SetSideToMove(pos.SideToMove.Opposite())
	pos.Ply++
	pos.updateCheckers()
	pos.keyHistory = append(pos.keyHistory, pos.curr.zobrist)
}

// UndoNullMove reverses DoNullMove.
func (pos *Position) UndoNullMove() {
	pos.keyHistory = pos.keyHistory[:len(pos.keyHistory)-1]
	pos.Ply--
	pos.SideToMove = pos.SideToMove.Opposite()
	pos.states = pos.states[:len(pos.states)-1]
	pos.curr = &pos.states[len(pos.states)-1]
}
