package engine

// movegen.go generates legal moves directly: checkers and pins are
// computed once per call and used to restrict candidate destinations, so
// a move that reaches GenerateMoves' caller never needs a later
// make/IsChecked/unmake pass to be thrown away (spec.md §4.3). The two
// exceptions that still get a dedicated safety check are king moves
// (walking into an attacked square) and en-passant captures (the
// horizontal discovered-check case, where two pawns leave the same rank
// at once).

// Move-generation buckets (spec.md §4.3): callers of GenerateMoves select
// which buckets they want by OR-ing these together. Quiet and Tactical
// partition the legal move list in two; Violent is the narrower subset
// quiescence search wants (captures and queen promotions only, not every
// promotion and not castling).
const (
	Quiet int = 1 << iota
	Tactical
	Violent
	All = Quiet | Tactical | Violent
)

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func signInt(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// between returns the squares strictly between a and b if they share a
// rank, file or diagonal; otherwise BbEmpty.
func between(a, b Square) Bitboard {
	ar, af := a.Rank(), a.File()
	br, bf := b.Rank(), b.File()
	dr, df := signInt(br-ar), signInt(bf-af)
	if dr == 0 && df == 0 {
		return BbEmpty
	}
	if dr != 0 && df != 0 && absInt(br-ar) != absInt(bf-af) {
		return BbEmpty
	}
	var bb Bitboard
	for r, f := ar+dr, af+df; r != br || f != bf; r, f = r+dr, f+df {
		bb |= RankFile(r, f).Bitboard()
	}
	return bb
}

// pinnedInfo returns us's pinned pieces and, for each pinned square, the
// ray (through the king and the pinning slider, pinner square included)
// it is still allowed to move along.
func (pos *Position) pinnedInfo(us Color) (Bitboard, [SquareArraySize]Bitboard) {
	them := us.Opposite()
	king := pos.ByPiece(us, King).AsSquare()
	occ := pos.occupied()
	rookLike := pos.ByColor[them] & (pos.ByFigure[Rook] | pos.ByFigure[Queen])
	bishopLike := pos.ByColor[them] & (pos.ByFigure[Bishop] | pos.ByFigure[Queen])

	dirs := [8]struct {
		dr, df int
		sliders Bitboard
	}{
		{1, 0, rookLike}, {-1, 0, rookLike}, {0, 1, rookLike}, {0, -1, rookLike},
		{1, 1, bishopLike}, {1, -1, bishopLike}, {-1, 1, bishopLike}, {-1, -1, bishopLike},
	}

	var pinned Bitboard
	var pinRay [SquareArraySize]Bitboard
	kr, kf := king.Rank(), king.File()
	for _, d := range dirs {
		var ray Bitboard
		blocker := SquareNone
		for r, f := kr+d.dr, kf+d.df; r >= 0 && r <= 7 && f >= 0 && f <= 7; r, f = r+d.dr, f+d.df {
			sq := RankFile(r, f)
			ray |= sq.Bitboard()
			if occ.Has(sq) {
				if blocker == SquareNone {
					if !pos.ByColor[us].Has(sq) {
						break // first blocker is enemy: not a pin on us along this ray
					}
					blocker = sq
					continue
				}
				if d.sliders.Has(sq) {
					pinned |= blocker.Bitboard()
					pinRay[blocker] = ray
				}
				break
			}
		}
	}
	return pinned, pinRay
}

// moveKind classifies m into the buckets GenerateMoves filters by.
func moveKind(m Move) (quiet, tactical, violent bool) {
	quiet = m.Capture == NoPiece && m.MoveType != Promotion
	tactical = !quiet
	violent = m.Capture != NoPiece || (m.MoveType == Promotion && m.Target.Figure() == Queen)
	return
}

func wantsMove(kind int, m Move) bool {
	quiet, tactical, violent := moveKind(m)
	if quiet && kind&Quiet != 0 {
		return true
	}
	if tactical && kind&Tactical != 0 {
		return true
	}
	if violent && kind&Violent != 0 {
		return true
	}
	return false
}

var promotionFigures = [4]Figure{Queen, Rook, Bishop, Knight}

// GenerateMoves appends every legal move of the requested kind to *out.
func (pos *Position) GenerateMoves(kind int, out *[]Move) {
	us := pos.SideToMove
	them := us.Opposite()
	occ := pos.occupied()
	ownBB := pos.ByColor[us]
	kingSq := pos.ByPiece(us, King).AsSquare()
	checkers := pos.Checkers()
	numCheckers := checkers.Popcnt()

	add := func(from, to Square, capture, target Piece, mt MoveType) {
		m := Move{From: from, To: to, Capture: capture, Target: target, MoveType: mt}
		if wantsMove(kind, m) {
			*out = append(*out, m)
		}
	}

	// King moves: always considered, the only legal moves during double
	// check, and the only ones that need an explicit post-move safety
	// check instead of a pin/evasion mask.
	occWithoutKing := occ &^ kingSq.Bitboard()
	for bb := KingMobility(kingSq) &^ ownBB; bb != 0; {
		to := bb.Pop()
		capture := pos.Get(to)
		occAfter := occWithoutKing | to.Bitboard()
		if pos.attackersTo(to, occAfter)&pos.ByColor[them] != 0 {
			continue
		}
		add(kingSq, to, capture, ColorFigure(us, King), Normal)
	}

	if numCheckers >= 2 {
		return // double check: only king moves are legal
	}

	evasion := BbFull
	if numCheckers == 1 {
		checkerSq := checkers.AsSquare()
		evasion = checkers | between(kingSq, checkerSq)
	}

	if numCheckers == 0 {
		pos.generateCastling(kind, add)
	}

	pinned, pinRay := pos.pinnedInfo(us)

	for _, fig := range [...]Figure{Knight, Bishop, Rook, Queen} {
		for bb := pos.ByPiece(us, fig); bb != 0; {
			from := bb.Pop()
			var dests Bitboard
			switch fig {
			case Knight:
				dests = KnightMobility(from)
			case Bishop:
				dests = BishopMobility(from, occ)
			case Rook:
				dests = RookMobility(from, occ)
			case Queen:
				dests = QueenMobility(from, occ)
			}
			dests &^= ownBB
			dests &= evasion
			if pinned.Has(from) {
				dests &= pinRay[from]
			}
			for d := dests; d != 0; {
				to := d.Pop()
				add(from, to, pos.Get(to), ColorFigure(us, fig), Normal)
			}
		}
	}

	pos.generatePawnMoves(us, them, kind, evasion, pinned, pinRay, kingSq, add)
}

func (pos *Position) generateCastling(kind int, add func(Square, Square, Piece, Piece, MoveType)) {
	if kind&Quiet == 0 {
		return
	}
	us := pos.SideToMove
	var candidates [2]Move
	if us == White {
		candidates = [2]Move{
			{From: SquareE1, To: SquareG1, Target: WhiteKing, MoveType: Castling},
			{From: SquareE1, To: SquareC1, Target: WhiteKing, MoveType: Castling},
		}
	} else {
		candidates = [2]Move{
			{From: SquareE8, To: SquareG8, Target: BlackKing, MoveType: Castling},
			{From: SquareE8, To: SquareC8, Target: BlackKing, MoveType: Castling},
		}
	}
	for _, m := range candidates {
		if pos.isCastlingPseudoLegal(m) {
			add(m.From, m.To, NoPiece, m.Target, Castling)
		}
	}
}

func (pos *Position) isCastlingPseudoLegal(m Move) bool {
	us := pos.SideToMove
	them := us.Opposite()
	occ := pos.occupied()
	switch {
	case us == White && m.To == SquareG1:
		return pos.curr.castlingAbility&WhiteOO != 0 &&
			occ&(SquareF1.Bitboard()|SquareG1.Bitboard()) == 0 &&
			!pos.IsAttacked(SquareE1, them) && !pos.IsAttacked(SquareF1, them) && !pos.IsAttacked(SquareG1, them)
	case us == White && m.To == SquareC1:
		return pos.curr.castlingAbility&WhiteOOO != 0 &&
			occ&(SquareB1.Bitboard()|SquareC1.Bitboard()|SquareD1.Bitboard()) == 0 &&
			!pos.IsAttacked(SquareE1, them) && !pos.IsAttacked(SquareD1, them) && !pos.IsAttacked(SquareC1, them)
	case us == Black && m.To == SquareG8:
		return pos.curr.castlingAbility&BlackOO != 0 &&
			occ&(SquareF8.Bitboard()|SquareG8.Bitboard()) == 0 &&
			!pos.IsAttacked(SquareE8, them) && !pos.IsAttacked(SquareF8, them) && !pos.IsAttacked(SquareG8, them)
	case us == Black && m.To == SquareC8:
		return pos.curr.castlingAbility&BlackOOO != 0 &&
			occ&(SquareB8.Bitboard()|SquareC8.Bitboard()|SquareD8.Bitboard()) == 0 &&
			!pos.IsAttacked(SquareE8, them) && !pos.IsAttacked(SquareD8, them) && !pos.IsAttacked(SquareC8, them)
	}
	return false
}

func (pos *Position) generatePawnMoves(us, them Color, kind int, evasion, pinned Bitboard, pinRay [SquareArraySize]Bitboard, kingSq Square, add func(Square, Square, Piece, Piece, MoveType)) {
	occ := pos.occupied()
	pawns := pos.ByPiece(us, Pawn)
	step := 8
	startRank, promoRank := BbRank2, BbRank8
	if us == Black {
		step, startRank, promoRank = -8, BbRank7, BbRank1
	}

	legalDest := func(from, to Square) bool {
		if pinned.Has(from) && pinRay[from]&to.Bitboard() == 0 {
			return false
		}
		return evasion&to.Bitboard() != 0
	}

	// Single pushes (and push-promotions).
	for bb := Forward(us, pawns) &^ occ; bb != 0; {
		to := bb.Pop()
		from := Square(int(to) - step)
		if !legalDest(from, to) {
			continue
		}
		if to.Bitboard()&promoRank != 0 {
			for _, fig := range promotionFigures {
				add(from, to, NoPiece, ColorFigure(us, fig), Promotion)
			}
		} else {
			add(from, to, NoPiece, ColorFigure(us, Pawn), Normal)
		}
	}

	// Double pushes.
	for bb := Forward(us, Forward(us, pawns&startRank)&^occ) &^ occ; bb != 0; {
		to := bb.Pop()
		from := Square(int(to) - 2*step)
		if legalDest(from, to) {
			add(from, to, NoPiece, ColorFigure(us, Pawn), Normal)
		}
	}

	// Captures, including capture-promotions.
	for _, shift := range [2]struct {
		bb   Bitboard
		dFrom int
	}{
		{East(Forward(us, pawns)) & pos.ByColor[them], -step - 1},
		{West(Forward(us, pawns)) & pos.ByColor[them], -step + 1},
	} {
		for bb := shift.bb; bb != 0; {
			to := bb.Pop()
			from := Square(int(to) + shift.dFrom)
			if !legalDest(from, to) {
				continue
			}
			capture := pos.Get(to)
			if to.Bitboard()&promoRank != 0 {
				for _, fig := range promotionFigures {
					add(from, to, capture, ColorFigure(us, fig), Promotion)
				}
			} else {
				add(from, to, capture, ColorFigure(us, Pawn), Normal)
			}
		}
	}

	// En passant: the capturing pawn's own pin is covered by legalDest;
	// the rank-clearing discovered check (two pawns leaving the same
	// rank at once) needs its own occupancy probe.
	if epSq := pos.curr.enpassant; epSq != SquareNone {
		for _, dFrom := range [2]int{-step - 1, -step + 1} {
			raw := int(epSq) + dFrom
			if raw < 0 || raw >= SquareArraySize {
				continue
			}
			from := Square(raw)
			if absInt(from.File()-epSq.File()) != 1 {
				continue
			}
			if !pos.ByPiece(us, Pawn).Has(from) {
				continue
			}
			capSq := RankFile(from.Rank(), epSq.File())
			if pinned.Has(from) && pinRay[from]&epSq.Bitboard() == 0 {
				continue
			}
			if checkers := pos.Checkers(); checkers != 0 {
				checkerSq := checkers.AsSquare()
				if capSq != checkerSq && between(kingSq, checkerSq)&epSq.Bitboard() == 0 {
					continue
				}
			}
			occAfter := occ&^from.Bitboard()&^capSq.Bitboard() | epSq.Bitboard()
			if pos.attackersTo(kingSq, occAfter)&pos.ByColor[them]&(pos.ByFigure[Rook]|pos.ByFigure[Queen]) != 0 {
				continue
			}
			add(from, epSq, pos.Get(capSq), ColorFigure(us, Pawn), Enpassant)
		}
	}
}

// isPseudoLegal does a cheap structural check that m could be played in
// the current position: the named piece is where m says, the capture
// field matches the board, and the destination is reachable by that
// figure. It does not check whether playing m leaves the mover's own
// king in check.
func (pos *Position) isPseudoLegal(m Move) bool {
	if m == NullMove {
		return false
	}
	us := pos.SideToMove
	pi := pos.Get(m.From)
	if pi == NoPiece || pi.Color() != us {
		return false
	}
	if m.Piece() != pi {
		return false
	}
	if m.Capture != NoPiece && m.Capture.Color() == us {
		return false
	}
	if m.MoveType != Enpassant && pos.Get(m.To) != m.Capture {
		return false
	}

	occ := pos.occupied()
	switch pi.Figure() {
	case Pawn:
		return pos.pawnReachable(m, us)
	case Knight:
		return KnightMobility(m.From).Has(m.To)
	case Bishop:
		return m.MoveType == Normal && BishopMobility(m.From, occ).Has(m.To)
	case Rook:
		return m.MoveType == Normal && RookMobility(m.From, occ).Has(m.To)
	case Queen:
		return m.MoveType == Normal && QueenMobility(m.From, occ).Has(m.To)
	case King:
		if m.MoveType == Castling {
			return pos.isCastlingPseudoLegal(m)
		}
		return m.MoveType == Normal && KingMobility(m.From).Has(m.To)
	}
	return false
}

func (pos *Position) pawnReachable(m Move, us Color) bool {
	step := 8
	if us == Black {
		step = -8
	}
	diff := int(m.To) - int(m.From)
	fileDiff := m.To.File() - m.From.File()

	switch {
	case diff == step && fileDiff == 0:
		return m.MoveType != Enpassant && pos.Get(m.To) == NoPiece
	case diff == 2*step && fileDiff == 0:
		mid := Square(int(m.From) + step)
		return pos.Get(mid) == NoPiece && pos.Get(m.To) == NoPiece
	case (fileDiff == 1 || fileDiff == -1) && (diff == step-1 || diff == step+1):
		if m.MoveType == Enpassant {
			return pos.EnpassantSquare() == m.To
		}
		return pos.Get(m.To) != NoPiece
	default:
		return false
	}
}

// IsLegalSoft returns true iff m is legal, assuming it is pseudo-legal in
// some position (spec.md §4.3): used to validate a cached move (from the
// transposition table or the killer/counter tables) cheaply, by replaying
// make/unmake rather than regenerating the full move list.
func (pos *Position) IsLegalSoft(m Move) bool {
	if !pos.isPseudoLegal(m) {
		return false
	}
	us := pos.SideToMove
	pos.DoMove(m)
	ok := !pos.IsChecked(us)
	pos.UndoMove()
	return ok
}

// IsLegal returns true iff m appears in the fully generated legal move
// list; used to validate externally supplied moves such as a UCI
// "position ... moves ..." command.
func (pos *Position) IsLegal(m Move) bool {
	var moves []Move
	pos.GenerateMoves(All, &moves)
	for _, cand := range moves {
		if cand == m {
			return true
		}
	}
	return false
}
