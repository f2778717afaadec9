package engine

// see.go implements static exchange evaluation: given a capture on a
// square, replay the cheapest-attacker-first swap sequence and return the
// net material gain, without having to search the resulting positions.

// seeBonus gives each figure a fixed value for SEE purposes, distinct
// from material.go's tapered mid/end-game scores - SEE only ever needs a
// crude ordering, not a precise evaluation.
var seeBonus = [FigureArraySize]int32{
	NoFigure: 0, Pawn: 100, Knight: 357, Bishop: 377, Rook: 712, Queen: 1250, King: 20000,
}

func seeScore(m Move) int32 {
	score := seeBonus[m.Capture.Figure()]
	if m.MoveType == Promotion {
		score -= seeBonus[Pawn]
		score += seeBonus[m.Target.Figure()]
	}
	return score
}

// seeSign returns true if see(pos, m) < 0 -- the move loses material.
func seeSign(pos *Position, m Move) bool {
	if m.Piece().Figure() <= m.Capture.Figure() {
		// Even if the moving piece is recaptured, the exchange is even
		// or winning: no need to run the full swap algorithm.
		return false
	}
	return see(pos, m) < 0
}

// see returns the static exchange evaluation of m, a move not yet played
// in pos, from the mover's point of view.
//
// This is the classic swap-list algorithm: replay the sequence of
// captures on m.To(), cheapest attacker first, then minimax over the
// running gain list to find the best side can do by stopping early.
//
// The spec's one relevant open question - pinned pieces are treated as
// available attackers here, same as an unpinned piece, rather than
// excluded from the attacker set. Excluding them correctly would require
// re-deriving the pin rays for every intermediate occupancy in the swap,
// which is significantly more expensive than the inaccuracy is worth for
// a move-ordering heuristic.
func see(pos *Position, m Move) int32 {
	us := pos.SideToMove
	sq := m.To
	bb := sq.Bitboard()
	target := m.Target
	bb27 := bb &^ (BbRank1 | BbRank8)
	bb18 := bb & (BbRank1 | BbRank8)

	var occ [ColorArraySize]Bitboard
	occ[White] = pos.ByColor[White]
	occ[Black] = pos.ByColor[Black]

	occ[us] &^= m.From.Bitboard()
	occ[us] |= m.To.Bitboard()
	occ[us.Opposite()] &^= m.CaptureSquare().Bitboard()
	us = us.Opposite()

	all := occ[White] | occ[Black]

	score := seeScore(m)
	gain := make([]int32, 1, 16)
	gain[0] = score

	for score >= 0 {
		var fig Figure
		var att Bitboard
		var pawn, bishop, rook Bitboard

		ours := occ[us]
		mt := Normal

		pawn = Backward(us, West(bb27)|East(bb27))
		if att = pawn & ours & pos.ByFigure[Pawn]; att != 0 {
			fig = Pawn
			goto makeMove
		}

		if att = KnightMobility(sq) & ours & pos.ByFigure[Knight]; att != 0 {
			fig = Knight
			goto makeMove
		}

		if SuperQueenMobility(sq)&ours == 0 {
			break
		}

		bishop = BishopMobility(sq, all)
		if att = bishop & ours & pos.ByFigure[Bishop]; att != 0 {
			fig = Bishop
			goto makeMove
		}

		rook = RookMobility(sq, all)
		if att = rook & ours & pos.ByFigure[Rook]; att != 0 {
			fig = Rook
			goto makeMove
		}

		pawn = Backward(us, West(bb18)|East(bb18))
		if att = pawn & ours & pos.ByFigure[Pawn]; att != 0 {
			fig, mt = Queen, Promotion
			goto makeMove
		}

		if att = (rook | bishop) & ours & pos.ByFigure[Queen]; att != 0 {
			fig = Queen
			goto makeMove
		}

		if att = KingMobility(sq) & ours & pos.ByFigure[King]; att != 0 {
			fig = King
			goto makeMove
		}

		break

	makeMove:
		from := att.LSB()
		attacker := ColorFigure(us, fig)
		nm := Move{From: from.AsSquare(), To: sq, Capture: target, Target: attacker, MoveType: mt}
		target = attacker

		score = seeScore(nm) - score
		gain = append(gain, score)

		occ[us] = occ[us] &^ from
		all = all &^ from

		us = us.Opposite()
	}

	for i := len(gain) - 2; i >= 0; i-- {
		if -gain[i+1] < gain[i] {
			gain[i] = -gain[i+1]
		}
	}
	return gain[0]
}
