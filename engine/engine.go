// Package engine implements board representation, move generation and
// position searching for a fail-soft alpha-beta chess engine.
//
// Search (engine.go) features implemented are:
//
//   * Aspiration windows
//   * Check extension
//   * Fail soft
//   * Futility pruning
//   * History leaf pruning
//   * Killer move heuristic
//   * Late move reduction (LMR)
//   * Mate distance pruning
//   * Negamax framework
//   * Null move pruning (NMP)
//   * Principal variation search (PVS)
//   * Quiescence search, capped by an explicit ply limit
//   * Static exchange evaluation
//   * Zobrist hashing, via a lock-less, four-way set-associative
//     transposition table (cache.go)
//
// Move ordering (move_ordering.go) consists of:
//
//   * Hash move heuristic
//   * Captures sorted by MVV-LVA
//   * Killer and counter moves
//   * Relative-history ordering for the rest
//
// Evaluation (material.go) is tapered between a mid-game and an end-game
// score and consists of material, piece-square tables, mobility, bishop
// pair, rook file placement, king safety, queen-king tropism and a cached
// pawn-structure term (pawns.go, cache.go).
package engine

const (
	checkDepthExtension int32 = 1 // how much to extend search in case of checks
	nullMoveDepthLimit  int32 = 1 // disable null-move below and including this limit
	lmrDepthLimit       int32 = 3 // do not do LMR below and including this limit
	futilityDepthLimit  int32 = 3 // maximum depth to do futility pruning.
	maxQuiescencePly    int32 = 16 // quiescence never recurses past this many plies

	initialAspirationWindow = 21  // ~a quarter of a pawn
	futilityMargin          = 150 // ~one and a half pawns
	checkpointStep          = 10000
)

// futilityFigureBonus estimates how much a capture of each figure can
// raise the static evaluation by, for futility pruning purposes.
var futilityFigureBonus = [FigureArraySize]int32{
	NoFigure: 0,
	Pawn:     int32(figureValue[Pawn].M),
	Knight:   int32(figureValue[Knight].M),
	Bishop:   int32(figureValue[Bishop].M),
	Rook:     int32(figureValue[Rook].M),
	Queen:    int32(figureValue[Queen].M),
	King:     int32(figureValue[King].M),
}

// Options keeps engine's options.
type Options struct {
	AnalyseMode bool // true to display info strings
}

// Stats stores statistics about the search.
type Stats struct {
	CacheHit  uint64 // number of times the position was found transposition table
	CacheMiss uint64 // number of times the position was not found in the transposition table
	Nodes     uint64 // number of nodes searched
	Depth     int32  // depth search
	SelDepth  int32  // maximum depth reached on PV (doesn't include the hash moves)
}

// CacheHitRatio returns the ratio of transposition table hits over total number of lookups.
func (s *Stats) CacheHitRatio() float32 {
	return float32(s.CacheHit) / float32(s.CacheHit+s.CacheMiss)
}

// Logger logs search progress.
type Logger interface {
	// BeginSearch signals a new search is started.
	BeginSearch()
	// EndSearch signals end of search.
	EndSearch()
	// PrintPV logs the principal variation after
	// iterative deepening completed one depth.
	PrintPV(stats Stats, score int32, pv []Move)
}

// NulLogger is a logger that does nothing.
type NulLogger struct {
}

func (nl *NulLogger) BeginSearch() {
}

func (nl *NulLogger) EndSearch() {
}

func (nl *NulLogger) PrintPV(stats Stats, score int32, pv []Move) {
}

// Engine implements the logic to search for the best move for a position.
type Engine struct {
	Options  Options   // engine options
	Log      Logger    // logger
	Stats    Stats     // search statistics
	Position *Position // current Position

	rootPly   int           // position's ply at the start of the search
	rootMoves []Move        // if non-empty, restricts the root to these moves (UCI searchmoves)
	stack     stack         // stack of moves
	pvTable   pvTable       // principal variation table
	history   *historyTable // keeps history of moves

	timeControl *TimeControl
	stopped     bool
	checkpoint  uint64
}

// NewEngine creates a new engine to search for pos.
// If pos is nil then the start position is used.
func NewEngine(pos *Position, log Logger, options Options) *Engine {
	if log == nil {
		log = &NulLogger{}
	}
	history := new(historyTable)
	eng := &Engine{
		Options: options,
		Log:     log,
		pvTable: newPvTable(),
		history: history,
		stack:   stack{history: history, counter: new([1 << 11]Move)},
	}
	eng.SetPosition(pos)
	return eng
}

// SetPosition sets current position.
// If pos is nil, the starting position is set.
func (eng *Engine) SetPosition(pos *Position) {
	if pos != nil {
		eng.Position = pos
	} else {
		eng.Position, _ = PositionFromFEN(FENStartPos)
	}
}

// DoMove executes a move.
func (eng *Engine) DoMove(move Move) {
	eng.Position.DoMove(move)
}

// UndoMove undoes the last move.
func (eng *Engine) UndoMove() {
	eng.Position.UndoMove()
}

// Score evaluates current position from current player's POV.
func (eng *Engine) Score() int32 {
	return Evaluate(eng.Position)
}

// ScoreLazy evaluates current position from current player's POV, gating
// the evaluation cache by the search's α/β window (spec.md §4.4).
func (eng *Engine) ScoreLazy(alpha, beta int32) int32 {
	return EvaluateLazy(eng.Position, alpha, beta)
}

// endPosition determines whether the current position is an end game.
// Returns score and a bool if the game has ended.
func (eng *Engine) endPosition() (int32, bool) {
	pos := eng.Position // shortcut
	// Trivial cases when kings are missing.
	if pos.ByPiece(White, King) == 0 && pos.ByPiece(Black, King) == 0 {
		return 0, true
	}
	if pos.ByPiece(White, King) == 0 {
		return pos.Us().Multiplier() * (MatedScore + eng.ply()), true
	}
	if pos.ByPiece(Black, King) == 0 {
		return pos.Us().Multiplier() * (MateScore - eng.ply()), true
	}
	// Neither side cannot mate.
	if pos.InsufficientMaterial() {
		return 0, true
	}
	// Fifty full moves without a capture or a pawn move.
	if pos.FiftyMoveRule() {
		return 0, true
	}
	// Repetition is a draw.
	// At root we need to continue searching even if we saw two repetitions already,
	// however we can prune deeper search only at two repetitions.
	if r := pos.ThreeFoldRepetition(); eng.ply() > 0 && r >= 2 || r >= 3 {
		return 0, true
	}
	return 0, false
}

// retrieveHash gets from GlobalHashTable the entry for the current position.
func (eng *Engine) retrieveHash() ttEntry {
	entry, ok := GlobalHashTable.Get(eng.Position.Zobrist())
	if !ok {
		eng.Stats.CacheMiss++
		return ttEntry{}
	}
	move := UnpackMove(entry.move)
	if move != NullMove && !eng.Position.isPseudoLegal(move) {
		eng.Stats.CacheMiss++
		return ttEntry{}
	}

	// Return mate score relative to root.
	// The score was adjusted relative to position before the hash table was updated.
	if entry.score < KnownLossScore {
		if entry.kind == exact {
			entry.score += int16(eng.ply())
		}
	} else if entry.score > KnownWinScore {
		if entry.kind == exact {
			entry.score -= int16(eng.ply())
		}
	}

	eng.Stats.CacheHit++
	return entry
}

// updateHash updates GlobalHashTable with the current position.
func (eng *Engine) updateHash(α, β, depth, score int32, move Move) {
	kind := exact
	if score <= α {
		kind = failedLow
	} else if score >= β {
		kind = failedHigh
	}

	// Save the mate score relative to the current position.
	// When retrieving from hash the score will be adjusted relative to root.
	if score < KnownLossScore {
		if kind == exact {
			score -= eng.ply()
		} else if kind == failedLow {
			score = KnownLossScore
		} else {
			return
		}
	} else if score > KnownWinScore {
		if kind == exact {
			score += eng.ply()
		} else if kind == failedHigh {
			score = KnownWinScore
		} else {
			return
		}
	}

	GlobalHashTable.Put(eng.Position.Zobrist(), ttEntry{
		kind:  kind,
		score: int16(score),
		depth: int8(depth),
		move:  move.PackedMove(),
	})
}

// searchQuiescence evaluates the position after solving all captures.
//
// This is a very limited search which considers only violent moves.
// Checks are not considered. In fact it assumes that the move
// ordering will always put the king capture first. qDepth counts plies
// since quiescence started and caps the recursion at maxQuiescencePly,
// independent of however deep the null-window scouting above it went.
func (eng *Engine) searchQuiescence(α, β, qDepth int32) int32 {
	eng.Stats.Nodes++
	if score, done := eng.endPosition(); done {
		return score
	}

	// Stand pat.
	static := eng.ScoreLazy(α, β)
	if static >= β || qDepth >= maxQuiescencePly {
		return static
	}

	pos := eng.Position
	us := pos.Us()
	inCheck := pos.IsChecked(us)
	localα := max(α, static)

	var bestMove Move
	eng.stack.GenerateMoves(Violent, NullMove)
	for move := eng.stack.PopMove(); move != NullMove; move = eng.stack.PopMove() {
		// Prune futile moves that would anyway result in a stand-pat at that next depth.
		if !inCheck && isFutile(pos, static, localα, futilityMargin, move) {
			continue
		}

		// Discard illegal or losing captures.
		eng.DoMove(move)
		if eng.Position.IsChecked(us) ||
			!inCheck && move.MoveType == Normal && seeSign(pos, move) {
			eng.UndoMove()
			continue
		}
		score := -eng.searchQuiescence(-β, -localα, qDepth+1)
		eng.UndoMove()

		if score >= β {
			return score
		}
		if score > localα {
			localα = score
			bestMove = move
		}
	}

	if α < localα && localα < β {
		eng.pvTable.Put(eng.Position, bestMove)
	}
	return localα
}

// tryMove makes a move and descends on the search tree.
//
// α, β represent lower and upper bounds.
// depth is the remaining depth (decreasing)
// lmr is how much to reduce a late move. Implies non-null move.
// nullWindow indicates whether to scout first. Implies non-null move.
// move is the move to execute. Can be NullMove.
//
// Returns the score from the deeper search.
func (eng *Engine) tryMove(α, β, depth, lmr int32, nullWindow bool, move Move) int32 {
	depth--

	score := α + 1
	if lmr > 0 { // reduce late moves
		score = -eng.searchTree(-α-1, -α, depth-lmr)
	}

	if score > α { // if late move reduction is disabled or has failed
		if nullWindow {
			score = -eng.searchTree(-α-1, -α, depth)
			if α < score && score < β {
				score = -eng.searchTree(-β, -α, depth)
			}
		} else {
			score = -eng.searchTree(-β, -α, depth)
		}
	}

	eng.UndoMove()
	return score
}

// ply returns the ply from the beginning of the search.
func (eng *Engine) ply() int32 {
	return int32(eng.Position.Ply - eng.rootPly)
}

// isRootMoveAllowed returns true if m is in eng.rootMoves.
func (eng *Engine) isRootMoveAllowed(m Move) bool {
	for _, rm := range eng.rootMoves {
		if rm == m {
			return true
		}
	}
	return false
}

// passed returns true if a passed pawn appears or disappears.
func passed(pos *Position, m Move) bool {
	if m.Piece().Figure() == Pawn {
		// Checks no pawns are in front and on its adjacent files.
		bb := m.To.Bitboard()
		bb = West(bb) | bb | East(bb)
		pawns := pos.ByFigure[Pawn] &^ m.To.Bitboard() &^ m.From.Bitboard()
		us := m.Piece().Color()
		if ForwardSpan(us, bb)&pawns == 0 {
			return true
		}
	}
	if m.Capture.Figure() == Pawn {
		// Checks no pawns are in front and on its adjacent files.
		bb := m.To.Bitboard()
		bb = West(bb) | bb | East(bb)
		pawns := pos.ByFigure[Pawn] &^ m.To.Bitboard() &^ m.From.Bitboard()
		them := m.Capture.Color()
		if ForwardSpan(them.Opposite(), bb)&pawns == 0 {
			return true
		}
	}
	return false
}

// attackerFigure returns the smallest figure of color by attacking sq,
// or NoFigure if by has nothing attacking sq.
func attackerFigure(pos *Position, sq Square, by Color) Figure {
	bb := pos.attackersTo(sq, pos.occupied()) & pos.ByColor[by]
	if bb == 0 {
		return NoFigure
	}
	for fig := FigureMinValue; fig <= FigureMaxValue; fig++ {
		if bb&pos.ByFigure[fig] != 0 {
			return fig
		}
	}
	return NoFigure
}

// minorsAndMajors returns us's pieces other than pawns and king.
func minorsAndMajors(pos *Position, us Color) Bitboard {
	return pos.ByColor[us] &^ pos.ByFigure[Pawn] &^ pos.ByFigure[King]
}

// countMax2 returns bb's population count, capped at 2.
func countMax2(bb Bitboard) int32 {
	n := int32(bb.Popcnt())
	if n > 2 {
		n = 2
	}
	return n
}

// searchTree implements the negamax search framework.
//
// searchTree fails soft, i.e. the score returned can be outside the bounds.
//
// α, β represent lower and upper bounds.
// depth is the search depth (decreasing)
//
// Returns the score of the current position up to depth (modulo reductions/extensions).
// The returned score is from current player's POV.
//
// Invariants:
//   If score <= α then the search failed low and the score is an upper bound.
//   else if score >= β then the search failed high and the score is a lower bound.
//   else score is exact.
//
// Assuming this is a maximizing nodes, failing high means that a
// minimizing ancestor node already has a better alternative.
func (eng *Engine) searchTree(α, β, depth int32) int32 {
	ply := eng.ply()
	pvNode := α+1 < β
	pos := eng.Position
	us, them := pos.Us(), pos.Them()

	// Update statistics.
	eng.Stats.Nodes++
	if !eng.stopped && eng.Stats.Nodes >= eng.checkpoint {
		eng.checkpoint = eng.Stats.Nodes + checkpointStep
		if eng.timeControl.Stopped() {
			eng.stopped = true
		}
	}
	if eng.stopped {
		return α
	}
	if pvNode && ply > eng.Stats.SelDepth {
		eng.Stats.SelDepth = eng.ply()
	}

	// Verify that this is not already an endgame.
	if score, done := eng.endPosition(); done {
		if ply != 0 || score != 0 {
			// At root we ignore draws because some GUIs don't properly detect
			// theoretical draws. E.g. cutechess doesn't detect that kings and
			// bishops when all bishops are on the same color. If the position
			// is a theoretical draw, keep searching for a move.
			return score
		}
	}

	// Mate distance pruning: a shorter mate is always preferable to a
	// longer one, so scores more extreme than a mate in ply moves can
	// never be reached; collapse the window as soon as it proves so and
	// return the mate score itself, not a generic bound.
	if matingValue := MateScore - ply; matingValue < β {
		β = matingValue
		if α >= matingValue {
			return matingValue
		}
	}
	if matedValue := MatedScore + ply; matedValue > α {
		α = matedValue
		if β <= matedValue {
			return matedValue
		}
	}

	// Check the transposition table.
	entry := eng.retrieveHash()
	hash := UnpackMove(entry.move)
	if entry.kind != noEntry && depth <= int32(entry.depth) {
		score := int32(entry.score)
		if entry.kind == exact {
			// Simply return if the score is exact.
			// Update principal variation table if possible.
			if α < score && score < β {
				eng.pvTable.Put(pos, hash)
			}
			return score
		}
		if entry.kind == failedLow && score <= α {
			// Previously the move failed low so the actual score is at most
			// entry.score. If that's lower than α this will also fail low.
			return score
		}
		if entry.kind == failedHigh && score >= β {
			// Previously the move failed high so the actual score is at least
			// entry.score. If that's higher than β this will also fail high.
			return score
		}
	}

	// Stop searching when the maximum search depth is reached.
	if depth <= 0 {
		// This is already won / lost and quiescence cannot change
		// that because it only looks at violent moves.
		if α >= KnownWinScore || β <= KnownLossScore {
			return eng.ScoreLazy(α, β)
		}

		// Depth can be < 0 due to aggressive LMR.
		score := eng.searchQuiescence(α, β, 0)
		eng.updateHash(α, β, depth, score, NullMove)
		return score
	}

	sideIsChecked := pos.IsChecked(us)

	// Do a null move. If the null move fails high then the current
	// position is too good, so opponent will not play it.
	// The null move is skipped when the side to move is in check.
	if depth > nullMoveDepthLimit && // not very close to leafs
		!sideIsChecked && // nullmove is illegal when in check
		minorsAndMajors(pos, us) != 0 && // at least one minor/major piece.
		KnownLossScore < α && β < KnownWinScore { // disable in lost or won positions
		eng.DoMove(NullMove)
		reduction := countMax2(minorsAndMajors(pos, us))
		score := eng.tryMove(β-1, β, depth-reduction, 0, false, NullMove)
		if score >= β {
			return score
		}
	}

	bestMove, bestScore := NullMove, int32(-InfinityScore)

	// Futility and history pruning at frontier nodes.
	// Statically evaluates the position. Use static evaluation from hash if available.
	static := int32(0)
	allowLeafsPruning := false
	if depth <= futilityDepthLimit && // enable when close to the frontier
		!sideIsChecked && // disable in check
		!pvNode && // disable in pv nodes
		KnownLossScore < α && β < KnownWinScore { // disable when searching for a mate
		allowLeafsPruning = true
		static = eng.ScoreLazy(α, β)
	}

	// Principal variation search: search with a null window if there is already a good move.
	nullWindow := false // updated once alpha is improved
	// Late move reduction: search best moves with full depth, reduce remaining moves.
	allowLateMove := !sideIsChecked && depth > lmrDepthLimit

	// dropped true if not all moves were searched.
	// Mate cannot be declared unless all moves were tested.
	dropped := false
	numMoves := int32(0)
	localα := α

	eng.stack.GenerateMoves(All, hash)
	for move := eng.stack.PopMove(); move != NullMove; move = eng.stack.PopMove() {
		if ply == 0 && len(eng.rootMoves) != 0 && !eng.isRootMoveAllowed(move) {
			dropped = true
			continue
		}

		critical := move == hash || eng.stack.IsKiller(move)
		numMoves++

		newDepth := depth
		eng.DoMove(move)

		// Skip illegal moves that leave the king in check.
		if pos.IsChecked(us) {
			eng.UndoMove()
			continue
		}

		// Extend the search when our move gives check.
		// However do not extend if we can just take the undefended piece.
		// When the move gives check, history pruning and futility pruning are also disabled.
		givesCheck := pos.IsChecked(them)
		if givesCheck {
			if attackerFigure(pos, move.To, them) == NoFigure ||
				attackerFigure(pos, move.To, us) != NoFigure {
				newDepth += checkDepthExtension
			}
		}

		// Reduce late quiet moves and bad captures.
		lmr := int32(0)
		if allowLateMove && !givesCheck && !critical {
			if move.IsQuiet() || seeSign(pos, move) {
				// Reduce quiet and bad capture moves more at high depths and after many quiet moves.
				// Large numMoves means it's likely not a CUT node. Large depth means reductions are less risky.
				lmr = 1 + min(depth, numMoves)/5
			}
		}

		// Prune moves close to frontier.
		if allowLeafsPruning && !givesCheck && !critical {
			// Prune quiet moves that performed badly historically.
			if stat := eng.history.get(move); stat < -15 && (move.IsQuiet() || seeSign(pos, move)) {
				dropped = true
				eng.UndoMove()
				continue
			}
			// Prune moves that do not raise alpha.
			if isFutile(pos, static, localα, depth*futilityMargin, move) {
				bestScore = max(bestScore, static)
				dropped = true
				eng.UndoMove()
				continue
			}
		}

		score := eng.tryMove(localα, β, newDepth, lmr, nullWindow, move)
		if allowLeafsPruning && !givesCheck && move.IsQuiet() { // Update relative-history scores.
			if score > α {
				eng.history.recordCutoff(move, depth)
			} else {
				eng.history.recordAttempt(move, depth)
			}
		}

		if score >= β {
			// Fail high, cut node.
			eng.stack.SaveKiller(move)
			eng.updateHash(α, β, depth, score, move)
			return score
		}
		if score > bestScore {
			nullWindow = true
			bestMove, bestScore = move, score
			localα = max(localα, score)
		}
	}

	if !dropped {
		// If no move was found then the game is over.
		if bestMove == NullMove {
			if sideIsChecked {
				bestScore = MatedScore + ply
			} else {
				bestScore = 0
			}
		}
		// Update hash and principal variation tables.
		eng.updateHash(α, β, depth, bestScore, bestMove)
		if α < bestScore && bestScore < β {
			eng.pvTable.Put(pos, bestMove)
		}
	}

	return bestScore
}

// search starts the search up to depth depth.
// The returned score is from current side to move POV.
// estimated is the score from previous depths.
func (eng *Engine) search(depth, estimated int32) int32 {
	// This method only implements aspiration windows.
	//
	// The gradual widening algorithm is the one used by RobboLito
	// and Stockfish.
	γ, δ := estimated, int32(initialAspirationWindow)
	α, β := max(γ-δ, -InfinityScore), min(γ+δ, InfinityScore)
	score := estimated

	if depth < 4 {
		// Disable aspiration window for very low search depths.
		α = -InfinityScore
		β = +InfinityScore
	}

	for !eng.stopped {
		// At root a non-null move is required, cannot prune based on null-move.
		score = eng.searchTree(α, β, depth)
		if score <= α {
			α = max(α-δ, -InfinityScore)
			δ += δ / 2
		} else if score >= β {
			β = min(β+δ, InfinityScore)
			δ += δ / 2
		} else {
			return score
		}
	}

	return score
}

// Play evaluates current position.
//
// Returns the principal variation, that is
//	moves[0] is the best move found and
//	moves[1] is the pondering move.
//
// If no move was found because the game has finished
// then an empty pv is returned.
//
// Time control, tc, should already be started.
func (eng *Engine) Play(tc *TimeControl) (moves []Move) {
	return eng.PlayMoves(tc, nil)
}

// PlayMoves is Play restricted to searchMoves: if searchMoves is non-empty,
// only those root moves are considered (the "searchmoves" UCI parameter).
// A move not legal in the current position is silently ignored.
func (eng *Engine) PlayMoves(tc *TimeControl, searchMoves []Move) (moves []Move) {
	eng.Log.BeginSearch()
	eng.Stats = Stats{Depth: -1}

	eng.rootPly = eng.Position.Ply
	eng.rootMoves = searchMoves
	eng.timeControl = tc
	eng.stopped = false
	eng.checkpoint = checkpointStep
	eng.stack.Reset(eng.Position)
	eng.history.decay()
	GlobalHashTable.NewSearch()

	score := int32(0)
	for depth := int32(0); depth < 64; depth++ {
		if !tc.NextDepth(depth) {
			// Stop if tc control says we are done.
			// Search at least one depth, otherwise a move cannot be returned.
			break
		}

		eng.Stats.Depth = depth
		score = eng.search(depth, score)

		if !eng.stopped {
			// if eng has not been stopped then this is a legit pv.
			moves = eng.pvTable.Get(eng.Position)
			eng.Log.PrintPV(eng.Stats, score, moves)
		}
	}

	eng.Log.EndSearch()
	return moves
}

// isFutile return true if m cannot raise current static
// evaluation above α. This is just an heuristic and mistakes
// can happen.
func isFutile(pos *Position, static, α, margin int32, m Move) bool {
	if m.MoveType == Promotion {
		// Promotion and passed pawns can increase the static evaluation
		// by more than futilityMargin.
		return false
	}
	δ := futilityFigureBonus[m.Capture.Figure()]
	return static+δ+margin < α && !passed(pos, m)
}
