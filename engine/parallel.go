package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SearchParallel runs threads independent searches of pos to the same time
// control, each with its own Position, killer table and history table, all
// sharing the package's lock-less GlobalHashTable and GlobalEvalTable. It
// returns the principal variation of whichever worker reached the greatest
// depth.
//
// threads <= 1 degenerates to a single, non-parallel Play call.
func SearchParallel(pos *Position, log Logger, options Options, tc *TimeControl, threads int) []Move {
	if threads < 1 {
		threads = 1
	}
	if threads == 1 {
		return NewEngine(pos, log, options).Play(tc)
	}

	if log != nil {
		log.BeginSearch()
	}

	pv := make([][]Move, threads)
	depth := make([]int32, threads)
	nodes := make([]uint64, threads)

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < threads; i++ {
		i := i
		g.Go(func() error {
			worker, err := PositionFromFEN(pos.FEN())
			if err != nil {
				return err
			}
			eng := NewEngine(worker, &NulLogger{}, options)
			pv[i] = eng.Play(tc)
			depth[i] = eng.Stats.Depth
			nodes[i] = eng.Stats.Nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if log != nil {
			log.EndSearch()
		}
		return nil
	}

	best := 0
	var totalNodes uint64
	for i, n := range nodes {
		totalNodes += n
		if depth[i] > depth[best] {
			best = i
		}
	}

	if log != nil {
		log.PrintPV(Stats{Depth: depth[best], Nodes: totalNodes}, Evaluate(pos), pv[best])
		log.EndSearch()
	}
	return pv[best]
}
