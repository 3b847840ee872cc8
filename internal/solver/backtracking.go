// Package solver implements the two search strategies over a mahjong
// board: exhaustive depth-first backtracking with shape deduplication,
// and Monte Carlo random rollouts.
package solver

import (
	"errors"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mahjong-solver/internal/mahjong"
)

var Log = logrus.New()

// ErrSearchSpaceExceeded is returned by [Backtracking.Run] when the
// configured state budget runs out before the tree is exhausted. A full
// board is far beyond any realistic budget; exhaustive search is meant
// for small hand-constructed positions.
var ErrSearchSpaceExceeded = errors.New("search space too large")

// Limits bounds a backtracking run. The zero value means unbounded.
type Limits struct {
	// MaxStates caps the number of distinct board shapes visited.
	MaxStates uint64
}

// Stats is a snapshot of a running search, delivered to the OnProgress
// callback. Progress is the weighted fraction of the move tree explored
// so far, an estimate for display only.
type Stats struct {
	Solutions int
	DeadEnds  uint64
	States    uint64
	Progress  float64
}

// Result is the outcome of an exhausted backtracking search.
type Result struct {
	// Solutions holds every distinct move sequence that cleared the
	// board.
	Solutions [][]mahjong.Move
	DeadEnds  uint64
	States    uint64
}

type trailFrame struct {
	index, width int
}

// Backtracking explores every move sequence from the starting position
// depth first, pruning board shapes it has already visited anywhere in
// the tree. It mutates the board it was given and restores it before
// returning.
type Backtracking struct {
	board  *mahjong.Board
	limits Limits

	moves []mahjong.Move
	trail []trailFrame
	seen  map[mahjong.State]struct{}

	solutions [][]mahjong.Move
	deadEnds  uint64

	// OnProgress, when set, is invoked at every solution and dead end.
	OnProgress func(Stats)
}

func NewBacktracking(board *mahjong.Board) *Backtracking {
	return &Backtracking{
		board: board,
		seen:  map[mahjong.State]struct{}{},
	}
}

func (s *Backtracking) SetLimits(limits Limits) {
	s.limits = limits
}

// Progress estimates how much of the move tree has been explored: at
// each depth the current branch index over the branch width, scaled by
// the width product of all ancestors.
func (s *Backtracking) Progress() float64 {
	progress := 0.0
	fraction := 1.0
	for _, frame := range s.trail {
		progress += float64(frame.index) / float64(frame.width) * fraction
		fraction /= float64(frame.width)
	}
	return progress
}

func (s *Backtracking) stats() Stats {
	return Stats{
		Solutions: len(s.solutions),
		DeadEnds:  s.deadEnds,
		States:    uint64(len(s.seen)),
		Progress:  s.Progress(),
	}
}

func (s *Backtracking) report() {
	if s.OnProgress != nil {
		s.OnProgress(s.stats())
	}
}

// Run searches until the whole tree is exhausted or the state budget
// runs out. It keeps going after the first solution; every distinct
// solution sequence is collected.
func (s *Backtracking) Run() (*Result, error) {
	if err := s.search(); err != nil {
		return nil, err
	}
	return &Result{
		Solutions: s.solutions,
		DeadEnds:  s.deadEnds,
		States:    uint64(len(s.seen)),
	}, nil
}

func (s *Backtracking) search() error {
	if s.board.IsEmpty() {
		s.solutions = append(s.solutions, slices.Clone(s.moves))
		Log.WithField("length", len(s.moves)).Debug("found solution")
		s.report()
		return nil
	}

	state := s.board.State()
	if _, ok := s.seen[state]; ok {
		return nil
	}
	if s.limits.MaxStates > 0 && uint64(len(s.seen)) >= s.limits.MaxStates {
		return ErrSearchSpaceExceeded
	}
	s.seen[state] = struct{}{}

	moves := s.board.FindMoves(s.board.FindMovablePieces())
	if len(moves) == 0 {
		s.deadEnds++
		s.report()
		return nil
	}

	for ix, move := range moves {
		s.trail = append(s.trail, trailFrame{index: ix, width: len(moves)})
		s.moves = append(s.moves, move)
		if err := s.board.DoMove(move); err != nil {
			return err
		}

		err := s.search()

		if uerr := s.board.UndoMove(move); uerr != nil {
			return uerr
		}
		s.moves = s.moves[:len(s.moves)-1]
		s.trail = s.trail[:len(s.trail)-1]

		if err != nil {
			return err
		}
	}
	return nil
}
