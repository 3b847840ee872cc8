// Package experiment estimates board solvability by sampling: it fills
// random boards and measures the depth distribution of many Monte
// Carlo rollouts per board.
package experiment

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/mahjong-solver/internal/histogram"
	"github.com/vancomm/mahjong-solver/internal/mahjong"
	"github.com/vancomm/mahjong-solver/internal/solver"
)

var Log = logrus.New()

// progressInterval is how many rollouts pass between OnProgress calls.
const progressInterval = 100

// Batch runs a number of Monte Carlo rollouts against one filled
// board, spread over worker goroutines. Every rollout gets its own
// board clone and every worker its own random stream, so workers share
// nothing but the rollout counter.
type Batch struct {
	Board    *mahjong.Board
	Rollouts int
	Workers  int

	// Seed and Stream select the PCG streams for the workers; worker w
	// draws from PCG(Seed, Stream+w+1).
	Seed   uint64
	Stream uint64

	// OnProgress, when set, receives the running rollout count roughly
	// every progressInterval rollouts. It may be called from several
	// goroutines at once.
	OnProgress func(done uint64)
}

func (b *Batch) workers() int {
	if b.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return b.Workers
}

// Run blocks until every rollout finished or ctx was canceled, and
// returns the merged depth histogram.
func (b *Batch) Run(ctx context.Context) (*histogram.Histogram, error) {
	workers := b.workers()
	partials := make([]*histogram.Histogram, workers)

	var done atomic.Uint64

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		count := b.Rollouts / workers
		if w < b.Rollouts%workers {
			count++
		}

		g.Go(func() error {
			rnd := rand.New(rand.NewPCG(b.Seed, b.Stream+uint64(w)+1))
			partial := histogram.New(mahjong.MaxMoves)
			for i := 0; i < count; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				depth, err := solver.NewMonteCarlo(b.Board.Clone(), rnd).Run()
				if err != nil {
					return err
				}
				partial.Add(depth)

				if n := done.Add(1); b.OnProgress != nil && n%progressInterval == 0 {
					b.OnProgress(n)
				}
			}
			partials[w] = partial
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := histogram.New(mahjong.MaxMoves)
	for _, partial := range partials {
		if err := merged.Merge(partial); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// Params configures a sampling run over many random boards.
type Params struct {
	Boards   int
	Rollouts int // rollouts per board
	Workers  int
	Seed     uint64
}

// BoardResult is delivered to the OnBoard callback after each board's
// rollout batch completes.
type BoardResult struct {
	Board     int // 1-based
	Solvable  bool
	Histogram *histogram.Histogram
}

// Summary aggregates a whole run.
type Summary struct {
	Boards         int
	SolvableBoards int
	// Histogram merges every board's rollout depths.
	Histogram *histogram.Histogram
}

// Runner fills Params.Boards fresh random boards and runs
// Params.Rollouts rollouts against each. A board counts as solvable
// when at least one of its rollouts reached a full clear.
type Runner struct {
	params Params

	// OnBoard, when set, is invoked after each board; returning an
	// error aborts the run.
	OnBoard func(BoardResult) error
}

func NewRunner(params Params) *Runner {
	return &Runner{params: params}
}

func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{Histogram: histogram.New(mahjong.MaxMoves)}

	for boardNum := 1; boardNum <= r.params.Boards; boardNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// distinct streams per board: one for the fill, the rest for
		// the batch workers
		stream := uint64(boardNum) << 8

		board := mahjong.NewBoard()
		if err := board.Fill(rand.New(rand.NewPCG(r.params.Seed, stream))); err != nil {
			return nil, err
		}

		batch := &Batch{
			Board:    board,
			Rollouts: r.params.Rollouts,
			Workers:  r.params.Workers,
			Seed:     r.params.Seed,
			Stream:   stream,
		}
		hist, err := batch.Run(ctx)
		if err != nil {
			return nil, err
		}

		summary.Boards = boardNum
		if hist.Solvable() {
			summary.SolvableBoards++
		}
		if err := summary.Histogram.Merge(hist); err != nil {
			return nil, err
		}

		Log.WithFields(logrus.Fields{
			"board":    boardNum,
			"solvable": hist.Solvable(),
			"tally":    summary.SolvableBoards,
		}).Debug("board sampled")

		if r.OnBoard != nil {
			err := r.OnBoard(BoardResult{
				Board:     boardNum,
				Solvable:  hist.Solvable(),
				Histogram: hist,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return summary, nil
}
