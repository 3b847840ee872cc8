package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mahjong-solver/internal/config"
	"github.com/vancomm/mahjong-solver/internal/database"
	"github.com/vancomm/mahjong-solver/internal/experiment"
	"github.com/vancomm/mahjong-solver/internal/histogram"
	"github.com/vancomm/mahjong-solver/internal/mahjong"
	"github.com/vancomm/mahjong-solver/internal/repository"
	"github.com/vancomm/mahjong-solver/internal/solver"
)

var (
	log = logrus.New()

	numBoards   = flag.Int("boards", 1000, "number of random boards to sample")
	numRollouts = flag.Int("rollouts", 10000, "rollouts per board")
	numWorkers  = flag.Int("workers", 0, "rollout workers (0 = GOMAXPROCS)")
	seed        = flag.Uint64("seed", 0, "base random seed (0 = time-based)")
	outDir      = flag.String("out", ".", "directory for per-board histogram files")
	storeLabel  = flag.String("store", "", "store the run summary in postgres under this label")
	exhaustive  = flag.Bool("exhaustive", false, "run bounded backtracking search on a single board instead of sampling")
	maxStates   = flag.Uint64("max-states", 1_000_000, "state budget for -exhaustive")
)

func setupLogging() {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	mahjong.Log = log
	solver.Log = log
	experiment.Log = log
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()
	setupLogging()

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	log.Info("base seed: ", *seed)

	var err error
	if *exhaustive {
		err = runExhaustive()
	} else {
		err = runSampling(mainCtx)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runSampling(ctx context.Context) error {
	start := time.Now()
	aggregate := histogram.New(mahjong.MaxMoves)

	runner := experiment.NewRunner(experiment.Params{
		Boards:   *numBoards,
		Rollouts: *numRollouts,
		Workers:  *numWorkers,
		Seed:     *seed,
	})

	solvable := 0
	runner.OnBoard = func(result experiment.BoardResult) error {
		if err := aggregate.Merge(result.Histogram); err != nil {
			return err
		}
		if result.Solvable {
			solvable++
		}

		log.WithFields(logrus.Fields{
			"board":    result.Board,
			"solvable": result.Solvable,
			"tally":    fmt.Sprintf("%d/%d", solvable, result.Board),
			"elapsed":  time.Since(start).Round(time.Second),
		}).Info("board sampled")

		// running aggregate written after every board, so a killed run
		// still leaves usable data behind
		path := filepath.Join(*outDir, fmt.Sprintf("histogram%d.tsv", result.Board))
		return aggregate.WriteFile(path)
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"boards":   summary.Boards,
		"solvable": summary.SolvableBoards,
		"rollouts": summary.Histogram.Total(),
		"elapsed":  time.Since(start).Round(time.Second),
	}).Info("sampling done")

	if *storeLabel != "" {
		return storeSummary(ctx, summary)
	}
	return nil
}

func storeSummary(ctx context.Context, summary *experiment.Summary) error {
	db, err := database.Connect(ctx)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()

	run, err := repository.New(db).CreateBoardRun(ctx, repository.CreateBoardRunParams{
		Label:          *storeLabel,
		Seed:           int64(*seed),
		Boards:         int32(summary.Boards),
		Rollouts:       int32(*numRollouts),
		SolvableBoards: int32(summary.SolvableBoards),
		Histogram:      summary.Histogram,
	})
	if err != nil {
		return fmt.Errorf("unable to store run: %w", err)
	}

	log.WithField("boardRunId", run.BoardRunID).Info("run stored")
	return nil
}

func runExhaustive() error {
	board := mahjong.NewBoard()
	if err := board.Fill(rand.New(rand.NewPCG(*seed, 1))); err != nil {
		return err
	}
	log.Debug("\n", board)

	searcher := solver.NewBacktracking(board)
	searcher.SetLimits(solver.Limits{MaxStates: *maxStates})

	lastReport := time.Now()
	searcher.OnProgress = func(stats solver.Stats) {
		if time.Since(lastReport) < time.Second {
			return
		}
		lastReport = time.Now()
		log.WithFields(logrus.Fields{
			"solutions": stats.Solutions,
			"deadEnds":  stats.DeadEnds,
			"states":    stats.States,
			"progress":  fmt.Sprintf("%.4f%%", 100*stats.Progress),
		}).Info("searching")
	}

	result, err := searcher.Run()
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"solutions": len(result.Solutions),
		"deadEnds":  result.DeadEnds,
		"states":    result.States,
	}).Info("search exhausted")

	for _, solution := range result.Solutions {
		log.Info("solution of length ", len(solution))
	}

	return nil
}
