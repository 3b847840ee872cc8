package solver

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mahjong-solver/internal/mahjong"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

func placeAll(t *testing.T, b *mahjong.Board, spots []mahjong.Spot, pieces string) {
	t.Helper()
	require.Len(t, pieces, len(spots))
	for i, s := range spots {
		require.NoError(t, b.Place(s, mahjong.Piece(pieces[i])))
	}
}

func TestBacktrackingTrivialBoard(t *testing.T) {
	b := mahjong.NewBoard()
	placeAll(t, b,
		[]mahjong.Spot{mahjong.Cell(0, 0), mahjong.Cell(0, 11)}, "AA")
	snapshot := b.Clone()

	result, err := NewBacktracking(b).Run()
	require.NoError(t, err)

	require.Len(t, result.Solutions, 1)
	require.Len(t, result.Solutions[0], 1)
	move := result.Solutions[0][0]
	assert.Equal(t, mahjong.Cell(0, 0), move.A.Spot)
	assert.Equal(t, mahjong.Cell(0, 11), move.B.Spot)
	assert.Zero(t, result.DeadEnds)

	assert.Equal(t, snapshot, b, "search must restore the board it was given")
}

func TestBacktrackingEmptyBoard(t *testing.T) {
	result, err := NewBacktracking(mahjong.NewBoard()).Run()
	require.NoError(t, err)
	require.Len(t, result.Solutions, 1)
	assert.Empty(t, result.Solutions[0])
}

func TestBacktrackingDeadEnd(t *testing.T) {
	// two exposed tiles that can never match
	b := mahjong.NewBoard()
	placeAll(t, b,
		[]mahjong.Spot{mahjong.Cell(0, 0), mahjong.Cell(0, 11)}, "AB")

	result, err := NewBacktracking(b).Run()
	require.NoError(t, err)
	assert.Empty(t, result.Solutions)
	assert.Equal(t, uint64(1), result.DeadEnds)
}

func TestBacktrackingFindsAllSolutions(t *testing.T) {
	// two independent pairs: both orders of removal clear the board
	b := mahjong.NewBoard()
	placeAll(t, b, []mahjong.Spot{
		mahjong.Cell(0, 0), mahjong.Cell(0, 11),
		mahjong.Cell(7, 0), mahjong.Cell(7, 11),
	}, "AABB")

	result, err := NewBacktracking(b).Run()
	require.NoError(t, err)
	assert.Len(t, result.Solutions, 2)
	for _, solution := range result.Solutions {
		assert.Len(t, solution, 2)
	}
}

func TestBacktrackingPrunesBySeenShape(t *testing.T) {
	// four exposed copies of one symbol: six first moves, one distinct
	// shape each
	b := mahjong.NewBoard()
	placeAll(t, b, []mahjong.Spot{
		mahjong.Cell(0, 0), mahjong.Cell(0, 11),
		mahjong.Cell(7, 0), mahjong.Cell(7, 11),
	}, "AAAA")

	result, err := NewBacktracking(b).Run()
	require.NoError(t, err)
	assert.NotEmpty(t, result.Solutions)
	// 1 root shape + 6 one-move shapes; the empty board is a solution,
	// not a visited state
	assert.Equal(t, uint64(7), result.States)
}

func TestBacktrackingStateBudget(t *testing.T) {
	b := mahjong.NewBoard()
	require.NoError(t, b.Fill(rand.New(rand.NewPCG(1, 2))))

	searcher := NewBacktracking(b)
	searcher.SetLimits(Limits{MaxStates: 1000})

	_, err := searcher.Run()
	assert.ErrorIs(t, err, ErrSearchSpaceExceeded)
}

func TestBacktrackingProgressCallback(t *testing.T) {
	b := mahjong.NewBoard()
	placeAll(t, b, []mahjong.Spot{
		mahjong.Cell(0, 0), mahjong.Cell(0, 11),
		mahjong.Cell(7, 0), mahjong.Cell(7, 11),
	}, "AABB")

	var calls int
	var last Stats
	searcher := NewBacktracking(b)
	searcher.OnProgress = func(stats Stats) {
		calls++
		last = stats
	}

	_, err := searcher.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "one callback per solution")
	assert.Equal(t, 2, last.Solutions)
	assert.GreaterOrEqual(t, last.Progress, 0.0)
	assert.LessOrEqual(t, last.Progress, 1.0)
}

func TestMonteCarloEmptyBoard(t *testing.T) {
	s := NewMonteCarlo(mahjong.NewBoard(), rand.New(rand.NewPCG(1, 2)))
	depth, err := s.Run()
	require.NoError(t, err)
	assert.Zero(t, depth)
}

func TestMonteCarloSolvesTrivialBoard(t *testing.T) {
	b := mahjong.NewBoard()
	placeAll(t, b,
		[]mahjong.Spot{mahjong.Cell(0, 0), mahjong.Cell(0, 11)}, "AA")

	depth, err := NewMonteCarlo(b, rand.New(rand.NewPCG(1, 2))).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, depth)
	assert.True(t, b.IsEmpty())
}

func TestMonteCarloStopsWhenStuck(t *testing.T) {
	b := mahjong.NewBoard()
	placeAll(t, b, []mahjong.Spot{
		mahjong.Cell(0, 0), mahjong.Cell(0, 11),
		mahjong.Cell(7, 0), mahjong.Cell(7, 11),
	}, "AABC")

	depth, err := NewMonteCarlo(b, rand.New(rand.NewPCG(1, 2))).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, depth, "one pair removed, then stuck")
	assert.False(t, b.IsEmpty())
}

func TestMonteCarloFullBoardRollout(t *testing.T) {
	b := mahjong.NewBoard()
	require.NoError(t, b.Fill(rand.New(rand.NewPCG(1, 2))))

	depth, err := NewMonteCarlo(b.Clone(), rand.New(rand.NewPCG(3, 4))).Run()
	require.NoError(t, err)
	assert.Positive(t, depth)
	assert.LessOrEqual(t, depth, mahjong.MaxMoves)
	assert.Equal(t, mahjong.NumPieces, b.Count(), "rollout runs on the clone")
}

func TestMonteCarloDeterministicUnderSeed(t *testing.T) {
	b := mahjong.NewBoard()
	require.NoError(t, b.Fill(rand.New(rand.NewPCG(1, 2))))

	first, err := NewMonteCarlo(b.Clone(), rand.New(rand.NewPCG(5, 6))).Run()
	require.NoError(t, err)
	second, err := NewMonteCarlo(b.Clone(), rand.New(rand.NewPCG(5, 6))).Run()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
