package solver

import (
	"math/rand/v2"

	"github.com/vancomm/mahjong-solver/internal/mahjong"
)

// MonteCarlo plays uniformly random legal moves until the board is
// empty or no move remains. It never undoes a move and keeps no seen
// state; the only outcome is the depth reached. The board it was given
// is consumed, callers clone per rollout.
type MonteCarlo struct {
	board *mahjong.Board
	rnd   *rand.Rand
}

func NewMonteCarlo(board *mahjong.Board, rnd *rand.Rand) *MonteCarlo {
	return &MonteCarlo{board: board, rnd: rnd}
}

// Run returns the number of moves made before the rollout terminated.
// [mahjong.MaxMoves] means the board was cleared; an already empty
// board yields 0.
func (s *MonteCarlo) Run() (int, error) {
	depth := 0
	for {
		if s.board.IsEmpty() {
			return depth, nil
		}

		moves := s.board.FindMoves(s.board.FindMovablePieces())
		if len(moves) == 0 {
			return depth, nil
		}

		move := moves[s.rnd.IntN(len(moves))]
		if err := s.board.DoMove(move); err != nil {
			return depth, err
		}
		depth++
	}
}
