package mahjong

import "slices"

// isMovable reports whether the exposed tile of a cell can be removed
// when approached from the given scan direction. A tile at the board's
// maximum stack depth is gated by the top pile; the last tile of a
// middle-row stack (rows 3 and 4) is gated by the side pile matching
// the scan direction. The same tile can therefore be movable from one
// direction and blocked from the other.
func (b *Board) isMovable(rowIx, colIx int, leftToRight bool) bool {
	s := b.rows[rowIx][colIx]
	if len(s) == 0 {
		return false
	}

	switch depth := len(s); {
	case depth == maxStackDepth:
		// center piece has to be gone first
		return len(b.top) == 0
	case depth == 1 && rowIx >= 3 && rowIx <= 4:
		// ground level on the middle rows needs side blocks cleared
		if leftToRight {
			return len(b.leftBlocks) == 0
		}
		return len(b.rightBlocks) == 0
	}

	return true
}

// FindMovablePieces returns every currently exposed tile, sorted by
// spot. Each row is scanned left to right and right to left; in a scan
// a cell only qualifies while stack depths increase monotonically going
// inward (nothing taller blocks it from that side), and the scan stops
// at the first cell shallower than the last accepted one. The three
// piles are always exposed while non-empty.
func (b *Board) FindMovablePieces() []MovablePiece {
	found := map[Spot]MovablePiece{}

	for rowIx, r := range b.rows {
		last := 0
		for colIx := 0; colIx < len(r); colIx++ {
			depth := len(r[colIx])
			if b.isMovable(rowIx, colIx, true) && depth > last {
				found[Cell(rowIx, colIx)] = MovablePiece{
					Spot:  Cell(rowIx, colIx),
					Piece: r[colIx].top(),
					Depth: depth,
				}
				last = depth
			} else if depth < last {
				break
			}
		}

		last = 0
		for colIx := len(r) - 1; colIx >= 0; colIx-- {
			depth := len(r[colIx])
			if b.isMovable(rowIx, colIx, false) && depth > last {
				found[Cell(rowIx, colIx)] = MovablePiece{
					Spot:  Cell(rowIx, colIx),
					Piece: r[colIx].top(),
					Depth: depth,
				}
				last = depth
			} else if depth < last {
				break
			}
		}
	}

	for _, pile := range []Spot{TopPile, LeftPile, RightPile} {
		if s := *b.stackAt(pile); len(s) > 0 {
			found[pile] = MovablePiece{Spot: pile, Piece: s.top(), Depth: len(s)}
		}
	}

	movable := make([]MovablePiece, 0, len(found))
	for _, mp := range found {
		movable = append(movable, mp)
	}
	slices.SortFunc(movable, func(a, b MovablePiece) int {
		return a.Spot.Compare(b.Spot)
	})
	return movable
}

// FindMoves pairs up movable tiles by symbol: n exposed copies of a
// symbol yield all n·(n-1)/2 candidate pairs, not just adjacent ones.
// Moves come out sorted by their spot pair.
func (b *Board) FindMoves(movable []MovablePiece) []Move {
	bySymbol := map[Piece][]MovablePiece{}
	for _, mp := range movable {
		bySymbol[mp.Piece] = append(bySymbol[mp.Piece], mp)
	}

	var moves []Move
	for _, group := range bySymbol {
		for i := 0; i < len(group)-1; i++ {
			for j := i + 1; j < len(group); j++ {
				moves = append(moves, NewMove(group[i], group[j]))
			}
		}
	}

	slices.SortFunc(moves, Move.Compare)
	return moves
}
