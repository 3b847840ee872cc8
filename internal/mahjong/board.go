package mahjong

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Depths is the board topology: one entry per cell giving the maximum
// stack height. Rows are ragged, narrower rows sit centered on the
// physical board but are indexed from zero like the rest.
var Depths = [][]int{
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 2, 2, 2, 2, 2, 2, 1},
	{1, 1, 2, 3, 3, 3, 3, 2, 1, 1},
	{1, 1, 1, 2, 3, 4, 4, 3, 2, 1, 1, 1},
	{1, 1, 1, 2, 3, 4, 4, 3, 2, 1, 1, 1},
	{1, 1, 2, 3, 3, 3, 3, 2, 1, 1},
	{1, 2, 2, 2, 2, 2, 2, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
}

// maxStackDepth is the tallest stack anywhere on the board. A stack at
// this height holds a "center" tile gated by the top pile.
const maxStackDepth = 4

type stack []Piece

func (s stack) top() Piece {
	return s[len(s)-1]
}

// InvariantError reports a board contract violation: filling a
// non-empty board, or applying/undoing a move that does not match the
// actual board state.
type InvariantError struct {
	message string
}

func (e InvariantError) Error() string {
	return e.message
}

func invariantf(format string, args ...any) InvariantError {
	return InvariantError{message: fmt.Sprintf(format, args...)}
}

// Board holds every tile: one LIFO stack per grid cell plus the three
// auxiliary piles. The zero Board is not usable; call NewBoard.
type Board struct {
	rows        []row
	top         stack
	leftBlocks  stack
	rightBlocks stack
}

type row []stack

// NewBoard returns an empty board shaped per [Depths].
func NewBoard() *Board {
	b := &Board{rows: make([]row, len(Depths))}
	for rix := range Depths {
		b.rows[rix] = make(row, len(Depths[rix]))
	}
	return b
}

// Clone deep-copies the board. The clone shares no mutable state with
// the original, so independent search branches never alias.
func (b *Board) Clone() *Board {
	clone := NewBoard()
	for rix, r := range b.rows {
		for cix, s := range r {
			clone.rows[rix][cix] = append(stack(nil), s...)
		}
	}
	clone.top = append(stack(nil), b.top...)
	clone.leftBlocks = append(stack(nil), b.leftBlocks...)
	clone.rightBlocks = append(stack(nil), b.rightBlocks...)
	return clone
}

// Fill shuffles the full 144-tile set and distributes it: every cell up
// to its capacity, then one tile to the top pile, one to the left
// blocks and the remaining two to the right blocks. The board must be
// empty.
func (b *Board) Fill(r *rand.Rand) error {
	if !b.IsEmpty() {
		return invariantf("fill: board is not empty (%d pieces)", b.Count())
	}

	pieces := FullSet()
	r.Shuffle(len(pieces), func(i, j int) {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	})

	next := 0
	for rix := range b.rows {
		for cix := range b.rows[rix] {
			depth := Depths[rix][cix]
			b.rows[rix][cix] = append(b.rows[rix][cix], pieces[next:next+depth]...)
			next += depth
		}
	}

	b.top = append(b.top, pieces[next])
	b.leftBlocks = append(b.leftBlocks, pieces[next+1])
	b.rightBlocks = append(b.rightBlocks, pieces[next+2:]...)

	Log.WithFields(logrus.Fields{
		"pieces": b.Count(),
		"right":  len(b.rightBlocks),
	}).Debug("board filled")

	return nil
}

// IsEmpty reports whether no tiles remain anywhere on the board.
func (b *Board) IsEmpty() bool {
	if len(b.top) > 0 || len(b.leftBlocks) > 0 || len(b.rightBlocks) > 0 {
		return false
	}
	for _, r := range b.rows {
		for _, s := range r {
			if len(s) > 0 {
				return false
			}
		}
	}
	return true
}

// Count returns the number of tiles remaining on the board.
func (b *Board) Count() int {
	count := len(b.top) + len(b.leftBlocks) + len(b.rightBlocks)
	for _, r := range b.rows {
		for _, s := range r {
			count += len(s)
		}
	}
	return count
}

// State is a canonical fingerprint of the board shape.
type State [md5.Size]byte

// State hashes the stack depth of every cell plus the three pile
// lengths. Symbols are deliberately ignored: exposure and move legality
// depend only on shape, so search dedup treats boards with the same
// depth profile as one state.
func (b *Board) State() State {
	shape := make([]byte, 0, 96)
	for _, r := range b.rows {
		for _, s := range r {
			shape = append(shape, byte(len(s)))
		}
	}
	shape = append(shape,
		byte(len(b.top)),
		byte(len(b.leftBlocks)),
		byte(len(b.rightBlocks)),
	)
	return md5.Sum(shape)
}

// stackAt resolves a spot to its backing stack.
func (b *Board) stackAt(s Spot) *stack {
	switch s.Kind {
	case TopPileSpot:
		return &b.top
	case LeftPileSpot:
		return &b.leftBlocks
	case RightPileSpot:
		return &b.rightBlocks
	default:
		return &b.rows[s.Row][s.Col]
	}
}

// capacity returns the maximum height of the stack at a spot. The right
// blocks take the post-fill remainder and are not capped.
func capacity(s Spot) int {
	switch s.Kind {
	case TopPileSpot, LeftPileSpot:
		return 1
	case RightPileSpot:
		return NumPieces
	default:
		return Depths[s.Row][s.Col]
	}
}

// Place pushes a single tile onto the stack at a spot. It is the
// building block for hand-constructed positions; Fill covers the normal
// lifecycle.
func (b *Board) Place(s Spot, p Piece) error {
	st := b.stackAt(s)
	if len(*st) >= capacity(s) {
		return invariantf("place %s: stack already at capacity %d", s, capacity(s))
	}
	*st = append(*st, p)
	return nil
}

func (b *Board) removePiece(mp MovablePiece) error {
	st := b.stackAt(mp.Spot)
	if len(*st) == 0 {
		return invariantf("remove %s: stack is empty", mp.Spot)
	}
	if got := st.top(); got != mp.Piece {
		return invariantf("remove %s: exposed piece is %s, not %s", mp.Spot, got, mp.Piece)
	}
	if len(*st) != mp.Depth {
		return invariantf("remove %s: stack depth is %d, not %d", mp.Spot, len(*st), mp.Depth)
	}
	*st = (*st)[:len(*st)-1]
	return nil
}

func (b *Board) replacePiece(mp MovablePiece) error {
	st := b.stackAt(mp.Spot)
	if len(*st) != mp.Depth-1 {
		return invariantf("replace %s: stack depth is %d, want %d", mp.Spot, len(*st), mp.Depth-1)
	}
	if len(*st) >= capacity(mp.Spot) {
		return invariantf("replace %s: stack already at capacity %d", mp.Spot, capacity(mp.Spot))
	}
	*st = append(*st, mp.Piece)
	return nil
}

// DoMove removes both tiles of a matched pair. The move must describe
// the current board state exactly; a stale or fabricated move yields an
// [InvariantError] and the board is left as it was.
func (b *Board) DoMove(m Move) error {
	if m.A.Spot == m.B.Spot {
		return invariantf("move %s: both halves reference %s", m, m.A.Spot)
	}
	if m.A.Piece != m.B.Piece {
		return invariantf("move %s: mismatched pieces", m)
	}
	if err := b.removePiece(m.A); err != nil {
		return err
	}
	if err := b.removePiece(m.B); err != nil {
		// roll back the first half
		if rerr := b.replacePiece(m.A); rerr != nil {
			return rerr
		}
		return err
	}
	return nil
}

// UndoMove restores both tiles of a move previously applied with
// DoMove. Nested moves must be undone in reverse order of application.
func (b *Board) UndoMove(m Move) error {
	if err := b.replacePiece(m.A); err != nil {
		return err
	}
	if err := b.replacePiece(m.B); err != nil {
		if rerr := b.removePiece(m.A); rerr != nil {
			return rerr
		}
		return err
	}
	return nil
}
