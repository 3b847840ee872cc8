package mahjong

import "cmp"

// Piece is a tile symbol. There are 36 distinct symbols (digits and
// uppercase letters) and four physical copies of each, 144 tiles total.
type Piece byte

func (p Piece) String() string {
	return string(rune(p))
}

// Pieces returns the 36 distinct symbols in a fixed order.
func Pieces() []Piece {
	pieces := make([]Piece, 0, 36)
	for d := byte('0'); d <= '9'; d++ {
		pieces = append(pieces, Piece(d))
	}
	for l := byte('A'); l <= 'Z'; l++ {
		pieces = append(pieces, Piece(l))
	}
	return pieces
}

// FullSet returns the complete 144-tile multiset, four copies per symbol.
func FullSet() []Piece {
	set := make([]Piece, 0, NumPieces)
	for _, p := range Pieces() {
		set = append(set, p, p, p, p)
	}
	return set
}

const (
	// NumPieces is the number of tiles on a freshly filled board.
	NumPieces = 144

	// MaxMoves is the number of moves in a full clear: every move
	// removes exactly one matched pair.
	MaxMoves = NumPieces / 2
)

// SpotKind discriminates grid cells from the three auxiliary piles.
type SpotKind uint8

const (
	GridSpot SpotKind = iota
	LeftPileSpot
	RightPileSpot
	TopPileSpot
)

// Spot addresses a tile stack: either a grid cell (row, col) or one of
// the three piles. Pile spots carry no coordinates.
type Spot struct {
	Kind     SpotKind
	Row, Col int
}

func Cell(row, col int) Spot {
	return Spot{Kind: GridSpot, Row: row, Col: col}
}

var (
	LeftPile  = Spot{Kind: LeftPileSpot}
	RightPile = Spot{Kind: RightPileSpot}
	TopPile   = Spot{Kind: TopPileSpot}
)

// Compare orders grid cells by (row, col) ahead of the piles, piles in
// left, right, top order. This is the order movable pieces and moves
// are reported in.
func (s Spot) Compare(o Spot) int {
	if c := cmp.Compare(s.Kind, o.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(s.Row, o.Row); c != 0 {
		return c
	}
	return cmp.Compare(s.Col, o.Col)
}

func (s Spot) String() string {
	switch s.Kind {
	case LeftPileSpot:
		return "L"
	case RightPileSpot:
		return "R"
	case TopPileSpot:
		return "T"
	default:
		return "(" + itoa(s.Row) + ":" + itoa(s.Col) + ")"
	}
}

func itoa(i int) string {
	if i < 0 || i > 9 {
		// rows go 0..7 and cols 0..11; double digits only for cols
		return string([]byte{byte('0' + i/10), byte('0' + i%10)})
	}
	return string(byte('0' + i))
}

// MovablePiece describes an exposed tile: where it sits, which symbol it
// shows and how tall its stack currently is. It is a transient query
// result, not board state.
type MovablePiece struct {
	Spot  Spot
	Piece Piece
	Depth int
}

func (mp MovablePiece) String() string {
	return mp.Spot.String() + mp.Piece.String()
}

// Move removes a matched pair of exposed tiles. A and B always hold
// distinct spots with A.Spot ordered before B.Spot, so structurally
// equal moves compare equal regardless of construction order.
type Move struct {
	A, B MovablePiece
}

func NewMove(a, b MovablePiece) Move {
	if a.Spot.Compare(b.Spot) > 0 {
		a, b = b, a
	}
	return Move{A: a, B: b}
}

func (m Move) Compare(o Move) int {
	if c := m.A.Spot.Compare(o.A.Spot); c != 0 {
		return c
	}
	return m.B.Spot.Compare(o.B.Spot)
}

func (m Move) String() string {
	return m.A.String() + "-" + m.B.String()
}
