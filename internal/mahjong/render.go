package mahjong

import "strings"

// per-row left padding that centers the ragged rows
var rowIndent = []int{4, 14, 9, 4, 4, 9, 14, 4}

func (s stack) render() string {
	if len(s) == 0 {
		return "_   "
	}
	return s.top().String() +
		strings.Repeat(".", len(s)-1) +
		strings.Repeat(" ", maxStackDepth-len(s))
}

func (r row) render() string {
	cells := make([]string, len(r))
	for i, s := range r {
		cells[i] = s.render()
	}
	return strings.Join(cells, " ")
}

func renderPile(s stack) string {
	pieces := make([]string, len(s))
	for i, p := range s {
		pieces[i] = p.String()
	}
	return strings.Join(pieces, " ")
}

// String renders the board as text: each cell shows its exposed tile
// followed by one dot per buried tile, with the three piles on the
// middle line. Diagnostic output only, nothing parses it back.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("        0    1    2    3    4    5    6    7    8    9    a    b\n")
	sb.WriteString(" +--------------------------------------------------------------")
	for rowIx, r := range b.rows {
		if rowIx == 4 {
			sb.WriteString("\nM|  ")
			sb.WriteString(renderPile(b.leftBlocks))
			sb.WriteString(strings.Repeat(" ", 30))
			sb.WriteString(renderPile(b.top))
			sb.WriteString(strings.Repeat(" ", 31))
			sb.WriteString(renderPile(b.rightBlocks))
		}
		sb.WriteByte('\n')
		sb.WriteByte(byte('0' + rowIx))
		sb.WriteString("|  ")
		sb.WriteString(strings.Repeat(" ", rowIndent[rowIx]))
		sb.WriteString(r.render())
	}
	return sb.String()
}
