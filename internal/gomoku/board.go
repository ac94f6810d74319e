package gomoku

import (
	"fmt"
	"strings"
)

const (
	Size     = 15
	NumCells = Size * Size

	// WinLength 连五
	WinLength = 5
)

func indexOf(row, col int) int { return row*Size + col }
func rowOf(sq int) int         { return sq / Size }
func colOf(sq int) int         { return sq % Size }

func onBoard(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// OnBoard reports whether (row, col) lies inside the grid.
func OnBoard(row, col int) bool { return onBoard(row, col) }

func (b *Board) At(c Coord) Stone {
	return b.Cells[c.Index()]
}

func (b *Board) Set(c Coord, s Stone) {
	b.Cells[c.Index()] = s
}

func (b *Board) IsEmpty(c Coord) bool {
	return c.OnBoard() && b.Cells[c.Index()] == Empty
}

// Count 某一方的棋子数
func (b *Board) Count(s Stone) int {
	n := 0
	for _, v := range b.Cells {
		if v == s {
			n++
		}
	}
	return n
}

// Stones returns the coordinates of every stone of s in row-major order.
func (b *Board) Stones(s Stone) []Coord {
	out := make([]Coord, 0, 32)
	for sq, v := range b.Cells {
		if v == s {
			out = append(out, CoordOf(sq))
		}
	}
	return out
}

// Validate checks that every cell holds a legal value. The engine calls it
// before any search work so corrupted buffers surface as ErrInvalidInput.
func (b *Board) Validate() error {
	for sq, v := range b.Cells {
		if v != Empty && v != Black && v != White {
			return fmt.Errorf("%w: cell %v holds %d", ErrInvalidInput, CoordOf(sq), v)
		}
	}
	return nil
}

// ParseGrid builds a board from Size rows of Size characters each:
// '.' empty, 'x'/'X' black, 'o'/'O' white.
func ParseGrid(rows []string) (*Board, error) {
	lines := make([]string, 0, Size)
	for _, r := range rows {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		lines = append(lines, r)
	}
	if len(lines) != Size {
		return nil, fmt.Errorf("%w: grid has %d rows, want %d", ErrInvalidInput, len(lines), Size)
	}
	var b Board
	for r, line := range lines {
		if len(line) != Size {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidInput, r, len(line), Size)
		}
		for c := 0; c < Size; c++ {
			s, ok := stoneFromChar(line[c])
			if !ok {
				return nil, fmt.Errorf("%w: unknown cell %q at (%d,%d)", ErrInvalidInput, line[c], r, c)
			}
			b.Cells[indexOf(r, c)] = s
		}
	}
	return &b, nil
}

// String renders the board in the ParseGrid format.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			sb.WriteByte(stoneToChar(b.Cells[indexOf(r, c)]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func stoneFromChar(ch byte) (Stone, bool) {
	switch ch {
	case '.', '+', '-':
		return Empty, true
	case 'x', 'X':
		return Black, true
	case 'o', 'O':
		return White, true
	}
	return Empty, false
}

func stoneToChar(s Stone) byte {
	switch s {
	case Black:
		return 'x'
	case White:
		return 'o'
	default:
		return '.'
	}
}

// NewPosition 空棋盘，黑先
func NewPosition() *Position {
	pos := &Position{SideToMove: Black}
	pos.Hash = pos.CalculateHash()
	return pos
}

// Play 落子并增量更新哈希；不检查胜负。
func (p *Position) Play(c Coord) error {
	if !c.OnBoard() {
		return fmt.Errorf("%w: %v is off the board", ErrInvalidInput, c)
	}
	if p.Board.At(c) != Empty {
		return fmt.Errorf("%w: %v is occupied", ErrInvalidInput, c)
	}
	z := DefaultZobrist()
	p.Board.Set(c, p.SideToMove)
	p.Hash = z.ToggleSide(z.Toggle(p.Hash, c, p.SideToMove))
	p.SideToMove = p.SideToMove.Opponent()
	return nil
}
