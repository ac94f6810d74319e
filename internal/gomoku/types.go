package gomoku

import "fmt"

// Stone 棋盘格子状态：空 / 黑(A) / 白(B)
type Stone int8

const (
	Empty Stone = iota
	Black       // player A，先手
	White       // player B
)

func (s Stone) IsPlayer() bool {
	return s == Black || s == White
}

// Opponent 返回对手；Empty 的对手仍是 Empty。
func (s Stone) Opponent() Stone {
	switch s {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (s Stone) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

func (s Stone) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Coord 0-based (row, col)
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) Index() int { return indexOf(c.Row, c.Col) }

func (c Coord) OnBoard() bool { return onBoard(c.Row, c.Col) }

// Less is row-major order, used wherever a deterministic pick is needed.
func (c Coord) Less(o Coord) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func CoordOf(sq int) Coord {
	return Coord{Row: rowOf(sq), Col: colOf(sq)}
}

// Direction 四个连线方向
type Direction int8

const (
	Horizontal Direction = iota // 横 (0,+1)
	Vertical                    // 竖 (+1,0)
	DiagDown                    // 左上→右下 (+1,+1)
	DiagUp                      // 左下→右上 (-1,+1)
)

var Directions = [4]Direction{Horizontal, Vertical, DiagDown, DiagUp}

var directionDeltas = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{-1, 1},
}

func (d Direction) Delta() (dr, dc int) {
	v := directionDeltas[d]
	return v[0], v[1]
}

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case DiagDown:
		return "diag-down"
	case DiagUp:
		return "diag-up"
	default:
		return "unknown"
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

type Board struct {
	Cells [NumCells]Stone
}

// Position = 棋盘 + 轮到谁走
type Position struct {
	Board      Board
	SideToMove Stone
	Hash       uint64
}
