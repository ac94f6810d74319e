package gomoku

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Encode 紧凑文本：15 行用 "/" 隔开，空位用数字压缩；空格后 x/o 表示轮到谁。
func (p *Position) Encode() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Size; c++ {
			s := p.Board.Cells[indexOf(r, c)]
			if s == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(stoneToChar(s))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	sb.WriteByte(' ')
	sb.WriteByte(stoneToChar(p.SideToMove))
	return sb.String()
}

// DecodePosition parses the Encode format. The side suffix is optional and
// defaults to black.
func DecodePosition(enc string) (*Position, error) {
	parts := strings.Fields(enc)
	if len(parts) == 0 || len(parts) > 2 {
		return nil, fmt.Errorf("%w: malformed position %q", ErrInvalidInput, enc)
	}
	rows := strings.Split(parts[0], "/")
	if len(rows) != Size {
		return nil, fmt.Errorf("%w: position has %d rows, want %d", ErrInvalidInput, len(rows), Size)
	}
	var b Board
	for r, row := range rows {
		c := 0
		for i := 0; i < len(row); i++ {
			ch := row[i]
			if unicode.IsDigit(rune(ch)) {
				j := i
				for j < len(row) && unicode.IsDigit(rune(row[j])) {
					j++
				}
				n, _ := strconv.Atoi(row[i:j])
				c += n
				i = j - 1
				continue
			}
			s, ok := stoneFromChar(ch)
			if !ok {
				return nil, fmt.Errorf("%w: unknown cell %q in row %d", ErrInvalidInput, ch, r)
			}
			if c >= Size {
				return nil, fmt.Errorf("%w: row %d overflows", ErrInvalidInput, r)
			}
			b.Cells[indexOf(r, c)] = s
			c++
		}
		if c != Size {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidInput, r, c, Size)
		}
	}
	side := Black
	if len(parts) == 2 {
		switch parts[1] {
		case "x", "X", "b":
			side = Black
		case "o", "O", "w":
			side = White
		default:
			return nil, fmt.Errorf("%w: unknown side %q", ErrInvalidInput, parts[1])
		}
	}
	pos := &Position{
		Board:      b,
		SideToMove: side,
	}
	pos.Hash = pos.CalculateHash()
	return pos, nil
}
