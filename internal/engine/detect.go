package engine

import (
	"fmt"
	"sort"

	"gomoku/internal/gomoku"
)

// Detect classifies every threat pattern of player on b, plus double threats.
// It never mutates b.
func Detect(b *gomoku.Board, player gomoku.Stone) (ThreatResult, error) {
	if b == nil {
		return ThreatResult{}, fmt.Errorf("%w: nil board", gomoku.ErrInvalidInput)
	}
	if err := gomoku.ValidatePlayer(player); err != nil {
		return ThreatResult{}, err
	}
	if err := b.Validate(); err != nil {
		return ThreatResult{}, err
	}
	return detect(b, player), nil
}

func detect(b *gomoku.Board, player gomoku.Stone) ThreatResult {
	res := ThreatResult{Player: player}
	buf := make([]int8, gomoku.Size+2)
	for li := range allLines {
		ln := &allLines[li]
		line, mine := fillLine(buf, b, ln, player, -1)
		if mine < 2 {
			continue // 所有模式至少两子
		}
		res.Threats = scanLine(line, ln, res.Threats)
	}
	res.DoubleThreats = detectDoubleThreats(b, player)
	res.finish()
	return res
}

// threatsThrough 假设 c 处落下 player 的子，重新扫描过 c 的四条线，
// 返回包含 c 的威胁。b 本身不被修改。
func threatsThrough(b *gomoku.Board, c gomoku.Coord, player gomoku.Stone) []ThreatPosition {
	var out []ThreatPosition
	var buf [gomoku.Size + 2]int8
	sq := c.Index()
	for d := range lineOf[sq] {
		ref := lineOf[sq][d]
		if ref.line < 0 {
			continue
		}
		ln := &allLines[ref.line]
		line, mine := fillLine(buf[:], b, ln, player, ref.pos)
		if mine < 2 {
			continue
		}
		for _, tp := range scanLine(line, ln, nil) {
			if tp.contains(c) {
				out = append(out, tp)
			}
		}
	}
	return out
}

// bestThrough 落子 c 后新形成的最高威胁类型。
func bestThrough(ts []ThreatPosition) (ThreatType, bool) {
	best, ok := ThreatNone, false
	for _, tp := range ts {
		if !ok || tp.Type > best {
			best, ok = tp.Type, true
		}
	}
	return best, ok
}

// nearStone 判断沿四个方向 dist 步以内是否有 player 的子。
func nearStone(b *gomoku.Board, c gomoku.Coord, player gomoku.Stone, dist int) bool {
	for _, dir := range gomoku.Directions {
		dr, dc := dir.Delta()
		for k := -dist; k <= dist; k++ {
			if k == 0 {
				continue
			}
			r, col := c.Row+k*dr, c.Col+k*dc
			if gomoku.OnBoard(r, col) && b.Cells[gomoku.Coord{Row: r, Col: col}.Index()] == player {
				return true
			}
		}
	}
	return false
}

func detectDoubleThreats(b *gomoku.Board, player gomoku.Stone) []DoubleThreat {
	var out []DoubleThreat
	for sq := 0; sq < gomoku.NumCells; sq++ {
		if b.Cells[sq] != gomoku.Empty {
			continue
		}
		c := gomoku.CoordOf(sq)
		if !nearStone(b, c, player, gomoku.WinLength-1) {
			continue
		}
		if dt, ok := doubleThreatAt(b, c, player); ok {
			out = append(out, dt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}

// doubleThreatAt 每个方向只取最强的一条威胁，方向不同才算独立。
func doubleThreatAt(b *gomoku.Board, c gomoku.Coord, player gomoku.Stone) (DoubleThreat, bool) {
	ts := threatsThrough(b, c, player)
	var perDir [4]*ThreatPosition
	for i := range ts {
		tp := &ts[i]
		if tp.Type == ThreatFive {
			return DoubleThreat{}, false // 直接成五，不是双威胁
		}
		if !tp.Type.isFourClass() && !tp.Type.isForcingThree() {
			continue
		}
		cur := perDir[tp.Direction]
		if cur == nil || tp.Type > cur.Type {
			perDir[tp.Direction] = tp
		}
	}
	var fours, threes []ThreatPosition
	for _, tp := range perDir {
		if tp == nil {
			continue
		}
		if tp.Type.isFourClass() {
			fours = append(fours, *tp)
		} else {
			threes = append(threes, *tp)
		}
	}
	switch {
	case len(fours) >= 2:
		return DoubleThreat{Type: DoubleFour, Key: c, Threats: fours}, true
	case len(fours) >= 1 && len(threes) >= 1:
		return DoubleThreat{Type: FourThree, Key: c, Threats: append(fours, threes...)}, true
	case len(threes) >= 2:
		return DoubleThreat{Type: DoubleThree, Key: c, Threats: threes}, true
	}
	return DoubleThreat{}, false
}
