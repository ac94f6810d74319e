package engine

import (
	"gomoku/internal/gomoku"
)

// 模式字符：X 己方子，_ 空位，O 对方子或棋盘边，? 只要不是对方子/边即可。
type patCell uint8

const (
	pcMine patCell = iota
	pcEmpty
	pcBlock
	pcAny
)

// 线上格子编码（相对于被检测的一方）
const (
	lcEmpty int8 = iota
	lcMine
	lcBlock
)

type pattern struct {
	typ   ThreatType
	text  string
	cells []patCell
}

var patternSource = []struct {
	typ   ThreatType
	texts []string
}{
	{ThreatFive, []string{"XXXXX"}},
	{ThreatOpenFour, []string{"_XXXX_"}},
	{ThreatFour, []string{"OXXXX_", "_XXXXO"}},
	{ThreatBrokenFour, []string{"XXX_X", "XX_XX", "X_XXX"}},
	{ThreatOpenThree, []string{"_XXX_"}},
	{ThreatThree, []string{"OXXX_?", "?_XXXO"}},
	{ThreatBrokenThree, []string{"_X_XX_", "_XX_X_"}},
	{ThreatJumpThree, []string{"X_X_X", "XX__X", "X__XX"}},
	{ThreatOpenTwo, []string{"_XX_"}},
}

var patternTable = compilePatterns()

func compilePatterns() []pattern {
	var out []pattern
	for _, src := range patternSource {
		for _, text := range src.texts {
			p := pattern{typ: src.typ, text: text, cells: make([]patCell, len(text))}
			for i := 0; i < len(text); i++ {
				switch text[i] {
				case 'X':
					p.cells[i] = pcMine
				case '_':
					p.cells[i] = pcEmpty
				case 'O':
					p.cells[i] = pcBlock
				case '?':
					p.cells[i] = pcAny
				default:
					panic("bad pattern char in " + text)
				}
			}
			out = append(out, p)
		}
	}
	return out
}

func (p *pattern) match(window []int8) bool {
	for i, pc := range p.cells {
		v := window[i]
		switch pc {
		case pcMine:
			if v != lcMine {
				return false
			}
		case pcEmpty:
			if v != lcEmpty {
				return false
			}
		case pcBlock:
			if v != lcBlock {
				return false
			}
		case pcAny:
			if v == lcBlock {
				return false
			}
		}
	}
	return true
}

// boardLine 棋盘上一条长度 >= 5 的直线（行、列或对角线），按方向顺序存格子下标。
type boardLine struct {
	dir gomoku.Direction
	sqs []int
}

type lineRef struct {
	line int // -1 表示该方向上的线太短
	pos  int
}

var (
	allLines = buildLines()
	lineOf   = buildLineIndex(allLines)
)

func buildLines() []boardLine {
	var lines []boardLine
	for _, dir := range gomoku.Directions {
		dr, dc := dir.Delta()
		for _, start := range lineStarts(dir) {
			var sqs []int
			r, c := start.Row, start.Col
			for gomoku.OnBoard(r, c) {
				sqs = append(sqs, gomoku.Coord{Row: r, Col: c}.Index())
				r += dr
				c += dc
			}
			if len(sqs) >= gomoku.WinLength {
				lines = append(lines, boardLine{dir: dir, sqs: sqs})
			}
		}
	}
	return lines
}

func lineStarts(dir gomoku.Direction) []gomoku.Coord {
	var starts []gomoku.Coord
	switch dir {
	case gomoku.Horizontal:
		for r := 0; r < gomoku.Size; r++ {
			starts = append(starts, gomoku.Coord{Row: r})
		}
	case gomoku.Vertical:
		for c := 0; c < gomoku.Size; c++ {
			starts = append(starts, gomoku.Coord{Col: c})
		}
	case gomoku.DiagDown:
		for r := gomoku.Size - 1; r >= 0; r-- {
			starts = append(starts, gomoku.Coord{Row: r})
		}
		for c := 1; c < gomoku.Size; c++ {
			starts = append(starts, gomoku.Coord{Col: c})
		}
	case gomoku.DiagUp:
		for r := 0; r < gomoku.Size; r++ {
			starts = append(starts, gomoku.Coord{Row: r})
		}
		for c := 1; c < gomoku.Size; c++ {
			starts = append(starts, gomoku.Coord{Row: gomoku.Size - 1, Col: c})
		}
	}
	return starts
}

func buildLineIndex(lines []boardLine) [gomoku.NumCells][4]lineRef {
	var idx [gomoku.NumCells][4]lineRef
	for sq := range idx {
		for d := range idx[sq] {
			idx[sq][d] = lineRef{line: -1}
		}
	}
	for li, ln := range lines {
		for pos, sq := range ln.sqs {
			idx[sq][ln.dir] = lineRef{line: li, pos: pos}
		}
	}
	return idx
}

// fillLine 把一条线编码进 buf，两端各补一个墙。override >= 0 时把该位置视为己方子。
// 返回己方子数。
func fillLine(buf []int8, b *gomoku.Board, ln *boardLine, player gomoku.Stone, override int) ([]int8, int) {
	n := len(ln.sqs)
	buf = buf[:n+2]
	buf[0] = lcBlock
	buf[n+1] = lcBlock
	mine := 0
	for i, sq := range ln.sqs {
		s := b.Cells[sq]
		switch {
		case i == override || s == player:
			buf[i+1] = lcMine
			mine++
		case s == gomoku.Empty:
			buf[i+1] = lcEmpty
		default:
			buf[i+1] = lcBlock
		}
	}
	return buf, mine
}

// scanLine 在一条已编码的线上匹配所有模式，线内去重并做高型吸收，结果追加到 out。
func scanLine(buf []int8, ln *boardLine, out []ThreatPosition) []ThreatPosition {
	var found []ThreatPosition
	for pi := range patternTable {
		p := &patternTable[pi]
		n := len(p.cells)
		for start := 0; start+n <= len(buf); start++ {
			if !p.match(buf[start : start+n]) {
				continue
			}
			tp := ThreatPosition{Type: p.typ, Direction: ln.dir}
			for k, pc := range p.cells {
				pos := start + k - 1 // buf 左侧多一个墙
				switch pc {
				case pcMine:
					tp.Stones = append(tp.Stones, gomoku.CoordOf(ln.sqs[pos]))
				case pcEmpty:
					tp.Empties = append(tp.Empties, gomoku.CoordOf(ln.sqs[pos]))
				}
			}
			sortCoords(tp.Stones)
			sortCoords(tp.Empties)
			found = append(found, tp)
		}
	}
	return append(out, reduceLine(found)...)
}

type threatKey struct {
	typ ThreatType
	n   int8
	sqs [gomoku.WinLength]int16
}

func keyOf(tp ThreatPosition) threatKey {
	k := threatKey{typ: tp.Type, n: int8(len(tp.Stones))}
	for i, c := range tp.Stones {
		if i >= len(k.sqs) {
			break
		}
		k.sqs[i] = int16(c.Index())
	}
	return k
}

// reduceLine 同一 (类型, 子集) 只保留一次；子集被更高类型完全包含的威胁不单独计数。
func reduceLine(found []ThreatPosition) []ThreatPosition {
	if len(found) == 0 {
		return nil
	}
	seen := make(map[threatKey]struct{}, len(found))
	out := make([]ThreatPosition, 0, len(found))
	for i := range found {
		tp := found[i]
		k := keyOf(tp)
		if _, dup := seen[k]; dup {
			continue
		}
		if subsumed(tp, found) {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, tp)
	}
	return out
}

func subsumed(tp ThreatPosition, all []ThreatPosition) bool {
	for i := range all {
		if all[i].Type > tp.Type && isSubset(tp.Stones, all[i].Stones) {
			return true
		}
	}
	return false
}

// 两个切片都已排序
func isSubset(small, big []gomoku.Coord) bool {
	j := 0
	for _, c := range small {
		for j < len(big) && big[j].Less(c) {
			j++
		}
		if j == len(big) || big[j] != c {
			return false
		}
		j++
	}
	return true
}
