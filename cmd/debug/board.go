package main

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"gomoku/internal/gomoku"
)

// renderBoard 打印带坐标的棋盘，marks 中的空点用 * 标出（各方 VCT 第一手）。
func renderBoard(out *termenv.Output, b *gomoku.Board, marks []gomoku.Coord) string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < gomoku.Size; c++ {
		fmt.Fprintf(&sb, "%2d", c)
	}
	sb.WriteByte('\n')

	marked := make(map[gomoku.Coord]bool, len(marks))
	for _, m := range marks {
		marked[m] = true
	}
	for r := 0; r < gomoku.Size; r++ {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := 0; c < gomoku.Size; c++ {
			sq := gomoku.Coord{Row: r, Col: c}
			sb.WriteByte(' ')
			switch b.At(sq) {
			case gomoku.Black:
				sb.WriteString(out.String("x").Foreground(out.Color("1")).Bold().String())
			case gomoku.White:
				sb.WriteString(out.String("o").Foreground(out.Color("4")).Bold().String())
			default:
				if marked[sq] {
					sb.WriteString(out.String("*").Foreground(out.Color("3")).String())
				} else {
					sb.WriteString(out.String(".").Faint().String())
				}
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
