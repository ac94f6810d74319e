package engine

import (
	"fmt"
	"sort"

	"gomoku/internal/gomoku"
)

// ThreatType 按严重程度升序排列，数值越大越危险。
type ThreatType int8

const (
	ThreatNone ThreatType = iota // 零值：防守着法等不形成威胁的步
	ThreatOpenTwo
	ThreatJumpThree
	ThreatBrokenThree
	ThreatThree
	ThreatOpenThree
	ThreatBrokenFour
	ThreatFour
	ThreatOpenFour
	ThreatFive

	numThreatTypes
)

var threatScores = [numThreatTypes]int{
	ThreatNone:        0,
	ThreatOpenTwo:     10,
	ThreatJumpThree:   60,
	ThreatBrokenThree: 80,
	ThreatThree:       100,
	ThreatOpenThree:   500,
	ThreatBrokenFour:  800,
	ThreatFour:        1000,
	ThreatOpenFour:    10000,
	ThreatFive:        100000,
}

var threatNames = [numThreatTypes]string{
	ThreatNone:        "NONE",
	ThreatOpenTwo:     "OPEN_TWO",
	ThreatJumpThree:   "JUMP_THREE",
	ThreatBrokenThree: "BROKEN_THREE",
	ThreatThree:       "THREE",
	ThreatOpenThree:   "OPEN_THREE",
	ThreatBrokenFour:  "BROKEN_FOUR",
	ThreatFour:        "FOUR",
	ThreatOpenFour:    "OPEN_FOUR",
	ThreatFive:        "FIVE",
}

// ThreatTypes lists every detectable type from most to least severe.
// ThreatNone is not included.
var ThreatTypes = []ThreatType{
	ThreatFive, ThreatOpenFour, ThreatFour, ThreatBrokenFour,
	ThreatOpenThree, ThreatThree, ThreatBrokenThree, ThreatJumpThree, ThreatOpenTwo,
}

func (t ThreatType) Score() int {
	if t < 0 || t >= numThreatTypes {
		return 0
	}
	return threatScores[t]
}

func (t ThreatType) String() string {
	if t < 0 || t >= numThreatTypes {
		return fmt.Sprintf("ThreatType(%d)", int8(t))
	}
	return threatNames[t]
}

func (t ThreatType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// isFourClass: 再下一手就成五
func (t ThreatType) isFourClass() bool {
	return t == ThreatOpenFour || t == ThreatFour || t == ThreatBrokenFour
}

// isForcingThree: 再下一手就成活四，VCT 用它做先手
func (t ThreatType) isForcingThree() bool {
	return t == ThreatOpenThree || t == ThreatBrokenThree
}

// ThreatPosition is one occurrence of a pattern. Stones are sorted row-major;
// Empties are the empty cells of the matched window, also sorted.
type ThreatPosition struct {
	Type      ThreatType       `json:"type"`
	Stones    []gomoku.Coord   `json:"stones"`
	Empties   []gomoku.Coord   `json:"empties,omitempty"`
	Direction gomoku.Direction `json:"direction"`
}

func (tp ThreatPosition) contains(c gomoku.Coord) bool {
	for _, s := range tp.Stones {
		if s == c {
			return true
		}
	}
	return false
}

type DoubleThreatType int8

const (
	DoubleFour DoubleThreatType = iota
	FourThree
	DoubleThree

	numDoubleThreatTypes
)

var doubleThreatNames = [numDoubleThreatTypes]string{
	DoubleFour:  "DOUBLE_FOUR",
	FourThree:   "FOUR_THREE",
	DoubleThree: "DOUBLE_THREE",
}

func (t DoubleThreatType) String() string {
	if t < 0 || t >= numDoubleThreatTypes {
		return fmt.Sprintf("DoubleThreatType(%d)", int8(t))
	}
	return doubleThreatNames[t]
}

func (t DoubleThreatType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Severity is always critical: one defensive stone cannot stop both halves.
func (t DoubleThreatType) Severity() string { return "critical" }

// DoubleThreat 以一个空点为关键点，落子后同时形成两条独立威胁。
type DoubleThreat struct {
	Type    DoubleThreatType `json:"type"`
	Key     gomoku.Coord     `json:"key"`
	Threats []ThreatPosition `json:"threats"`
}

type ThreatResult struct {
	Player        gomoku.Stone              `json:"player"`
	Counts        [numThreatTypes]int       `json:"-"`
	Score         int                       `json:"score"`
	Threats       []ThreatPosition          `json:"threats"`
	DoubleCounts  [numDoubleThreatTypes]int `json:"-"`
	DoubleThreats []DoubleThreat            `json:"double_threats"`
}

func (r *ThreatResult) Count(t ThreatType) int {
	if t < 0 || t >= numThreatTypes {
		return 0
	}
	return r.Counts[t]
}

func (r *ThreatResult) DoubleCount(t DoubleThreatType) int {
	if t < 0 || t >= numDoubleThreatTypes {
		return 0
	}
	return r.DoubleCounts[t]
}

// CountsByName 只包含非零项，方便序列化。
func (r *ThreatResult) CountsByName() map[string]int {
	out := make(map[string]int)
	for t := ThreatType(0); t < numThreatTypes; t++ {
		if r.Counts[t] > 0 {
			out[t.String()] = r.Counts[t]
		}
	}
	for t := DoubleThreatType(0); t < numDoubleThreatTypes; t++ {
		if r.DoubleCounts[t] > 0 {
			out[t.String()] = r.DoubleCounts[t]
		}
	}
	return out
}

// Highest returns the most severe type present, or false when there is none.
func (r *ThreatResult) Highest() (ThreatType, bool) {
	for _, t := range ThreatTypes {
		if r.Counts[t] > 0 {
			return t, true
		}
	}
	return ThreatNone, false
}

func (r *ThreatResult) finish() {
	sortThreats(r.Threats)
	r.Score = 0
	for i := range r.Counts {
		r.Counts[i] = 0
	}
	for _, tp := range r.Threats {
		r.Counts[tp.Type]++
	}
	for t := ThreatType(0); t < numThreatTypes; t++ {
		r.Score += r.Counts[t] * t.Score()
	}
	for i := range r.DoubleCounts {
		r.DoubleCounts[i] = 0
	}
	for _, dt := range r.DoubleThreats {
		r.DoubleCounts[dt.Type]++
	}
}

// 排序只为输出稳定：类型降序，再按方向、首子坐标。
func sortThreats(ts []ThreatPosition) {
	sort.Slice(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if a.Type != b.Type {
			return a.Type > b.Type
		}
		if a.Direction != b.Direction {
			return a.Direction < b.Direction
		}
		for k := 0; k < len(a.Stones) && k < len(b.Stones); k++ {
			if a.Stones[k] != b.Stones[k] {
				return a.Stones[k].Less(b.Stones[k])
			}
		}
		return len(a.Stones) < len(b.Stones)
	})
}

func sortCoords(cs []gomoku.Coord) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Less(cs[j]) })
}
