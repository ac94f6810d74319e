// Package analysis runs threat detection and the forced-win searches for
// both players and collects the results into one report.
package analysis

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gomoku/internal/engine"
	"gomoku/internal/gomoku"
)

const (
	StatusOngoing  = "ongoing"
	StatusBlackWon = "black_won"
	StatusWhiteWon = "white_won"
	StatusFull     = "full" // 下满，和棋
)

// PlayerReport 一方的分析结果
type PlayerReport struct {
	Player  gomoku.Stone         `json:"player"`
	Counts  map[string]int       `json:"counts"` // 按威胁名计数
	Threats engine.ThreatResult  `json:"threats"`
	VCF     engine.SearchResult  `json:"vcf"`
	VCT     engine.SearchResult  `json:"vct"`
	Defense engine.DefenseResult `json:"defense"` // 面对对手 VCT 的防守
}

type Report struct {
	ID        string       `json:"id"`
	Position  string       `json:"position"` // pos.Encode()
	ToMove    gomoku.Stone `json:"to_move"`
	Status    string       `json:"status"`
	Black     PlayerReport `json:"black"`
	White     PlayerReport `json:"white"`
	CreatedAt time.Time    `json:"created_at"`
	TimeMs    int64        `json:"time_ms"`
}

// Player returns the part of the report for p.
func (r *Report) Player(p gomoku.Stone) *PlayerReport {
	if p == gomoku.White {
		return &r.White
	}
	return &r.Black
}

// Analyzer 串行化对同一个 Engine 的访问，可以被多个 goroutine 共用。
type Analyzer struct {
	mu  sync.Mutex
	eng *engine.Engine
	cfg engine.SearchConfig
}

func NewAnalyzer(eng *engine.Engine, cfg engine.SearchConfig) *Analyzer {
	if eng == nil {
		eng = engine.NewEngine()
	}
	return &Analyzer{eng: eng, cfg: cfg}
}

// AnalyzeEncoded decodes enc (see gomoku.DecodePosition) and analyzes it.
func (a *Analyzer) AnalyzeEncoded(enc string) (*Report, error) {
	pos, err := gomoku.DecodePosition(enc)
	if err != nil {
		return nil, err
	}
	return a.Analyze(pos)
}

// Analyze 对双方各做一次检测、VCF、VCT 和防守分析。pos 的棋盘不会被改动。
func (a *Analyzer) Analyze(pos *gomoku.Position) (*Report, error) {
	if err := pos.Board.Validate(); err != nil {
		return nil, err
	}
	if err := gomoku.ValidatePlayer(pos.SideToMove); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	// 搜索在副本上做，调用方的局面保持不变
	board := pos.Board
	rep := &Report{
		ID:        uuid.NewString(),
		Position:  pos.Encode(),
		ToMove:    pos.SideToMove,
		CreatedAt: start,
	}
	for _, p := range []gomoku.Stone{gomoku.Black, gomoku.White} {
		pr, err := a.analyzePlayer(&board, p)
		if err != nil {
			return nil, err
		}
		*rep.Player(p) = pr
	}
	rep.Status = status(&board, rep)
	rep.TimeMs = time.Since(start).Milliseconds()

	log.Debug().
		Str("id", rep.ID).
		Str("status", rep.Status).
		Bool("black_vct", rep.Black.VCT.Found).
		Bool("white_vct", rep.White.VCT.Found).
		Int64("ms", rep.TimeMs).
		Msg("analysis-done")
	return rep, nil
}

func (a *Analyzer) analyzePlayer(b *gomoku.Board, p gomoku.Stone) (PlayerReport, error) {
	pr := PlayerReport{Player: p}
	var err error
	if pr.Threats, err = a.eng.Detect(b, p); err != nil {
		return pr, err
	}
	pr.Counts = pr.Threats.CountsByName()
	if pr.VCF, err = a.eng.SearchVCF(b, p, a.cfg.MaxDepth, a.cfg.Deadline(time.Now())); err != nil {
		return pr, err
	}
	if pr.VCT, err = a.eng.SearchVCT(b, p, a.cfg.MaxDepth, a.cfg.Deadline(time.Now())); err != nil {
		return pr, err
	}
	if pr.Defense, err = a.eng.SearchVCTDefense(b, p, a.cfg.MaxDepth, a.cfg.Deadline(time.Now())); err != nil {
		return pr, err
	}
	return pr, nil
}

func status(b *gomoku.Board, rep *Report) string {
	switch {
	case rep.Black.Threats.Count(engine.ThreatFive) > 0:
		return StatusBlackWon
	case rep.White.Threats.Count(engine.ThreatFive) > 0:
		return StatusWhiteWon
	case b.Count(gomoku.Empty) == 0:
		return StatusFull
	default:
		return StatusOngoing
	}
}
