package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gomoku/internal/analysis"
	"gomoku/internal/engine"
	"gomoku/internal/gomoku"
	"gomoku/internal/selfplay"
)

// SideCase 一方的期望结果
type SideCase struct {
	Counts   map[string]int `json:"counts"`
	Score    int            `json:"score"`
	VCF      bool           `json:"vcf"`
	VCFDepth int            `json:"vcf_depth"`
	VCT      bool           `json:"vct"`
	VCTDepth int            `json:"vct_depth"`
	Defenses []gomoku.Coord `json:"defenses,omitempty"`
}

type TestCase struct {
	ID       string   `json:"id"`
	Position string   `json:"position"`
	ToMove   string   `json:"to_move"`
	Black    SideCase `json:"black"`
	White    SideCase `json:"white"`
}

func toSideCase(pr *analysis.PlayerReport) SideCase {
	return SideCase{
		Counts:   pr.Counts,
		Score:    pr.Threats.Score,
		VCF:      pr.VCF.Found,
		VCFDepth: pr.VCF.Depth,
		VCT:      pr.VCT.Found,
		VCTDepth: pr.VCT.Depth,
		Defenses: pr.Defense.DefensiveMoves,
	}
}

func main() {
	numGames := flag.Int("games", 10, "number of random games")
	every := flag.Int("every", 4, "record one position every N moves")
	depth := flag.Int("depth", 7, "search depth for the recorded results")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	outPath := flag.String("out", "threat_test_data.json", "output file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	rng := rand.New(rand.NewSource(*seed))
	// 记录用的搜索不限时，保证结果可复现
	an := analysis.NewAnalyzer(engine.NewEngine(), engine.SearchConfig{MaxDepth: *depth})
	player := selfplay.PlayerConfig{Name: "vcf", Cfg: engine.SearchConfig{MaxDepth: 9}}

	var testCases []TestCase
	for g := 0; g < *numGames; g++ {
		ply := 0
		_, err := selfplay.Play(engine.NewEngine(), rng, player, player, gomoku.NumCells, func(pos *gomoku.Position) error {
			ply++
			if *every > 0 && ply%*every != 0 {
				return nil
			}
			rep, err := an.Analyze(pos)
			if err != nil {
				return err
			}
			testCases = append(testCases, TestCase{
				ID:       rep.ID,
				Position: rep.Position,
				ToMove:   rep.ToMove.String(),
				Black:    toSideCase(&rep.Black),
				White:    toSideCase(&rep.White),
			})
			return nil
		})
		if err != nil {
			log.Fatal().Err(err).Int("game", g+1).Msg("selfplay")
		}
	}

	file, err := json.MarshalIndent(testCases, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("marshal")
	}
	if err := os.WriteFile(*outPath, file, 0644); err != nil {
		log.Fatal().Err(err).Msg("write")
	}
	fmt.Printf("Generated %d test cases from %d random games to %s (seed %d)\n", len(testCases), *numGames, *outPath, *seed)
}
