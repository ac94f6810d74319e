package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gomoku/internal/engine"
	"gomoku/internal/selfplay"
)

func main() {
	totalGames := flag.Int("games", 10, "number of games to play")
	workers := flag.Int("workers", 4, "games played in parallel (one engine each)")
	vcfDepth := flag.Int("vcf-depth", 15, "VCF player search depth")
	vctDepth := flag.Int("vct-depth", 7, "VCT player search depth")
	limit := flag.Duration("time", time.Second, "time limit per search")
	maxMoves := flag.Int("maxmoves", 225, "max moves per game")
	seed := flag.Int64("seed", 1, "base seed; game g uses seed+g")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	playerVCF := selfplay.PlayerConfig{
		Name: fmt.Sprintf("VCF (depth %d)", *vcfDepth),
		Cfg:  engine.SearchConfig{MaxDepth: *vcfDepth, TimeLimit: *limit},
	}
	playerVCT := selfplay.PlayerConfig{
		Name:   fmt.Sprintf("VCT (depth %d)", *vctDepth),
		Cfg:    engine.SearchConfig{MaxDepth: *vctDepth, TimeLimit: *limit},
		UseVCT: true,
	}

	sum, err := runBenchmark(benchConfig{
		Games:    *totalGames,
		Workers:  *workers,
		MaxMoves: *maxMoves,
		Seed:     *seed,
		A:        playerVCF,
		B:        playerVCT,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("benchmark")
	}

	fmt.Printf("\n=== Final Score ===\n")
	fmt.Printf("%s: %d\n", playerVCF.Name, sum.WinsA)
	fmt.Printf("%s: %d\n", playerVCT.Name, sum.WinsB)
	fmt.Printf("Draws: %d\n", sum.Draws)
	fmt.Printf("Searches: %d  VCF found: %d  VCT found: %d\n", sum.Searches, sum.VCFFound, sum.VCTFound)
	if sum.SearchTime > 0 {
		fmt.Printf("Nodes: %d  Time: %v  NPS: %d\n", sum.Nodes, sum.SearchTime.Round(time.Millisecond),
			int64(float64(sum.Nodes)/sum.SearchTime.Seconds()))
	}
}
