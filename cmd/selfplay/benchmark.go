package main

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gomoku/internal/engine"
	"gomoku/internal/gomoku"
	"gomoku/internal/selfplay"
)

type benchConfig struct {
	Games    int
	Workers  int
	MaxMoves int
	Seed     int64
	A, B     selfplay.PlayerConfig
}

type summary struct {
	WinsA, WinsB, Draws int
	Searches            int
	VCFFound, VCTFound  int
	Nodes               int64
	SearchTime          time.Duration
}

// runBenchmark 并行下 cfg.Games 盘，A/B 轮流执黑。
// Engine 不能共享：每个 goroutine 自己建一个。
func runBenchmark(cfg benchConfig) (summary, error) {
	var (
		mu  sync.Mutex
		sum summary
	)
	g := errgroup.Group{}
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i := 0; i < cfg.Games; i++ {
		i := i
		g.Go(func() error {
			black, white := cfg.A, cfg.B
			if i%2 == 1 {
				black, white = cfg.B, cfg.A
			}
			e := engine.NewEngine()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
			res, err := selfplay.Play(e, rng, black, white, cfg.MaxMoves, nil)
			if err != nil {
				return err
			}
			log.Info().
				Int("game", i+1).
				Str("black", black.Name).
				Str("white", white.Name).
				Str("winner", res.Winner.String()).
				Int("moves", len(res.Moves)).
				Msg("game-done")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case res.Winner == gomoku.Empty:
				sum.Draws++
			case (res.Winner == gomoku.Black) == (i%2 == 0):
				sum.WinsA++
			default:
				sum.WinsB++
			}
			sum.Searches += res.Searches
			sum.VCFFound += res.VCFFound
			sum.VCTFound += res.VCTFound
			sum.Nodes += res.Nodes
			sum.SearchTime += res.TimeSpent
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary{}, err
	}
	return sum, nil
}
