package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gomoku/internal/analysis"
	"gomoku/internal/engine"
	"gomoku/internal/gomoku"
)

func main() {
	posStr := flag.String("pos", "", "encoded position (rows joined by '/', e.g. \"15/15/.../7x7 o\"); empty board if not set")
	gridPath := flag.String("grid", "", "file with 15 rows of '.', 'x', 'o' (overrides -pos)")
	depth := flag.Int("depth", 0, "max search depth in plies (0 = engine default)")
	limit := flag.Duration("time", 5*time.Second, "time limit per search (0 = none)")
	asJSON := flag.Bool("json", false, "print the full analysis report as JSON")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	pos, err := loadPosition(*posStr, *gridPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load-position")
	}

	a := analysis.NewAnalyzer(engine.NewEngine(), engine.SearchConfig{MaxDepth: *depth, TimeLimit: *limit})
	rep, err := a.Analyze(pos)
	if err != nil {
		log.Fatal().Err(err).Msg("analyze")
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatal().Err(err).Msg("encode")
		}
		return
	}

	out := termenv.NewOutput(os.Stdout)
	var marks []gomoku.Coord
	for _, p := range []gomoku.Stone{gomoku.Black, gomoku.White} {
		if mv, ok := rep.Player(p).VCT.FirstMove(); ok {
			marks = append(marks, mv)
		}
	}
	fmt.Fprintln(out, renderBoard(out, &pos.Board, marks))
	fmt.Fprintf(out, "position: %s\nstatus:   %s   to move: %v   id: %s\n\n", rep.Position, rep.Status, rep.ToMove, rep.ID)
	for _, p := range []gomoku.Stone{gomoku.Black, gomoku.White} {
		printPlayer(out, rep.Player(p))
	}
}

func loadPosition(enc, gridPath string) (*gomoku.Position, error) {
	if gridPath != "" {
		raw, err := os.ReadFile(gridPath)
		if err != nil {
			return nil, err
		}
		var rows []string
		for _, ln := range strings.Split(string(raw), "\n") {
			if ln = strings.TrimSpace(ln); ln != "" {
				rows = append(rows, strings.ReplaceAll(ln, " ", ""))
			}
		}
		b, err := gomoku.ParseGrid(rows)
		if err != nil {
			return nil, err
		}
		pos := &gomoku.Position{Board: *b, SideToMove: gomoku.Black}
		// 子数相等轮黑走，否则轮白
		if b.Count(gomoku.Black) > b.Count(gomoku.White) {
			pos.SideToMove = gomoku.White
		}
		pos.EnsureHash()
		return pos, nil
	}
	if enc == "" {
		return gomoku.NewPosition(), nil
	}
	return gomoku.DecodePosition(enc)
}

func printPlayer(out *termenv.Output, pr *analysis.PlayerReport) {
	title := out.String(strings.ToUpper(pr.Player.String())).Bold()
	fmt.Fprintf(out, "%s  score %d  %v\n", title, pr.Threats.Score, pr.Counts)
	for _, tp := range pr.Threats.Threats {
		fmt.Fprintf(out, "  %-12v %-10v %v\n", tp.Type, tp.Direction, tp.Stones)
	}
	for _, dt := range pr.Threats.DoubleThreats {
		warn := out.String(dt.Type.String()).Foreground(out.Color("3"))
		fmt.Fprintf(out, "  %s at %v (%s)\n", warn, dt.Key, dt.Type.Severity())
	}
	fmt.Fprintf(out, "  VCF: %s\n", describe(pr.VCF))
	fmt.Fprintf(out, "  VCT: %s\n", describe(pr.VCT))
	d := pr.Defense
	if d.OpponentHasVCT {
		switch {
		case d.CanBlock:
			fmt.Fprintf(out, "  opponent has VCT, defenses: %v\n", d.DefensiveMoves)
		case !d.Exhaustive:
			fmt.Fprintf(out, "  opponent has VCT, defense check timed out\n")
		default:
			fmt.Fprintf(out, "  %s\n", out.String("opponent has an unstoppable VCT").Foreground(out.Color("1")))
		}
	}
	fmt.Fprintln(out)
}

func describe(r engine.SearchResult) string {
	var sb strings.Builder
	if r.Found {
		fmt.Fprintf(&sb, "win in %d", r.Depth)
		if r.IsVCF {
			sb.WriteString(" (fours only)")
		}
		for _, st := range r.Sequence {
			fmt.Fprintf(&sb, " %v", st.Coord)
		}
	} else {
		sb.WriteString("none")
		if !r.Exhaustive {
			sb.WriteString(" (timed out)")
		}
	}
	fmt.Fprintf(&sb, "  [max %d, %d nodes, %v]", r.MaxDepth, r.Nodes, r.TimeUsed.Round(time.Microsecond))
	return sb.String()
}
