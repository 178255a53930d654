// Command analyze plays many seeded games with a simple policy and prints a
// human-readable summary: win rate, mean and best score, and how often each
// max tile was reached. It is handy for checking that a config is playable
// before shipping it.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// preferredOrder keeps the big tile in the bottom-left corner
var preferredOrder = []engine.Direction{engine.Down, engine.Left, engine.Right, engine.Up}

// Policy picks the next move for a game in progress
type Policy interface {
	Choose(eng *engine.GameEngine) engine.Direction
}

// cornerPolicy takes the first possible move in preferredOrder
type cornerPolicy struct{}

func (cornerPolicy) Choose(eng *engine.GameEngine) engine.Direction {
	for _, dir := range preferredOrder {
		if eng.CanMove(dir) {
			return dir
		}
	}
	return preferredOrder[0]
}

// greedyPolicy takes the move with the largest immediate gain, breaking ties
// with preferredOrder
type greedyPolicy struct{}

func (greedyPolicy) Choose(eng *engine.GameEngine) engine.Direction {
	state := eng.Snapshot()
	best, bestGain := engine.Direction(""), -1
	for _, dir := range preferredOrder {
		if !eng.CanMove(dir) {
			continue
		}
		if gain := previewGain(eng.GetConfig(), state, dir); gain > bestGain {
			best, bestGain = dir, gain
		}
	}
	if best == "" {
		return preferredOrder[0]
	}
	return best
}

// previewGain plays dir on a scratch engine and returns the score it earns
func previewGain(cfg *engine.GameConfig, state *engine.GameState, dir engine.Direction) int {
	scratch, err := engine.NewEngine(cfg, engine.WithSeed(0))
	if err != nil {
		return 0
	}
	if err := scratch.SetState(state); err != nil {
		return 0
	}
	result, err := scratch.Move(dir)
	if err != nil {
		return 0
	}
	return result.ScoreGained
}

// randomPolicy picks uniformly among the moves that change the board
type randomPolicy struct {
	rng *rand.Rand
}

func (p randomPolicy) Choose(eng *engine.GameEngine) engine.Direction {
	moves := eng.GetPossibleMoves()
	if len(moves) == 0 {
		return preferredOrder[0]
	}
	return moves[p.rng.IntN(len(moves))]
}

// newPolicy builds a policy by name. seed only affects the random policy.
func newPolicy(name string, seed uint64) (Policy, error) {
	switch strings.ToLower(name) {
	case "corner":
		return cornerPolicy{}, nil
	case "greedy":
		return greedyPolicy{}, nil
	case "random":
		return randomPolicy{rng: rand.New(rand.NewPCG(seed, seed+1))}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q (use corner, greedy or random)", name)
	}
}

// Stats summarizes a batch of simulated games
type Stats struct {
	Config     string
	Policy     string
	Games      int
	Wins       int
	Losses     int
	Unfinished int
	TotalScore int
	BestScore  int
	TotalMoves int
	MaxTiles   map[int]int
}

// WinRate is the share of games that reached the win tile
func (s *Stats) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// MeanScore is the average final score
func (s *Stats) MeanScore() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Games)
}

// Options controls a simulation run
type Options struct {
	Games    int
	Seed     uint64
	Policy   string
	MaxMoves int
}

// simulate plays opts.Games games. Game i uses seed opts.Seed+i, so a run is
// reproducible.
func simulate(cfg *engine.GameConfig, opts Options) (*Stats, error) {
	if opts.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if _, err := newPolicy(opts.Policy, 0); err != nil {
		return nil, err
	}

	stats := &Stats{
		Config:   cfg.Name,
		Policy:   strings.ToLower(opts.Policy),
		MaxTiles: make(map[int]int),
	}

	for i := 0; i < opts.Games; i++ {
		seed := opts.Seed + uint64(i)
		eng, err := engine.NewEngine(cfg, engine.WithSeed(seed))
		if err != nil {
			return nil, err
		}
		policy, _ := newPolicy(opts.Policy, seed)

		moves := 0
		for !eng.IsGameOver() && (opts.MaxMoves <= 0 || moves < opts.MaxMoves) {
			if _, err := eng.Move(policy.Choose(eng)); err != nil {
				return nil, err
			}
			moves++
		}

		state := eng.Snapshot()
		stats.Games++
		stats.TotalMoves += moves
		stats.TotalScore += state.Score
		stats.MaxTiles[state.MaxTile]++
		if state.Score > stats.BestScore {
			stats.BestScore = state.Score
		}
		switch state.Status {
		case engine.Won:
			stats.Wins++
		case engine.Lost:
			stats.Losses++
		default:
			stats.Unfinished++
		}

		log.Debug().Int("game", i+1).Uint64("seed", seed).Int("score", state.Score).Int("max_tile", state.MaxTile).Str("status", string(state.Status)).Msg("game finished")
	}

	return stats, nil
}

// printReport writes the summary with the max tile distribution, largest
// tile first
func printReport(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "\n=== %s (%s policy, %d games) ===\n", stats.Config, stats.Policy, stats.Games)
	fmt.Fprintf(w, "Win rate: %.1f%% (%d won, %d lost, %d unfinished)\n",
		stats.WinRate()*100, stats.Wins, stats.Losses, stats.Unfinished)
	fmt.Fprintf(w, "Mean score: %.1f\n", stats.MeanScore())
	fmt.Fprintf(w, "Best score: %d\n", stats.BestScore)
	fmt.Fprintf(w, "Mean moves: %.1f\n", float64(stats.TotalMoves)/float64(stats.Games))

	tiles := make([]int, 0, len(stats.MaxTiles))
	for tile := range stats.MaxTiles {
		tiles = append(tiles, tile)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiles)))

	fmt.Fprintln(w, "Max tile reached:")
	for _, tile := range tiles {
		count := stats.MaxTiles[tile]
		share := float64(count) / float64(stats.Games)
		fmt.Fprintf(w, "  %6d  %4d  %5.1f%%  %s\n", tile, count, share*100, strings.Repeat("█", int(share*40+0.5)))
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Simulate games on a board config and report how they went",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing game configurations", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringSliceFlag{Name: "config", Usage: "Config IDs to simulate (default: every config in the directory)"},
			&cli.IntFlag{Name: "games", Value: 100, Usage: "Games per config"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "Seed of the first game"},
			&cli.StringFlag{Name: "policy", Value: "greedy", Usage: "Move policy: corner, greedy or random"},
			&cli.IntFlag{Name: "max-moves", Value: 100000, Usage: "Stop a game after this many moves (0 for no limit)"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	ids := cmd.StringSlice("config")
	if len(ids) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			ids = append(ids, info.ConfigID)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no configs found in %s", cmd.String("config-dir"))
	}

	opts := Options{
		Games:    cmd.Int("games"),
		Seed:     cmd.Uint64("seed"),
		Policy:   cmd.String("policy"),
		MaxMoves: cmd.Int("max-moves"),
	}

	for _, id := range ids {
		cfg, err := manager.LoadConfig(id)
		if err != nil {
			return err
		}
		stats, err := simulate(cfg, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		printReport(cmd.Root().Writer, stats)
	}
	return nil
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("analyze failed")
	}
}
