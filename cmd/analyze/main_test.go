package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func smallConfig(t *testing.T, size, winTile int) *engine.GameConfig {
	t.Helper()
	cfg := engine.NewSizedConfig(size)
	cfg.WinTile = winTile
	if err := engine.ValidateGameConfig(cfg); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func engineWithGrid(t *testing.T, grid [][]int) *engine.GameEngine {
	t.Helper()
	eng, err := engine.NewEngineWithSize(len(grid), engine.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.SetState(&engine.GameState{Grid: grid}); err != nil {
		t.Fatal(err)
	}
	return eng
}

func TestCornerPolicy(t *testing.T) {
	tests := []struct {
		name string
		grid [][]int
		want engine.Direction
	}{
		{"down first", [][]int{{2, 0}, {0, 0}}, engine.Down},
		{"left when down is blocked", [][]int{{0, 0}, {0, 2}}, engine.Left},
		{"right when down and left are blocked", [][]int{{0, 0}, {2, 0}}, engine.Right},
		{"up as the last resort", [][]int{{0, 0}, {2, 4}}, engine.Up},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (cornerPolicy{}).Choose(engineWithGrid(t, tt.grid)); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestGreedyPolicy(t *testing.T) {
	// Only a horizontal move merges the 8s
	eng := engineWithGrid(t, [][]int{
		{8, 8, 0, 0},
		{2, 0, 0, 0},
		{4, 0, 0, 0},
		{2, 0, 0, 0},
	})

	got := (greedyPolicy{}).Choose(eng)
	if got != engine.Left {
		t.Errorf("Expected left, got %s", got)
	}

	// The preview must not touch the real game
	if eng.GetScore() != 0 || eng.Snapshot().Grid[0][0] != 8 {
		t.Error("Greedy policy changed the game")
	}
}

func TestRandomPolicy(t *testing.T) {
	eng := engineWithGrid(t, [][]int{
		{0, 0},
		{0, 2},
	})

	policy, err := newPolicy("random", 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		dir := policy.Choose(eng)
		if dir != engine.Up && dir != engine.Left {
			t.Fatalf("Random policy chose an impossible move %s", dir)
		}
	}
}

func TestNewPolicy(t *testing.T) {
	for _, name := range []string{"corner", "greedy", "random", "GREEDY"} {
		if _, err := newPolicy(name, 1); err != nil {
			t.Errorf("newPolicy(%q) failed: %v", name, err)
		}
	}
	if _, err := newPolicy("clairvoyant", 1); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestSimulate(t *testing.T) {
	cfg := smallConfig(t, 3, 64)

	stats, err := simulate(cfg, Options{Games: 8, Seed: 10, Policy: "greedy", MaxMoves: 5000})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if stats.Games != 8 {
		t.Errorf("Expected 8 games, got %d", stats.Games)
	}
	if stats.Wins+stats.Losses+stats.Unfinished != stats.Games {
		t.Errorf("Outcomes do not add up: %+v", stats)
	}
	if stats.Unfinished != 0 {
		t.Errorf("Expected every game on a 3x3 board to finish, got %d unfinished", stats.Unfinished)
	}

	total := 0
	for tile, count := range stats.MaxTiles {
		if !engine.IsPowerOfTwo(tile) {
			t.Errorf("Max tile %d is not a power of two", tile)
		}
		total += count
	}
	if total != stats.Games {
		t.Errorf("Max tile counts sum to %d, want %d", total, stats.Games)
	}
	if stats.BestScore > stats.TotalScore {
		t.Errorf("Best score %d exceeds total %d", stats.BestScore, stats.TotalScore)
	}
}

func TestSimulate_Reproducible(t *testing.T) {
	cfg := smallConfig(t, 3, 128)
	opts := Options{Games: 5, Seed: 99, Policy: "random", MaxMoves: 5000}

	first, err := simulate(cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := simulate(cfg, opts)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Same seed produced different stats:\n%+v\n%+v", first, second)
	}
}

func TestSimulate_MaxMoves(t *testing.T) {
	stats, err := simulate(smallConfig(t, 4, 2048), Options{Games: 2, Seed: 1, Policy: "corner", MaxMoves: 3})
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalMoves != 6 || stats.Unfinished != 2 {
		t.Errorf("Expected two unfinished games of 3 moves, got %+v", stats)
	}
}

func TestSimulate_InvalidOptions(t *testing.T) {
	cfg := smallConfig(t, 3, 64)
	if _, err := simulate(cfg, Options{Games: 0, Policy: "greedy"}); err == nil {
		t.Error("Expected error for zero games")
	}
	if _, err := simulate(cfg, Options{Games: 1, Policy: "psychic"}); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	printReport(&out, &Stats{
		Config:     "tiny",
		Policy:     "greedy",
		Games:      4,
		Wins:       1,
		Losses:     3,
		TotalScore: 1000,
		BestScore:  520,
		TotalMoves: 400,
		MaxTiles:   map[int]int{64: 1, 128: 2, 256: 1},
	})

	report := out.String()
	for _, want := range []string{
		"=== tiny (greedy policy, 4 games) ===",
		"Win rate: 25.0% (1 won, 3 lost, 0 unfinished)",
		"Mean score: 250.0",
		"Best score: 520",
		"Mean moves: 100.0",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Expected %q in report, got:\n%s", want, report)
		}
	}

	// Largest tile first
	i256 := strings.Index(report, "   256")
	i128 := strings.Index(report, "   128")
	i64 := strings.Index(report, "    64")
	if i256 < 0 || i128 < 0 || i64 < 0 || !(i256 < i128 && i128 < i64) {
		t.Errorf("Expected tiles in descending order, got:\n%s", report)
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"tiny.json":  `{"name":"tiny","board_size":3,"win_tile":64}`,
		"quick.yaml": "name: quick\nboard_size: 3\nwin_tile: 32\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("every config", func(t *testing.T) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out

		err := app.Run(context.Background(), []string{"analyze", "--config-dir", dir, "--games", "3", "--policy", "corner"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		for _, want := range []string{"=== tiny (corner policy, 3 games) ===", "=== quick (corner policy, 3 games) ==="} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("Expected %q in output, got:\n%s", want, out.String())
			}
		}
	})

	t.Run("selected config", func(t *testing.T) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out

		err := app.Run(context.Background(), []string{"analyze", "--config-dir", dir, "--config", "quick", "--games", "2"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if strings.Contains(out.String(), "tiny") {
			t.Errorf("Expected only the quick config, got:\n%s", out.String())
		}
	})

	t.Run("unknown config", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		if err := app.Run(context.Background(), []string{"analyze", "--config-dir", dir, "--config", "huge"}); err == nil {
			t.Error("Expected error for unknown config")
		}
	})
}
