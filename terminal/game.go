package terminal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

const (
	boardTop  = 3
	boardLeft = 2
	helpText  = "arrows/wasd/hjkl move   r reset   q quit"
)

var (
	textStyle  = tcell.StyleDefault
	titleStyle = tcell.StyleDefault.Bold(true)
	emptyStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	wonStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	lostStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// tileColors cycles through backgrounds as tiles grow
var tileColors = []tcell.Color{
	tcell.ColorNavy,
	tcell.ColorTeal,
	tcell.ColorGreen,
	tcell.ColorOlive,
	tcell.ColorMaroon,
	tcell.ColorPurple,
	tcell.ColorDarkOrange,
	tcell.ColorRed,
}

// tileStyle picks the style of a non-empty tile from its exponent
func tileStyle(value int) tcell.Style {
	exp := 0
	for v := value; v > 1; v >>= 1 {
		exp++
	}
	bg := tileColors[(exp-1+len(tileColors))%len(tileColors)]
	return tcell.StyleDefault.Background(bg).Foreground(tcell.ColorWhite)
}

// highlight marks a tile produced by a merge in the last move
func highlight(style tcell.Style) tcell.Style {
	return style.Bold(true).Underline(true)
}

// Game is a local single-player front-end that drives an engine directly
type Game struct {
	screen tcell.Screen
	engine *engine.GameEngine
	merged map[engine.Position]bool
}

// New creates a terminal game on an initialized screen
func New(screen tcell.Screen, eng *engine.GameEngine) *Game {
	return &Game{
		screen: screen,
		engine: eng,
		merged: map[engine.Position]bool{},
	}
}

// Play opens the terminal, runs the game until the player quits and restores
// the terminal
func Play(ctx context.Context, eng *engine.GameEngine) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	return New(screen, eng).Run(ctx)
}

// Run processes key events until the player quits or ctx is cancelled
func (g *Game) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	g.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if g.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				g.screen.Sync()
			}
			g.Draw()
		}
	}
}

// HandleKey applies one key press and reports whether the player quit
func (g *Game) HandleKey(ev *tcell.EventKey) bool {
	action, dir := KeyAction(ev)
	switch action {
	case ActionQuit:
		return true
	case ActionReset:
		g.engine.Reset()
		g.merged = map[engine.Position]bool{}
	case ActionMove:
		result, err := g.engine.Move(dir)
		if err != nil {
			log.Debug().Err(err).Msg("move rejected")
			return false
		}
		g.merged = make(map[engine.Position]bool, len(result.MergedCells))
		for _, p := range result.MergedCells {
			g.merged[p] = true
		}
	}
	return false
}

// cellWidth fits the widest value the board can show plus padding
func cellWidth(state *engine.GameState) int {
	widest := state.WinTile
	if state.MaxTile > widest {
		widest = state.MaxTile
	}
	return len(strconv.Itoa(widest)) + 2
}

// cellOrigin returns the screen position of the left edge of a cell
func cellOrigin(row, col, width int) (int, int) {
	return boardLeft + col*(width+1), boardTop + row
}

// Draw renders the current game state
func (g *Game) Draw() {
	state := g.engine.Snapshot()
	g.screen.Clear()

	drawText(g.screen, 0, 0, titleStyle, fmt.Sprintf("2048 - %s", state.ConfigName))
	drawText(g.screen, 0, 1, textStyle, fmt.Sprintf("Score: %d   Best: %d   Goal: %d", state.Score, state.BestScore, state.WinTile))

	width := cellWidth(state)
	for r, row := range state.Grid {
		for c, v := range row {
			x, y := cellOrigin(r, c, width)
			label, style := "·", emptyStyle
			if v != 0 {
				label, style = strconv.Itoa(v), tileStyle(v)
				if g.merged[engine.Position{Row: r, Col: c}] {
					style = highlight(style)
				}
			}
			pad := (width - len([]rune(label))) / 2
			drawText(g.screen, x, y, style, fmt.Sprintf("%*s%s%*s", pad, "", label, width-pad-len([]rune(label)), ""))
		}
	}

	line := boardTop + len(state.Grid) + 1
	switch state.Status {
	case engine.Won:
		drawText(g.screen, 0, line, wonStyle, state.Message+" Press r to play again.")
	case engine.Lost:
		drawText(g.screen, 0, line, lostStyle, state.Message+" Press r to play again.")
	default:
		drawText(g.screen, 0, line, textStyle, state.Message)
	}
	drawText(g.screen, 0, line+1, emptyStyle, helpText)

	g.screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
