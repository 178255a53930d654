package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Action is what a key press asks the game to do
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionReset
	ActionQuit
)

// runeDirections maps WASD and vim keys to slides
var runeDirections = map[rune]engine.Direction{
	'w': engine.Up,
	'k': engine.Up,
	's': engine.Down,
	'j': engine.Down,
	'a': engine.Left,
	'h': engine.Left,
	'd': engine.Right,
	'l': engine.Right,
}

// KeyAction translates a key event. The direction is only set for ActionMove.
func KeyAction(ev *tcell.EventKey) (Action, engine.Direction) {
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionMove, engine.Up
	case tcell.KeyDown:
		return ActionMove, engine.Down
	case tcell.KeyLeft:
		return ActionMove, engine.Left
	case tcell.KeyRight:
		return ActionMove, engine.Right
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, ""
	case tcell.KeyRune:
		r := unicode.ToLower(ev.Rune())
		if dir, ok := runeDirections[r]; ok {
			return ActionMove, dir
		}
		switch r {
		case 'r':
			return ActionReset, ""
		case 'q':
			return ActionQuit, ""
		}
	}
	return ActionNone, ""
}
