// Package terminal is a local single-player 2048 front-end built on tcell.
//
// It drives a game engine directly, without the server:
//   - Arrow keys, WASD and hjkl slide the tiles
//   - r starts a new game, keeping the best score
//   - q, Esc or Ctrl-C quit
//
// Tiles that merged in the last move are drawn bold and underlined.
package terminal
