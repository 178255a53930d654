// Package engine implements the rules of the 2048 sliding tile game.
//
// The engine package covers:
//   - Sliding and merging tiles on an N x N board
//   - Random tile spawning through an injectable RandomSource
//   - Win and loss detection
//   - Move history and game state snapshots
//   - Configuration loading and validation (JSON or YAML)
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is a snapshot of a game, and
// GameConfig describes a board variant (size, win tile, messages).
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, engine.WithSeed(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameEngine.Move(engine.Left)
//	state := gameEngine.Snapshot()
//
// Game Rules:
//
// Every move slides all tiles as far as they go in one direction. Two equal
// tiles that meet merge into one tile of twice the value, and the merged value
// is added to the score. A tile produced by a merge does not merge again in
// the same move. When a move changes the board a new 2 (or occasionally a 4)
// appears on a random empty cell. The game is won once a tile reaches the win
// tile, and lost when the board is full and no two neighbours are equal.
package engine
