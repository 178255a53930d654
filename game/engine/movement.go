package engine

import "fmt"

// Valid reports whether d is one of the four known directions
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// applyMove slides the grid, and when anything moved, records the merges,
// spawns a tile and re-evaluates the status. A move that changes nothing
// leaves grid, score and status as they were. The merged cells are cleared
// on every call.
func (gs *GameState) applyMove(direction Direction, config *GameConfig, rng RandomSource) MoveResult {
	result := MoveResult{
		Direction:   direction,
		MergedCells: []Position{},
		Status:      gs.Status,
	}
	gs.MergedCells = []Position{}

	if gs.Status.IsTerminal() {
		return result
	}

	slid := slideGrid(gs.Grid, direction)
	if !slid.moved {
		gs.Message = config.Messages.NoChange
		return result
	}

	gs.Grid = slid.grid
	gs.Score += slid.gained
	if gs.Score > gs.BestScore {
		gs.BestScore = gs.Score
	}

	gs.MergedCells = append(gs.MergedCells, slid.merged...)

	gs.LastSpawn = nil
	if tile, ok := gs.spawnTile(rng); ok {
		gs.LastSpawn = &tile
		spawned := tile
		result.Spawned = &spawned
	}

	gs.MaxTile = MaxTile(gs.Grid)
	gs.Message = ""
	if slid.gained > 0 {
		gs.Message = fmt.Sprintf("+%d", slid.gained)
	}
	gs.checkStatus(config)

	result.Moved = true
	result.ScoreGained = slid.gained
	result.MergedCells = append(result.MergedCells, slid.merged...)
	result.Status = gs.Status
	return result
}

// spawnTile puts a 2 (or, less often, a 4) on a random empty cell
func (gs *GameState) spawnTile(rng RandomSource) (Tile, bool) {
	cells := emptyCells(gs.Grid)
	if len(cells) == 0 {
		return Tile{}, false
	}

	pos := cells[rng.IntN(len(cells))]
	value := SpawnLowValue
	if rng.Float64() < SpawnHighChance {
		value = SpawnHighValue
	}

	gs.Grid[pos.Row][pos.Col] = value
	return Tile{Position: pos, Value: value}, true
}

// checkStatus marks the game won when the win tile is on the board, lost when
// the board is full with no equal neighbours anywhere, and in progress otherwise.
// Tiles only double, so the first tile to reach WinTile equals it; >= also
// keeps a board installed through SetState with a larger tile won.
func (gs *GameState) checkStatus(config *GameConfig) Status {
	switch {
	case MaxTile(gs.Grid) >= config.WinTile:
		gs.Status = Won
		gs.Message = config.Messages.Victory
	case CountEmptyCells(gs.Grid) == 0 && !hasAdjacentPair(gs.Grid):
		gs.Status = Lost
		gs.Message = config.Messages.GameOver
	default:
		gs.Status = InProgress
	}
	return gs.Status
}

// addMoveToHistory adds a move to the game's move history
func (gs *GameState) addMoveToHistory(result MoveResult) {
	entry := newHistoryEntry(result, gs.Score, gs.TotalMoves+1)

	// Append to cumulative history (never cleared by reset) and increment total
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	// Append to current segment history and increment its counter
	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}
