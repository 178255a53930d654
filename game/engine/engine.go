package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidState     = errors.New("invalid game state")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	Snapshot() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	GetStatus() Status
	IsGameOver() bool
	IsVictory() bool
	GetScore() int
	GetBestScore() int
	GetSize() int

	// Board operations
	Move(direction Direction) (MoveResult, error)
	CanMove(direction Direction) bool
	GetPossibleMoves() []Direction
	SpawnTile() (Tile, bool)
	CheckStatus() Status

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// Option customizes a GameEngine at construction
type Option func(*GameEngine)

// WithRandomSource replaces the default random source used for spawning
func WithRandomSource(src RandomSource) Option {
	return func(e *GameEngine) {
		if src != nil {
			e.rng = src
		}
	}
}

// WithSeed is shorthand for WithRandomSource(NewSeededSource(seed))
func WithSeed(seed uint64) Option {
	return WithRandomSource(NewSeededSource(seed))
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers that share one engine must serialize access.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    RandomSource
}

// NewEngine creates a new game engine with the provided configuration and
// seeds the starting tiles
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{
		config: config,
		rng:    DefaultSource(),
	}
	for _, opt := range opts {
		opt(engine)
	}

	engine.state = newGameState(config, engine.rng)
	return engine, nil
}

// NewEngineWithSize creates an engine for an N x N board with the default rules
func NewEngineWithSize(size int, opts ...Option) (*GameEngine, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidBoardSize, size, MinBoardSize, MaxBoardSize)
	}
	return NewEngine(NewSizedConfig(size), opts...)
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	engine, err := NewEngine(DefaultGameConfig(), opts...)
	if err != nil {
		// The default config is always valid
		panic(err)
	}
	return engine
}

// newGameState builds a fresh board and places the starting tiles
func newGameState(config *GameConfig, rng RandomSource) *GameState {
	state := &GameState{
		GameID:       uuid.NewString(),
		Grid:         newGrid[int](config.BoardSize),
		Size:         config.BoardSize,
		Status:       InProgress,
		WinTile:      config.WinTile,
		MergedCells:  []Position{},
		Message:      config.welcomeMessage(),
		ConfigName:   config.Name,
		MoveHistory:  []MoveHistoryEntry{},
		CurrentMoves: []MoveHistoryEntry{},
	}

	for i := 0; i < StartingTiles; i++ {
		state.spawnTile(rng)
	}
	state.MaxTile = MaxTile(state.Grid)
	return state
}

// Snapshot returns a deep copy of the current game state
func (e *GameEngine) Snapshot() *GameState {
	snap := *e.state
	snap.Grid = cloneGrid(e.state.Grid)
	snap.MergedCells = append([]Position{}, e.state.MergedCells...)
	snap.MoveHistory = append([]MoveHistoryEntry{}, e.state.MoveHistory...)
	snap.CurrentMoves = append([]MoveHistoryEntry{}, e.state.CurrentMoves...)
	if e.state.LastSpawn != nil {
		spawn := *e.state.LastSpawn
		snap.LastSpawn = &spawn
	}
	snap.PossibleMoves = e.GetPossibleMoves()
	return &snap
}

// SetState replaces the game state after checking it fits the configured
// board. The grid is copied.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("%w: state cannot be nil", ErrInvalidState)
	}

	size := e.config.BoardSize
	if len(state.Grid) != size {
		return fmt.Errorf("%w: grid has %d rows, board size is %d", ErrInvalidState, len(state.Grid), size)
	}
	for r, row := range state.Grid {
		if len(row) != size {
			return fmt.Errorf("%w: row %d has %d cells, board size is %d", ErrInvalidState, r, len(row), size)
		}
		for c, v := range row {
			if v != 0 && !IsPowerOfTwo(v) {
				return fmt.Errorf("%w: cell (%d,%d) holds %d, not a power of two", ErrInvalidState, r, c, v)
			}
		}
	}
	if state.Score < 0 {
		return fmt.Errorf("%w: negative score %d", ErrInvalidState, state.Score)
	}

	next := *state
	next.Grid = cloneGrid(state.Grid)
	next.Size = size
	next.WinTile = e.config.WinTile
	next.ConfigName = e.config.Name
	next.MaxTile = MaxTile(next.Grid)
	next.PossibleMoves = nil
	if next.GameID == "" {
		next.GameID = uuid.NewString()
	}
	if next.MergedCells == nil {
		next.MergedCells = []Position{}
	}
	if next.MoveHistory == nil {
		next.MoveHistory = []MoveHistoryEntry{}
	}
	if next.CurrentMoves == nil {
		next.CurrentMoves = []MoveHistoryEntry{}
	}
	if next.BestScore < next.Score {
		next.BestScore = next.Score
	}

	switch next.Status {
	case InProgress, Won, Lost:
	case "":
		next.Status = InProgress
		next.checkStatus(e.config)
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidState, state.Status)
	}

	e.state = &next
	return nil
}

// Reset starts a new game on the same configuration
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and best score across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves
	prevBest := e.state.BestScore

	e.state = newGameState(e.config, e.rng)

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.BestScore = prevBest

	return e.Snapshot()
}

// GetStatus returns the current game status
func (e *GameEngine) GetStatus() Status {
	return e.state.Status
}

// IsGameOver returns whether the game has reached a terminal status
func (e *GameEngine) IsGameOver() bool {
	return e.state.Status.IsTerminal()
}

// IsVictory returns whether the win tile was reached
func (e *GameEngine) IsVictory() bool {
	return e.state.Status == Won
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetBestScore returns the best score seen by this engine across resets
func (e *GameEngine) GetBestScore() int {
	return e.state.BestScore
}

// GetSize returns the board dimension
func (e *GameEngine) GetSize() int {
	return e.state.Size
}

// Move slides the board in the given direction. An unknown direction is
// rejected with ErrInvalidDirection and leaves the state untouched.
func (e *GameEngine) Move(direction Direction) (MoveResult, error) {
	if !direction.Valid() {
		return MoveResult{}, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	result := e.state.applyMove(direction, e.config, e.rng)
	e.state.addMoveToHistory(result)

	return result, nil
}

// CanMove reports whether sliding in the given direction would change the board
func (e *GameEngine) CanMove(direction Direction) bool {
	if e.state.Status.IsTerminal() || !direction.Valid() {
		return false
	}
	return slideGrid(e.state.Grid, direction).moved
}

// GetPossibleMoves returns every direction that would change the board
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range AllDirections {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// SpawnTile places one random tile. It reports false, without error, when the
// board is full.
func (e *GameEngine) SpawnTile() (Tile, bool) {
	tile, ok := e.state.spawnTile(e.rng)
	if ok {
		e.state.LastSpawn = &tile
		e.state.MaxTile = MaxTile(e.state.Grid)
	}
	return tile, ok
}

// CheckStatus recomputes the game status from the board and returns it
func (e *GameEngine) CheckStatus() Status {
	return e.state.checkStatus(e.config)
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and starts a fresh game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.state = newGameState(config, e.rng)
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return append([]MoveHistoryEntry{}, e.state.MoveHistory...)
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	last := e.state.MoveHistory[len(e.state.MoveHistory)-1]
	return &last
}

// BulkMove executes moves in sequence and stops once the game is over or a
// direction is rejected
func (e *GameEngine) BulkMove(moves []Direction) ([]MoveResult, error) {
	results := make([]MoveResult, 0, len(moves))

	for _, direction := range moves {
		if e.IsGameOver() {
			break
		}

		result, err := e.Move(direction)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}
