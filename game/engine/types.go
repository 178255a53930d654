package engine

import "time"

// Direction is one of the four slide directions
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// AllDirections lists the directions in the order they are reported
var AllDirections = []Direction{Up, Down, Left, Right}

// Status represents the lifecycle of a single game
type Status string

const (
	InProgress Status = "in_progress"
	Won        Status = "won"
	Lost       Status = "lost"
)

// IsTerminal reports whether no further moves are accepted
func (s Status) IsTerminal() bool {
	return s == Won || s == Lost
}

const (
	// Validation constants
	MinBoardSize     = 2
	MaxBoardSize     = 16
	DefaultBoardSize = 4
	MinWinTile       = 4
	DefaultWinTile   = 2048
	MaxBulkMoves     = 50

	// Spawn rules
	StartingTiles   = 2
	SpawnLowValue   = 2
	SpawnHighValue  = 4
	SpawnHighChance = 0.1

	WebSocketBufferSize = 256
)

// Position is a (row, col) grid coordinate, row 0 at the top
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Tile is a value placed at a position
type Tile struct {
	Position
	Value int `json:"value"`
}

// Messages holds the text shown for game events
type Messages struct {
	Welcome  string `json:"welcome" yaml:"welcome"`
	Victory  string `json:"victory" yaml:"victory"`
	GameOver string `json:"game_over" yaml:"game_over"`
	NoChange string `json:"no_change" yaml:"no_change"`
}

// GameConfig describes a board variant, loaded from JSON or YAML
type GameConfig struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	BoardSize   int      `json:"board_size" yaml:"board_size"`
	WinTile     int      `json:"win_tile" yaml:"win_tile"`
	Messages    Messages `json:"messages" yaml:"messages"`
}

// GameState is a snapshot of a game. Engines hand out copies; mutating one has
// no effect on the engine it came from.
type GameState struct {
	GameID      string             `json:"game_id"`
	Grid        [][]int            `json:"grid"`
	Size        int                `json:"size"`
	Score       int                `json:"score"`
	BestScore   int                `json:"best_score"`
	Status      Status             `json:"status"`
	WinTile     int                `json:"win_tile"`
	MaxTile     int                `json:"max_tile"`
	MergedCells []Position         `json:"merged_cells"`
	LastSpawn   *Tile              `json:"last_spawn,omitempty"`
	Message     string             `json:"message"`
	ConfigName  string             `json:"config_name"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves of the current game. MoveHistory is
	// cumulative across resets.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Computed helper view (not required for core game logic)
	PossibleMoves []Direction `json:"possible_moves,omitempty"`
}

// MoveResult is what a single Move call reports back to the caller
type MoveResult struct {
	Moved       bool       `json:"moved"`
	Direction   Direction  `json:"direction"`
	MergedCells []Position `json:"merged_cells"`
	ScoreGained int        `json:"score_gained"`
	Spawned     *Tile      `json:"spawned,omitempty"`
	Status      Status     `json:"status"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Direction   Direction `json:"direction"`
	Moved       bool      `json:"moved"`
	ScoreGained int       `json:"score_gained"`
	Score       int       `json:"score"`
	Merges      int       `json:"merges"`
	Spawned     *Tile     `json:"spawned,omitempty"`
	Status      Status    `json:"status"`
	Timestamp   int64     `json:"timestamp"`
	MoveNumber  int       `json:"move_number"`
}

func newHistoryEntry(result MoveResult, score, moveNumber int) MoveHistoryEntry {
	return MoveHistoryEntry{
		Direction:   result.Direction,
		Moved:       result.Moved,
		ScoreGained: result.ScoreGained,
		Score:       score,
		Merges:      len(result.MergedCells),
		Spawned:     result.Spawned,
		Status:      result.Status,
		Timestamp:   time.Now().Unix(),
		MoveNumber:  moveNumber,
	}
}
