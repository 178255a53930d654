package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// GameService is the transport-independent API of the game. The REST server,
// the WebSocket command handler and the MCP tools all go through it.
type GameService interface {
	// CreateSession starts a game on the named config, or the default config
	// when opts.ConfigName is empty
	CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Move slides the board once. With reset set, a new game is started first.
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	// BulkMove plays up to engine.MaxBulkMoves slides and stops early when
	// the game ends or a direction is not recognised
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager stores sessions by ID. Lookups ignore case.
type SessionManager interface {
	Create(id string, config *engine.GameConfig, opts ...engine.Option) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig, opts ...engine.Option) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager supplies board variants
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session is one board and the engine that owns it
type Session struct {
	ID     string
	Engine *engine.GameEngine
	Config *engine.GameConfig
	// Seed is set when the session was created with a fixed seed
	Seed           *uint64
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
