package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// ErrConfigUnavailable is returned when a session is requested for a config
// the config manager cannot load
var ErrConfigUnavailable = errors.New("configuration unavailable")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.Snapshot(),
		GameConfig:     sess.Config,
		Seed:           sess.Seed,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if opts.ConfigName != "" {
		config, err = s.configs.LoadConfig(opts.ConfigName)
		if err != nil {
			// Provide helpful error message with available options
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("%w: config '%s' (available: %s): %v",
					ErrConfigUnavailable, opts.ConfigName, strings.Join(configIDs, ", "), err)
			}
			return nil, fmt.Errorf("%w: config '%s': %v", ErrConfigUnavailable, opts.ConfigName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	var engineOpts []engine.Option
	if opts.Seed != nil {
		engineOpts = append(engineOpts, engine.WithSeed(*opts.Seed))
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.Seed = opts.Seed

	configID := opts.ConfigName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Info().
		Str("session", session.ID).
		Str("config", configID).
		Bool("seeded", opts.Seed != nil).
		Msg("session created")

	return s.sessionInfo(session, configID), nil
}

// GetSession retrieves session information. It touches the access time, so
// it takes the write lock.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session, s.getConfigID(session.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}

	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Move executes a single move for a session. The direction is parsed before
// any reset so a bad request never changes the game.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	scoreBefore := sess.Engine.GetScore()
	moveResult, err := sess.Engine.Move(dir)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Snapshot()
	events = append(events, moveEvents(moveResult, state)...)

	log.Debug().
		Str("session", sessionID).
		Str("dir", string(dir)).
		Bool("moved", moveResult.Moved).
		Int("gained", moveResult.ScoreGained).
		Int("score", state.Score).
		Str("status", string(state.Status)).
		Msg("[MOVE]")

	return &MoveResult{
		Success:   moveResult.Moved,
		GameState: state,
		Message:   state.Message,
		Events:    events,
		Step:      newStepInfo(1, moveResult, scoreBefore, state),
	}, nil
}

// BulkMove executes multiple moves in sequence. It stops at the first
// unrecognised direction and when the game ends; moves that change nothing
// are executed and reported.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	start := sess.Engine.Snapshot()
	result.StartScore = start.Score
	result.StartMaxTile = start.MaxTile

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			result.StopReasonCode = stopCode(sess.Engine.GetStatus())
			result.StoppedReason = fmt.Sprintf("game ended before move %d", i+1)
			result.StoppedOnMove = i + 1
			break
		}

		dir, err := engine.ParseDirection(move)
		if err != nil {
			result.Success = false
			result.StopReasonCode = StopInvalidDirection
			result.StoppedReason = fmt.Sprintf("move %d: %v", i+1, err)
			result.StoppedOnMove = i + 1
			break
		}

		scoreBefore := sess.Engine.GetScore()
		moveResult, err := sess.Engine.Move(dir)
		if err != nil {
			return nil, err
		}
		result.MovesExecuted++

		state := sess.Engine.Snapshot()
		result.Events = append(result.Events, moveEvents(moveResult, state)...)
		result.Steps = append(result.Steps, *newStepInfo(i+1, moveResult, scoreBefore, state))
	}

	end := sess.Engine.Snapshot()
	result.GameState = end
	result.EndScore = end.Score
	result.EndMaxTile = end.MaxTile
	result.ScoreDelta = end.Score - start.Score
	result.GameOver = end.Status.IsTerminal()
	result.Status = end.Status
	result.Message = end.Message

	// The last executed move may have ended the game
	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = stopCode(end.Status)
	}

	for _, dir := range end.PossibleMoves {
		result.PossibleMoves = append(result.PossibleMoves, string(dir))
	}

	log.Debug().
		Str("session", sessionID).
		Int("executed", result.MovesExecuted).
		Int("requested", result.RequestedMoves).
		Str("stop", result.StopReasonCode).
		Int("score_delta", result.ScoreDelta).
		Msg("[BULK]")

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Snapshot(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset to a new board",
		Timestamp: time.Now(),
	}
}

// moveEvents describes one engine move as events. state is the snapshot
// taken right after the move.
func moveEvents(result engine.MoveResult, state *engine.GameState) []GameEvent {
	now := time.Now()

	if !result.Moved {
		message := state.Message
		if state.Status.IsTerminal() {
			message = fmt.Sprintf("Game is over (%s); no move applied", state.Status)
		}
		return []GameEvent{{
			Type:      EventNoChange,
			Message:   message,
			Timestamp: now,
		}}
	}

	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Moved %s (+%d)", result.Direction, result.ScoreGained),
		Timestamp: now,
	}}

	for _, pos := range result.MergedCells {
		value := state.Grid[pos.Row][pos.Col]
		// A spawn never lands on a merged cell, so the value is the merge result
		events = append(events, GameEvent{
			Type:      EventMerge,
			Message:   fmt.Sprintf("Merged into %d at (%d,%d)", value, pos.Row, pos.Col),
			Timestamp: now,
			Position:  &engine.Position{Row: pos.Row, Col: pos.Col},
			Value:     value,
		})
	}

	if result.Spawned != nil {
		events = append(events, GameEvent{
			Type:      EventSpawn,
			Message:   fmt.Sprintf("New %d at (%d,%d)", result.Spawned.Value, result.Spawned.Row, result.Spawned.Col),
			Timestamp: now,
			Position:  &engine.Position{Row: result.Spawned.Row, Col: result.Spawned.Col},
			Value:     result.Spawned.Value,
		})
	}

	switch result.Status {
	case engine.Won:
		events = append(events, GameEvent{
			Type:      EventVictory,
			Message:   state.Message,
			Timestamp: now,
			Value:     state.MaxTile,
		})
	case engine.Lost:
		events = append(events, GameEvent{
			Type:      EventGameOver,
			Message:   state.Message,
			Timestamp: now,
		})
	}

	return events
}

func newStepInfo(idx int, result engine.MoveResult, scoreBefore int, state *engine.GameState) *StepInfo {
	return &StepInfo{
		Idx:         idx,
		Dir:         string(result.Direction),
		Moved:       result.Moved,
		ScoreBefore: scoreBefore,
		ScoreAfter:  state.Score,
		Merges:      len(result.MergedCells),
		Spawned:     result.Spawned,
		MaxTile:     state.MaxTile,
		Status:      state.Status,
	}
}

func stopCode(status engine.Status) string {
	if status == engine.Won {
		return StopVictory
	}
	return StopGameOver
}
