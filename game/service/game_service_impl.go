package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/slide2048/game/engine"
)

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
	return strings.ToLower(configName)
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	state := sess.Engine.GetState()
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Seed:           sess.Seed,
		Status:         state.Status(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      &state,
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session. A zero seed draws a random one.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("config '%s' (available: %s): %w", configName, strings.Join(configIDs, ", "), err)
			}
			return nil, fmt.Errorf("config '%s': %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess, strings.TrimSuffix(configName, ".json")), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}

	sortSessionInfos(result)
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	return nil
}

// Move executes a single move for a session. An unknown direction is a
// no-op reported with the rules' cant-move message.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, restart bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}

	if restart {
		sess.Engine.Restart()
		events = append(events, restartEvent(sess.Config))
	}

	dir := engine.ParseDirection(direction)
	outcome := sess.Engine.Apply(dir)
	state := sess.Engine.GetState()

	events = append(events, outcomeEvents(outcome, state, sess.Config)...)

	return &MoveResult{
		Moved:         outcome.Moved,
		Direction:     string(dir),
		ScoreDelta:    outcome.ScoreDelta,
		GameState:     &state,
		Status:        state.Status(),
		Message:       sess.Config.Message(state, outcome.Moved),
		Events:        events,
		Spawned:       outcome.Spawned,
		PossibleMoves: sess.Engine.GetPossibleMoves(),
	}, nil
}

// BulkMove executes up to engine.MaxBulkMoves moves in sequence under one
// lock, stopping once the game is won or lost
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, restart bool) (*BulkMoveResult, error) {
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: moves cannot be empty", ErrInvalidRequest)
	}

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
	}

	if restart {
		sess.Engine.Restart()
		result.Events = append(result.Events, restartEvent(sess.Config))
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	result.StartScore = sess.Engine.GetScore()
	anyMoved := false

	for i, move := range moves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !sess.Engine.GetState().Active() {
			break
		}

		dir := engine.ParseDirection(move)
		outcome := sess.Engine.Apply(dir)
		state := sess.Engine.GetState()

		result.MovesAttempted++
		if outcome.Moved {
			result.MovesExecuted++
			anyMoved = true
		}

		result.Steps = append(result.Steps, StepInfo{
			Idx:        i + 1,
			Dir:        string(dir),
			Moved:      outcome.Moved,
			ScoreDelta: outcome.ScoreDelta,
			ScoreAfter: state.Score,
			Spawned:    outcome.Spawned,
			Won:        outcome.Won,
			Over:       outcome.Over,
		})
		result.Events = append(result.Events, outcomeEvents(outcome, state, sess.Config)...)

		switch {
		case outcome.Won:
			result.StopReasonCode = StopGameWon
			result.StoppedReason = fmt.Sprintf("reached %d on move %d", sess.Config.WinThreshold, i+1)
			result.StoppedOnMove = i + 1
		case outcome.Over:
			result.StopReasonCode = StopGameOver
			result.StoppedReason = fmt.Sprintf("no moves left after move %d", i+1)
			result.StoppedOnMove = i + 1
		}
	}

	state := sess.Engine.GetState()
	result.GameState = &state
	result.Status = state.Status()
	result.EndScore = state.Score
	result.ScoreDelta = result.EndScore - result.StartScore
	result.Message = sess.Config.Message(state, anyMoved)
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	// Game was already finished before any move ran
	if result.StopReasonCode == "" && !state.Active() {
		if state.GameWon {
			result.StopReasonCode = StopGameWon
		} else {
			result.StopReasonCode = StopGameOver
		}
		result.StoppedReason = "game already finished"
	}

	return result, nil
}

// Restart replaces the session's game with a freshly started one
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Restart()
	return &state, nil
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
	state := sess.Engine.GetState()
	return &state, nil
}

// Hint reports the directions that would move the board and the one with
// the largest immediate merge gain
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.GetState()

	result := &HintResult{
		PossibleMoves: sess.Engine.GetPossibleMoves(),
		Status:        state.Status(),
	}
	if result.PossibleMoves == nil {
		result.PossibleMoves = []engine.Direction{}
	}

	result.BestGain = -1
	for _, dir := range result.PossibleMoves {
		mr := engine.Move(state.Board, dir)
		if mr.ScoreDelta > result.BestGain {
			result.Best = dir
			result.BestGain = mr.ScoreDelta
		}
	}
	if result.BestGain < 0 {
		result.BestGain = 0
	}

	return result, nil
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
	if strings.TrimSpace(configName) == "" {
		return fmt.Errorf("%w: config name is required", ErrInvalidRequest)
	}
	if config == nil {
		return fmt.Errorf("%w: config is required", ErrInvalidRequest)
	}
	return s.configs.SaveConfig(configName, config)
}

func restartEvent(config *engine.GameConfig) GameEvent {
	return GameEvent{
		Type:      "restart",
		Message:   config.Messages.Restart,
		Timestamp: time.Now(),
	}
}

// outcomeEvents generates events from a move outcome
func outcomeEvents(outcome engine.Outcome, state engine.GameState, config *engine.GameConfig) []GameEvent {
	now := time.Now()

	if !outcome.Moved {
		msg := config.Messages.CantMove
		if !outcome.Direction.Valid() {
			msg = fmt.Sprintf("Unknown direction %q", string(outcome.Direction))
		}
		return []GameEvent{{Type: "blocked", Message: msg, Timestamp: now}}
	}

	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s (+%d)", outcome.Direction, outcome.ScoreDelta),
		Timestamp: now,
	}}

	if outcome.Spawned != nil {
		events = append(events, GameEvent{
			Type:      "spawn",
			Message:   fmt.Sprintf("New %d at (%d,%d)", outcome.Spawned.Value, outcome.Spawned.Row, outcome.Spawned.Col),
			Timestamp: now,
			Tile:      outcome.Spawned,
		})
	}

	switch {
	case outcome.Won:
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   config.Message(state, true),
			Timestamp: now,
		})
	case outcome.Over:
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   config.Message(state, true),
			Timestamp: now,
		})
	}

	return events
}

func sortSessionInfos(infos []*SessionInfo) {
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.Before(infos[j].CreatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
}
