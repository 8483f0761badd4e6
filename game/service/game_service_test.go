package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/slide2048/game/engine"
	"github.com/wricardo/slide2048/game/service"
)

var (
	errSessionNotFound = errors.New("session not found")
	errConfigNotFound  = errors.New("config not found")
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	mu       sync.Mutex
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig, seed int64) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("t%03d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	if seed == 0 {
		seed = 1
	}
	eng, err := engine.NewEngine(config, engine.NewSource(seed))
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		Seed:           seed,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, errSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig, seed int64) (*service.Session, error) {
	if session, err := m.Get(id); err == nil {
		return session, nil
	}
	return m.Create(id, config, seed)
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return errSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errSessionNotFound
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
	saved   map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	classic := engine.DefaultConfig()

	tiny := engine.DefaultConfig()
	tiny.Name = "Tiny"
	tiny.Description = "Reach 8 to win"
	tiny.WinThreshold = 8

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"classic": classic,
			"tiny":    tiny,
		},
		saved: make(map[string]*engine.GameConfig),
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for id, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:     id + ".json",
			ConfigID:     id,
			Name:         config.Name,
			Description:  config.Description,
			BoardSize:    config.BoardSize,
			WinThreshold: config.WinThreshold,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["classic"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.saved[name] = config
	return nil
}

func newTestService() (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockConfigManager()), sessions
}

// createSessionWithBoard creates a session and replaces its board
func createSessionWithBoard(t *testing.T, svc service.GameService, sessions *MockSessionManager, configName string, board engine.Board) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), configName, 1)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	sess, _ := sessions.Get(info.ID)
	if err := sess.Engine.SetState(engine.GameState{Board: board, ConfigName: sess.Config.Name}); err != nil {
		t.Fatalf("Failed to set state: %v", err)
	}
	return info.ID
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	tests := []struct {
		name       string
		configName string
		wantConfig string
		wantErr    bool
	}{
		{"create with default config", "", "classic", false},
		{"create with named config", "tiny", "tiny", false},
		{"create with unknown config", "nope", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.configName, 0)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}
			if info.ConfigName != tt.wantConfig {
				t.Errorf("Expected config '%s', got '%s'", tt.wantConfig, info.ConfigName)
			}
			if info.Status != engine.StatusActive {
				t.Errorf("Expected active status, got %s", info.Status)
			}
			if engine.CountTiles(info.GameState.Board) != engine.DefaultInitialTiles {
				t.Errorf("Expected %d tiles, got %d", engine.DefaultInitialTiles, engine.CountTiles(info.GameState.Board))
			}
		})
	}
}

func TestGameService_CreateSessionUnknownConfigWraps(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSession(context.Background(), "nope", 0)
	if !errors.Is(err, errConfigNotFound) {
		t.Errorf("Expected wrapped config error, got %v", err)
	}
}

func TestGameService_CreateSessionSeed(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.CreateSession(ctx, "", 99)
	b, _ := svc.CreateSession(ctx, "", 99)

	if a.Seed != 99 || b.Seed != 99 {
		t.Errorf("Expected seed 99, got %d and %d", a.Seed, b.Seed)
	}
	if !a.GameState.Board.Equal(b.GameState.Board) {
		t.Error("Expected identical seeds to give identical boards")
	}
}

func TestGameService_GetSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateSession(ctx, "tiny", 0)

	info, err := svc.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if info.ConfigName != "tiny" {
		t.Errorf("Expected config 'tiny', got '%s'", info.ConfigName)
	}

	_, err = svc.GetSession(ctx, "missing")
	if !errors.Is(err, errSessionNotFound) {
		t.Errorf("Expected wrapped not found error, got %v", err)
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, _ := svc.CreateSession(ctx, "", 0)
	svc.CreateSession(ctx, "", 0)

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(list))
	}

	if err := svc.DeleteSession(ctx, first.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	list, _ = svc.ListSessions(ctx)
	if len(list) != 1 {
		t.Errorf("Expected 1 session after delete, got %d", len(list))
	}

	if err := svc.DeleteSession(ctx, first.ID); !errors.Is(err, errSessionNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestGameService_Move(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	id := createSessionWithBoard(t, svc, sessions, "", engine.Board{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	result, err := svc.Move(ctx, id, "left", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if !result.Moved {
		t.Fatal("Expected move to succeed")
	}
	if result.ScoreDelta != 4 || result.GameState.Score != 4 {
		t.Errorf("Expected score 4, got delta %d score %d", result.ScoreDelta, result.GameState.Score)
	}
	if result.Spawned == nil {
		t.Error("Expected a spawned tile")
	}
	if result.GameState.Board[0][0] != 4 {
		t.Errorf("Expected merged 4 at (0,0), got %d", result.GameState.Board[0][0])
	}
	if result.Message != "Score: 4" {
		t.Errorf("Expected score message, got %q", result.Message)
	}

	types := map[string]bool{}
	for _, ev := range result.Events {
		types[ev.Type] = true
	}
	if !types["move"] || !types["spawn"] {
		t.Errorf("Expected move and spawn events, got %+v", result.Events)
	}
}

func TestGameService_MoveAliases(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	id := createSessionWithBoard(t, svc, sessions, "", engine.Board{
		{0, 0, 0, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	result, err := svc.Move(ctx, id, "A", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !result.Moved || result.Direction != string(engine.Left) {
		t.Errorf("Expected 'A' to move left, got moved=%v dir=%s", result.Moved, result.Direction)
	}
}

func TestGameService_MoveNoOp(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	board := engine.Board{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	id := createSessionWithBoard(t, svc, sessions, "", board)

	for _, dir := range []string{"left", "up", "jump", ""} {
		result, err := svc.Move(ctx, id, dir, false)
		if err != nil {
			t.Fatalf("Move %q returned error: %v", dir, err)
		}
		if result.Moved {
			t.Errorf("Expected %q not to move", dir)
		}
		if !result.GameState.Board.Equal(board) || result.GameState.Score != 0 || result.GameState.Moves != 0 {
			t.Errorf("Expected state unchanged after %q", dir)
		}
		if result.Message != engine.DefaultConfig().Messages.CantMove {
			t.Errorf("Expected cant-move message, got %q", result.Message)
		}
		if len(result.Events) != 1 || result.Events[0].Type != "blocked" {
			t.Errorf("Expected a single blocked event, got %+v", result.Events)
		}
	}
}

func TestGameService_MoveWin(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	id := createSessionWithBoard(t, svc, sessions, "tiny", engine.Board{
		{4, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	result, err := svc.Move(ctx, id, "left", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if result.Status != engine.StatusWon {
		t.Errorf("Expected won status, got %s", result.Status)
	}
	if result.Message != "You win! Final score: 8" {
		t.Errorf("Unexpected message %q", result.Message)
	}
	last := result.Events[len(result.Events)-1]
	if last.Type != "victory" {
		t.Errorf("Expected victory event last, got %s", last.Type)
	}

	// Further moves are ignored
	again, _ := svc.Move(ctx, id, "right", false)
	if again.Moved {
		t.Error("Expected moves after a win to be ignored")
	}
}

func TestGameService_MoveWithRestart(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	id := createSessionWithBoard(t, svc, sessions, "", engine.Board{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	sess, _ := sessions.Get(id)
	sess.Engine.SetState(engine.GameState{Board: sess.Engine.GetBoard(), GameOver: true, Score: 300})

	result, err := svc.Move(ctx, id, "left", true)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if result.Events[0].Type != "restart" {
		t.Errorf("Expected restart event first, got %s", result.Events[0].Type)
	}
	if result.GameState.GameOver || result.GameState.Score > 8 {
		t.Errorf("Expected a fresh game, got %+v", result.GameState)
	}
}

func TestGameService_BulkMove(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	t.Run("empty moves", func(t *testing.T) {
		info, _ := svc.CreateSession(ctx, "", 0)
		_, err := svc.BulkMove(ctx, info.ID, nil, false)
		if !errors.Is(err, service.ErrInvalidRequest) {
			t.Errorf("Expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.BulkMove(ctx, "missing", []string{"up"}, false)
		if !errors.Is(err, errSessionNotFound) {
			t.Errorf("Expected not found error, got %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		info, _ := svc.CreateSession(ctx, "", 0)
		moves := make([]string, engine.MaxBulkMoves+10)
		for i := range moves {
			moves[i] = string(engine.Directions[i%4])
		}

		result, err := svc.BulkMove(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if !result.Truncated || result.Limit != engine.MaxBulkMoves {
			t.Errorf("Expected truncation at %d, got truncated=%v limit=%d", engine.MaxBulkMoves, result.Truncated, result.Limit)
		}
		if result.RequestedMoves != engine.MaxBulkMoves+10 {
			t.Errorf("Expected %d requested moves, got %d", engine.MaxBulkMoves+10, result.RequestedMoves)
		}
		if result.MovesAttempted > engine.MaxBulkMoves {
			t.Errorf("Expected at most %d attempts, got %d", engine.MaxBulkMoves, result.MovesAttempted)
		}
		if result.ScoreDelta != result.EndScore-result.StartScore {
			t.Error("Expected score delta to match start and end scores")
		}
		if len(result.Steps) != result.MovesAttempted {
			t.Errorf("Expected one step per attempt, got %d steps for %d attempts", len(result.Steps), result.MovesAttempted)
		}
	})

	t.Run("stops on win", func(t *testing.T) {
		id := createSessionWithBoard(t, svc, sessions, "tiny", engine.Board{
			{4, 4, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		})

		result, err := svc.BulkMove(ctx, id, []string{"left", "right", "up", "down"}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.StopReasonCode != service.StopGameWon {
			t.Errorf("Expected stop code %s, got %s", service.StopGameWon, result.StopReasonCode)
		}
		if result.StoppedOnMove != 1 || result.MovesAttempted != 1 {
			t.Errorf("Expected stop on move 1, got %d (attempted %d)", result.StoppedOnMove, result.MovesAttempted)
		}
		if result.Status != engine.StatusWon {
			t.Errorf("Expected won status, got %s", result.Status)
		}
	})

	t.Run("already over", func(t *testing.T) {
		id := createSessionWithBoard(t, svc, sessions, "", engine.Board{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{4, 2, 4, 2},
		})
		sess, _ := sessions.Get(id)
		sess.Engine.SetState(engine.GameState{Board: sess.Engine.GetBoard(), GameOver: true})

		result, err := svc.BulkMove(ctx, id, []string{"left", "up"}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.MovesAttempted != 0 {
			t.Errorf("Expected no attempts, got %d", result.MovesAttempted)
		}
		if result.StopReasonCode != service.StopGameOver {
			t.Errorf("Expected stop code %s, got %s", service.StopGameOver, result.StopReasonCode)
		}
	})

	t.Run("blocked moves do not stop the batch", func(t *testing.T) {
		id := createSessionWithBoard(t, svc, sessions, "", engine.Board{
			{2, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		})

		result, err := svc.BulkMove(ctx, id, []string{"left", "up", "right"}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.MovesAttempted != 3 {
			t.Errorf("Expected 3 attempts, got %d", result.MovesAttempted)
		}
		if result.Steps[0].Moved || result.Steps[1].Moved {
			t.Error("Expected the first two moves to be blocked")
		}
		if !result.Steps[2].Moved || result.MovesExecuted != 1 {
			t.Errorf("Expected only the last move to execute, got %d", result.MovesExecuted)
		}
	})
}

func TestGameService_Restart(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "", 0)
	sess, _ := sessions.Get(info.ID)
	sess.Engine.SetState(engine.GameState{Board: engine.NewBoard(4).With(0, 0, 2048), GameWon: true, Score: 20000})

	state, err := svc.Restart(ctx, info.ID)
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if state.GameWon || state.GameOver || state.Score != 0 || state.Moves != 0 {
		t.Errorf("Expected a fresh state, got %+v", state)
	}
	if engine.CountTiles(state.Board) != engine.DefaultInitialTiles {
		t.Errorf("Expected %d tiles, got %d", engine.DefaultInitialTiles, engine.CountTiles(state.Board))
	}

	if _, err := svc.Restart(ctx, "missing"); !errors.Is(err, errSessionNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestGameService_GetGameStateIsSnapshot(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "", 0)

	state, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	state.Board[0][0] = 4096

	again, _ := svc.GetGameState(ctx, info.ID)
	if again.Board[0][0] == 4096 {
		t.Error("Modifying a returned state must not affect the session")
	}
}

func TestGameService_Hint(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	id := createSessionWithBoard(t, svc, sessions, "", engine.Board{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	hint, err := svc.Hint(ctx, id)
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if len(hint.PossibleMoves) != 3 {
		t.Errorf("Expected 3 possible moves, got %v", hint.PossibleMoves)
	}
	if hint.Best != engine.Left || hint.BestGain != 4 {
		t.Errorf("Expected best move left (+4), got %s (+%d)", hint.Best, hint.BestGain)
	}

	stuck := createSessionWithBoard(t, svc, sessions, "", engine.Board{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	hint, _ = svc.Hint(ctx, stuck)
	if len(hint.PossibleMoves) != 0 || hint.Best != "" {
		t.Errorf("Expected no hint for a stuck board, got %+v", hint)
	}
}

func TestGameService_SaveConfig(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.SaveConfig(ctx, "", engine.DefaultConfig()); !errors.Is(err, service.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for empty name, got %v", err)
	}
	if err := svc.SaveConfig(ctx, "x", nil); !errors.Is(err, service.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for nil config, got %v", err)
	}
	if err := svc.SaveConfig(ctx, "big", engine.DefaultConfig()); err != nil {
		t.Errorf("SaveConfig failed: %v", err)
	}

	configs, _ := svc.ListConfigs(ctx)
	if len(configs) != 2 {
		t.Errorf("Expected 2 configs, got %d", len(configs))
	}
	if _, err := svc.LoadConfig(ctx, "tiny"); err != nil {
		t.Errorf("LoadConfig failed: %v", err)
	}
}

func TestGameService_ConcurrentMoves(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "", 3)

	var wg sync.WaitGroup
	var mu sync.Mutex
	moved := 0

	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := svc.Move(ctx, info.ID, string(engine.Directions[i%4]), false)
			if err != nil {
				t.Errorf("Move failed: %v", err)
				return
			}
			if result.Moved {
				mu.Lock()
				moved++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	state, _ := svc.GetGameState(ctx, info.ID)
	if state.Moves != moved {
		t.Errorf("Expected %d recorded moves, got %d", moved, state.Moves)
	}
}
