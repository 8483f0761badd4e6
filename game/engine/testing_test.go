package engine

// scriptedSource replays fixed values so spawning is deterministic.
// Intn values are reduced modulo n; exhausted scripts fall back to 0 and 0.5.
type scriptedSource struct {
	ints   []int
	floats []float64
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func createTestConfig() *GameConfig {
	config := &GameConfig{
		Name:            "Engine Test Config",
		Description:     "Configuration for engine tests",
		BoardSize:       4,
		WinThreshold:    2048,
		FourProbability: 0.1,
		InitialTiles:    2,
	}
	ApplyMessageDefaults(config)
	return config
}

func alternatingBoard() Board {
	return Board{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
}
