package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/wricardo/slide2048/game/engine"
)

// Policy picks the next direction from the moves that would change the board.
// legal is never empty.
type Policy func(board engine.Board, legal []engine.Direction, rng *rand.Rand) engine.Direction

// cornerOrder keeps the largest tiles in the bottom-left corner
var cornerOrder = []engine.Direction{engine.Down, engine.Left, engine.Right, engine.Up}

var policies = map[string]Policy{
	"random": randomPolicy,
	"greedy": greedyPolicy,
	"corner": cornerPolicy,
}

func policyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func randomPolicy(_ engine.Board, legal []engine.Direction, rng *rand.Rand) engine.Direction {
	return legal[rng.Intn(len(legal))]
}

// greedyPolicy takes the move with the largest immediate merge score,
// falling back to the corner order on ties
func greedyPolicy(board engine.Board, legal []engine.Direction, _ *rand.Rand) engine.Direction {
	best := engine.Direction("")
	bestGain := -1
	for _, dir := range cornerOrder {
		if !contains(legal, dir) {
			continue
		}
		if gain := engine.Move(board, dir).ScoreDelta; gain > bestGain {
			best, bestGain = dir, gain
		}
	}
	return best
}

func cornerPolicy(_ engine.Board, legal []engine.Direction, _ *rand.Rand) engine.Direction {
	for _, dir := range cornerOrder {
		if contains(legal, dir) {
			return dir
		}
	}
	return legal[0]
}

func contains(dirs []engine.Direction, d engine.Direction) bool {
	for _, x := range dirs {
		if x == d {
			return true
		}
	}
	return false
}

// GameResult is the end state of one simulated game
type GameResult struct {
	Seed    int64
	Score   int
	MaxTile int
	Moves   int
	Won     bool
}

// simulate plays one game to the end, or until maxMoves moves changed the
// board. The seed drives both tile spawning and the policy's randomness.
func simulate(config *engine.GameConfig, policy Policy, seed int64, maxMoves int) (GameResult, error) {
	eng, err := engine.NewEngine(config, engine.NewSource(seed))
	if err != nil {
		return GameResult{}, err
	}
	policyRng := rand.New(rand.NewSource(seed ^ 0x5eed))

	for maxMoves <= 0 || eng.GetState().Moves < maxMoves {
		legal := eng.GetPossibleMoves()
		if len(legal) == 0 || !eng.GetState().Active() {
			break
		}
		eng.Apply(policy(eng.GetBoard(), legal, policyRng))
	}

	state := eng.GetState()
	return GameResult{
		Seed:    seed,
		Score:   state.Score,
		MaxTile: engine.MaxTile(state.Board),
		Moves:   state.Moves,
		Won:     state.GameWon,
	}, nil
}

// Options controls a simulation run
type Options struct {
	Games    int
	Seed     int64
	Parallel int
	MaxMoves int
}

// Report summarizes the games played with one preset and policy
type Report struct {
	Preset    string
	Policy    string
	Games     int
	AvgScore  float64
	MaxScore  int
	AvgMoves  float64
	Wins      int
	MaxTiles  map[int]int
	BestGame  GameResult
	Threshold int
}

// WinRate is the share of games that reached the win threshold
func (r Report) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

// analyze plays opts.Games games concurrently. Game i uses seed opts.Seed+i,
// so a run is reproducible regardless of scheduling.
func analyze(ctx context.Context, preset string, config *engine.GameConfig, policyName string, opts Options) (Report, error) {
	policy, ok := policies[policyName]
	if !ok {
		return Report{}, fmt.Errorf("unknown policy %q (available: %v)", policyName, policyNames())
	}
	if opts.Games <= 0 {
		return Report{}, fmt.Errorf("games must be positive, got %d", opts.Games)
	}

	results := make([]GameResult, opts.Games)

	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i := 0; i < opts.Games; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := simulate(config, policy, opts.Seed+int64(i), opts.MaxMoves)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return summarize(preset, policyName, config.WinThreshold, results), nil
}

func summarize(preset, policy string, threshold int, results []GameResult) Report {
	report := Report{
		Preset:    preset,
		Policy:    policy,
		Games:     len(results),
		MaxTiles:  make(map[int]int),
		Threshold: threshold,
	}

	totalScore, totalMoves := 0, 0
	for i, r := range results {
		totalScore += r.Score
		totalMoves += r.Moves
		report.MaxTiles[r.MaxTile]++
		if r.Won {
			report.Wins++
		}
		if i == 0 || r.Score > report.MaxScore {
			report.MaxScore = r.Score
			report.BestGame = r
		}
	}
	if len(results) > 0 {
		report.AvgScore = float64(totalScore) / float64(len(results))
		report.AvgMoves = float64(totalMoves) / float64(len(results))
	}
	return report
}
