// Command analyze simulates many games per preset with simple move policies
// and prints score statistics, the max-tile distribution and the win rate.
// It is a quick way to see how hard a preset is before shipping it.
//
//	go run ./cmd/analyze --games 500 --policy corner --preset classic --preset mini
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wricardo/slide2048/game/config"
	"github.com/wricardo/slide2048/game/engine"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("analyze failed")
	}
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "simulate games for each preset and report how they play out",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing the presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringSliceFlag{
				Name:  "preset",
				Usage: "preset to analyze (repeatable, default: all)",
			},
			&cli.StringFlag{
				Name:  "policy",
				Value: "corner",
				Usage: "move policy: " + strings.Join(policyNames(), ", ") + " or all",
			},
			&cli.IntFlag{
				Name:  "games",
				Value: 200,
				Usage: "games per preset and policy",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Value: 1,
				Usage: "seed of the first game; game i uses seed+i",
			},
			&cli.IntFlag{
				Name:  "parallel",
				Value: runtime.NumCPU(),
				Usage: "games simulated concurrently",
			},
			&cli.IntFlag{
				Name:  "max-moves",
				Value: 0,
				Usage: "stop a game after this many moves (0 = play to the end)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			presets, err := loadPresets(cmd.String("config-dir"), cmd.StringSlice("preset"))
			if err != nil {
				return err
			}

			selected := []string{cmd.String("policy")}
			if selected[0] == "all" {
				selected = policyNames()
			}

			opts := Options{
				Games:    cmd.Int("games"),
				Seed:     cmd.Int64("seed"),
				Parallel: cmd.Int("parallel"),
				MaxMoves: cmd.Int("max-moves"),
			}

			p := message.NewPrinter(language.English)
			for _, preset := range presets {
				for _, policy := range selected {
					log.Debug().Str("preset", preset.id).Str("policy", policy).Int("games", opts.Games).Msg("simulating")
					report, err := analyze(ctx, preset.id, preset.config, policy, opts)
					if err != nil {
						return fmt.Errorf("%s/%s: %w", preset.id, policy, err)
					}
					printReport(out, p, report)
				}
			}
			return nil
		},
	}
}

type preset struct {
	id     string
	config *engine.GameConfig
}

// loadPresets resolves the requested presets, or every valid preset in dir
// when none is named. An empty directory falls back to the built-in rules.
func loadPresets(dir string, names []string) ([]preset, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			names = append(names, info.ConfigID)
		}
	}

	if len(names) == 0 {
		return []preset{{id: "builtin", config: manager.GetDefault()}}, nil
	}

	presets := make([]preset, 0, len(names))
	for _, name := range names {
		cfg, err := manager.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		presets = append(presets, preset{id: name, config: cfg})
	}
	return presets, nil
}

func printReport(w io.Writer, p *message.Printer, r Report) {
	p.Fprintf(w, "\n=== %s / %s (%d games) ===\n", r.Preset, r.Policy, r.Games)
	p.Fprintf(w, "Average score: %.1f\n", r.AvgScore)
	p.Fprintf(w, "Max score:     %d (seed %d)\n", r.MaxScore, r.BestGame.Seed)
	p.Fprintf(w, "Average moves: %.1f\n", r.AvgMoves)
	p.Fprintf(w, "Win rate:      %.1f%% (%d/%d reached %d)\n", r.WinRate()*100, r.Wins, r.Games, r.Threshold)

	tiles := make([]int, 0, len(r.MaxTiles))
	for tile := range r.MaxTiles {
		tiles = append(tiles, tile)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiles)))

	p.Fprintf(w, "Max tile distribution:\n")
	for _, tile := range tiles {
		count := r.MaxTiles[tile]
		share := float64(count) / float64(r.Games)
		p.Fprintf(w, "  %6d  %5d  %5.1f%%  %s\n", tile, count, share*100, strings.Repeat("#", int(share*40+0.5)))
	}
}
