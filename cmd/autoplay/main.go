// Command autoplay plays a session against a running server through the
// REST API, restarting until the game is won or the attempts run out.
//
// Each move asks the server for a hint and takes the best immediate merge;
// when no move merges anything it keeps the big tiles in the bottom-left
// corner. The session ID is saved to .session so the next run reuses it.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/slide2048/game/engine"
)

const sessionFile = ".session"

var errNotWon = errors.New("game not won")

// cornerOrder keeps the largest tiles in the bottom-left corner
var cornerOrder = []engine.Direction{engine.Down, engine.Left, engine.Right, engine.Up}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newCommand().Run(ctx, os.Args)
	if errors.Is(err, errNotWon) {
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("autoplay failed")
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "play a session through the REST API until it is won",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "config", Usage: "preset ID (default: server default)"},
			&cli.Int64Flag{Name: "seed", Usage: "seed for a new session (0 = random)"},
			&cli.StringFlag{Name: "continue", Usage: "resume playing an existing session by ID"},
			&cli.BoolFlag{Name: "fresh", Usage: "ignore the saved session and create a new one"},
			&cli.IntFlag{Name: "max-moves", Value: 5000, Usage: "maximum moves per attempt"},
			&cli.IntFlag{Name: "max-attempts", Value: 10, Usage: "maximum attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "delay between moves"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log progress every 100 moves"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}

			client := NewClient(cmd.String("url"))
			if err := openSession(ctx, client, cmd); err != nil {
				return err
			}

			opts := playOptions{
				MaxMoves:    cmd.Int("max-moves"),
				MaxAttempts: cmd.Int("max-attempts"),
				Delay:       cmd.Duration("delay"),
			}
			return play(ctx, client, opts)
		},
	}
}

// openSession resumes the requested or saved session, creating a new one
// when there is none or it has expired.
func openSession(ctx context.Context, client *Client, cmd *cli.Command) error {
	sessionID := cmd.String("continue")
	if sessionID == "" && !cmd.Bool("fresh") {
		if data, err := os.ReadFile(sessionFile); err == nil {
			sessionID = string(bytes.TrimSpace(data))
		}
	}

	if sessionID != "" {
		info, err := client.Resume(ctx, sessionID)
		if err == nil {
			log.Info().Str("session", info.ID).Str("config", info.ConfigName).Msg("Session resumed")
			return nil
		}
		log.Warn().Err(err).Msg("Failed to resume session (may be expired), creating a new one")
	}

	info, err := client.CreateSession(ctx, cmd.String("config"), cmd.Int64("seed"))
	if err != nil {
		return err
	}
	log.Info().Str("session", info.ID).Str("config", info.ConfigName).Int64("seed", info.Seed).Msg("Session created")

	if err := os.WriteFile(sessionFile, []byte(info.ID), 0o644); err != nil {
		log.Warn().Err(err).Msg("Failed to save session ID")
	}
	return nil
}

type playOptions struct {
	MaxMoves    int
	MaxAttempts int
	Delay       time.Duration
}

// play restarts the session and plays attempts until one is won. It returns
// errNotWon when every attempt ended without a win.
func play(ctx context.Context, client *Client, opts playOptions) error {
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		state, err := client.Restart(ctx)
		if err != nil {
			return err
		}

		moves := 0
		for state.Active() && moves < opts.MaxMoves {
			dir, err := nextMove(ctx, client)
			if err != nil {
				return err
			}
			if dir == "" {
				break
			}

			result, err := client.Move(ctx, dir)
			if err != nil {
				return fmt.Errorf("move %s: %w", dir, err)
			}
			state = result.GameState
			moves++

			if moves%100 == 0 {
				log.Debug().Int("moves", moves).Int("score", state.Score).Int("max_tile", engine.MaxTile(state.Board)).Msg("Progress")
			}

			if opts.Delay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(opts.Delay):
				}
			}
		}

		log.Info().
			Int("attempt", attempt).
			Int("moves", moves).
			Int("score", state.Score).
			Int("max_tile", engine.MaxTile(state.Board)).
			Str("status", string(state.Status())).
			Msg("Attempt finished")

		if state.GameWon {
			log.Info().Str("session", client.sessionID).Msgf("🎉 VICTORY! Won in attempt %d with %d moves", attempt, moves)
			return nil
		}
	}

	log.Info().Str("session", client.sessionID).Msgf("❌ Failed to win after %d attempts", opts.MaxAttempts)
	return errNotWon
}

// nextMove takes the hinted best merge, else the first legal move in
// corner order. An empty direction means no move is possible.
func nextMove(ctx context.Context, client *Client) (engine.Direction, error) {
	hint, err := client.Hint(ctx)
	if err != nil {
		return "", fmt.Errorf("hint: %w", err)
	}
	if hint.Best != "" && hint.BestGain > 0 {
		return hint.Best, nil
	}
	for _, dir := range cornerOrder {
		for _, legal := range hint.PossibleMoves {
			if dir == legal {
				return dir, nil
			}
		}
	}
	return "", nil
}
