package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/slide2048/game/engine"
)

const controls = "Controls: w=Up, s=Down, a=Left, d=Right, r=Restart, q=Quit"

// Play runs a line-oriented game against eng, reading commands from r and
// rendering to w. It returns when the player quits, r is exhausted or ctx
// is cancelled. Full direction names are accepted as well as w/a/s/d.
func Play(ctx context.Context, r io.Reader, w io.Writer, eng engine.Engine) error {
	scanner := bufio.NewScanner(r)
	cfg := eng.GetConfig()

	fmt.Fprintf(w, "=== %s ===\n", cfg.Name)
	fmt.Fprintln(w, cfg.Messages.Welcome)
	fmt.Fprintln(w, controls)
	fmt.Fprintln(w)

	render(w, eng.GetState())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		state := eng.GetState()
		if state.Active() {
			fmt.Fprint(w, "Move: ")
		} else {
			fmt.Fprint(w, "r=Restart, q=Quit: ")
		}

		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch input {
		case "":
			continue
		case "q", "quit":
			fmt.Fprintln(w, "Quit.")
			return nil
		case "r", "restart":
			eng.Restart()
			fmt.Fprintln(w, cfg.Messages.Restart)
			render(w, eng.GetState())
			continue
		}

		if !state.Active() {
			continue
		}

		dir := engine.ParseDirection(input)
		if !dir.Valid() {
			fmt.Fprintln(w, "Invalid input. Use w/a/s/d, r to restart or q to quit.")
			continue
		}

		outcome := eng.Apply(dir)
		next := eng.GetState()
		fmt.Fprintln(w, cfg.Message(next, outcome.Moved))
		if outcome.Moved {
			render(w, next)
		}
	}
}

func render(w io.Writer, state engine.GameState) {
	fmt.Fprintln(w)
	fmt.Fprint(w, engine.FormatBoard(state.Board))
	fmt.Fprintf(w, "Score: %d  Moves: %d\n\n", state.Score, state.Moves)
}
