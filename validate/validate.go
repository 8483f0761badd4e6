// Command validate checks the game preset JSON files in a directory
// (default ../configs, or the first argument). For every file it checks:
//   - JSON syntax and unknown keys
//   - The rules themselves (board size, power-of-two win threshold,
//     spawn probability, starting tiles, message formats)
//   - That the win threshold can actually be reached on the board
//   - That the file name is a usable config ID
//
// It prints a report and exits non-zero if any file is invalid.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/slide2048/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Info holds the checks that passed; Errors the ones that failed.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) pass(format string, args ...interface{}) {
	r.Info = append(r.Info, "✓ "+fmt.Sprintf(format, args...))
}

// maxReachableTile is the largest tile a board with the given number of
// cells can hold: a full chain of halving tiles plus one spawned tile
// merges into 2^(cells+1), one step more when fours spawn. ok is false when
// the value does not fit in an int.
func maxReachableTile(cells int, fourProbability float64) (int, bool) {
	exp := cells + 1
	if fourProbability > 0 {
		exp++
	}
	if exp >= 62 {
		return 0, false
	}
	return 1 << exp, true
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	// Unknown keys are usually typos (e.g. "grid_size" for "board_size")
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var raw engine.GameConfig
	if err := dec.Decode(&raw); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	config, err := engine.ParseGameConfig(data)
	if err != nil {
		result.fail("%v", err)
		return result
	}
	result.pass("Rules: %dx%d board, %d to win, %d starting tiles, %.0f%% fours",
		config.BoardSize, config.BoardSize, config.WinThreshold, config.InitialTiles, config.FourProbability*100)

	cells := config.BoardSize * config.BoardSize
	if limit, ok := maxReachableTile(cells, config.FourProbability); ok && config.WinThreshold > limit {
		result.fail("win_threshold %d cannot be reached on a %dx%d board (largest possible tile is %d)",
			config.WinThreshold, config.BoardSize, config.BoardSize, limit)
	} else {
		result.pass("Win threshold is reachable")
	}

	if config.InitialTiles == 0 {
		result.fail("initial_tiles is 0: the game would start with an empty board and no legal move")
	}

	id := strings.TrimSuffix(result.File, ".json")
	if id == "" || strings.ContainsAny(id, " /\\") || strings.ToLower(id) != id {
		result.fail("File name %q is not a valid config ID (use lowercase letters, digits, - or _)", result.File)
	} else {
		result.pass("Config ID: %s", id)
	}

	return result
}

// run validates every *.json file in dir, writes the report to w and
// reports whether all files were valid.
func run(dir string, w io.Writer) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("find config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no *.json files in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	ok, err := run(configDir, os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}
