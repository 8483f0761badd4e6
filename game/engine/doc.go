// Package engine provides the core game logic for the slide game.
//
// The engine package implements the game mechanics including:
//   - Board construction, rotation and structural comparison
//   - The slide-and-merge move primitive for all four directions
//   - Random tile spawning from an injectable, seedable source
//   - Terminal state detection (win threshold reached, no moves left)
//   - The session state machine (Active, Won, Over) and rule validation
//
// Core Types:
//
// Board is a square grid of tile values where 0 means empty. Move reduces
// every direction to a single "slide left" pass by rotating the board.
// GameState is an immutable snapshot advanced by the pure transition
// functions Start and ApplyMove. GameEngine wraps a GameState together with
// its GameConfig and Spawner and commits each transition as one assignment.
//
// Usage:
//
//	config := engine.DefaultConfig()
//	gameEngine, err := engine.NewEngine(config, engine.NewSource(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Slide the tiles
//	moved := gameEngine.Move(engine.Left)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Every successful move spawns one new tile (2, or 4 with a configurable
// probability). Two equal tiles that meet during a slide merge once into
// their sum, which is added to the score. The game is won when any tile
// reaches the win threshold and over when the board is full with no
// adjacent equal tiles.
package engine
