// Package service provides the business logic layer for the sliding-tile game.
//
// The service package implements:
//   - Multi-session game management
//   - Rule preset lookup and storage
//   - Single and bulk move processing
//   - Move hints
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages rule preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Every operation runs under one service-wide lock, so moves
// on a session are applied one at a time and a reader never observes a
// half-applied move.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session with a random seed
//	info, err := gameService.CreateSession(ctx, "classic", 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute moves
//	result, err := gameService.Move(ctx, info.ID, "left", false)
//
// Unknown directions are not errors: the move reports moved=false and the
// state is left exactly as it was.
package service
