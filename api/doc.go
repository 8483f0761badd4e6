// Package api provides the HTTP REST API for slide2048.
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions            - Create a session {"config_id": "classic", "seed": 42}
//   - GET    /api/sessions            - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}       - Get one session
//   - DELETE /api/sessions/{id}       - Delete a session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state     - Current game state
//   - POST /api/sessions/{id}/move      - {"direction": "up|down|left|right", "restart": false}
//   - POST /api/sessions/{id}/bulk-move - {"moves": ["up", "left"], "restart": false}
//   - POST /api/sessions/{id}/restart   - Start a fresh game with the same rules
//   - GET  /api/sessions/{id}/hint      - Legal moves and the best immediate merge
//
// Configuration:
//   - GET  /api/configs        - List presets
//   - GET  /api/configs/{name} - Get one preset
//   - POST /api/configs        - Save a preset
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket live updates (state_update, session_deleted)
//
// A move in an unknown direction, or one that cannot change the board, is
// not an error: the response carries "moved": false and the state is
// unchanged. Errors are returned as {"error": "..."} with 404 for unknown
// sessions and presets, 400 for malformed requests and 409 for duplicate
// session IDs.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
