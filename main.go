// Command slide2048 starts the Slide 2048 game server.
//
// It supports three modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" – plays one game in the terminal, no network involved
//
// Settings come from the environment (a .env file is loaded first) and can
// be overridden with flags. SIGHUP reloads the preset files.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/slide2048/api"
	"github.com/wricardo/slide2048/game/config"
	"github.com/wricardo/slide2048/game/engine"
	"github.com/wricardo/slide2048/game/service"
	"github.com/wricardo/slide2048/game/session"
	"github.com/wricardo/slide2048/transport/mcp"
	"github.com/wricardo/slide2048/transport/terminal"
	"github.com/wricardo/slide2048/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Slide 2048 Server"
)

// ServerConfig holds process settings read from the environment
type ServerConfig struct {
	Port        int    `env:"SLIDE_PORT" envDefault:"8080"`
	Host        string `env:"SLIDE_HOST" envDefault:"localhost"`
	ConfigDir   string `env:"CONFIG_DIR" envDefault:"configs"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Debug       bool   `env:"SLIDE_DEBUG"`
	NgrokEnable bool   `env:"NGROK_ENABLED"`
	NgrokAuth   string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain string `env:"NGROK_DOMAIN"`

	SessionMaxAge   time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`

	// play mode only
	Preset string
	Seed   int64
}

// Flags override the environment when given explicitly.
var (
	port         = flag.Int("port", 8080, "HTTP server port (env SLIDE_PORT)")
	host         = flag.String("host", "localhost", "HTTP server host (env SLIDE_HOST)")
	configDir    = flag.String("config-dir", "configs", "Directory containing game configurations (env CONFIG_DIR)")
	logLevel     = flag.String("log-level", "info", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel (env NGROK_ENABLED)")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (env NGROK_AUTHTOKEN)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (env NGROK_DOMAIN)")
	preset       = flag.String("config", "", "Default preset for new sessions and play mode")
	seed         = flag.Int64("seed", 0, "Random seed for play mode (0 = random)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio, mcp   Aliases for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  play             Play in the terminal\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                        # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090             # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp              # Run MCP stdio server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config mini -seed 7 play  # Play a seeded 3x3 game\n", os.Args[0])
	}
}

// loadServerConfig reads ServerConfig from the environment
func loadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// applyFlags copies every explicitly set flag over the environment values
func applyFlags(cfg *ServerConfig, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "host":
			cfg.Host = *host
		case "config-dir":
			cfg.ConfigDir = *configDir
		case "log-level":
			cfg.LogLevel = *logLevel
		case "debug":
			cfg.Debug = *debug
		case "ngrok":
			cfg.NgrokEnable = *ngrokEnabled
		case "ngrok-auth":
			cfg.NgrokAuth = *ngrokAuth
		case "ngrok-domain":
			cfg.NgrokDomain = *ngrokDomain
		}
	})
	cfg.Preset = *preset
	cfg.Seed = *seed
}

// setupLogging configures the global zerolog logger
func setupLogging(cfg ServerConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// stdout may carry the MCP protocol, so logs always go to stderr
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	if cfg.Debug {
		log.Logger = log.Logger.With().Caller().Logger()
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// A missing .env file is fine
	envErr := godotenv.Load()

	cfg, err := loadServerConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid environment: %v\n", err)
		os.Exit(1)
	}

	flag.Parse()
	applyFlags(&cfg, flag.CommandLine)

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	setupLogging(cfg)
	if envErr == nil {
		log.Debug().Msg("loaded environment variables from .env file")
	} else if !os.IsNotExist(envErr) {
		log.Warn().Err(envErr).Msg("error loading .env file")
	}

	mode := "server"
	if args := flag.Args(); len(args) > 0 {
		mode = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "play":
		if err := runPlay(ctx, cfg, os.Stdin, os.Stdout); err != nil && err != context.Canceled {
			log.Fatal().Err(err).Msg("play failed")
		}
		return
	case "stdio-mcp", "mcp-stdio", "mcp", "server", "http":
	default:
		log.Fatal().Str("mode", mode).Msg("unknown mode, use 'server' (default), 'stdio-mcp' or 'play'")
	}

	log.Info().Str("version", Version).Str("mode", mode).Msg("starting " + AppName)

	svcs, err := initializeServices(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}
	go sessionCleanupRoutine(ctx, svcs.sessions, cfg.CleanupInterval, cfg.SessionMaxAge)

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go presetReloadRoutine(ctx, svcs.configs, cfg.Preset, reload)

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(ctx, cfg, svcs.game)
	default:
		runHTTPServer(ctx, cfg, svcs.game)
	}
}

// runPlay plays a single terminal game with the configured preset
func runPlay(ctx context.Context, cfg ServerConfig, in io.Reader, out io.Writer) error {
	configManager, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	gameConfig := configManager.GetDefault()
	if cfg.Preset != "" {
		if gameConfig, err = configManager.LoadConfig(cfg.Preset); err != nil {
			return err
		}
	}

	gameSeed := cfg.Seed
	if gameSeed == 0 {
		if gameSeed, err = engine.NewSeed(); err != nil {
			return err
		}
	}
	log.Debug().Str("config", gameConfig.Name).Int64("seed", gameSeed).Msg("starting terminal game")

	eng, err := engine.NewEngine(gameConfig, engine.NewSource(gameSeed))
	if err != nil {
		return err
	}
	return terminal.Play(ctx, in, out, eng)
}

// newMCPHandler serves JSON-RPC messages posted to /mcp
func newMCPHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel. It returns once ctx is cancelled
// and everything has shut down.
func runHTTPServer(ctx context.Context, cfg ServerConfig, gameService service.GameService) {
	hub := websocket.NewHub()
	go hub.Run(ctx)

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", newMCPHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("addr", addr).
			Str("api", fmt.Sprintf("http://%s/api", addr)).
			Str("ws", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)).
			Str("mcp", fmt.Sprintf("http://%s/mcp", addr)).
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	if cfg.NgrokEnable {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, mainRouter)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runNgrokTunnel(ctx context.Context, cfg ServerConfig, handler http.Handler) {
	authToken := cfg.NgrokAuth
	if authToken == "" {
		// Also support the underscore spelling
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if authToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use -ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Info().Msg("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Info().Str("domain", cfg.NgrokDomain).Msg("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	tunnelServer := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		tunnelServer.Close()
	}()

	ngrokURL := tun.URL()
	log.Info().
		Str("url", ngrokURL).
		Str("api", ngrokURL+"/api").
		Str("mcp", ngrokURL+"/mcp").
		Msg("ngrok tunnel established")

	if err := tunnelServer.Serve(tun); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// services groups what initializeServices wires together
type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// initializeServices wires the session and config managers into the game service.
// A preset named with -config becomes the default for new sessions.
func initializeServices(cfg ServerConfig) (*services, error) {
	configManager, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if cfg.Preset != "" {
		if err := configManager.SetDefault(cfg.Preset); err != nil {
			return nil, fmt.Errorf("default preset %s: %w", cfg.Preset, err)
		}
	}

	sessionManager := session.NewManager()
	return &services{
		game:     service.NewGameService(sessionManager, configManager),
		sessions: sessionManager,
		configs:  configManager,
	}, nil
}

// presetReloadRoutine drops the preset cache whenever reload fires, so edited
// preset files apply to new sessions without a restart. The -config default
// is kept.
func presetReloadRoutine(ctx context.Context, manager *config.Manager, preset string, reload <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-reload:
			if err := manager.RefreshCache(); err != nil {
				log.Error().Err(err).Msg("failed to reload presets")
				continue
			}
			if preset != "" {
				if err := manager.SetDefault(preset); err != nil {
					log.Warn().Err(err).Str("preset", preset).Msg("default preset no longer available")
				}
			}
			log.Info().Str("default", manager.GetDefault().Name).Msg("presets reloaded")
		}
	}
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within maxAge. It returns when ctx is cancelled.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	if interval <= 0 || maxAge <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Info().Int("removed", removed).Msg("cleaned up expired sessions")
			}
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an API already listening on the configured host and port;
// if unavailable, it starts an internal HTTP API bound to a random loopback
// port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, cfg ServerConfig, gameService service.GameService) {
	externalURL := fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port)
	baseURL := externalURL

	log.Info().Str("url", externalURL).Msg("checking for external API server")

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Info().Str("url", externalURL).Msg("external API server found, using it for MCP")
	} else {
		log.Info().Msg("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get available port")
		}
		baseURL = "http://" + listener.Addr().String()

		hub := websocket.NewHub()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		log.Info().Str("url", baseURL).Msg("internal HTTP server started")
	}

	mcpClient := mcp.NewClient(baseURL)

	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Error().Err(err).Msg("MCP stdio server error")
	}
}
