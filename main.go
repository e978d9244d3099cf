// Command berserker starts the Berserker game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API, the
//     WebSocket gateway, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API
//     if none is available
//
// Every flag can also be set through the environment (PORT, HOST, LOG_LEVEL,
// LOG_FORMAT, REDIS_URL, SESSION_TTL, CONFIG_DIR, DEFAULT_CONFIG,
// ALLOWED_ORIGINS), including
// from a .env file in the working directory.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/berserker/api"
	"github.com/wricardo/berserker/game/config"
	"github.com/wricardo/berserker/game/service"
	"github.com/wricardo/berserker/game/session"
	"github.com/wricardo/berserker/logging"
	"github.com/wricardo/berserker/transport/mcp"
	"github.com/wricardo/berserker/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Berserker Game Server"
)

// defaultConfigDir is used when present; a missing default directory falls
// back to the built-in presets
const defaultConfigDir = "configs"

// settings is the resolved command line and environment configuration
type settings struct {
	Host           string
	Port           int
	LogLevel       string
	LogFormat      string
	RedisURL       string
	SessionTTL     time.Duration
	ConfigDir      string
	DefaultConfig  string
	AllowedOrigins []string
}

func (s settings) addr() string {
	return net.JoinHostPort(s.Host, fmt.Sprint(s.Port))
}

func main() {
	// Load .env file if it exists; flags read the environment afterwards
	_ = godotenv.Load()

	cmd := newCommand()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd.Name, err)
		os.Exit(1)
	}
}

// newCommand builds the CLI. The root action runs the HTTP server.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "berserker",
		Usage:   "authoritative server for the Berserker board game",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   3001,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level: debug, info, warn, error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "console",
				Usage:   "log format: console or json",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "redis:// URL for the session store (in-memory when empty)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   session.DefaultSessionTTL,
				Usage:   "idle lifetime of sessions in the redis store",
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   defaultConfigDir,
				Usage:   "directory containing rule presets (*.yaml)",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "default-config",
				Usage:   "preset used for new sessions when none is requested",
				Sources: cli.EnvVars("DEFAULT_CONFIG"),
			},
			&cli.StringSliceFlag{
				Name:    "allowed-origins",
				Usage:   "origins allowed to open WebSocket connections (all when empty)",
				Sources: cli.EnvVars("ALLOWED_ORIGINS"),
			},
		},
		Action: runServerCommand,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "run the HTTP server with REST API, WebSocket and /mcp",
				Action:  runServerCommand,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "run an MCP stdio server backed by the HTTP API",
				Action:  runStdioMCPCommand,
			},
		},
	}
}

func settingsFromCommand(cmd *cli.Command) settings {
	return settings{
		Host:           cmd.String("host"),
		Port:           cmd.Int("port"),
		LogLevel:       cmd.String("log-level"),
		LogFormat:      cmd.String("log-format"),
		RedisURL:       cmd.String("redis-url"),
		SessionTTL:     cmd.Duration("session-ttl"),
		ConfigDir:      cmd.String("config-dir"),
		DefaultConfig:  cmd.String("default-config"),
		AllowedOrigins: cmd.StringSlice("allowed-origins"),
	}
}

func runServerCommand(ctx context.Context, cmd *cli.Command) error {
	cfg := settingsFromCommand(cmd)
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", "server"))

	gameService, closeStore, err := initializeServices(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer closeStore()

	return runHTTPServer(ctx, cfg, gameService, logger)
}

func runStdioMCPCommand(ctx context.Context, cmd *cli.Command) error {
	cfg := settingsFromCommand(cmd)
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", "stdio-mcp"))

	gameService, closeStore, err := initializeServices(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer closeStore()

	return runStdioMCP(ctx, cfg, gameService, logger)
}

// newLogger builds the process logger with caller information
func newLogger(cfg settings, out io.Writer) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: out,
		Caller: true,
	})
}

// initializeServices wires the preset manager, the session store and the game
// service. The returned function releases the store.
func initializeServices(ctx context.Context, cfg settings, logger *zap.Logger) (service.GameService, func() error, error) {
	configDir := cfg.ConfigDir
	if configDir == defaultConfigDir {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			logger.Info("no preset directory, using built-in presets", zap.String("dir", configDir))
			configDir = ""
		}
	}

	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if cfg.DefaultConfig != "" {
		if err := configManager.SetDefault(cfg.DefaultConfig); err != nil {
			return nil, nil, fmt.Errorf("default preset %q: %w", cfg.DefaultConfig, err)
		}
		logger.Info("default preset", zap.String("config", cfg.DefaultConfig))
	}

	var store session.Store = session.NewMemoryStore()
	closeStore := func() error { return nil }
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStoreFromURL(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		store = redisStore
		closeStore = redisStore.Close
		logger.Info("using redis session store", zap.Duration("ttl", cfg.SessionTTL))
	}

	sessionManager := session.NewManager(store, *configManager.GetDefault())
	return service.NewGameService(sessionManager, configManager), closeStore, nil
}

// newHTTPHandler builds the API server with the /mcp endpoint mounted
func newHTTPHandler(gameService service.GameService, hub *websocket.Hub, mcpClient *mcp.Client, logger *zap.Logger) http.Handler {
	apiServer := api.NewServer(gameService, hub, logger)
	apiServer.Router().HandleFunc("/mcp", mcpHandler(mcpClient)).Methods("POST")
	return apiServer
}

// mcpHandler serves single MCP JSON-RPC messages over HTTP POST
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
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

// runHTTPServer serves the API, the WebSocket hub and /mcp until ctx is done
func runHTTPServer(ctx context.Context, cfg settings, gameService service.GameService, logger *zap.Logger) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()

	hub := websocket.NewHub(gameService, logger.Named("ws"), cfg.AllowedOrigins)
	go hub.Run(hubCtx)

	addr := cfg.addr()
	mcpClient := mcp.NewClient("http://" + addr)

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     newHTTPHandler(gameService, hub, mcpClient, logger.Named("http")),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("addr", addr),
			zap.String("api", "http://"+addr+"/api"),
			zap.String("ws", "ws://"+addr+"/ws"),
			zap.String("mcp", "http://"+addr+"/mcp"),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	stopHub()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening on
// the configured address; otherwise it starts an internal API on a random
// loopback port.
func runStdioMCP(ctx context.Context, cfg settings, gameService service.GameService, logger *zap.Logger) error {
	externalURL := "http://" + cfg.addr()
	baseURL := externalURL

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		logger.Info("using external API server", zap.String("url", externalURL))
	} else {
		if err == nil {
			resp.Body.Close()
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hubCtx, stopHub := context.WithCancel(ctx)
		defer stopHub()
		hub := websocket.NewHub(gameService, logger.Named("ws"), cfg.AllowedOrigins)
		go hub.Run(hubCtx)

		baseURL = "http://" + listener.Addr().String()
		httpServer := &http.Server{Handler: api.NewServer(gameService, hub, logger.Named("http"))}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()

		logger.Info("started internal API server", zap.String("url", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
