package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/khrees2412/jobportal/internal/config"
	"github.com/khrees2412/jobportal/internal/database"
	"github.com/khrees2412/jobportal/internal/gateway"
	"github.com/khrees2412/jobportal/internal/session"
)

// App is the dependency container for the CLI application
type App struct {
	DB         *sql.DB
	Repo       *database.Repository
	Config     *config.Config
	HTTPClient *http.Client
	Sessions   *session.Store
	Gateway    *gateway.Client
	Logger     *slog.Logger
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context) (*App, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg := config.AppConfig

	logger := NewLogger(cfg.LogLevel)

	db, err := database.Open(config.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
	}
	repo := database.NewRepository(db)

	logger.Debug("app initialized", "api", cfg.APIBaseURL, "db", config.DatabasePath())

	return &App{
		DB:         db,
		Repo:       repo,
		Config:     cfg,
		HTTPClient: httpClient,
		Sessions:   session.NewStore(repo),
		Gateway:    gateway.NewClient(cfg.APIBaseURL, httpClient, logger),
		Logger:     logger,
	}, nil
}

// Close closes all resources
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// NewLogger returns a text logger on stderr at the named level. Unknown
// levels fall back to warn.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
