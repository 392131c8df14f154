// Package app wires the tutoring bot together: configuration, storage,
// content providers, the code runner, the conversation engine, and the
// Telegram run options consumed by the cmd runner.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/tutorbot/core/bootstrap"
	"github.com/m3rciful/tutorbot/core/logger"
	coretelegram "github.com/m3rciful/tutorbot/core/telegram"
	"github.com/m3rciful/tutorbot/core/telegram/router"
	"github.com/m3rciful/tutorbot/internal/bot"
	"github.com/m3rciful/tutorbot/internal/content"
	"github.com/m3rciful/tutorbot/internal/engine"
	"github.com/m3rciful/tutorbot/internal/runner"
	"github.com/m3rciful/tutorbot/internal/session"
	"log/slog"
)

// App holds everything the bot process needs after bootstrap.
type App struct {
	cfg *Config
	db  *sqlx.DB
	bot *bot.Bot
}

// Bootstrap initializes infrastructure and builds the domain graph.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:       cfg.CoreConfig(),
		Database:     cfg.Database,
		SkipDatabase: cfg.Storage.Mode != StoragePostgres,
	})
	if err != nil {
		return nil, err
	}

	store, directory := buildStore(cfg, res.DB)
	run, err := buildRunner(cfg.Runner)
	if err != nil {
		return nil, err
	}

	lessons := content.NewFileLessons(cfg.Content.LessonsDir)
	quizzes := content.NewFileQuizzes(cfg.Content.QuizzesDir)
	eng := engine.New(store, lessons, quizzes, run)

	logger.L.With("component", "app").Info("wiring complete",
		slog.String("event", "wiring"),
		slog.String("storage", cfg.Storage.Mode),
		slog.String("runner", cfg.Runner.Mode),
		slog.String("lessons_dir", cfg.Content.LessonsDir),
		slog.String("quizzes_dir", cfg.Content.QuizzesDir),
	)

	return &App{
		cfg: cfg,
		db:  res.DB,
		bot: bot.New(eng, store, directory, cfg.Core.Telegram.AdminID),
	}, nil
}

func buildStore(cfg *Config, db *sqlx.DB) (session.Store, session.Directory) {
	if cfg.Storage.Mode == StoragePostgres {
		pg := session.NewPostgresStore(db)
		return pg, pg
	}
	mem := session.NewMemoryStore()
	directory, _ := mem.(session.Directory)
	return mem, directory
}

func buildRunner(cfg RunnerConfig) (runner.Runner, error) {
	switch cfg.Mode {
	case RunnerDocker:
		r, err := runner.NewDockerRunner(cfg.Image, cfg.Timeout())
		if err != nil {
			return nil, fmt.Errorf("app: docker runner: %w", err)
		}
		return r, nil
	default:
		var command []string
		if cfg.Interpreter != "" {
			command = []string{cfg.Interpreter, "-"}
		}
		return runner.NewExecRunner(command, cfg.Timeout()), nil
	}
}

// TelegramRunOptions assembles middlewares and routes for the core runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := a.bot.BuildRegistry()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.bot, reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}, nil
}
