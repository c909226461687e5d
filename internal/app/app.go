package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	corebootstrap "contentbot/core/bootstrap"
	coredatabase "contentbot/core/database"
	coretelegram "contentbot/core/telegram"
	"contentbot/core/telegram/router"
	"contentbot/core/telegram/sender"
	"contentbot/core/telegram/state"
	"contentbot/internal/catalog"
	"contentbot/internal/flows"
	"contentbot/internal/handlers"

	tele "gopkg.in/telebot.v4"
)

// App holds the assembled bot components.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	store    *catalog.Store
	sessions state.Manager
	machine  *flows.Machine
	handlers *handlers.Handlers
}

// Bootstrap initializes logging and storage, then wires the domain layers.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	res, err := corebootstrap.Run(corebootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	// SQLite keeps its schema in-process instead of migration files.
	if cfg.Database.ResolvedDriver() == coredatabase.DriverSQLite {
		if err := catalog.EnsureSchema(context.Background(), res.DB); err != nil {
			_ = res.DB.Close()
			return nil, fmt.Errorf("app: schema init failed: %w", err)
		}
	}

	store := catalog.NewStore(res.DB)
	sessions := state.NewMemoryManager()
	machine := flows.NewMachine(store, sessions, cfg.Telegram.AdminID)

	return &App{
		cfg:      cfg,
		db:       res.DB,
		store:    store,
		sessions: sessions,
		machine:  machine,
		handlers: handlers.New(store, machine, sessions),
	}, nil
}

// TelegramRunOptions builds the runtime wiring for the core Telegram loop.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: handler registration failed: %w", err)
	}

	rejectNonOperator := func(c tele.Context) error {
		return c.Send("❌ You are not allowed to do that.")
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       a.cfg.Telegram.AdminID,
		OnAdminReject: rejectNonOperator,
	})
	routes = append(routes, router.TextRoutes(a.handlers, reg, router.TextOptions{
		AdminID:       a.cfg.Telegram.AdminID,
		OnAdminReject: rejectNonOperator,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:   &a.cfg.Config,
		Registry: reg,
		DispatcherOptions: sender.Options{
			MaxRetries: 2,
		},
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Config, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			go state.RunSweeper(ctx, a.sessions, a.cfg.Sessions.TTL(), a.cfg.Sessions.SweepInterval())
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
