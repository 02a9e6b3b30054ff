// Package app assembles the wallet bot: configuration, the account registry,
// the transfer session machine, the optional history store, and the Telegram
// dialogue routing on top of the shared bot core.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"walletbot/core/bootstrap"
	corecmd "walletbot/core/cmd"
	coretelegram "walletbot/core/telegram"
	"walletbot/core/telegram/format"
	tghelpers "walletbot/core/telegram/helpers"
	"walletbot/core/telegram/router"
	"walletbot/core/telegram/sender"
	"walletbot/core/telegram/state"
	"walletbot/internal/history"
	"walletbot/internal/ledger/solanarpc"
	"walletbot/internal/transfer"
	"walletbot/internal/wallet"
)

// App carries the wired services behind the Telegram handlers.
type App struct {
	cfg *Config
	db  *sqlx.DB

	wallets *wallet.Registry
	machine *transfer.Machine
	store   *history.Store

	dispatcher *sender.Dispatcher
}

// Bootstrap builds the application from loaded configuration: logger,
// optional postgres for the history store, the Solana client, and the
// session machine.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	client := solanarpc.NewClient(solanarpc.Config{
		RPCURL:         cfg.Ledger.RPCURL,
		ConfirmTimeout: time.Duration(cfg.Ledger.ConfirmTimeoutSeconds) * time.Second,
	})

	wallets := wallet.NewRegistry(client)
	sessions := state.NewMemoryManager()

	var (
		store *history.Store
		rec   transfer.Recorder
	)
	if res.DB != nil {
		store = history.NewStore(res.DB)
		rec = store
	}

	return &App{
		cfg:     cfg,
		db:      res.DB,
		wallets: wallets,
		machine: transfer.NewMachine(sessions, wallets, client, rec),
		store:   store,
	}, nil
}

// TelegramRunOptions exposes the bot wiring to the core runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	a.registerCallbacks(reg)

	routes := []coretelegram.Route{
		router.CallbackRoute(reg, router.CallbackOptions{}),
	}
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})...)
	routes = append(routes, router.TextRoutes(&fsmAdapter{app: a}, reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			a.dispatcher = rt.Dispatcher
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}, nil
}

// fsmAdapter feeds free-text updates into the transfer machine. Text arriving
// with no active session falls through to command lookup and is otherwise
// ignored, so there is no generic chat handling.
type fsmAdapter struct {
	app *App
}

func (f *fsmAdapter) InProgress(userID int64) bool {
	return f.app.machine.InProgress(userID)
}

func (f *fsmAdapter) ManagerHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return f.app.machine.HandleText(ctx, c.Sender().ID, c.Text(), replySender(c))
}

// replySender adapts the machine's reply contract to Telegram sends. The
// machine echoes user-typed addresses back, so the text is escaped before
// it goes out with Markdown parse mode.
func replySender(c tele.Context) transfer.SendFunc {
	return func(text string, actions transfer.ActionSet) error {
		if escaped, err := format.EscapeMarkdown(text, format.MarkdownV1, ""); err == nil {
			text = escaped
		}
		if kb := markupFor(actions); kb != nil {
			return tghelpers.SendMD(c, text, kb)
		}
		return tghelpers.SendMD(c, text)
	}
}
