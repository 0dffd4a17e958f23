package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/apple-stock-notifier/internal/api"
	"github.com/donaldgifford/apple-stock-notifier/internal/api/handlers"
	"github.com/donaldgifford/apple-stock-notifier/internal/apple"
	"github.com/donaldgifford/apple-stock-notifier/internal/bot"
	"github.com/donaldgifford/apple-stock-notifier/internal/config"
	"github.com/donaldgifford/apple-stock-notifier/internal/engine"
	"github.com/donaldgifford/apple-stock-notifier/internal/notify"
	"github.com/donaldgifford/apple-stock-notifier/internal/state"
	"github.com/donaldgifford/apple-stock-notifier/internal/store"
	"github.com/donaldgifford/apple-stock-notifier/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the availability sweep",
		Long: "Run the Telegram update loop and the periodic availability sweep until\n" +
			"SIGINT or SIGTERM. With server.enabled the health, metrics and\n" +
			"read-only JSON endpoints are served as well.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, c.logger(cfg))
		},
	}
}

func runServe(parent context.Context, cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("closing store failed", "error", err)
		}
	}()

	ws, err := state.New(ctx, st, state.WithLogger(log))
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	// The state owner outlives every task that talks to it.
	stateCtx, stopState := context.WithCancel(context.Background())
	stateDone := make(chan struct{})
	go func() {
		defer close(stateDone)
		ws.Run(stateCtx)
	}()
	defer func() {
		stopState()
		<-stateDone
	}()

	prober := apple.NewClient(
		apple.WithPickupURL(cfg.Apple.PickupURL),
		apple.WithHTTPClient(&http.Client{Timeout: cfg.Apple.Timeout}),
		apple.WithRateLimit(cfg.Apple.RateLimit.PerSecond, cfg.Apple.RateLimit.Burst),
		apple.WithLogger(log),
	)

	tg, err := telegram.NewClient(cfg.Telegram.Token,
		telegram.WithAPIEndpoint(cfg.Telegram.APIEndpoint),
		telegram.WithHTTPClient(&http.Client{Timeout: cfg.Telegram.RequestTimeout}),
		telegram.WithLogger(log),
	)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(ws, prober, buildNotifier(cfg, tg, ws, log),
		engine.WithLogger(log),
		engine.WithStaggerOffset(cfg.Schedule.StaggerOffset),
	)
	sched, err := engine.NewScheduler(eng, cfg.Schedule.SweepInterval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	runner := bot.NewRunner(tg,
		bot.NewDispatcher(ws, prober, tg, cfg.Auth.Password, bot.WithLogger(log)),
		bot.WithRunnerLogger(log),
		bot.WithPollTimeout(cfg.Telegram.PollTimeout),
		bot.WithRetryDelay(cfg.Telegram.RetryDelay),
	)

	// Every goroutine started from here on is waited for during shutdown,
	// including manual sweeps started over HTTP.
	var tasks sync.WaitGroup

	var srv *echo.Echo
	if cfg.Server.Enabled {
		srv = api.NewServer(api.Deps{
			Checks:   map[string]handlers.Pinger{"store": st, "state": ws},
			Watches:  ws,
			Snapshot: eng,
			Sweeper:  eng,
			Version:  Version,
			Log:      log,

			SweepContext: ctx,
			Spawn:        tasks.Go,
		})
		srv.Server.ReadTimeout = cfg.Server.ReadTimeout
		srv.Server.WriteTimeout = cfg.Server.WriteTimeout

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Info("starting http server", "addr", addr)
		go func() {
			if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server error", "error", err)
			}
		}()
	}

	runner.Announce(ctx, cfg.Telegram.AnnounceChatID)

	sched.Start(ctx)
	tasks.Go(func() { sched.RunNow(ctx) })
	tasks.Go(func() {
		if err := runner.Run(ctx); err != nil {
			log.Error("update loop failed", "error", err)
		}
	})

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http server shutdown failed", "error", err)
		}
	}
	<-sched.Stop().Done()
	tasks.Wait()

	log.Info("stopped")
	return nil
}

// buildNotifier fans alerts out to every authorized Telegram user and, when
// configured, a Discord webhook.
func buildNotifier(
	cfg *config.Config,
	tg telegram.Sender,
	recipients notify.Recipients,
	log *slog.Logger,
) notify.Notifier {
	notifiers := notify.Multi{notify.NewTelegramBroadcaster(tg, recipients, log)}
	if cfg.Notifications.Discord.Enabled {
		notifiers = append(notifiers, notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL))
	}
	return notifiers
}

// openStore opens the configured backend. The postgres backend applies
// pending migrations first.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Storage.Backend != config.BackendPostgres {
		return store.NewFileStore(cfg.Storage.WatchlistFile, cfg.Storage.UsersFile), nil
	}

	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return pg, nil
}
