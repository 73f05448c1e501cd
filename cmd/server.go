package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/example/sitterbot/internal/bookings"
	"github.com/example/sitterbot/internal/bot"
	"github.com/example/sitterbot/internal/config"
	"github.com/example/sitterbot/internal/db"
	"github.com/example/sitterbot/internal/migrate"
	"github.com/example/sitterbot/internal/scheduler"
	"github.com/example/sitterbot/internal/sitters"
	"github.com/example/sitterbot/internal/sms"
	"github.com/example/sitterbot/internal/store"
)

func newServerCmd() *cobra.Command {
	var (
		migrateUp bool
		memory    bool
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the webhook + offer scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var snapshots store.Store
			if memory {
				snapshots = store.NewMemory()
			} else {
				if cfg.DatabaseURL == "" {
					return fmt.Errorf("DATABASE_URL is required (or pass --memory)")
				}
				d, err := db.Open(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer d.Close()

				if err := d.Ping(ctx); err != nil {
					return fmt.Errorf("db ping: %w", err)
				}
				if migrateUp {
					if err := migrate.Up(ctx, d); err != nil {
						return err
					}
				}
				snapshots = store.NewPostgres(d)
			}

			registry := sitters.NewRegistry(snapshots)
			bookingStore := bookings.NewStore(snapshots)
			messenger := sms.NewTwilio(cfg.TwilioSID, cfg.TwilioToken, cfg.BotNumber)

			sms.Notify(ctx, logger, messenger, cfg.BookerNumber,
				"Hi, this is Babysitter Bot, on the job!  Send me a date with time range and I'll try to book one of our sitters!")
			if roster, err := registry.All(ctx); err == nil && len(roster) == 0 {
				sms.Notify(ctx, logger, messenger, cfg.BookerNumber, "Please add at least one babysitter.")
			}

			s := &scheduler.Scheduler{
				Bookings:     bookingStore,
				Sitters:      registry,
				Messenger:    messenger,
				BookerNumber: cfg.BookerNumber,
				Interval:     cfg.PollInterval,
				OfferTimeout: cfg.OfferTimeout,
				Logger:       logger,
			}
			go func() { _ = s.Run(ctx) }()

			h := &bot.Handler{
				Bookings:     bookingStore,
				Sitters:      registry,
				Messenger:    messenger,
				BookerNumber: cfg.BookerNumber,
				CountryCode:  cfg.CountryCode,
				Logger:       logger,
			}
			return bot.Serve(ctx, cfg.ListenAddr, h.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().BoolVar(&memory, "memory", false, "use an in-memory store instead of Postgres (nothing persists)")

	return cmd
}
