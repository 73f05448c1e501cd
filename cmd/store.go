package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/example/sitterbot/internal/bookings"
	"github.com/example/sitterbot/internal/config"
	"github.com/example/sitterbot/internal/db"
	"github.com/example/sitterbot/internal/migrate"
	"github.com/example/sitterbot/internal/sitters"
	"github.com/example/sitterbot/internal/store"
)

func loadConfig() (config.Config, error) {
	_ = godotenv.Load()
	return config.FromEnv()
}

func openSnapshots(ctx context.Context) (store.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	d, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := migrate.Up(ctx, d); err != nil {
		d.Close()
		return nil, nil, err
	}
	return store.NewPostgres(d), d.Close, nil
}

func openRegistry(ctx context.Context) (*sitters.Registry, func(), error) {
	s, cleanup, err := openSnapshots(ctx)
	if err != nil {
		return nil, nil, err
	}
	return sitters.NewRegistry(s), cleanup, nil
}

func openBookings(ctx context.Context) (*bookings.Store, func(), error) {
	s, cleanup, err := openSnapshots(ctx)
	if err != nil {
		return nil, nil, err
	}
	return bookings.NewStore(s), cleanup, nil
}
