package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8000"`
	DatabaseURL string `env:"DATABASE_URL"`

	// BookerNumber is the one phone number allowed to register sitters
	// and request bookings.
	BookerNumber string `env:"MY_CELL,notEmpty"`
	// BotNumber is the Twilio number messages are sent from.
	BotNumber   string `env:"MY_TWILIO_NUM,notEmpty"`
	CountryCode string `env:"TWILIO_COUNTRY_CODE" envDefault:"1"`

	TwilioSID   string `env:"TWILIO_SID,notEmpty"`
	TwilioToken string `env:"TWILIO_TOKEN,notEmpty"`

	PollInterval time.Duration `env:"SCHED_POLL_INTERVAL" envDefault:"5s"`
	OfferTimeout time.Duration `env:"OFFER_TIMEOUT" envDefault:"120m"`
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("SCHED_POLL_INTERVAL must be positive")
	}
	if cfg.OfferTimeout <= 0 {
		return Config{}, fmt.Errorf("OFFER_TIMEOUT must be positive")
	}
	return cfg, nil
}
