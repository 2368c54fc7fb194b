package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	// Store selects the persistence backend: "supabase" (hosted) or
	// "memory" (single-process local run).
	Store string `env:"STORE" envDefault:"supabase"`

	Supabase struct {
		URL string `env:"SUPABASE_URL" envDefault:""`
		Key string `env:"SUPABASE_KEY" envDefault:""`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		// Optional; when set, Telegram Mini App init_data sign-in is enabled.
		BotToken string `env:"BOT_TOKEN" envDefault:""`
		// TTL in seconds for init_data expiration (0 to skip the check).
		InitDataTTL int `env:"INIT_DATA_TTL" envDefault:"86400"`
	}

	TextGen struct {
		// Optional; when empty the static fallback list is used.
		APIKey   string `env:"TEXTGEN_API_KEY" envDefault:""`
		Endpoint string `env:"TEXTGEN_ENDPOINT" envDefault:"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"`
	}

	// Defaults seeded into the settings row when none exists yet.
	Pricing struct {
		ViewPriceCents     int64  `env:"VIEW_PRICE_CENTS" envDefault:"100"`
		ViewsPerBundle     int64  `env:"VIEWS_PER_BUNDLE" envDefault:"1000"`
		MinWithdrawalCents int64  `env:"MIN_WITHDRAWAL_CENTS" envDefault:"1000"`
		PayoutAddress      string `env:"PAYOUT_ADDRESS" envDefault:""`
	}

	Workers struct {
		// Cron spec for the simulated view-growth step.
		ViewGrowthSpec string `env:"VIEW_GROWTH_SPEC" envDefault:"@every 30s"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Ignore a missing .env file; in production the variables are set
		// directly in the environment.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
