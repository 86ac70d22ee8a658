package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/lecturebot/core/config"
	coredatabase "github.com/m3rciful/lecturebot/core/database"
	"github.com/m3rciful/lecturebot/core/logger"
	coretelegram "github.com/m3rciful/lecturebot/core/telegram"
	"github.com/m3rciful/lecturebot/internal/bot"
	"github.com/m3rciful/lecturebot/internal/storage/postgres"

	"github.com/jmoiron/sqlx"
)

// Config is the full application configuration: the shared core
// sections plus the database connection.
type Config struct {
	coreconfig.Config `yaml:",inline"`
	Database          coredatabase.Config `yaml:"database"`
}

// LoadConfig reads configuration from a YAML file and the environment.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("app: parse config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("app: process env: %w", err)
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// App holds the bootstrapped application.
type App struct {
	Config *Config
	DB     *sqlx.DB
	Bot    *bot.Bot
}

// Bootstrap initializes the logger, connects to Postgres, applies
// migrations and assembles the bot.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	if err := logger.InitLogger(&cfg.Config); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	db, err := coredatabase.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: database initialization failed: %w", err)
	}
	if err := coredatabase.RunMigrations(cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: migrations failed: %w", err)
	}

	store := postgres.New(db)
	return &App{
		Config: cfg,
		DB:     db,
		Bot:    bot.New(&cfg.Config, store),
	}, nil
}

// TelegramRunOptions exposes the bot wiring for the runtime.
func (a *App) TelegramRunOptions() coretelegram.RunOptions {
	return a.Bot.RunOptions()
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
