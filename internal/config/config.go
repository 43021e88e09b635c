// internal/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, environment-provided.
type Config struct {
	BotToken string `env:"BOT_TOKEN,required"`

	// GitHub persistence target.
	GitHubToken  string `env:"GITHUB_TOKEN,required"`
	GitHubOwner  string `env:"GITHUB_USER,required"`
	GitHubRepo   string `env:"GITHUB_REPO,required"`
	GitHubBranch string `env:"GITHUB_BRANCH" envDefault:"main"`
	DataFile     string `env:"DATA_FILE" envDefault:"data.json"`

	// When set, slash commands register to this guild only (fast sync).
	GuildID string `env:"GUILD_ID"`

	// Web panel.
	Port          int    `env:"PORT" envDefault:"8080"`
	PanelPassword string `env:"PANEL_ADMIN_PASSWORD"`
	PanelSecret   string `env:"PANEL_SECRET_KEY"`

	// Optional Postgres audit journal; disabled when DBHost is empty.
	DBHost     string `env:"DB_HOST"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
