package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the gallery server, constructed once at
// process start and passed into constructors. Nothing reads the environment
// after LoadConfig returns.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	GitHub GitHubConfig `mapstructure:"github"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Port is the TCP port the server listens on (env: SERVER_PORT).
	Port int `mapstructure:"port"`
}

// GitHubConfig identifies the repository used as the persistence layer and
// the credential used to write to it.
type GitHubConfig struct {
	// Token is the bearer credential for the contents API (env: GITHUB_TOKEN).
	Token string `mapstructure:"token"`
	// Owner is the repository owner (env: GITHUB_OWNER).
	Owner string `mapstructure:"owner"`
	// Repo is the repository name (env: GITHUB_REPO).
	Repo string `mapstructure:"repo"`
	// Branch is the branch all reads and writes target (env: GITHUB_BRANCH).
	Branch string `mapstructure:"branch"`
	// WebhookSecret validates push-event signatures; webhooks are disabled
	// when empty (env: GITHUB_WEBHOOK_SECRET).
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Level is the minimum level emitted (env: LOG_LEVEL).
	Level string `mapstructure:"level"`
}

// LoadConfig loads configuration from environment variables, overlaid by a
// .env file when one exists next to the binary.
func LoadConfig() (*Config, error) {
	// Missing .env is fine (e.g. production).
	_ = godotenv.Overload(".env")

	v := viper.New()
	v.SetDefault("server.port", 8080)
	v.SetDefault("github.token", "")
	v.SetDefault("github.owner", "")
	v.SetDefault("github.repo", "")
	v.SetDefault("github.branch", "main")
	v.SetDefault("github.webhook_secret", "")
	v.SetDefault("log.level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate fails fast on missing required settings, before any network call
// is attempted.
func (c *Config) Validate() error {
	var missing []string
	if c.GitHub.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.GitHub.Owner == "" {
		missing = append(missing, "GITHUB_OWNER")
	}
	if c.GitHub.Repo == "" {
		missing = append(missing, "GITHUB_REPO")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
