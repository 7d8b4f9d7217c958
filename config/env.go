package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration read from the environment
type Config struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"4000"`

	// Rounds are kept in memory when DATABASE_URL is empty
	DatabaseURL string `env:"DATABASE_URL"`

	RedisURL      string `env:"REDIS_URL" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ClientOrigin       string `env:"CLIENT_ORIGIN"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"200"`

	Anchor AnchorConfig
}

// AnchorConfig enables on-chain commitment anchoring when all of RPCURL,
// ContractAddress and PrivateKey are set
type AnchorConfig struct {
	RPCURL          string `env:"ANCHOR_RPC_URL"`
	ContractAddress string `env:"ANCHOR_CONTRACT_ADDRESS"`
	PrivateKey      string `env:"ANCHOR_PRIVATE_KEY"`
	ChainID         int64  `env:"ANCHOR_CHAIN_ID" envDefault:"5003"`
}

func (a AnchorConfig) Enabled() bool {
	return a.RPCURL != "" && a.ContractAddress != "" && a.PrivateKey != ""
}

// Addr is the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads an optional .env file and parses the environment into a Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", cfg.RateLimitPerMinute)
	}
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
