// Package config loads server configuration from a YAML file with
// PROGRESSION_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the progression server.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Channel ChannelConfig `mapstructure:"channel"`
}

// ServerConfig controls the HTTP/websocket listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// GameConfig holds the progression tunables.
type GameConfig struct {
	MaxEnergyDefault    int           `mapstructure:"max_energy_default"`
	EnergyRegenRate     int           `mapstructure:"energy_regen_rate"`
	EnergyRegenInterval time.Duration `mapstructure:"energy_regen_interval"`
	StartingStat        int           `mapstructure:"starting_stat"`
	PartySlots          int           `mapstructure:"party_slots"`
}

// ChannelConfig selects the channel endpoint for client-side consumers.
type ChannelConfig struct {
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5002")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("game.max_energy_default", 50)
	v.SetDefault("game.energy_regen_rate", 1)
	v.SetDefault("game.energy_regen_interval", time.Hour)
	v.SetDefault("game.starting_stat", 5)
	v.SetDefault("game.party_slots", 1)
	v.SetDefault("channel.mode", "development")
	v.SetDefault("channel.base_url", "")
}

// Load reads configuration from path. An empty path loads defaults plus
// environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PROGRESSION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
