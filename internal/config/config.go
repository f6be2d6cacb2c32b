package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Token     string `mapstructure:"token"`
	AppID     string `mapstructure:"app_id"`
	GuildID   string `mapstructure:"guild_id"`
	LobbyName string `mapstructure:"lobby_name"`
	Mode      string `mapstructure:"mode"`
	Port      int    `mapstructure:"port"`
}

var ErrTokenMissing = errors.New("bot token is not configured")

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	v.SetDefault("lobby_name", "join to create")
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("app_id", "")
	v.SetDefault("guild_id", "")

	v.AutomaticEnv()
	// The token has no default, so bind it by hand; CLIENT_ID is the
	// historical name for the application id.
	_ = v.BindEnv("token", "TOKEN")
	_ = v.BindEnv("app_id", "APP_ID", "CLIENT_ID")
	_ = v.BindEnv("guild_id", "GUILD_ID")
	_ = v.BindEnv("lobby_name", "LOBBY_NAME")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults and env")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Token == "" {
		return nil, ErrTokenMissing
	}
	return &cfg, nil
}
