package main

import (
	"errors"

	"github.com/spf13/viper"
)

// daemonConfig mirrors the slice of config the HTTP service needs;
// CLI flags remain the source of truth for the chunkpdf CLI (spec.md
// §6) but the long-running service additionally loads defaults from
// the environment or an optional YAML file, following the config
// stack jackzampolin-shelf uses.
type daemonConfig struct {
	Port             string `mapstructure:"port"`
	MaxUploadBytes   int64  `mapstructure:"max_upload_bytes"`
	DefaultMaxTokens int    `mapstructure:"default_max_tokens"`
	DefaultMinTokens int    `mapstructure:"default_min_tokens"`
	DefaultOverlap   int    `mapstructure:"default_overlap"`
	Threads          int    `mapstructure:"threads"`
}

func loadConfig() (daemonConfig, error) {
	viper.SetDefault("port", "8080")
	viper.SetDefault("max_upload_bytes", int64(64<<20))
	viper.SetDefault("default_max_tokens", 512)
	viper.SetDefault("default_min_tokens", 150)
	viper.SetDefault("default_overlap", 0)
	viper.SetDefault("threads", 0)

	viper.SetEnvPrefix("CHUNKPDFD")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return daemonConfig{}, err
		}
	}

	var cfg daemonConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return daemonConfig{}, err
	}
	return cfg, nil
}
