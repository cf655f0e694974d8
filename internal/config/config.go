package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env-default:"8080"`
	Relay      Relay  `yaml:"relay"`
}

type Relay struct {
	ChatHistoryLimit int      `yaml:"chat-history-limit" env-default:"10"`
	Palette          []string `yaml:"palette"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// GetPalette - returns the configured palette or the default one when the
// config file leaves it empty.
func (that *Relay) GetPalette() []string {
	if len(that.Palette) != 0 {
		return that.Palette
	}

	return []string{"red", "blue", "green", "orange", "purple", "teal", "magenta", "brown"}
}
