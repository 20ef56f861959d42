package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LoggerConfig struct {
	IsProduction bool   `env:"PRODUCTION"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

// ConfigureLogger sets up the global zerolog logger: JSON in production, console output
// otherwise. It also becomes the fallback for zerolog.Ctx on contexts without a logger.
func ConfigureLogger(config *LoggerConfig) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !config.IsProduction {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	zerolog.DefaultContextLogger = &log.Logger
}
