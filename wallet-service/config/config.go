package config

import (
	"time"

	"github.com/automate/wallet-linker/utils-go"
	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port           string        `env:"LISTEN_ADDR" envDefault:":3000"`
	Timeout        uint64        `env:"TIMEOUT" envDefault:"10"`
	ReadBufferSize int           `env:"READ_BUFFER_SIZE" envDefault:"4096"`
	BodyLimit      int           `env:"BODY_LIMIT" envDefault:"1048576"`
	AppName        string        `env:"APP_NAME" envDefault:"Wallet Linker"`
	IsProduction   bool          `env:"PRODUCTION"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	CookieKey      string        `env:"COOKIE_KEY"`
	Driver         string        `env:"DB_DRIVER" envDefault:"pg"`
	Dsn            string        `env:"DSN"`
	AutoMigrate    bool          `env:"AUTO_MIGRATE"`
	RedisUrl       string        `env:"REDIS_URL"`
	LockTtl        time.Duration `env:"LOCK_TTL" envDefault:"10s"`
	LockWait       time.Duration `env:"LOCK_WAIT" envDefault:"5s"`
	JwtPublicKey   string        `env:"JWT_PUBLIC_KEY"`
	JwtPrivateKey  string        `env:"JWT_PRIVATE_KEY"`
}

func Parse() (*Config, error) {
	cfg := Config{
		IsProduction: utils.ParseFlags(),
	}

	if err := env.Parse(&cfg); err != nil {
		log.Panic().Err(err).Msg("Failed to parse env config")
	}

	return &cfg, nil
}
