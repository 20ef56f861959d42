// Package cli is the operator command line for the wallet linker.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/automate/wallet-linker/locks"
	"github.com/automate/wallet-linker/repos"
	"github.com/automate/wallet-linker/utils-go"
	"github.com/automate/wallet-linker/wallet"
	"github.com/caarlos0/env/v6"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

// Config is read from the same environment as the service.
type Config struct {
	IsProduction  bool          `env:"PRODUCTION"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"warn"`
	Driver        string        `env:"DB_DRIVER" envDefault:"pg"`
	Dsn           string        `env:"DSN"`
	RedisUrl      string        `env:"REDIS_URL"`
	LockTtl       time.Duration `env:"LOCK_TTL" envDefault:"10s"`
	LockWait      time.Duration `env:"LOCK_WAIT" envDefault:"5s"`
	JwtPrivateKey string        `env:"JWT_PRIVATE_KEY"`
}

// RootOptions holds flags shared by every command.
type RootOptions struct {
	EnvFile string
	Verbose bool
	Timeout time.Duration

	config Config
}

// NewRootCommand creates the wallet-cli command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wallet-cli",
		Short: "Inspect and repair wallet links",
		Long: `Operator tool for the wallet linker.

Reads DB_DRIVER, DSN, REDIS_URL and JWT_PRIVATE_KEY from the environment
or from the file given with --env.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", "", ".env file path")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every query")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", time.Minute, "deadline for the whole command")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewAddressCommand(opts))
	cmd.AddCommand(NewUnlinkCommand(opts))
	cmd.AddCommand(NewLinkCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

func (o *RootOptions) load() error {
	utils.LoadEnvFile(o.EnvFile)

	if err := env.Parse(&o.config); err != nil {
		return fmt.Errorf("parse env config: %w", err)
	}

	level := o.config.LogLevel
	if o.Verbose {
		level = "debug"
	}
	utils.ConfigureLogger(&utils.LoggerConfig{IsProduction: o.config.IsProduction, LogLevel: level})

	return nil
}

func (o *RootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.Timeout)
}

func (o *RootOptions) openDatabase() (*bun.DB, error) {
	return utils.ProvideDatabase(&utils.DatabaseConfig{
		Driver:       o.config.Driver,
		Dsn:          o.config.Dsn,
		IsProduction: !o.Verbose,
	})
}

// openService wires the wallet service the same way the dispatcher does. The returned
// function closes every connection it opened.
func (o *RootOptions) openService() (*wallet.Service, func(), error) {
	db, err := o.openDatabase()
	if err != nil {
		return nil, nil, err
	}

	rdb, err := utils.ProvideRedis(&utils.RedisConfig{RedisUrl: o.config.RedisUrl})
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	locker := locks.ProvideLocker(rdb, &locks.Config{LockTtl: o.config.LockTtl, LockWait: o.config.LockWait})
	svc := wallet.NewService(repos.NewUserRepo(db), repos.NewWalletRepo(db), repos.NewLocationRepo(db), locker)

	return svc, func() {
		closeRedis(rdb)
		_ = db.Close()
	}, nil
}

func closeRedis(rdb *redis.Client) {
	if rdb != nil {
		_ = rdb.Close()
	}
}
