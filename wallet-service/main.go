package main

import (
	"context"
	"time"

	"github.com/automate/wallet-linker/locks"
	"github.com/automate/wallet-linker/models"
	"github.com/automate/wallet-linker/repos"
	"github.com/automate/wallet-linker/server-go"
	"github.com/automate/wallet-linker/utils-go"
	"github.com/automate/wallet-linker/wallet"
	"github.com/automate/wallet-linker/wallet-service/config"
	"github.com/automate/wallet-linker/wallet-service/controllers"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
)

func main() {

	opts := []fx.Option{}
	opts = append(opts, provideOptions()...)
	opts = append(opts, fx.Invoke(run))

	app := fx.New(opts...)

	app.Run()
}

func provideOptions() []fx.Option {
	return []fx.Option{
		fx.Provide(config.Parse),
		fx.Provide(utils.ConvertConfig[*config.Config, utils.LoggerConfig]),
		fx.Invoke(utils.ConfigureLogger),
		fx.Provide(utils.ConvertConfig[*config.Config, server.Config]),
		fx.Provide(utils.ConvertConfig[*config.Config, utils.DatabaseConfig]),
		fx.Provide(utils.ConvertConfig[*config.Config, utils.RedisConfig]),
		fx.Provide(utils.ConvertConfig[*config.Config, locks.Config]),
		fx.Invoke(initJwt),
		fx.Provide(utils.ProvideDatabase),
		fx.Provide(utils.ProvideRedis),
		fx.Provide(locks.ProvideLocker),
		fx.Provide(server.CreateServer),
		fx.Provide(utils.GetDefaultRouter),
		fx.Invoke(migrate),
		fx.Provide(repos.NewUserRepo),
		fx.Provide(repos.NewWalletRepo),
		fx.Provide(repos.NewLocationRepo),
		fx.Provide(provideService),
		fx.Invoke(controllers.RegisterStandardController),
		fx.Invoke(controllers.RegisterEventController),
		fx.Invoke(controllers.RegisterUserController),
	}
}

func initJwt(config *config.Config) {
	if len(config.JwtPublicKey) == 0 {
		log.Warn().Msg("JWT_PUBLIC_KEY not set, routes are not protected")
		return
	}
	utils.InitSharedConstants(utils.ParsePublicKey(config.JwtPublicKey))
}

func migrate(db *bun.DB, config *config.Config) error {
	if !config.AutoMigrate {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	return models.InitSchema(ctx, db)
}

func provideService(users *repos.UserRepo, wallets *repos.WalletRepo, locations *repos.LocationRepo, locker wallet.Locker) *wallet.Service {
	return wallet.NewService(users, wallets, locations, locker)
}

func run(app *fiber.App, config *server.Config, db *bun.DB, rdb *redis.Client, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			errChan := make(chan error)

			go func() {
				errChan <- app.Listen(config.Port)
			}()

			select {
			case err := <-errChan:
				return err
			case <-time.After(100 * time.Millisecond):
				return nil
			}
		},
		OnStop: func(ctx context.Context) error {
			if err := app.Shutdown(); err != nil {
				return err
			}
			if rdb != nil {
				_ = rdb.Close()
			}
			return db.Close()
		},
	})
}
