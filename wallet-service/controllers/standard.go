package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/automate/wallet-linker/utils-go"
	"github.com/automate/wallet-linker/wallet"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
)

var (
	standardRoute utils.JwtMiddlewareConfig
)

func init() {
	standardRoute = utils.JwtMiddlewareConfig{
		ReadFrom: "header",
		Subject:  "dispatch",
		Scopes:   []string{"wallet"},
	}
}

type StandardController struct {
	fx.In

	Db *bun.DB
}

func RegisterStandardController(r *utils.Router, c StandardController) {
	r.Get("/healthz", c.health)
}

func (c *StandardController) health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), time.Second*2)
	defer cancel()

	if err := c.Db.PingContext(pingCtx); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
		})
	}

	return ctx.JSON(fiber.Map{
		"status": "ok",
	})
}

// eventContext attaches a logger tagged with the request id and fields to the request
// context. Everything the wallet service logs for this request goes through it.
func eventContext(c *fiber.Ctx, fields func(zerolog.Context) zerolog.Context) context.Context {
	requestId, _ := c.Locals("requestid").(string)
	if requestId == "" {
		requestId = uuid.NewString()
	}

	logger := fields(log.With().Str("request_id", requestId)).Logger()
	return logger.WithContext(c.UserContext())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, wallet.ErrNotFound), errors.Is(err, wallet.ErrMissingWallet):
		return fiber.StatusNotFound
	case errors.Is(err, wallet.ErrNoWalletLinked):
		return fiber.StatusConflict
	case errors.Is(err, wallet.ErrInvalidInput):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": wallet.Message(err),
	})
}
