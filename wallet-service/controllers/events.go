package controllers

import (
	"strings"

	"github.com/automate/wallet-linker/models"
	"github.com/automate/wallet-linker/utils-go"
	"github.com/automate/wallet-linker/wallet"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	issueCommentCreated = "issue_comment.created"
	walletCommand       = "/wallet"
	unsetArgument       = "unset"
)

type EventController struct {
	fx.In

	Service *wallet.Service
}

func RegisterEventController(r *utils.Router, c EventController) {
	r.Post("/events", utils.Protected(standardRoute), c.dispatch)
}

type eventRequest struct {
	EventName    string              `json:"eventName" validate:"required"`
	EventPayload models.EventPayload `json:"eventPayload" validate:"-"`
}

func (c *EventController) dispatch(ctx *fiber.Ctx) error {
	req := new(eventRequest)
	if err := utils.StandardBodyParse(ctx, req); err != nil {
		return err
	}

	payload := req.EventPayload
	eventCtx := eventContext(ctx, func(l zerolog.Context) zerolog.Context {
		return l.Str("event", req.EventName).Int64("sender", payload.Sender.Id)
	})
	logger := zerolog.Ctx(eventCtx)

	if req.EventName != issueCommentCreated {
		logger.Error().Msgf("Unsupported event: %s", req.EventName)
		return fiber.NewError(fiber.StatusBadRequest, "Unsupported event: "+req.EventName)
	}

	if errors := utils.Validate(&payload); len(errors) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid field "+errors[0].FailedField+": "+errors[0].Tag)
	}

	args := strings.Fields(payload.Comment.Body)
	if len(args) == 0 || args[0] != walletCommand {
		logger.Debug().Msg("Comment is not a wallet command")
		return ctx.JSON(fiber.Map{
			"message": "ignored",
		})
	}

	if len(args) < 2 {
		return fiber.NewError(fiber.StatusBadRequest, "Missing wallet address")
	}

	if args[1] == unsetArgument {
		if err := c.Service.UnlinkWallet(eventCtx, payload.Sender.Id); err != nil {
			return respondError(ctx, err)
		}

		return ctx.JSON(fiber.Map{
			"message": "unlinked",
		})
	}

	if err := c.Service.UpsertWalletAddress(eventCtx, payload, args[1]); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "linked",
		"address": args[1],
	})
}
