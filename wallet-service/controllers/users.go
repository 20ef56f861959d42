package controllers

import (
	"github.com/automate/wallet-linker/models"
	"github.com/automate/wallet-linker/utils-go"
	"github.com/automate/wallet-linker/wallet"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type UserController struct {
	fx.In

	Service *wallet.Service
}

func RegisterUserController(r *utils.Router, c UserController) {
	group := r.Group("/users/:id", utils.Protected(standardRoute))

	group.Get("/wallet", c.getAddress)
	group.Post("/wallet", c.linkWallet)
	group.Delete("/wallet", c.unlinkWallet)
}

type linkRequest struct {
	Address        string `json:"address" validate:"required,max=256"`
	CommentId      int64  `json:"comment_id" validate:"gte=0"`
	IssueId        int64  `json:"issue_id" validate:"gte=0"`
	RepositoryId   int64  `json:"repository_id" validate:"gte=0"`
	OwnerId        int64  `json:"owner_id" validate:"gte=0"`
	OrganizationId int64  `json:"organization_id" validate:"gte=0"`
}

func (r *linkRequest) payload(userId int64) models.EventPayload {
	payload := models.EventPayload{
		Sender:     models.Account{Id: userId},
		Comment:    models.Comment{Id: r.CommentId},
		Issue:      models.Issue{Id: r.IssueId},
		Repository: models.Repository{Id: r.RepositoryId, Owner: models.Account{Id: r.OwnerId}},
	}
	if r.OrganizationId > 0 {
		payload.Organization = &models.Organization{Id: r.OrganizationId}
	}
	return payload
}

func userId(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
	}
	return int64(id), nil
}

func withUser(id int64) func(zerolog.Context) zerolog.Context {
	return func(l zerolog.Context) zerolog.Context {
		return l.Int64("user_id", id)
	}
}

func (c *UserController) getAddress(ctx *fiber.Ctx) error {
	id, err := userId(ctx)
	if err != nil {
		return err
	}

	address, err := c.Service.GetAddress(eventContext(ctx, withUser(id)), id)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"address": address,
	})
}

func (c *UserController) linkWallet(ctx *fiber.Ctx) error {
	id, err := userId(ctx)
	if err != nil {
		return err
	}

	req := new(linkRequest)
	if err := utils.StandardBodyParse(ctx, req); err != nil {
		return err
	}

	if err := c.Service.UpsertWalletAddress(eventContext(ctx, withUser(id)), req.payload(id), req.Address); err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"address": req.Address,
	})
}

func (c *UserController) unlinkWallet(ctx *fiber.Ctx) error {
	id, err := userId(ctx)
	if err != nil {
		return err
	}

	if err := c.Service.UnlinkWallet(eventContext(ctx, withUser(id)), id); err != nil {
		return respondError(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
