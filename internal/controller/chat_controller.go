package controller

import (
	"tyrechat-be/internal/dto"
	"tyrechat-be/internal/pkg/serverutils"
	"tyrechat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// chatController carries the non-websocket chat surface: guest identity,
// durable history and feedback.
type IChatController interface {
	RegisterRoutes(r fiber.Router)
	GuestRegister(ctx *fiber.Ctx) error
	LoadHistory(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
	SubmitFeedback(ctx *fiber.Ctx) error
}

type chatController struct {
	guests   service.IGuestService
	history  service.IHistoryService
	feedback service.IFeedbackService
}

func NewChatController(
	guests service.IGuestService,
	history service.IHistoryService,
	feedback service.IFeedbackService,
) IChatController {
	return &chatController{
		guests:   guests,
		history:  history,
		feedback: feedback,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/guest/register", c.GuestRegister)
	h := r.Group("/chat", serverutils.OptionalJwtMiddleware)
	h.Get("/history/:userId", c.LoadHistory)
	h.Delete("/history/:userId", c.ClearHistory)
	h.Post("/feedback", c.SubmitFeedback)
}

func (c *chatController) GuestRegister(ctx *fiber.Ctx) error {
	res, err := c.guests.Register()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Guest registered",
		"data":    res,
	})
}

func (c *chatController) LoadHistory(ctx *fiber.Ctx) error {
	userId := ctx.Params("userId")
	res, err := c.history.Load(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "History loaded",
		"data":    res,
	})
}

func (c *chatController) ClearHistory(ctx *fiber.Ctx) error {
	userId := ctx.Params("userId")
	if err := c.history.Clear(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "History cleared",
		"data":    nil,
	})
}

func (c *chatController) SubmitFeedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if req.UserId == "" || req.Rating < 1 || req.Rating > 5 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "user_id and a rating between 1 and 5 are required",
		})
	}

	if err := c.feedback.Submit(ctx.Context(), &req); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Feedback recorded",
		"data":    nil,
	})
}
