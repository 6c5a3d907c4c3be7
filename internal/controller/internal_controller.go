// FILE: internal/controller/internal_controller.go
// Endpoints for the external cron and the messaging gateway
package controller

import (
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/pkg/serverutils"
	"nutricoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IInternalController interface {
	RegisterRoutes(api fiber.Router, cronMiddleware fiber.Handler)
}

type internalController struct {
	coachService  service.ICoachService
	memberService service.IMemberService
}

func NewInternalController(coachService service.ICoachService, memberService service.IMemberService) IInternalController {
	return &internalController{
		coachService:  coachService,
		memberService: memberService,
	}
}

func (c *internalController) RegisterRoutes(api fiber.Router, cronMiddleware fiber.Handler) {
	h := api.Group("/internal", cronMiddleware)
	h.Post("/coach/batch/:pass", c.RunPass)
	h.Post("/members", c.EnsureMember)
}

// RunPass runs one notification category or sweep and reports its counts.
// The pass runs to completion even if the caller disconnects.
func (c *internalController) RunPass(ctx *fiber.Ctx) error {
	res, err := c.coachService.RunPass(ctx.UserContext(), ctx.Params("pass"))
	if err != nil {
		return mapCoachError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Pass completed", res))
}

// EnsureMember is called by the messaging gateway on first contact.
func (c *internalController) EnsureMember(ctx *fiber.Ctx) error {
	var req dto.EnsureMemberRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.memberService.EnsureMember(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Member ready", res))
}
