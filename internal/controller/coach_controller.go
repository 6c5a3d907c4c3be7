// FILE: internal/controller/coach_controller.go
package controller

import (
	"errors"
	"strconv"

	"nutricoach-be/internal/coach"
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/serverutils"
	"nutricoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICoachController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type coachController struct {
	coachService        service.ICoachService
	memberService       service.IMemberService
	notificationService *service.NotificationService
}

func NewCoachController(
	coachService service.ICoachService,
	memberService service.IMemberService,
	notificationService *service.NotificationService,
) ICoachController {
	return &coachController{
		coachService:        coachService,
		memberService:       memberService,
		notificationService: notificationService,
	}
}

func (c *coachController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	h := api.Group("/coach", jwtMiddleware)
	h.Get("/me", c.Me)
	h.Get("/recommendation", c.GetRecommendation)
	h.Delete("/recommendation", c.InvalidateRecommendation)
	h.Get("/usage/:kind", c.CheckUsage)
	h.Put("/pause", c.Pause)
	h.Put("/preferences", c.UpdatePreferences)
	h.Get("/notifications", c.Notifications)
}

func (c *coachController) Me(ctx *fiber.Ctx) error {
	memberID, err := serverutils.MemberID(ctx)
	if err != nil {
		return err
	}

	res, err := c.memberService.GetMember(ctx.Context(), memberID)
	if err != nil {
		return mapCoachError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Member retrieved", res))
}

// GetRecommendation returns today's next-meal recommendation.
// Query: refresh=true forces regeneration, bounded by the member type quota and 10 a day.
func (c *coachController) GetRecommendation(ctx *fiber.Ctx) error {
	memberID, err := serverutils.MemberID(ctx)
	if err != nil {
		return err
	}

	res, err := c.coachService.GetRecommendation(ctx.Context(), memberID, ctx.QueryBool("refresh", false))
	if err != nil {
		return mapCoachError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Recommendation retrieved", res))
}

func (c *coachController) InvalidateRecommendation(ctx *fiber.Ctx) error {
	memberID, err := serverutils.MemberID(ctx)
	if err != nil {
		return err
	}

	if err := c.coachService.InvalidateRecommendation(ctx.Context(), memberID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Recommendation invalidated", nil))
}

func (c *coachController) CheckUsage(ctx *fiber.Ctx) error {
	memberID, err := serverutils.MemberID(ctx)
	if err != nil {
		return err
	}

	kind, ok := entity.ParseLimitKind(ctx.Params("kind"))
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, coach.ErrUnknownLimitKind.Error())
	}

	res := c.coachService.CheckUsage(ctx.Context(), memberID, kind)
	return ctx.JSON(serverutils.SuccessResponse("Usage retrieved", res))
}

func (c *coachController) Pause(ctx *fiber.Ctx) error {
	memberID, err := serverutils.MemberID(ctx)
	if err != nil {
		return err
	}

	var req dto.PauseNotificationsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := c.memberService.PauseNotifications(ctx.Context(), memberID, req.Until); err != nil {
		return mapCoachError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Notification pause updated", nil))
}

func (c *coachController) UpdatePreferences(ctx *fiber.Ctx) error {
	memberID, err := serverutils.MemberID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdatePreferencesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := c.memberService.UpdatePreferences(ctx.Context(), memberID, &req); err != nil {
		return mapCoachError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Preferences updated", nil))
}

func (c *coachController) Notifications(ctx *fiber.Ctx) error {
	memberID, err := serverutils.MemberID(ctx)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	items, total, err := c.notificationService.GetNotifications(ctx.Context(), memberID, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notifications retrieved", fiber.Map{
		"items": items,
		"total": total,
	}))
}

// mapCoachError turns domain sentinels into HTTP errors.
func mapCoachError(err error) error {
	switch {
	case errors.Is(err, coach.ErrMemberNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Member not found")
	case errors.Is(err, coach.ErrMemberTypeNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Member type not found")
	case errors.Is(err, coach.ErrUnknownCategory):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUsageLimitReached):
		return fiber.NewError(fiber.StatusTooManyRequests, "Daily usage limit reached")
	}
	return err
}
