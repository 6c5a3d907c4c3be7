// FILE: internal/controller/admin_controller.go
package controller

import (
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/pkg/serverutils"
	"nutricoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type adminController struct {
	memberTypeService service.IMemberTypeService
	memberService     service.IMemberService
}

func NewAdminController(memberTypeService service.IMemberTypeService, memberService service.IMemberService) IAdminController {
	return &adminController{
		memberTypeService: memberTypeService,
		memberService:     memberService,
	}
}

func (c *adminController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	h := api.Group("/admin", jwtMiddleware, serverutils.AdminOnly)
	h.Get("/member-types", c.ListMemberTypes)
	h.Post("/member-types", c.CreateMemberType)
	h.Put("/member-types/:id", c.UpdateMemberType)
	h.Get("/settings", c.GetSettings)
	h.Put("/settings", c.UpdateSettings)
	h.Put("/members/:id/member-type", c.AssignMemberType)
}

func (c *adminController) ListMemberTypes(ctx *fiber.Ctx) error {
	res, err := c.memberTypeService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Member types retrieved", res))
}

func (c *adminController) CreateMemberType(ctx *fiber.Ctx) error {
	var req dto.MemberTypeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.memberTypeService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Member type created", res))
}

func (c *adminController) UpdateMemberType(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid member type ID")
	}

	var req dto.MemberTypeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.memberTypeService.Update(ctx.Context(), id, &req)
	if err != nil {
		return mapCoachError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Member type updated", res))
}

func (c *adminController) GetSettings(ctx *fiber.Ctx) error {
	res, err := c.memberTypeService.GetSettings(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Settings retrieved", res))
}

func (c *adminController) UpdateSettings(ctx *fiber.Ctx) error {
	var req dto.SystemSettingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.memberTypeService.UpdateSettings(ctx.Context(), &req)
	if err != nil {
		return mapCoachError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Settings updated", res))
}

func (c *adminController) AssignMemberType(ctx *fiber.Ctx) error {
	memberID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid member ID")
	}

	var req dto.AssignMemberTypeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.memberService.AssignMemberType(ctx.Context(), memberID, &req)
	if err != nil {
		return mapCoachError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Member type assigned", res))
}
