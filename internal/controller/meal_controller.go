// FILE: internal/controller/meal_controller.go
package controller

import (
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/pkg/serverutils"
	"nutricoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMealController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type mealController struct {
	mealService service.IMealService
}

func NewMealController(mealService service.IMealService) IMealController {
	return &mealController{mealService: mealService}
}

func (c *mealController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	api.Post("/meals", jwtMiddleware, c.LogMeal)
	api.Post("/exercises", jwtMiddleware, c.LogExercise)
}

func (c *mealController) LogMeal(ctx *fiber.Ctx) error {
	memberID, err := serverutils.MemberID(ctx)
	if err != nil {
		return err
	}

	var req dto.LogMealRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.mealService.LogMeal(ctx.Context(), memberID, &req)
	if err != nil {
		return mapCoachError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Meal logged", res))
}

func (c *mealController) LogExercise(ctx *fiber.Ctx) error {
	memberID, err := serverutils.MemberID(ctx)
	if err != nil {
		return err
	}

	var req dto.LogExerciseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.mealService.LogExercise(ctx.Context(), memberID, &req); err != nil {
		return mapCoachError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Exercise logged", nil))
}
