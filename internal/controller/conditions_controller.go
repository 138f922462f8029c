package controller

import (
	"strconv"

	"rainier-guide-be/internal/pkg/serverutils"
	"rainier-guide-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConditionsController interface {
	RegisterRoutes(r fiber.Router, admin fiber.Handler)
	Weather(ctx *fiber.Ctx) error
	Forecast(ctx *fiber.Ctx) error
	Alerts(ctx *fiber.Ctx) error
	IndexAlerts(ctx *fiber.Ctx) error
}

type conditionsController struct {
	conditionsService service.IConditionsService
}

func NewConditionsController(conditionsService service.IConditionsService) IConditionsController {
	return &conditionsController{conditionsService: conditionsService}
}

func (c *conditionsController) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	h := r.Group("/conditions")
	h.Get("/weather", c.Weather)
	h.Get("/forecast", c.Forecast)
	h.Get("/alerts", c.Alerts)
	h.Post("/alerts/index", admin, c.IndexAlerts)
}

func (c *conditionsController) Weather(ctx *fiber.Ctx) error {
	res, err := c.conditionsService.Current(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Current conditions", res))
}

func (c *conditionsController) Forecast(ctx *fiber.Ctx) error {
	days, _ := strconv.Atoi(ctx.Query("days", "5"))
	res, err := c.conditionsService.Forecast(ctx.UserContext(), days)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Forecast", res))
}

func (c *conditionsController) Alerts(ctx *fiber.Ctx) error {
	res, err := c.conditionsService.Alerts(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Park alerts", res))
}

func (c *conditionsController) IndexAlerts(ctx *fiber.Ctx) error {
	res, err := c.conditionsService.IndexAlerts(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Park alerts queued", res))
}
