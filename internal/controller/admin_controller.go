package controller

import (
	"strconv"

	"rainier-guide-be/internal/pkg/serverutils"
	"rainier-guide-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router, admin fiber.Handler)
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	logService service.ILogService
}

func NewAdminController(logService service.ILogService) IAdminController {
	return &adminController{logService: logService}
}

func (c *adminController) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	h := r.Group("/admin", admin)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))

	logs, err := c.logService.List(ctx.Query("level"), ctx.Query("module"), page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	logId := ctx.Params("id") // MD5 hash, not UUID

	l, err := c.logService.Show(logId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}
