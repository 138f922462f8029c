package controller

import (
	"net/url"
	"strconv"

	"rainier-guide-be/internal/dto"
	"rainier-guide-be/internal/pkg/serverutils"
	"rainier-guide-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPassageController interface {
	RegisterRoutes(r fiber.Router, admin fiber.Handler)
	Ingest(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Sources(ctx *fiber.Ctx) error
	DeleteSource(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type passageController struct {
	passageService service.IPassageService
}

func NewPassageController(passageService service.IPassageService) IPassageController {
	return &passageController{passageService: passageService}
}

func (c *passageController) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	h := r.Group("/passages", admin)
	h.Post("", c.Ingest)
	h.Get("", c.List)
	h.Get("/sources", c.Sources)
	h.Delete("/sources/:source", c.DeleteSource)
	h.Post("/search", c.Search)
	h.Get("/:id", c.Show)
}

func (c *passageController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestPassageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.passageService.Queue(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued for ingestion", res))
}

func (c *passageController) List(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	res, err := c.passageService.List(ctx.UserContext(), ctx.Query("source"), ctx.Query("q"), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Passages", res))
}

func (c *passageController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid passage ID"))
	}
	res, err := c.passageService.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Passage", res))
}

func (c *passageController) Sources(ctx *fiber.Ctx) error {
	res, err := c.passageService.Sources(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Sources", res))
}

func (c *passageController) DeleteSource(ctx *fiber.Ctx) error {
	source, err := url.PathUnescape(ctx.Params("source"))
	if err != nil || source == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid source"))
	}
	res, err := c.passageService.DeleteSource(ctx.UserContext(), source)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Source deleted", res))
}

func (c *passageController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchPassagesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.passageService.Search(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Nearest passages", res))
}
