package controller

import (
	"strconv"

	"rainier-guide-be/internal/pkg/serverutils"
	"rainier-guide-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITrailController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Categories(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Format(ctx *fiber.Ctx) error
}

type trailController struct {
	trailService service.ITrailService
}

func NewTrailController(trailService service.ITrailService) ITrailController {
	return &trailController{trailService: trailService}
}

func (c *trailController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/trails")
	h.Get("", c.List)
	h.Get("/categories", c.Categories)
	h.Get("/list", c.Format)
	h.Get("/:name", c.Show)
}

// List supports ?difficulty=, ?category=, ?q= and ?max_miles=.
func (c *trailController) List(ctx *fiber.Ctx) error {
	maxMiles, _ := strconv.ParseFloat(ctx.Query("max_miles", "0"), 64)
	res := c.trailService.List(service.TrailQuery{
		Difficulty: ctx.Query("difficulty"),
		Category:   ctx.Query("category"),
		Search:     ctx.Query("q"),
		MaxMiles:   maxMiles,
	})
	return ctx.JSON(serverutils.SuccessResponse("Trails", res))
}

func (c *trailController) Categories(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Trail categories", c.trailService.Categories()))
}

func (c *trailController) Show(ctx *fiber.Ctx) error {
	hike, err := c.trailService.Find(ctx.Params("name"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Trail", hike))
}

// Format renders the list answer the chat gives for ?question=.
func (c *trailController) Format(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Trail list", c.trailService.Format(ctx.Query("question"))))
}
