package service

import (
	"strings"

	"rainier-guide-be/internal/dto"
	"rainier-guide-be/pkg/trails"

	"github.com/gofiber/fiber/v2"
)

type TrailQuery struct {
	Difficulty string
	Category   string
	Search     string
	MaxMiles   float64
}

type ITrailService interface {
	List(q TrailQuery) *dto.TrailListResponse
	Categories() *dto.TrailCategoriesResponse
	Find(name string) (*trails.Hike, error)
	Format(question string) *dto.TrailListTextResponse
}

type trailService struct {
	catalog *trails.Catalog
}

func NewTrailService(catalog *trails.Catalog) ITrailService {
	return &trailService{catalog: catalog}
}

// List narrows the dataset by every filter that is set.
func (s *trailService) List(q TrailQuery) *dto.TrailListResponse {
	var hikes []trails.Hike
	switch {
	case q.Search != "":
		hikes = s.catalog.Search(q.Search)
	case q.Category != "":
		hikes = s.catalog.ByCategory(q.Category)
	case q.Difficulty != "":
		hikes = s.catalog.ByDifficulty(q.Difficulty)
	default:
		hikes = s.catalog.All()
	}

	out := make([]trails.Hike, 0, len(hikes))
	for _, h := range hikes {
		if q.Difficulty != "" && !strings.EqualFold(h.Difficulty, q.Difficulty) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(h.Category, q.Category) {
			continue
		}
		if q.MaxMiles > 0 && h.LengthMiles() > q.MaxMiles {
			continue
		}
		out = append(out, h)
	}
	return &dto.TrailListResponse{Count: len(out), Trails: out}
}

func (s *trailService) Categories() *dto.TrailCategoriesResponse {
	return &dto.TrailCategoriesResponse{Categories: s.catalog.Categories()}
}

func (s *trailService) Find(name string) (*trails.Hike, error) {
	h, ok := s.catalog.Find(name)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "trail not found")
	}
	return &h, nil
}

func (s *trailService) Format(question string) *dto.TrailListTextResponse {
	return &dto.TrailListTextResponse{Question: question, Text: s.catalog.FormatList(question)}
}
