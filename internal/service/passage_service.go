package service

import (
	"context"
	"encoding/json"
	"strings"

	"rainier-guide-be/internal/dto"
	"rainier-guide-be/internal/entity"
	"rainier-guide-be/internal/repository/contract"
	"rainier-guide-be/internal/repository/specification"
	"rainier-guide-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PassageSearcher is the retrieval step, exposed for inspecting what a query would ground on.
type PassageSearcher interface {
	Retrieve(ctx context.Context, query string, k int) ([]store.Passage, error)
}

type IPassageService interface {
	Queue(ctx context.Context, req *dto.IngestPassageRequest) (*dto.IngestPassageResponse, error)
	List(ctx context.Context, source, query string, limit, offset int) (*dto.PassageListResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.PassageResponse, error)
	Sources(ctx context.Context) ([]dto.SourceSummaryResponse, error)
	DeleteSource(ctx context.Context, source string) (*dto.DeleteSourceResponse, error)
	Search(ctx context.Context, req *dto.SearchPassagesRequest) ([]store.Passage, error)
}

type passageService struct {
	repo             contract.ParkPassageRepository
	publisherService IPublisherService
	searcher         PassageSearcher
	defaultK         int
}

func NewPassageService(repo contract.ParkPassageRepository, publisherService IPublisherService, searcher PassageSearcher, defaultK int) IPassageService {
	return &passageService{
		repo:             repo,
		publisherService: publisherService,
		searcher:         searcher,
		defaultK:         defaultK,
	}
}

func (s *passageService) Queue(ctx context.Context, req *dto.IngestPassageRequest) (*dto.IngestPassageResponse, error) {
	req.Source = strings.TrimSpace(req.Source)
	if strings.TrimSpace(req.Content) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "content is empty")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}
	return &dto.IngestPassageResponse{Source: req.Source, Queued: true}, nil
}

func (s *passageService) List(ctx context.Context, source, query string, limit, offset int) (*dto.PassageListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var filters []specification.Specification
	if source != "" {
		filters = append(filters, specification.BySource{Source: source})
	}
	if query != "" {
		filters = append(filters, specification.ContentMatches{Query: query})
	}

	total, err := s.repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append(filters, specification.ChunkOrder{}, specification.Pagination{Limit: limit, Offset: offset})
	passages, err := s.repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := &dto.PassageListResponse{Total: total, Passages: make([]dto.PassageResponse, 0, len(passages))}
	for _, p := range passages {
		res.Passages = append(res.Passages, toPassageResponse(p))
	}
	return res, nil
}

func (s *passageService) Show(ctx context.Context, id uuid.UUID) (*dto.PassageResponse, error) {
	p, err := s.repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "passage not found")
	}
	res := toPassageResponse(p)
	return &res, nil
}

func (s *passageService) Sources(ctx context.Context) ([]dto.SourceSummaryResponse, error) {
	rows, err := s.repo.Sources(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]dto.SourceSummaryResponse, len(rows))
	for i, r := range rows {
		res[i] = dto.SourceSummaryResponse{Source: r.Source, URL: r.URL, Chunks: r.Chunks}
	}
	return res, nil
}

func (s *passageService) DeleteSource(ctx context.Context, source string) (*dto.DeleteSourceResponse, error) {
	deleted, err := s.repo.DeleteBySource(ctx, source)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "source not found")
	}
	return &dto.DeleteSourceResponse{Source: source, Deleted: deleted}, nil
}

func (s *passageService) Search(ctx context.Context, req *dto.SearchPassagesRequest) ([]store.Passage, error) {
	k := req.K
	if k <= 0 {
		k = s.defaultK
	}
	return s.searcher.Retrieve(ctx, req.Query, k)
}

func toPassageResponse(p *entity.ParkPassage) dto.PassageResponse {
	return dto.PassageResponse{
		Id:         p.Id,
		Source:     p.Source,
		Title:      p.Title,
		URL:        p.URL,
		ChunkIndex: p.ChunkIndex,
		Content:    p.Content,
		Metadata:   p.Metadata,
		CreatedAt:  p.CreatedAt,
	}
}
