package mapper

import (
	"time"

	"rainier-guide-be/internal/entity"
	"rainier-guide-be/internal/model"
	"rainier-guide-be/pkg/store"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ParkPassageMapper struct{}

func NewParkPassageMapper() *ParkPassageMapper {
	return &ParkPassageMapper{}
}

func (m *ParkPassageMapper) ToEntity(p *model.ParkPassage) *entity.ParkPassage {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.ParkPassage{
		Id:         p.Id,
		Content:    p.Content,
		Title:      p.Title,
		Source:     p.Source,
		URL:        p.URL,
		ChunkIndex: p.ChunkIndex,
		Metadata:   map[string]interface{}(p.Metadata),
		Embedding:  p.Embedding.Slice(),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *ParkPassageMapper) ToModel(e *entity.ParkPassage) *model.ParkPassage {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ParkPassage{
		Id:         e.Id,
		Content:    e.Content,
		Title:      e.Title,
		Source:     e.Source,
		URL:        e.URL,
		ChunkIndex: e.ChunkIndex,
		Metadata:   datatypes.JSONMap(e.Metadata),
		Embedding:  pgvector.NewVector(e.Embedding),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

// ToPassage is the retrieval view of a stored chunk.
func (m *ParkPassageMapper) ToPassage(p *model.ParkPassage, score float64) store.Passage {
	return store.Passage{
		ID:      p.Id.String(),
		Content: p.Content,
		Source:  p.Source,
		URL:     p.URL,
		Title:   p.Title,
		Score:   score,
	}
}

func (m *ParkPassageMapper) ToEntities(passages []*model.ParkPassage) []*entity.ParkPassage {
	entities := make([]*entity.ParkPassage, len(passages))
	for i, p := range passages {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *ParkPassageMapper) ToModels(passages []*entity.ParkPassage) []*model.ParkPassage {
	models := make([]*model.ParkPassage, len(passages))
	for i, p := range passages {
		models[i] = m.ToModel(p)
	}
	return models
}
