package contract

import (
	"context"

	"rainier-guide-be/internal/entity"
	"rainier-guide-be/internal/repository/specification"
	"rainier-guide-be/pkg/store"

	"github.com/google/uuid"
)

type ParkPassageRepository interface {
	Create(ctx context.Context, passage *entity.ParkPassage) error
	CreateBulk(ctx context.Context, passages []*entity.ParkPassage) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySource(ctx context.Context, source string) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ParkPassage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ParkPassage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Sources(ctx context.Context) ([]entity.SourceSummary, error)
	// SearchSimilar returns the k nearest chunks by cosine distance, best first, scored 1 - distance.
	SearchSimilar(ctx context.Context, vector []float32, k int) ([]store.Passage, error)
}
