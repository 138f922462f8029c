package implementation

import (
	"context"
	"errors"
	"fmt"

	"rainier-guide-be/internal/entity"
	"rainier-guide-be/internal/mapper"
	"rainier-guide-be/internal/model"
	"rainier-guide-be/internal/repository/contract"
	"rainier-guide-be/internal/repository/specification"
	"rainier-guide-be/pkg/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ParkPassageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ParkPassageMapper
}

func NewParkPassageRepository(db *gorm.DB) contract.ParkPassageRepository {
	return &ParkPassageRepositoryImpl{
		db:     db,
		mapper: mapper.NewParkPassageMapper(),
	}
}

// wrapDBError keeps the SQLSTATE of postgres failures visible in logs.
func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: postgres %s (%s): %w", op, pgErr.Code, pgErr.Message, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *ParkPassageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ParkPassageRepositoryImpl) Create(ctx context.Context, passage *entity.ParkPassage) error {
	m := r.mapper.ToModel(passage)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return wrapDBError("create passage", err)
	}
	*passage = *r.mapper.ToEntity(m)
	return nil
}

func (r *ParkPassageRepositoryImpl) CreateBulk(ctx context.Context, passages []*entity.ParkPassage) error {
	if len(passages) == 0 {
		return nil
	}
	models := r.mapper.ToModels(passages)
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return wrapDBError("create passages", err)
	}

	for i, m := range models {
		*passages[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ParkPassageRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return wrapDBError("delete passage", r.db.WithContext(ctx).Delete(&model.ParkPassage{}, id).Error)
}

// DeleteBySource hard-deletes every chunk of a source so re-ingestion replaces it.
func (r *ParkPassageRepositoryImpl) DeleteBySource(ctx context.Context, source string) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().Where("source = ?", source).Delete(&model.ParkPassage{})
	return res.RowsAffected, wrapDBError("delete source", res.Error)
}

func (r *ParkPassageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ParkPassage, error) {
	var m model.ParkPassage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapDBError("find passage", err)
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ParkPassageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ParkPassage, error) {
	var models []*model.ParkPassage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, wrapDBError("list passages", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ParkPassageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ParkPassage{}), specs...)
	err := query.Count(&count).Error
	return count, wrapDBError("count passages", err)
}

func (r *ParkPassageRepositoryImpl) Sources(ctx context.Context) ([]entity.SourceSummary, error) {
	var rows []entity.SourceSummary
	err := r.db.WithContext(ctx).
		Model(&model.ParkPassage{}).
		Select("source, MAX(url) AS url, COUNT(*) AS chunks").
		Group("source").
		Order("source ASC").
		Scan(&rows).Error
	return rows, wrapDBError("list sources", err)
}

func (r *ParkPassageRepositoryImpl) SearchSimilar(ctx context.Context, vector []float32, k int) ([]store.Passage, error) {
	if k <= 0 {
		return []store.Passage{}, nil
	}

	type result struct {
		model.ParkPassage
		Score float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	// Cosine distance in pgvector is 1 - cosine similarity.
	err := r.db.WithContext(ctx).
		Table("park_passages").
		Select("park_passages.*, 1 - (embedding <=> ?) AS score", queryVector).
		Where("deleted_at IS NULL").
		Order(gorm.Expr("embedding <=> ?", queryVector)).
		Limit(k).
		Scan(&results).Error
	if err != nil {
		return nil, wrapDBError("vector search", err)
	}

	passages := make([]store.Passage, len(results))
	for i := range results {
		passages[i] = r.mapper.ToPassage(&results[i].ParkPassage, results[i].Score)
	}
	return passages, nil
}
