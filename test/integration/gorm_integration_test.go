package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"rainier-guide-be/internal/entity"
	"rainier-guide-be/internal/model"
	"rainier-guide-be/internal/repository/specification"
	"rainier-guide-be/internal/repository/unitofwork"
	"rainier-guide-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const embeddingDims = 768

// unitVector points along one axis so cosine scores are exact.
func unitVector(axis int) []float32 {
	v := make([]float32, embeddingDims)
	v[axis] = 1
	return v
}

func TestParkPassageRepository(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.EnsureVectorExtension(gormDB))
	require.NoError(t, gormDB.AutoMigrate(&model.ParkPassage{}))

	ctx := context.Background()
	source := "integration-" + uuid.NewString()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	repo := uowFactory.NewUnitOfWork(ctx).ParkPassageRepository()
	t.Cleanup(func() { _, _ = repo.DeleteBySource(ctx, source) })

	t.Run("Transactional bulk insert", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		err := uow.ParkPassageRepository().CreateBulk(ctx, []*entity.ParkPassage{
			{Source: source, Title: "Skyline", Content: "Skyline Trail loop from Paradise", ChunkIndex: 0, Embedding: unitVector(0)},
			{Source: source, Title: "Skyline", Content: "Panorama Point views", ChunkIndex: 1, Embedding: unitVector(1)},
		})
		require.NoError(t, err)
		require.NoError(t, uow.Commit())

		count, err := repo.Count(ctx, specification.BySource{Source: source})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Rolled back insert leaves nothing", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.ParkPassageRepository().Create(ctx, &entity.ParkPassage{
			Source: source, Content: "discarded", ChunkIndex: 9, Embedding: unitVector(2),
		}))
		require.NoError(t, uow.Rollback())

		count, err := repo.Count(ctx, specification.BySource{Source: source})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Nearest chunk ranks first", func(t *testing.T) {
		passages, err := repo.SearchSimilar(ctx, unitVector(1), 1)
		require.NoError(t, err)
		require.Len(t, passages, 1)
		assert.Equal(t, "Panorama Point views", passages[0].Content)
		assert.InDelta(t, 1.0, passages[0].Score, 1e-6)
	})

	t.Run("Chunks listed in order", func(t *testing.T) {
		rows, err := repo.FindAll(ctx, specification.BySource{Source: source}, specification.ChunkOrder{})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 0, rows[0].ChunkIndex)
		assert.Equal(t, 1, rows[1].ChunkIndex)
	})

	t.Run("Delete by source", func(t *testing.T) {
		n, err := repo.DeleteBySource(ctx, source)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}
