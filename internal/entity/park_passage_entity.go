package entity

import (
	"time"

	"github.com/google/uuid"
)

type ParkPassage struct {
	Id         uuid.UUID
	Content    string
	Title      string
	Source     string
	URL        string
	ChunkIndex int
	Metadata   map[string]interface{}
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// SourceSummary counts the stored chunks of one source document.
type SourceSummary struct {
	Source string
	URL    string
	Chunks int64
}
