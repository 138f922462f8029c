package dto

import (
	"time"

	"github.com/google/uuid"
)

// IngestPassageRequest queues one source document for chunking and embedding.
type IngestPassageRequest struct {
	Source   string                 `json:"source" validate:"required,max=255"`
	Title    string                 `json:"title" validate:"max=255"`
	URL      string                 `json:"url" validate:"omitempty,url"`
	Content  string                 `json:"content" validate:"required"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type IngestPassageResponse struct {
	Source string `json:"source"`
	Queued bool   `json:"queued"`
}

type PassageResponse struct {
	Id         uuid.UUID              `json:"id"`
	Source     string                 `json:"source"`
	Title      string                 `json:"title"`
	URL        string                 `json:"url,omitempty"`
	ChunkIndex int                    `json:"chunk_index"`
	Content    string                 `json:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

type PassageListResponse struct {
	Total    int64             `json:"total"`
	Passages []PassageResponse `json:"passages"`
}

type SourceSummaryResponse struct {
	Source string `json:"source"`
	URL    string `json:"url,omitempty"`
	Chunks int64  `json:"chunks"`
}

type DeleteSourceResponse struct {
	Source  string `json:"source"`
	Deleted int64  `json:"deleted"`
}

type SearchPassagesRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
	K     int    `json:"k" validate:"omitempty,min=1,max=20"`
}
