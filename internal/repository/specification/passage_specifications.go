package specification

import (
	"strings"

	"gorm.io/gorm"
)

type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}

// ContentMatches is a case-insensitive substring filter over title and content.
type ContentMatches struct {
	Query string
}

func (s ContentMatches) Apply(db *gorm.DB) *gorm.DB {
	q := strings.TrimSpace(s.Query)
	if q == "" {
		return db
	}
	like := "%" + q + "%"
	return db.Where("title ILIKE ? OR content ILIKE ?", like, like)
}

// ChunkOrder lists a document's chunks in reading order.
type ChunkOrder struct{}

func (ChunkOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("source ASC").Order("chunk_index ASC")
}
