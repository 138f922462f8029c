package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ParkPassage struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content    string            `gorm:"type:text;not null"`
	Title      string            `gorm:"type:varchar(255)"`
	Source     string            `gorm:"type:varchar(255);not null;index"`
	URL        string            `gorm:"column:url;type:text"`
	ChunkIndex int               `gorm:"default:0"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	Embedding  pgvector.Vector   `gorm:"type:vector(768)"` // nomic-embed-text / jina-embeddings-v2 dimensions
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt    `gorm:"index"`
}

func (ParkPassage) TableName() string {
	return "park_passages"
}
