package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Tyre struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ModelName   string    `gorm:"type:varchar(255);not null;index"`
	Dimension   string    `gorm:"type:varchar(32);not null;index"`
	LoadIndex   string    `gorm:"type:varchar(8)"`
	SpeedRating string    `gorm:"type:varchar(8)"`
	MRP         float64   `gorm:"not null"`
	VehicleType string    `gorm:"type:varchar(32);index"`
	Segment     string    `gorm:"type:varchar(32)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Tyre) TableName() string {
	return "tyres"
}

type Dealer struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Address   string    `gorm:"type:text"`
	City      string    `gorm:"type:varchar(100);index"`
	Pincode   string    `gorm:"type:varchar(10);index"`
	Phone     string    `gorm:"type:varchar(20)"`
	Latitude  float64
	Longitude float64
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Dealer) TableName() string {
	return "dealers"
}

type CorpusDoc struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content   string    `gorm:"type:text;not null"`
	Metadata  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CorpusDoc) TableName() string {
	return "corpus_docs"
}

type CorpusEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocId          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 dimensionality
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (CorpusEmbedding) TableName() string {
	return "corpus_embeddings"
}
