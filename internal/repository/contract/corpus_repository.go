package contract

import (
	"context"

	"tyrechat-be/internal/entity"

	"github.com/google/uuid"
)

type CorpusRepository interface {
	Create(ctx context.Context, doc *entity.CorpusDoc) error
	CreateBulk(ctx context.Context, docs []*entity.CorpusDoc) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.CorpusDoc, error)
	FindAll(ctx context.Context) ([]*entity.CorpusDoc, error)
	Count(ctx context.Context) (int64, error)
}

type CorpusEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.CorpusEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.CorpusEmbedding) error
	DeleteByDocId(ctx context.Context, docId uuid.UUID) error
	// SearchSimilarWithScore returns embeddings with cosine similarity,
	// filtered by threshold, best first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.ScoredCorpusEmbedding, error)
}
