package implementation

import (
	"context"
	"errors"

	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/mapper"
	"tyrechat-be/internal/model"
	"tyrechat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CorpusRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogueMapper
}

func NewCorpusRepository(db *gorm.DB) contract.CorpusRepository {
	return &CorpusRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogueMapper(),
	}
}

func (r *CorpusRepositoryImpl) Create(ctx context.Context, doc *entity.CorpusDoc) error {
	m := r.mapper.DocToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.DocToEntity(m)
	return nil
}

func (r *CorpusRepositoryImpl) CreateBulk(ctx context.Context, docs []*entity.CorpusDoc) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]*model.CorpusDoc, len(docs))
	for i, d := range docs {
		models[i] = r.mapper.DocToModel(d)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*docs[i] = *r.mapper.DocToEntity(m)
	}
	return nil
}

func (r *CorpusRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.CorpusDoc, error) {
	var m model.CorpusDoc
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DocToEntity(&m), nil
}

func (r *CorpusRepositoryImpl) FindAll(ctx context.Context) ([]*entity.CorpusDoc, error) {
	var models []*model.CorpusDoc
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	docs := make([]*entity.CorpusDoc, len(models))
	for i, m := range models {
		docs[i] = r.mapper.DocToEntity(m)
	}
	return docs, nil
}

func (r *CorpusRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CorpusDoc{}).Count(&count).Error
	return count, err
}

type CorpusEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogueMapper
}

func NewCorpusEmbeddingRepository(db *gorm.DB) contract.CorpusEmbeddingRepository {
	return &CorpusEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogueMapper(),
	}
}

func (r *CorpusEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.CorpusEmbedding) error {
	m := r.mapper.EmbeddingToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.EmbeddingToEntity(m)
	return nil
}

func (r *CorpusEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.CorpusEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.CorpusEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.EmbeddingToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.EmbeddingToEntity(m)
	}
	return nil
}

func (r *CorpusEmbeddingRepositoryImpl) DeleteByDocId(ctx context.Context, docId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("doc_id = ?", docId).Delete(&model.CorpusEmbedding{}).Error
}

// SearchSimilarWithScore returns embeddings with similarity scores, filtered
// by threshold. Cosine distance in pgvector is 1 - cosine_similarity, so we
// select 1 - (embedding_value <=> query_vector).
func (r *CorpusEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.ScoredCorpusEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.CorpusEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("corpus_embeddings").
		Select("corpus_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredCorpusEmbedding, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredCorpusEmbedding{
			Embedding:  r.mapper.EmbeddingToEntity(&res.CorpusEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
