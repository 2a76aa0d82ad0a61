package semantic

import (
	"context"
	"fmt"

	"tyrechat-be/internal/repository/contract"
	"tyrechat-be/pkg/embedding"
	"tyrechat-be/pkg/retrieval/fusion"
)

// Searcher answers a query with cosine-similar corpus snippets from
// pgvector. Threshold filtering is left to fusion; the repository is only
// asked to exclude outright negatives.
type Searcher struct {
	provider embedding.Provider
	repo     contract.CorpusEmbeddingRepository
	topK     int
}

func NewSearcher(provider embedding.Provider, repo contract.CorpusEmbeddingRepository, topK int) *Searcher {
	if topK <= 0 {
		topK = 5
	}
	return &Searcher{
		provider: provider,
		repo:     repo,
		topK:     topK,
	}
}

func (s *Searcher) Search(ctx context.Context, query string) ([]fusion.Document, error) {
	vector, err := s.provider.Embed(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := s.repo.SearchSimilarWithScore(ctx, vector, s.topK, 0)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	docs := make([]fusion.Document, 0, len(scored))
	for _, sc := range scored {
		if sc.Embedding == nil {
			continue
		}
		docs = append(docs, fusion.Document{
			Text:  sc.Embedding.Document,
			Score: sc.Similarity,
		})
	}
	return docs, nil
}
