package retrieval

import (
	"context"

	"tyrechat-be/internal/pkg/logger"
	"tyrechat-be/pkg/retrieval/fusion"
	"tyrechat-be/pkg/retrieval/lexical"
	"tyrechat-be/pkg/retrieval/relational"
	"tyrechat-be/pkg/retrieval/semantic"
)

// Weights are the per-source fusion multipliers plus the drop threshold.
type Weights struct {
	Lexical    float64
	Semantic   float64
	Relational float64
	MinScore   float64
	LexicalTop int
}

// Retriever fans a normalized query out to the three sources and fuses the
// results into a single context string. A failing source contributes an
// empty set; retrieval itself never fails a turn.
type Retriever struct {
	lexicalIdx *lexical.Index
	semSearch  *semantic.Searcher
	relational *relational.Lookup
	weights    Weights
	log        logger.ILogger
}

func NewRetriever(
	lexicalIdx *lexical.Index,
	semSearch *semantic.Searcher,
	rel *relational.Lookup,
	weights Weights,
	log logger.ILogger,
) *Retriever {
	if weights.LexicalTop <= 0 {
		weights.LexicalTop = 5
	}
	return &Retriever{
		lexicalIdx: lexicalIdx,
		semSearch:  semSearch,
		relational: rel,
		weights:    weights,
		log:        log,
	}
}

// BuildContext returns the fused context for a turn. structured may be zero,
// in which case the relational source is skipped.
func (r *Retriever) BuildContext(ctx context.Context, query string, structured relational.StructuredQuery) string {
	sources := make([]fusion.Source, 0, 3)

	lexDocs := r.lexicalSource(query)
	sources = append(sources, fusion.Source{
		Name:   "lexical",
		Weight: r.weights.Lexical,
		Docs:   lexDocs,
	})

	semDocs, err := r.semSearch.Search(ctx, query)
	if err != nil {
		r.log.Warn("retrieval", "semantic search failed, continuing without it", map[string]interface{}{
			"error": err.Error(),
		})
		semDocs = nil
	}
	sources = append(sources, fusion.Source{
		Name:   "semantic",
		Weight: r.weights.Semantic,
		Docs:   semDocs,
	})

	relDocs, err := r.relational.Fetch(ctx, structured)
	if err != nil {
		r.log.Warn("retrieval", "relational lookup failed, continuing without it", map[string]interface{}{
			"error": err.Error(),
		})
		relDocs = nil
	}
	sources = append(sources, fusion.Source{
		Name:   "relational",
		Weight: r.weights.Relational,
		Fixed:  true,
		Docs:   relDocs,
	})

	return fusion.Fuse(sources, r.weights.MinScore)
}

func (r *Retriever) lexicalSource(query string) []fusion.Document {
	if r.lexicalIdx == nil || r.lexicalIdx.Size() == 0 {
		return nil
	}
	scored := r.lexicalIdx.Search(query, r.weights.LexicalTop)
	docs := make([]fusion.Document, 0, len(scored))
	for _, s := range scored {
		docs = append(docs, fusion.Document{
			Text:  s.Document.Content,
			Score: s.Score,
		})
	}
	return docs
}
