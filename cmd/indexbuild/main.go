// indexbuild rebuilds the serve-time retrieval artifacts from the corpus
// table: the BM25 gob snapshot and, with -embed, the pgvector embeddings.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tyrechat-be/internal/config"
	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/repository/implementation"
	"tyrechat-be/pkg/database"
	"tyrechat-be/pkg/embedding"
	"tyrechat-be/pkg/retrieval/lexical"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	embed := flag.Bool("embed", false, "also regenerate pgvector embeddings for every corpus document")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	corpusRepo := implementation.NewCorpusRepository(db)
	embeddingRepo := implementation.NewCorpusEmbeddingRepository(db)

	docs, err := corpusRepo.FindAll(ctx)
	if err != nil {
		color.Red("Failed to load corpus: %v", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		color.Yellow("Corpus is empty, nothing to index.")
		return
	}
	color.Cyan("Loaded %d corpus documents", len(docs))

	// 1. BM25 snapshot
	lexDocs := make([]lexical.Document, len(docs))
	for i, d := range docs {
		lexDocs[i] = lexical.Document{
			ID:      d.Id.String(),
			Content: d.Content,
		}
	}
	index := lexical.NewIndex()
	index.Build(lexDocs)
	if err := index.Save(cfg.Retrieval.LexicalIndexPath); err != nil {
		color.Red("Failed to save lexical index: %v", err)
		os.Exit(1)
	}
	color.Green("Lexical index written: %s (%d documents)", cfg.Retrieval.LexicalIndexPath, index.Size())

	if !*embed {
		return
	}

	// 2. Embedding backfill
	var provider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	start := time.Now()
	for i, d := range docs {
		values, err := provider.Embed(ctx, d.Content, embedding.TaskRetrievalDocument)
		if err != nil {
			color.Red("Embedding failed for doc %s: %v", d.Id, err)
			os.Exit(1)
		}

		if err := embeddingRepo.DeleteByDocId(ctx, d.Id); err != nil {
			log.Printf("Warning: failed to delete stale embeddings for %s: %v", d.Id, err)
		}
		err = embeddingRepo.Create(ctx, &entity.CorpusEmbedding{
			Id:       uuid.New(),
			DocId:    d.Id,
			Document: d.Content,
			Values:   values,
		})
		if err != nil {
			color.Red("Failed to store embedding for doc %s: %v", d.Id, err)
			os.Exit(1)
		}

		if (i+1)%25 == 0 {
			color.Cyan("Embedded %d/%d documents", i+1, len(docs))
		}
	}
	color.Green("Embeddings backfilled for %d documents in %s", len(docs), time.Since(start).Round(time.Second))
}
