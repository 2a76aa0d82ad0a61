package main

import (
	"log"
	"os"

	"tyrechat-be/internal/model"
	"tyrechat-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM migration...")

	// Extensions first; AutoMigrate cannot create them.
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, stmt := range setupSQL {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatalf("Error: extension setup failed: %v", err)
		}
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.ChatMessage{},
		&model.Lead{},
		&model.TrackingRecord{},
		&model.Feedback{},
		&model.Tyre{},
		&model.Dealer{},
		&model.CorpusDoc{},
		&model.CorpusEmbedding{},
	)
	if err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}

	// ivfflat needs rows to pick centroids, but creating it up front is fine;
	// re-run this tool after bulk loads to rebuild.
	indexSQL := `CREATE INDEX IF NOT EXISTS idx_corpus_embeddings_vector
		ON corpus_embeddings USING ivfflat (embedding_value vector_cosine_ops) WITH (lists = 100);`
	if err := db.Exec(indexSQL).Error; err != nil {
		log.Printf("Warning: vector index creation failed: %v", err)
	}

	log.Println("Migration complete.")
}
