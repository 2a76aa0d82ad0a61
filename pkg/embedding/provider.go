package embedding

import (
	"context"
	"math"
)

// Task types understood by embedding backends that distinguish them.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Provider generates a unit-length embedding vector for a piece of text.
type Provider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}

// normalizeVector scales a vector to unit length. Cosine distance in
// pgvector assumes normalized vectors.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
