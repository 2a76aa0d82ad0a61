package entity

import (
	"github.com/google/uuid"
)

// Tyre is one catalogue row, the target of relational lookups.
type Tyre struct {
	Id          uuid.UUID
	ModelName   string
	Dimension   string // e.g. "205/55 R16"
	LoadIndex   string
	SpeedRating string
	MRP         float64
	VehicleType string // hatchback, sedan, suv, two-wheeler, lcv
	Segment     string // touring, highway, offroad, eco
}

type Dealer struct {
	Id        uuid.UUID
	Name      string
	Address   string
	City      string
	Pincode   string
	Phone     string
	Latitude  float64
	Longitude float64
}

// CorpusDoc is one knowledge-base document. Both the lexical and the semantic
// index are built over this corpus; at serve time the indexes are read-only
// snapshots.
type CorpusDoc struct {
	Id       uuid.UUID
	Content  string
	Metadata string
}

// CorpusEmbedding pairs a corpus document with its embedding vector.
type CorpusEmbedding struct {
	Id       uuid.UUID
	DocId    uuid.UUID
	Document string
	Values   []float32
}

// ScoredCorpusEmbedding wraps CorpusEmbedding with its cosine similarity.
type ScoredCorpusEmbedding struct {
	Embedding  *CorpusEmbedding
	Similarity float64
}
