package relational

import (
	"context"
	"fmt"

	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/repository/contract"
	"tyrechat-be/pkg/retrieval/fusion"
)

// rowCap bounds how many catalogue rows feed a prompt.
const rowCap = 8

// StructuredQuery is the filter the normalizer extracts from a turn. All
// fields are optional; a zero query skips the relational source entirely.
type StructuredQuery struct {
	ModelName   string
	Dimension   string
	VehicleType string
	Segment     string
	MaxPrice    float64
}

func (q StructuredQuery) IsZero() bool {
	return q.ModelName == "" && q.Dimension == "" && q.VehicleType == "" &&
		q.Segment == "" && q.MaxPrice == 0
}

// Lookup runs structured catalogue queries and renders the rows into compact
// context lines.
type Lookup struct {
	tyres contract.TyreRepository
}

func NewLookup(tyres contract.TyreRepository) *Lookup {
	return &Lookup{tyres: tyres}
}

func (l *Lookup) Fetch(ctx context.Context, q StructuredQuery) ([]fusion.Document, error) {
	if q.IsZero() {
		return nil, nil
	}

	rows, err := l.tyres.Search(ctx, contract.TyreFilter{
		ModelName:   q.ModelName,
		Dimension:   q.Dimension,
		VehicleType: q.VehicleType,
		Segment:     q.Segment,
		MaxPrice:    q.MaxPrice,
		Limit:       rowCap,
	})
	if err != nil {
		return nil, fmt.Errorf("tyre lookup: %w", err)
	}

	docs := make([]fusion.Document, 0, len(rows))
	for i := range rows {
		docs = append(docs, fusion.Document{
			Text:  FormatRow(&rows[i]),
			Score: 1.0,
		})
	}
	return docs, nil
}

// FormatRow renders one catalogue row the way prompts expect it:
// Model | Size | LI | SR | MRP.
func FormatRow(t *entity.Tyre) string {
	return fmt.Sprintf("%s | %s | %s | %s | Rs.%.0f",
		t.ModelName, t.Dimension, t.LoadIndex, t.SpeedRating, t.MRP)
}
