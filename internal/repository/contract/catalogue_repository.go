package contract

import (
	"context"

	"tyrechat-be/internal/entity"
)

// TyreFilter narrows a relational catalogue lookup. Zero-value fields are
// ignored; MaxPrice of 0 means unbounded.
type TyreFilter struct {
	Dimension   string
	VehicleType string
	Segment     string
	ModelName   string
	MaxPrice    float64
	Limit       int
}

type TyreRepository interface {
	Search(ctx context.Context, filter TyreFilter) ([]entity.Tyre, error)
	FindByModelName(ctx context.Context, name string) (*entity.Tyre, error)
}

type DealerRepository interface {
	// FindByPincode returns dealers with an exact pincode match.
	FindByPincode(ctx context.Context, pincode string, limit int) ([]entity.Dealer, error)
	FindByCity(ctx context.Context, city string, limit int) ([]entity.Dealer, error)
	// FindNearby orders by great-circle distance from the given point.
	FindNearby(ctx context.Context, lat, lon float64, limit int) ([]entity.Dealer, error)
}
