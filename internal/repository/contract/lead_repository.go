package contract

import (
	"context"

	"tyrechat-be/internal/entity"
)

// LeadRepository stores captured leads and per-turn tracking rows. Both are
// append-only; nothing in the serving path ever reads them back.
type LeadRepository interface {
	SaveLead(ctx context.Context, lead *entity.Lead) error
	SaveTracking(ctx context.Context, record *entity.TrackingRecord) error
}

type FeedbackRepository interface {
	Save(ctx context.Context, feedback *entity.Feedback) error
}
