package implementation

import (
	"context"

	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/mapper"
	"tyrechat-be/internal/repository/contract"

	"gorm.io/gorm"
)

type LeadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewLeadRepository(db *gorm.DB) contract.LeadRepository {
	return &LeadRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *LeadRepositoryImpl) SaveLead(ctx context.Context, lead *entity.Lead) error {
	m, err := r.mapper.LeadToModel(lead)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	lead.Id = m.Id
	lead.CreatedAt = m.CreatedAt
	return nil
}

func (r *LeadRepositoryImpl) SaveTracking(ctx context.Context, record *entity.TrackingRecord) error {
	m, err := r.mapper.TrackingToModel(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	record.Id = m.Id
	record.CreatedAt = m.CreatedAt
	return nil
}

type FeedbackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewFeedbackRepository(db *gorm.DB) contract.FeedbackRepository {
	return &FeedbackRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *FeedbackRepositoryImpl) Save(ctx context.Context, feedback *entity.Feedback) error {
	m := r.mapper.FeedbackToModel(feedback)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	feedback.Id = m.Id
	feedback.CreatedAt = m.CreatedAt
	return nil
}
