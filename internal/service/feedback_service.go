package service

import (
	"context"

	"tyrechat-be/internal/dto"
	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/repository/contract"
)

type IFeedbackService interface {
	Submit(ctx context.Context, req *dto.FeedbackRequest) error
}

type feedbackService struct {
	repo contract.FeedbackRepository
}

func NewFeedbackService(repo contract.FeedbackRepository) IFeedbackService {
	return &feedbackService{repo: repo}
}

func (s *feedbackService) Submit(ctx context.Context, req *dto.FeedbackRequest) error {
	return s.repo.Save(ctx, &entity.Feedback{
		UserId:  req.UserId,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
}
