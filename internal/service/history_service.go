package service

import (
	"context"
	"time"

	"tyrechat-be/internal/dto"
	"tyrechat-be/internal/repository/contract"
)

type IHistoryService interface {
	Load(ctx context.Context, userId string) (*dto.ChatHistoryResponse, error)
	Clear(ctx context.Context, userId string) error
}

type historyService struct {
	repo contract.ChatHistoryRepository
}

func NewHistoryService(repo contract.ChatHistoryRepository) IHistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) Load(ctx context.Context, userId string) (*dto.ChatHistoryResponse, error) {
	messages, err := s.repo.LoadAll(ctx, userId)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ChatHistoryItem, len(messages))
	for i, m := range messages {
		items[i] = dto.ChatHistoryItem{
			Role:      m.Role,
			Text:      m.Text,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		}
	}
	return &dto.ChatHistoryResponse{
		UserId:   userId,
		Messages: items,
	}, nil
}

func (s *historyService) Clear(ctx context.Context, userId string) error {
	return s.repo.Clear(ctx, userId)
}
