package contract

import (
	"context"

	"tyrechat-be/internal/entity"
)

// ChatHistoryRepository is the durable side of conversation history. The
// in-memory session store is authoritative during a connection; rows here
// are written fire-and-forget after each turn.
type ChatHistoryRepository interface {
	Append(ctx context.Context, message *entity.ChatMessage) error
	AppendBulk(ctx context.Context, messages []*entity.ChatMessage) error
	// LoadAll returns the full history for a user, oldest first.
	LoadAll(ctx context.Context, userId string) ([]entity.ChatMessage, error)
	// LoadRecent returns the newest limit messages, oldest first.
	LoadRecent(ctx context.Context, userId string, limit int) ([]entity.ChatMessage, error)
	Clear(ctx context.Context, userId string) error
}
