package service

import (
	"context"
	"encoding/json"
	"time"

	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/pkg/logger"
	"tyrechat-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const historyTopic = "chat.history"

type historyMessage struct {
	UserId string `json:"user_id"`
	Role   string `json:"role"`
	Text   string `json:"text"`
}

// HistoryWriter persists finished chat turns off the serving path. Record
// publishes onto an in-process watermill channel and returns immediately;
// the consumer goroutine does the database writes. A full or broken channel
// only costs durable history, never a live turn.
type IHistoryWriter interface {
	Record(userId, role, text string)
	Consume(ctx context.Context) error
	Close() error
}

type historyWriter struct {
	pubSub *gochannel.GoChannel
	repo   contract.ChatHistoryRepository
	log    logger.ILogger
}

func NewHistoryWriter(pubSub *gochannel.GoChannel, repo contract.ChatHistoryRepository, log logger.ILogger) IHistoryWriter {
	return &historyWriter{
		pubSub: pubSub,
		repo:   repo,
		log:    log,
	}
}

func (w *historyWriter) Record(userId, role, text string) {
	payload, err := json.Marshal(historyMessage{
		UserId: userId,
		Role:   role,
		Text:   text,
	})
	if err != nil {
		w.log.Error("history", "failed to marshal history message", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err := w.pubSub.Publish(historyTopic, msg); err != nil {
		w.log.Error("history", "failed to publish history message", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}

func (w *historyWriter) Consume(ctx context.Context) error {
	messages, err := w.pubSub.Subscribe(ctx, historyTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			w.processMessage(msg)
		}
	}()

	return nil
}

func (w *historyWriter) processMessage(msg *message.Message) {
	var payload historyMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		w.log.Error("history", "failed to unmarshal history message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads never become valid, drop them
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := w.repo.Append(ctx, &entity.ChatMessage{
		UserId: payload.UserId,
		Role:   payload.Role,
		Text:   payload.Text,
	})
	if err != nil {
		w.log.Error("history", "failed to persist chat message", map[string]interface{}{
			"user_id": payload.UserId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}

func (w *historyWriter) Close() error {
	return w.pubSub.Close()
}
