package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) MessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:        msg.Id,
		UserId:    msg.UserId,
		Role:      msg.Role,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:        msg.Id,
		UserId:    msg.UserId,
		Role:      msg.Role,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMapper) MessagesToEntities(msgs []model.ChatMessage) []entity.ChatMessage {
	out := make([]entity.ChatMessage, 0, len(msgs))
	for i := range msgs {
		out = append(out, *m.MessageToEntity(&msgs[i]))
	}
	return out
}

func (m *ChatMapper) LeadToModel(lead *entity.Lead) (*model.Lead, error) {
	if lead == nil {
		return nil, nil
	}
	fields, err := fieldsToJSON(lead.Fields)
	if err != nil {
		return nil, err
	}
	return &model.Lead{
		Id:        lead.Id,
		UserId:    lead.UserId,
		Fields:    fields,
		CreatedAt: lead.CreatedAt,
	}, nil
}

func (m *ChatMapper) LeadToEntity(lead *model.Lead) (*entity.Lead, error) {
	if lead == nil {
		return nil, nil
	}
	fields, err := fieldsFromJSON(lead.Fields)
	if err != nil {
		return nil, err
	}
	return &entity.Lead{
		Id:        lead.Id,
		UserId:    lead.UserId,
		Fields:    fields,
		CreatedAt: lead.CreatedAt,
	}, nil
}

func (m *ChatMapper) TrackingToModel(rec *entity.TrackingRecord) (*model.TrackingRecord, error) {
	if rec == nil {
		return nil, nil
	}
	fields, err := fieldsToJSON(rec.Fields)
	if err != nil {
		return nil, err
	}
	return &model.TrackingRecord{
		Id:        rec.Id,
		UserId:    rec.UserId,
		Category:  rec.Category,
		Query:     rec.Query,
		Fields:    fields,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (m *ChatMapper) FeedbackToModel(fb *entity.Feedback) *model.Feedback {
	if fb == nil {
		return nil
	}
	return &model.Feedback{
		Id:        fb.Id,
		UserId:    fb.UserId,
		Rating:    fb.Rating,
		Comment:   fb.Comment,
		CreatedAt: fb.CreatedAt,
	}
}

func fieldsToJSON(fields map[string]interface{}) (datatypes.JSON, error) {
	if fields == nil {
		return datatypes.JSON("{}"), nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func fieldsFromJSON(raw datatypes.JSON) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return map[string]interface{}{}, nil
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
