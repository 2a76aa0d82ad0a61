package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "lead.captured").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewLeadCaptured is emitted when the router captures a callback request.
// Downstream consumers (CRM sync, sales alerting) key off "lead.captured".
func NewLeadCaptured(userId string, fields map[string]interface{}) Event {
	data := map[string]interface{}{
		"user_id": userId,
	}
	for k, v := range fields {
		data[k] = v
	}
	return BaseEvent{
		Type:       "lead.captured",
		Data:       data,
		OccurredAt: time.Now(),
	}
}

// NewTurnRouted is emitted once per routed chat turn for analytics.
func NewTurnRouted(userId, category, query string) Event {
	return BaseEvent{
		Type: "turn.routed",
		Data: map[string]interface{}{
			"user_id":  userId,
			"category": category,
			"query":    query,
		},
		OccurredAt: time.Now(),
	}
}
