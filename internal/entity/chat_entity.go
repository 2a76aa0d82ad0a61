package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one durable history row. UserId is a plain string because
// guest identities (guest-prefixed) never map to an account UUID.
type ChatMessage struct {
	Id        uuid.UUID
	UserId    string
	Role      string // "user" or "assistant"
	Text      string
	CreatedAt time.Time
}

// Lead is an append-only callback request captured by the router. Fields
// holds whatever structured hints the normalizer extracted (phone, vehicle).
type Lead struct {
	Id        uuid.UUID
	UserId    string
	Fields    map[string]interface{}
	CreatedAt time.Time
}

// TrackingRecord is an append-only analytics row emitted for routed turns.
type TrackingRecord struct {
	Id        uuid.UUID
	UserId    string
	Category  string
	Query     string
	Fields    map[string]interface{}
	CreatedAt time.Time
}

// ChatTurn is one history entry inside a live session. Sessions keep turns
// lighter than durable ChatMessage rows: no ids, no timestamps.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is the per-user conversational state. It lives in process memory
// for the duration of a connection and is mirrored to redis best-effort.
type Session struct {
	UserId             string     `json:"user_id"`
	History            []ChatTurn `json:"history"`
	WorkingContext     string     `json:"working_context"`
	PendingInstruction string     `json:"pending_instruction"`
	LastCategory       string     `json:"last_category"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type Feedback struct {
	Id        uuid.UUID
	UserId    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
