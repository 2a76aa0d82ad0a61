package dto

// LocationPayload is the optional client-supplied location on a chat turn.
// It always wins over anything the normalizer infers from the text.
type LocationPayload struct {
	Pincode string   `json:"pincode"`
	City    string   `json:"city"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// InboundChatMessage is one websocket frame from the client.
type InboundChatMessage struct {
	UserId     string           `json:"user_id"`
	Text       string           `json:"text"`
	DeviceType string           `json:"device_type"`
	Location   *LocationPayload `json:"location"`
}

// Outbound frames. A turn is: zero or more chunk frames, at most one error
// frame, then exactly one end frame.
type ChunkFrame struct {
	Chunk string `json:"chunk"`
}

type ErrorFrame struct {
	Error string `json:"error"`
}

type EndFrame struct {
	End          bool   `json:"end"`
	FullResponse string `json:"full_response"`
}

type ChatHistoryItem struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type ChatHistoryResponse struct {
	UserId   string            `json:"user_id"`
	Messages []ChatHistoryItem `json:"messages"`
}

type GuestRegisterResponse struct {
	GuestId string `json:"guest_id"`
}

type FeedbackRequest struct {
	UserId  string `json:"user_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
