package websocket

import (
	"context"
	"encoding/json"
	"strings"

	"tyrechat-be/internal/dto"
	"tyrechat-be/internal/pkg/logger"
	"tyrechat-be/pkg/agent/normalize"
	"tyrechat-be/pkg/agent/router"

	"github.com/gofiber/websocket/v2"
)

// ChatHandler owns the websocket chat surface. Each connection runs a strict
// read -> process -> respond loop on its own goroutine; there is no shared
// hub because turns never fan out across connections.
type ChatHandler struct {
	router *router.Router
	log    logger.ILogger
}

func NewChatHandler(r *router.Router, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		router: r,
		log:    log,
	}
}

// Serve processes messages until the peer disconnects. A disconnect cancels
// the in-flight turn context; the router still offers the partial response
// to persistence.
func (h *ChatHandler) Serve(conn *websocket.Conn) {
	connCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn.SetCloseHandler(func(code int, text string) error {
		cancel()
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			cancel()
			return
		}

		var inbound dto.InboundChatMessage
		if err := json.Unmarshal(raw, &inbound); err != nil {
			h.log.Warn("websocket", "invalid inbound frame", map[string]interface{}{
				"error": err.Error(),
			})
			_ = conn.WriteJSON(dto.ErrorFrame{Error: "invalid message format"})
			continue
		}

		inbound.UserId = strings.TrimSpace(inbound.UserId)
		inbound.Text = strings.TrimSpace(inbound.Text)
		if inbound.UserId == "" || inbound.Text == "" {
			_ = conn.WriteJSON(dto.ErrorFrame{Error: "user_id and text are required"})
			continue
		}

		turn := router.Turn{
			UserId:     inbound.UserId,
			Text:       inbound.Text,
			DeviceType: inbound.DeviceType,
			Location:   toLocation(inbound.Location),
		}

		// One turn at a time per connection; the next read waits until the
		// router has emitted End.
		h.router.HandleTurn(connCtx, turn, newTurnEmitter(conn))
	}
}

func toLocation(p *dto.LocationPayload) *normalize.Location {
	if p == nil {
		return nil
	}
	loc := &normalize.Location{
		Pincode: strings.TrimSpace(p.Pincode),
		City:    strings.TrimSpace(p.City),
	}
	if p.Lat != nil && p.Lon != nil {
		loc.Lat = *p.Lat
		loc.Lon = *p.Lon
		loc.HasCoords = true
	}
	if loc.IsZero() {
		return nil
	}
	return loc
}
