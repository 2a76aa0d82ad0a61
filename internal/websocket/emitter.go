package websocket

import (
	"sync"

	"tyrechat-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

// turnEmitter writes one turn's frames to the connection. gofiber/websocket
// connections are not safe for concurrent writes, so all writes go through
// one mutex even though the router is single-goroutine per turn.
type turnEmitter struct {
	mu    sync.Mutex
	conn  *websocket.Conn
	ended bool
}

func newTurnEmitter(conn *websocket.Conn) *turnEmitter {
	return &turnEmitter{conn: conn}
}

func (e *turnEmitter) Chunk(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return nil
	}
	return e.conn.WriteJSON(dto.ChunkFrame{Chunk: text})
}

func (e *turnEmitter) Error(message string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return nil
	}
	return e.conn.WriteJSON(dto.ErrorFrame{Error: message})
}

// End is terminal: once sent, later frames for this turn are swallowed.
func (e *turnEmitter) End(fullResponse string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return nil
	}
	e.ended = true
	return e.conn.WriteJSON(dto.EndFrame{End: true, FullResponse: fullResponse})
}
