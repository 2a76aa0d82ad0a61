package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/pkg/logger"
	"tyrechat-be/pkg/llm"
)

// Generator turns a routed query plus fused context into a streamed reply.
type Generator struct {
	llmProvider llm.LLMProvider
	pacing      time.Duration
	log         logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, pacingDelayMs int, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		pacing:      time.Duration(pacingDelayMs) * time.Millisecond,
		log:         log,
	}
}

// Stream renders the category template, streams the completion through emit
// chunk by chunk, and returns the aggregated response. On a mid-stream
// failure the partial text accumulated so far is returned alongside the
// error so callers can still persist it.
func (g *Generator) Stream(
	ctx context.Context,
	category string,
	query string,
	contextBlob string,
	history []entity.ChatTurn,
	emit func(chunk string) error,
) (string, error) {
	prompt := fmt.Sprintf(TemplateFor(category), query, contextBlob, renderHistory(history))

	var full strings.Builder
	err := g.llmProvider.ChatStream(ctx,
		[]llm.Message{{Role: "user", Content: prompt}},
		func(delta string) error {
			chunk := SanitizeChunk(delta)
			if chunk == "" {
				return nil
			}
			full.WriteString(chunk)
			if err := emit(chunk); err != nil {
				return err
			}
			// Pacing keeps the stream readable on fast backends. The sleep
			// lives on this connection's goroutine only.
			if g.pacing > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(g.pacing):
				}
			}
			return nil
		},
	)
	if err != nil {
		g.log.Error("generate", "stream failed", map[string]interface{}{
			"category":    category,
			"partial_len": full.Len(),
			"error":       err.Error(),
		})
		return full.String(), err
	}
	return full.String(), nil
}

// SanitizeChunk strips markdown code-fence artifacts some models emit even
// when told not to.
func SanitizeChunk(chunk string) string {
	return strings.ReplaceAll(chunk, "```", "")
}

func renderHistory(history []entity.ChatTurn) string {
	if len(history) == 0 {
		return "(start of conversation)"
	}
	var b strings.Builder
	for _, t := range history {
		b.WriteString(t.Role)
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
