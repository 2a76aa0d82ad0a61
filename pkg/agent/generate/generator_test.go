package generate

import (
	"context"
	"errors"
	"testing"

	"tyrechat-be/internal/constant"
	"tyrechat-be/internal/entity"
	"tyrechat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// chunkedLLM streams a fixed sequence of deltas, optionally failing after
// some of them.
type chunkedLLM struct {
	chunks     []string
	failAfter  int // -1 never fails
	lastPrompt string
}

func (c *chunkedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", nil
}

func (c *chunkedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", nil
}

func (c *chunkedLLM) ChatStream(ctx context.Context, history []llm.Message, fn llm.StreamFunc, options ...llm.Option) error {
	c.lastPrompt = history[len(history)-1].Content
	for i, chunk := range c.chunks {
		if c.failAfter >= 0 && i == c.failAfter {
			return errors.New("backend dropped the stream")
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}

func TestStreamAggregatesChunks(t *testing.T) {
	mock := &chunkedLLM{chunks: []string{"The Eagle F1 ", "costs ", "Rs.7200."}, failAfter: -1}
	g := NewGenerator(mock, 0, nopLogger{})

	var emitted []string
	full, err := g.Stream(context.Background(), constant.CategoryProductInfo,
		"MRP of Eagle F1", "Eagle F1 | 205/55 R16 | Rs.7200", nil,
		func(chunk string) error {
			emitted = append(emitted, chunk)
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, "The Eagle F1 costs Rs.7200.", full)
	assert.Equal(t, []string{"The Eagle F1 ", "costs ", "Rs.7200."}, emitted)
	assert.Contains(t, mock.lastPrompt, "MRP of Eagle F1")
	assert.Contains(t, mock.lastPrompt, "Eagle F1 | 205/55 R16 | Rs.7200")
}

func TestStreamReturnsPartialOnError(t *testing.T) {
	mock := &chunkedLLM{chunks: []string{"Partial ", "answer ", "never sent"}, failAfter: 2}
	g := NewGenerator(mock, 0, nopLogger{})

	full, err := g.Stream(context.Background(), constant.CategoryWarranty,
		"warranty period", "ctx", nil,
		func(chunk string) error { return nil })

	require.Error(t, err)
	assert.Equal(t, "Partial answer ", full)
}

func TestStreamEmitErrorAborts(t *testing.T) {
	mock := &chunkedLLM{chunks: []string{"one", "two", "three"}, failAfter: -1}
	g := NewGenerator(mock, 0, nopLogger{})

	emitErr := errors.New("client went away")
	count := 0
	full, err := g.Stream(context.Background(), constant.CategoryContextual,
		"q", "ctx", nil,
		func(chunk string) error {
			count++
			if count == 2 {
				return emitErr
			}
			return nil
		})

	require.Error(t, err)
	assert.Equal(t, 2, count)
	// The failing chunk was already accumulated when emit rejected it.
	assert.Equal(t, "onetwo", full)
}

func TestStreamSanitizesFences(t *testing.T) {
	mock := &chunkedLLM{chunks: []string{"```", "plain text", "```"}, failAfter: -1}
	g := NewGenerator(mock, 0, nopLogger{})

	var emitted []string
	full, err := g.Stream(context.Background(), constant.CategoryContextual,
		"q", "ctx", nil,
		func(chunk string) error {
			emitted = append(emitted, chunk)
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, "plain text", full)
	// Fence-only chunks are dropped entirely, not emitted as empty strings.
	assert.Equal(t, []string{"plain text"}, emitted)
}

func TestStreamHistoryRendering(t *testing.T) {
	mock := &chunkedLLM{chunks: []string{"ok"}, failAfter: -1}
	g := NewGenerator(mock, 0, nopLogger{})

	history := []entity.ChatTurn{
		{Role: "user", Text: "hi"},
		{Role: "assistant", Text: "hello"},
	}
	_, err := g.Stream(context.Background(), constant.CategoryContextual, "q", "ctx", history,
		func(string) error { return nil })

	require.NoError(t, err)
	assert.Contains(t, mock.lastPrompt, "user: hi")
	assert.Contains(t, mock.lastPrompt, "assistant: hello")

	_, err = g.Stream(context.Background(), constant.CategoryContextual, "q", "ctx", nil,
		func(string) error { return nil })
	require.NoError(t, err)
	assert.Contains(t, mock.lastPrompt, "(start of conversation)")
}

func TestSanitizeChunk(t *testing.T) {
	assert.Equal(t, "text", SanitizeChunk("```text```"))
	assert.Equal(t, "unchanged", SanitizeChunk("unchanged"))
	assert.Equal(t, "", SanitizeChunk("```"))
}

func TestTemplateFor(t *testing.T) {
	assert.Contains(t, TemplateFor(constant.CategoryProductInfo), "MRP")
	assert.Contains(t, TemplateFor(constant.CategoryDealerLocator), "pincode")
	// Unknown categories fall back to the contextual template.
	assert.Equal(t, TemplateFor(constant.CategoryContextual), TemplateFor("something_else"))
}
