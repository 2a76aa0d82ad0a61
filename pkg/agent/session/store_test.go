package session

import (
	"fmt"
	"testing"

	"tyrechat-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(limit int) *Store {
	return NewStore(memory.NewSessionRepository(nil, nil), limit)
}

func TestStoreGetCreatesEmptySession(t *testing.T) {
	store := newTestStore(20)

	sess := store.Get("guest0000000001")
	require.NotNil(t, sess)
	assert.Equal(t, "guest0000000001", sess.UserId)
	assert.Empty(t, sess.History)
	assert.Empty(t, sess.WorkingContext)

	// Second Get returns the same session, not a fresh one.
	sess.WorkingContext = "context: Eagle F1"
	again := store.Get("guest0000000001")
	assert.Equal(t, "context: Eagle F1", again.WorkingContext)
}

func TestStoreHistoryTrimming(t *testing.T) {
	store := newTestStore(20)

	for i := 0; i < 25; i++ {
		store.AppendTurn("u1", "user", fmt.Sprintf("message %d", i))
	}

	history := store.Recent("u1", 0)
	require.Len(t, history, 20)
	// Oldest five fell off.
	assert.Equal(t, "message 5", history[0].Text)
	assert.Equal(t, "message 24", history[19].Text)
}

func TestStoreRecentDepth(t *testing.T) {
	store := newTestStore(20)
	for i := 0; i < 10; i++ {
		store.AppendTurn("u1", "user", fmt.Sprintf("message %d", i))
	}

	recent := store.Recent("u1", 5)
	require.Len(t, recent, 5)
	assert.Equal(t, "message 5", recent[0].Text)
	assert.Equal(t, "message 9", recent[4].Text)

	// Depth larger than history returns everything.
	assert.Len(t, store.Recent("u1", 50), 10)
	// Zero depth means all.
	assert.Len(t, store.Recent("u1", 0), 10)
}

func TestStoreRecentReturnsCopy(t *testing.T) {
	store := newTestStore(20)
	store.AppendTurn("u1", "user", "original")

	recent := store.Recent("u1", 0)
	recent[0].Text = "mutated"

	assert.Equal(t, "original", store.Recent("u1", 0)[0].Text)
}

func TestStorePendingInstructionLifecycle(t *testing.T) {
	store := newTestStore(20)

	store.SetPendingInstruction("u1", "answer in bullet points")
	assert.Equal(t, "answer in bullet points", store.Get("u1").PendingInstruction)

	store.ClearPendingInstruction("u1")
	assert.Empty(t, store.Get("u1").PendingInstruction)

	// Clearing when nothing is pending is a no-op.
	store.ClearPendingInstruction("u1")
	assert.Empty(t, store.Get("u1").PendingInstruction)
}

func TestStoreWorkingContextReplacedWholesale(t *testing.T) {
	store := newTestStore(20)

	store.SetWorkingContext("u1", "discussing Wrangler AT")
	store.SetWorkingContext("u1", "discussing Assurance TripleMax")

	assert.Equal(t, "discussing Assurance TripleMax", store.Get("u1").WorkingContext)
}

func TestStoreReset(t *testing.T) {
	store := newTestStore(20)
	store.AppendTurn("u1", "user", "hello")
	store.SetLastCategory("u1", "greeting_clarification")

	store.Reset("u1")

	sess := store.Get("u1")
	assert.Empty(t, sess.History)
	assert.Empty(t, sess.LastCategory)
}

func TestStoreDefaultLimit(t *testing.T) {
	store := newTestStore(0)
	for i := 0; i < 30; i++ {
		store.AppendTurn("u1", "user", fmt.Sprintf("message %d", i))
	}
	assert.Len(t, store.Recent("u1", 0), 20)
}
