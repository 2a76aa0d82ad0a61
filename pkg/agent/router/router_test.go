package router

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tyrechat-be/internal/constant"
	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/repository/contract"
	"tyrechat-be/internal/repository/memory"
	"tyrechat-be/pkg/agent/generate"
	"tyrechat-be/pkg/agent/normalize"
	"tyrechat-be/pkg/agent/session"
	"tyrechat-be/pkg/embedding"
	"tyrechat-be/pkg/events"
	"tyrechat-be/pkg/llm"
	"tyrechat-be/pkg/retrieval"
	"tyrechat-be/pkg/retrieval/lexical"
	"tyrechat-be/pkg/retrieval/relational"
	"tyrechat-be/pkg/retrieval/semantic"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// fakeLLM serves both roles: Generate answers classification calls with a
// fixed JSON, ChatStream streams fixed chunks.
type fakeLLM struct {
	classification string
	chunks         []string
	streamErr      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.classification, nil
}

func (f *fakeLLM) ChatStream(ctx context.Context, history []llm.Message, fn llm.StreamFunc, options ...llm.Option) error {
	for _, ch := range f.chunks {
		if err := fn(ch); err != nil {
			return err
		}
	}
	return f.streamErr
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string, string) ([]float32, error) {
	return nil, errors.New("embedding backend offline")
}

var _ embedding.Provider = failingEmbedder{}

type stubEmbeddingRepo struct{}

func (stubEmbeddingRepo) Create(context.Context, *entity.CorpusEmbedding) error      { return nil }
func (stubEmbeddingRepo) CreateBulk(context.Context, []*entity.CorpusEmbedding) error { return nil }
func (stubEmbeddingRepo) DeleteByDocId(context.Context, uuid.UUID) error             { return nil }
func (stubEmbeddingRepo) SearchSimilarWithScore(context.Context, []float32, int, float64) ([]*entity.ScoredCorpusEmbedding, error) {
	return nil, nil
}

type fakeTyreRepo struct {
	mu    sync.Mutex
	tyres []entity.Tyre
	calls int
}

func (f *fakeTyreRepo) Search(ctx context.Context, filter contract.TyreFilter) ([]entity.Tyre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.tyres, nil
}

func (f *fakeTyreRepo) FindByModelName(ctx context.Context, name string) (*entity.Tyre, error) {
	return nil, nil
}

type fakeDealerRepo struct {
	mu      sync.Mutex
	dealers []entity.Dealer
	err     error
	method  string
}

func (f *fakeDealerRepo) FindByPincode(ctx context.Context, pincode string, limit int) ([]entity.Dealer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.method = "pincode"
	return f.dealers, f.err
}

func (f *fakeDealerRepo) FindByCity(ctx context.Context, city string, limit int) ([]entity.Dealer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.method = "city"
	return f.dealers, f.err
}

func (f *fakeDealerRepo) FindNearby(ctx context.Context, lat, lon float64, limit int) ([]entity.Dealer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.method = "nearby"
	return f.dealers, f.err
}

func (f *fakeDealerRepo) calledMethod() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.method
}

type fakeLeadRepo struct {
	mu     sync.Mutex
	leads  []*entity.Lead
	tracks []*entity.TrackingRecord
}

func (f *fakeLeadRepo) SaveLead(ctx context.Context, lead *entity.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = append(f.leads, lead)
	return nil
}

func (f *fakeLeadRepo) SaveTracking(ctx context.Context, rec *entity.TrackingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracks = append(f.tracks, rec)
	return nil
}

func (f *fakeLeadRepo) trackCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tracks)
}

func (f *fakeLeadRepo) leadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.leads)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(ctx context.Context, e events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.EventType()
	}
	return out
}

type fakeAlerter struct {
	mu     sync.Mutex
	alerts []map[string]interface{}
}

func (f *fakeAlerter) SendLeadAlert(userId string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, fields)
	return nil
}

func (f *fakeAlerter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

type sinkEntry struct {
	UserId, Role, Text string
}

type fakeSink struct {
	mu      sync.Mutex
	entries []sinkEntry
}

func (f *fakeSink) Record(userId, role, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, sinkEntry{userId, role, text})
}

func (f *fakeSink) all() []sinkEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sinkEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// fakeEmitter records the emitted frames in order.
type fakeEmitter struct {
	chunks   []string
	errorMsg string
	ended    bool
	full     string
}

func (f *fakeEmitter) Chunk(text string) error {
	f.chunks = append(f.chunks, text)
	return nil
}

func (f *fakeEmitter) Error(message string) error {
	f.errorMsg = message
	return nil
}

func (f *fakeEmitter) End(fullResponse string) error {
	f.ended = true
	f.full = fullResponse
	return nil
}

type routerFixture struct {
	router    *Router
	sessions  *session.Store
	leads     *fakeLeadRepo
	dealers   *fakeDealerRepo
	publisher *fakePublisher
	alerter   *fakeAlerter
	sink      *fakeSink
}

func newFixture(mock *fakeLLM, dealers *fakeDealerRepo) *routerFixture {
	log := nopLogger{}
	sessions := session.NewStore(memory.NewSessionRepository(nil, log), 20)
	normalizer := normalize.NewNormalizer(mock, 5, log)
	generator := generate.NewGenerator(mock, 0, log)

	idx := lexical.NewIndex()
	idx.Build([]lexical.Document{
		{ID: "1", Content: "Eagle F1 premium sport tyre, wet grip, 205/55 R16."},
		{ID: "2", Content: "Warranty covers manufacturing defects for 5 years."},
	})
	searcher := semantic.NewSearcher(failingEmbedder{}, stubEmbeddingRepo{}, 5)
	retriever := retrieval.NewRetriever(idx, searcher, relational.NewLookup(&fakeTyreRepo{}), retrieval.Weights{
		Lexical:    0.5,
		Semantic:   0.3,
		Relational: 0.2,
		MinScore:   0.1,
		LexicalTop: 5,
	}, log)

	f := &routerFixture{
		sessions:  sessions,
		leads:     &fakeLeadRepo{},
		dealers:   dealers,
		publisher: &fakePublisher{},
		alerter:   &fakeAlerter{},
		sink:      &fakeSink{},
	}
	f.router = NewRouter(sessions, normalizer, retriever, generator,
		dealers, f.leads, f.publisher, f.alerter, f.sink, 5, log)
	return f
}

func classify(category string) string {
	return `{"category": "` + category + `", "normalized_query": "test query"}`
}

func TestHandleTurnContactSupport(t *testing.T) {
	f := newFixture(&fakeLLM{classification: classify("contact_support")}, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "give me a phone number"}, emit)

	require.True(t, emit.ended)
	assert.Equal(t, []string{constant.ContactSupportMessage}, emit.chunks)
	assert.Equal(t, constant.ContactSupportMessage, emit.full)

	// History recorded on both the session and the durable sink.
	history := f.sessions.Recent("u1", 0)
	require.Len(t, history, 2)
	assert.Equal(t, "give me a phone number", history[0].Text)
	assert.Equal(t, constant.ContactSupportMessage, history[1].Text)

	entries := f.sink.all()
	require.Len(t, entries, 2)
	assert.Equal(t, constant.ChatRoleUser, entries[0].Role)
	assert.Equal(t, constant.ChatRoleAssistant, entries[1].Role)
}

func TestHandleTurnGreetingCanned(t *testing.T) {
	f := newFixture(&fakeLLM{classification: classify("greeting_clarification")}, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "hello"}, emit)

	require.True(t, emit.ended)
	assert.Equal(t, constant.GreetingHelpMessage, emit.full)
	assert.Equal(t, "greeting_clarification", f.sessions.Get("u1").LastCategory)
}

func TestHandleTurnUnrelated(t *testing.T) {
	f := newFixture(&fakeLLM{classification: classify("unrelated")}, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "write me a poem"}, emit)

	assert.Equal(t, constant.UnrelatedMessage, emit.full)
}

func TestHandleTurnInstructionRecorded(t *testing.T) {
	mock := &fakeLLM{classification: `{"category": "greeting_clarification", "normalized_query": "x", "instruction": "reply briefly"}`}
	f := newFixture(mock, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "keep answers short please"}, emit)

	assert.Equal(t, constant.InstructionAckMessage, emit.full)
	assert.Equal(t, "reply briefly", f.sessions.Get("u1").PendingInstruction)
}

func TestHandleTurnPendingInstructionConsumedOnce(t *testing.T) {
	f := newFixture(&fakeLLM{classification: classify("greeting_clarification")}, &fakeDealerRepo{})
	f.sessions.SetPendingInstruction("u1", "reply briefly")

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "hi"}, &fakeEmitter{})

	assert.Empty(t, f.sessions.Get("u1").PendingInstruction)
}

func TestHandleTurnLeadCapture(t *testing.T) {
	mock := &fakeLLM{classification: `{"category": "lead_capture", "normalized_query": "callback request", "lead": {"name": "Asha", "phone": "9876543210"}}`}
	f := newFixture(mock, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "call me back, I'm Asha 9876543210"}, emit)

	assert.Equal(t, constant.LeadThanksMessage, emit.full)

	// Lead is saved synchronously before the thank-you goes out.
	require.Equal(t, 1, f.leads.leadCount())
	lead := f.leads.leads[0]
	assert.Equal(t, "u1", lead.UserId)
	assert.Equal(t, "Asha", lead.Fields["name"])
	assert.Equal(t, "call me back, I'm Asha 9876543210", lead.Fields["raw_text"])

	// Event publish and sales alert are async.
	require.Eventually(t, func() bool {
		return f.alerter.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		for _, typ := range f.publisher.types() {
			if typ == "lead.captured" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandleTurnDealerLocatorByPincode(t *testing.T) {
	dealers := &fakeDealerRepo{dealers: []entity.Dealer{
		{Name: "Horizon Tyres Gurgaon", Address: "12 MG Road", Phone: "0124-400000"},
		{Name: "Speedway Wheels", Address: "Sector 14"},
	}}
	mock := &fakeLLM{classification: `{"category": "dealer_locator", "normalized_query": "dealers near 122002", "location": {"pincode": "122002"}}`}
	f := newFixture(mock, dealers)
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "dealers near 122002"}, emit)

	assert.Equal(t, "pincode", dealers.calledMethod())
	assert.Contains(t, emit.full, "1. Horizon Tyres Gurgaon, 12 MG Road (Ph: 0124-400000)")
	assert.Contains(t, emit.full, "2. Speedway Wheels, Sector 14")
	assert.Contains(t, emit.full, constant.DealerListPrompt)
}

func TestHandleTurnDealerLocatorClientLocationWins(t *testing.T) {
	dealers := &fakeDealerRepo{dealers: []entity.Dealer{{Name: "D", Address: "A"}}}
	mock := &fakeLLM{classification: `{"category": "dealer_locator", "normalized_query": "dealers", "location": {"city": "Pune"}}`}
	f := newFixture(mock, dealers)

	turn := Turn{
		UserId:   "u1",
		Text:     "dealers near me",
		Location: &normalize.Location{Lat: 28.46, Lon: 77.03, HasCoords: true},
	}
	f.router.HandleTurn(context.Background(), turn, &fakeEmitter{})

	// The payload location takes precedence over the normalizer's city.
	assert.Equal(t, "nearby", dealers.calledMethod())
}

func TestHandleTurnDealerLocatorNoneFound(t *testing.T) {
	mock := &fakeLLM{classification: `{"category": "dealer_locator", "normalized_query": "dealers", "location": {"pincode": "999999"}}`}
	f := newFixture(mock, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "dealers in 999999"}, emit)

	assert.Equal(t, constant.DealerNoneFoundMessage, emit.full)
}

func TestHandleTurnDealerLocatorLookupError(t *testing.T) {
	dealers := &fakeDealerRepo{err: errors.New("db down")}
	mock := &fakeLLM{classification: `{"category": "dealer_locator", "normalized_query": "dealers", "location": {"pincode": "122002"}}`}
	f := newFixture(mock, dealers)
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "dealers in 122002"}, emit)

	assert.Equal(t, constant.DealerLookupFallback, emit.full)
	assert.True(t, emit.ended)
}

func TestHandleTurnDealerLocatorRawPincodeFallback(t *testing.T) {
	dealers := &fakeDealerRepo{dealers: []entity.Dealer{{Name: "D", Address: "A"}}}
	// Normalizer returned no location, but the raw text carries a pincode.
	mock := &fakeLLM{classification: `{"category": "dealer_locator", "normalized_query": "dealers"}`}
	f := newFixture(mock, dealers)

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "shops around 560034?"}, &fakeEmitter{})

	assert.Equal(t, "pincode", dealers.calledMethod())
}

func TestHandleTurnDealerLocatorNoLocationAsks(t *testing.T) {
	mock := &fakeLLM{
		classification: `{"category": "dealer_locator", "normalized_query": "dealers near me"}`,
		chunks:         []string{"Sure! Could you share ", "your pincode or city?"},
	}
	f := newFixture(mock, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "dealers near me"}, emit)

	require.True(t, emit.ended)
	assert.Equal(t, "Sure! Could you share your pincode or city?", emit.full)
	assert.Len(t, emit.chunks, 2)
}

func TestHandleTurnGeneratedStreams(t *testing.T) {
	mock := &fakeLLM{
		classification: `{"category": "product_info", "normalized_query": "MRP of Eagle F1 205/55 R16"}`,
		chunks:         []string{"The Eagle F1 in 205/55 R16 ", "has an MRP of Rs.7200."},
	}
	f := newFixture(mock, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "eagle f1 price?"}, emit)

	require.True(t, emit.ended)
	assert.Empty(t, emit.errorMsg)
	assert.Equal(t, "The Eagle F1 in 205/55 R16 has an MRP of Rs.7200.", emit.full)
	assert.Equal(t, strings.Join(emit.chunks, ""), emit.full)

	history := f.sessions.Recent("u1", 0)
	require.Len(t, history, 2)
	assert.Equal(t, emit.full, history[1].Text)
}

func TestHandleTurnGenerationFailureMidStream(t *testing.T) {
	mock := &fakeLLM{
		classification: `{"category": "warranty", "normalized_query": "warranty terms"}`,
		chunks:         []string{"Partial "},
		streamErr:      errors.New("backend timeout"),
	}
	f := newFixture(mock, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "warranty?"}, emit)

	require.True(t, emit.ended)
	assert.Equal(t, constant.GenerationErrorMessage, emit.errorMsg)
	// The partial text is still the recorded reply.
	assert.Equal(t, "Partial ", emit.full)
	assert.Equal(t, "Partial ", f.sessions.Recent("u1", 0)[1].Text)
}

func TestHandleTurnGenerationFailureNoOutput(t *testing.T) {
	mock := &fakeLLM{
		classification: `{"category": "warranty", "normalized_query": "warranty terms"}`,
		streamErr:      errors.New("backend down"),
	}
	f := newFixture(mock, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "warranty?"}, emit)

	assert.Equal(t, constant.GenerationErrorMessage, emit.errorMsg)
	assert.Equal(t, constant.GenerationErrorMessage, emit.full)
}

func TestHandleTurnWorkingContextUpdated(t *testing.T) {
	mock := &fakeLLM{
		classification: `{"category": "product_info", "normalized_query": "q", "working_context": "shopping for Eagle F1"}`,
		chunks:         []string{"ok"},
	}
	f := newFixture(mock, &fakeDealerRepo{})

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "eagle f1?"}, &fakeEmitter{})

	assert.Equal(t, "shopping for Eagle F1", f.sessions.Get("u1").WorkingContext)
}

func TestHandleTurnTrackingRecorded(t *testing.T) {
	f := newFixture(&fakeLLM{classification: classify("contact_support")}, &fakeDealerRepo{})

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "phone?", DeviceType: "mobile"}, &fakeEmitter{})

	require.Eventually(t, func() bool {
		return f.leads.trackCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	f.leads.mu.Lock()
	rec := f.leads.tracks[0]
	f.leads.mu.Unlock()
	assert.Equal(t, "u1", rec.UserId)
	assert.Equal(t, "contact_support", rec.Category)
	assert.Equal(t, "mobile", rec.Fields["device_type"])
}

func TestHandleTurnSafeDefaultOnGarbage(t *testing.T) {
	f := newFixture(&fakeLLM{classification: "not json at all"}, &fakeDealerRepo{})
	emit := &fakeEmitter{}

	f.router.HandleTurn(context.Background(), Turn{UserId: "u1", Text: "???"}, emit)

	require.True(t, emit.ended)
	assert.Equal(t, constant.GreetingHelpMessage, emit.full)
}
