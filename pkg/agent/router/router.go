package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tyrechat-be/internal/constant"
	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/pkg/logger"
	"tyrechat-be/internal/repository/contract"
	"tyrechat-be/pkg/agent/generate"
	"tyrechat-be/pkg/agent/normalize"
	"tyrechat-be/pkg/agent/session"
	"tyrechat-be/pkg/events"
	"tyrechat-be/pkg/retrieval"
	"tyrechat-be/pkg/retrieval/relational"
)

// TurnEmitter is how a routed turn talks back to the transport. Chunk may be
// called many times; Error at most once; End exactly once, always last.
type TurnEmitter interface {
	Chunk(text string) error
	Error(message string) error
	End(fullResponse string) error
}

// Turn is one inbound message plus its transport-level side channels.
type Turn struct {
	UserId     string
	Text       string
	DeviceType string
	// Location explicitly supplied by the client payload. Takes precedence
	// over anything the normalizer extracts.
	Location *normalize.Location
}

// EventPublisher matches the NATS publisher; nil disables event emission.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// LeadAlerter matches the mailer; nil disables sales alerts.
type LeadAlerter interface {
	SendLeadAlert(userId string, fields map[string]interface{}) error
}

// HistorySink receives finished turns for durable persistence. Record must
// never block the serving path.
type HistorySink interface {
	Record(userId, role, text string)
}

// Router drives one turn end to end: normalize, branch on category, emit the
// reply, then record history on every path.
type Router struct {
	sessions   *session.Store
	normalizer *normalize.Normalizer
	retriever  *retrieval.Retriever
	generator  *generate.Generator
	dealers    contract.DealerRepository
	leads      contract.LeadRepository
	publisher  EventPublisher
	alerter    LeadAlerter
	history    HistorySink
	dealerCap  int
	log        logger.ILogger
}

func NewRouter(
	sessions *session.Store,
	normalizer *normalize.Normalizer,
	retriever *retrieval.Retriever,
	generator *generate.Generator,
	dealers contract.DealerRepository,
	leads contract.LeadRepository,
	publisher EventPublisher,
	alerter LeadAlerter,
	history HistorySink,
	dealerCap int,
	log logger.ILogger,
) *Router {
	if dealerCap <= 0 {
		dealerCap = 5
	}
	return &Router{
		sessions:   sessions,
		normalizer: normalizer,
		retriever:  retriever,
		generator:  generator,
		dealers:    dealers,
		leads:      leads,
		publisher:  publisher,
		alerter:    alerter,
		history:    history,
		dealerCap:  dealerCap,
		log:        log,
	}
}

// HandleTurn processes one message. It never returns an error: every
// failure path still produces a reply and an End signal.
func (r *Router) HandleTurn(ctx context.Context, turn Turn, emit TurnEmitter) {
	sess := r.sessions.Get(turn.UserId)
	pending := sess.PendingInstruction

	nq := r.normalizer.Normalize(ctx, turn.Text, sess.History, sess.WorkingContext, pending)
	if pending != "" {
		r.sessions.ClearPendingInstruction(turn.UserId)
	}
	if nq.ContextUpdate != nil {
		r.sessions.SetWorkingContext(turn.UserId, *nq.ContextUpdate)
	}
	r.sessions.SetLastCategory(turn.UserId, nq.Category)

	r.track(turn, nq)

	r.log.Info("router", "turn classified", map[string]interface{}{
		"user_id":  turn.UserId,
		"category": nq.Category,
	})

	switch nq.Category {
	case constant.CategoryContactSupport:
		r.finishCanned(turn, emit, constant.ContactSupportMessage)

	case constant.CategoryGreeting:
		reply := nq.CannedReply
		if nq.Instruction != "" {
			r.sessions.SetPendingInstruction(turn.UserId, nq.Instruction)
			reply = constant.InstructionAckMessage
		}
		if reply == "" {
			reply = constant.GreetingHelpMessage
		}
		r.finishCanned(turn, emit, reply)

	case constant.CategoryUnrelated:
		r.finishCanned(turn, emit, constant.UnrelatedMessage)

	case constant.CategoryLeadCapture:
		r.captureLead(ctx, turn, nq)
		r.finishCanned(turn, emit, constant.LeadThanksMessage)

	case constant.CategoryDealerLocator:
		r.handleDealerLocator(ctx, turn, nq, emit)

	default:
		r.handleGenerated(ctx, turn, nq, emit)
	}
}

// finishCanned sends a single chunk, records history, ends the turn.
func (r *Router) finishCanned(turn Turn, emit TurnEmitter, reply string) {
	if err := emit.Chunk(reply); err != nil {
		r.log.Warn("router", "emit failed on canned reply", map[string]interface{}{
			"user_id": turn.UserId,
			"error":   err.Error(),
		})
	}
	r.finish(turn, reply, emit)
}

// finish appends both turns to session history, hands them to the durable
// sink, and signals End. Runs on every path, including errors.
func (r *Router) finish(turn Turn, reply string, emit TurnEmitter) {
	r.sessions.AppendTurn(turn.UserId, constant.ChatRoleUser, turn.Text)
	r.sessions.AppendTurn(turn.UserId, constant.ChatRoleAssistant, reply)
	if r.history != nil {
		r.history.Record(turn.UserId, constant.ChatRoleUser, turn.Text)
		r.history.Record(turn.UserId, constant.ChatRoleAssistant, reply)
	}
	if err := emit.End(reply); err != nil {
		r.log.Warn("router", "emit End failed", map[string]interface{}{
			"user_id": turn.UserId,
			"error":   err.Error(),
		})
	}
}

func (r *Router) track(turn Turn, nq *normalize.NormalizedQuery) {
	rec := &entity.TrackingRecord{
		UserId:   turn.UserId,
		Category: nq.Category,
		Query:    nq.Text,
		Fields: map[string]interface{}{
			"device_type": turn.DeviceType,
		},
	}
	// Fire and forget; analytics never slow a turn down.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.leads.SaveTracking(ctx, rec); err != nil {
			r.log.Warn("router", "tracking save failed", map[string]interface{}{
				"user_id": turn.UserId,
				"error":   err.Error(),
			})
		}
		if r.publisher != nil {
			if err := r.publisher.Publish(ctx, events.NewTurnRouted(turn.UserId, nq.Category, nq.Text)); err != nil {
				r.log.Warn("router", "turn event publish failed", map[string]interface{}{
					"user_id": turn.UserId,
					"error":   err.Error(),
				})
			}
		}
	}()
}

func (r *Router) captureLead(ctx context.Context, turn Turn, nq *normalize.NormalizedQuery) {
	fields := nq.LeadFields
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["raw_text"] = turn.Text

	lead := &entity.Lead{
		UserId: turn.UserId,
		Fields: fields,
	}
	if err := r.leads.SaveLead(ctx, lead); err != nil {
		r.log.Error("router", "lead save failed", map[string]interface{}{
			"user_id": turn.UserId,
			"error":   err.Error(),
		})
	}

	// Downstream notifications must not delay the thank-you reply.
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if r.publisher != nil {
			if err := r.publisher.Publish(bg, events.NewLeadCaptured(turn.UserId, fields)); err != nil {
				r.log.Warn("router", "lead event publish failed", map[string]interface{}{
					"user_id": turn.UserId,
					"error":   err.Error(),
				})
			}
		}
		if r.alerter != nil {
			if err := r.alerter.SendLeadAlert(turn.UserId, fields); err != nil {
				r.log.Warn("router", "lead alert email failed", map[string]interface{}{
					"user_id": turn.UserId,
					"error":   err.Error(),
				})
			}
		}
	}()
}

func (r *Router) handleDealerLocator(ctx context.Context, turn Turn, nq *normalize.NormalizedQuery, emit TurnEmitter) {
	loc := turn.Location
	if loc.IsZero() {
		loc = nq.Location
	}
	if loc.IsZero() {
		if pin := normalize.ExtractPincode(turn.Text); pin != "" {
			loc = &normalize.Location{Pincode: pin}
		}
	}

	if loc.IsZero() {
		// No usable location: ask for one via the generator so tone stays
		// consistent with the rest of the conversation.
		r.handleGenerated(ctx, turn, nq, emit)
		return
	}

	dealers, err := r.lookupDealers(ctx, loc)
	if err != nil {
		r.log.Error("router", "dealer lookup failed", map[string]interface{}{
			"user_id": turn.UserId,
			"error":   err.Error(),
		})
		r.finishCanned(turn, emit, constant.DealerLookupFallback)
		return
	}
	if len(dealers) == 0 {
		r.finishCanned(turn, emit, constant.DealerNoneFoundMessage)
		return
	}

	r.finishCanned(turn, emit, renderDealers(dealers))
}

func (r *Router) lookupDealers(ctx context.Context, loc *normalize.Location) ([]entity.Dealer, error) {
	switch {
	case loc.Pincode != "":
		return r.dealers.FindByPincode(ctx, loc.Pincode, r.dealerCap)
	case loc.HasCoords:
		return r.dealers.FindNearby(ctx, loc.Lat, loc.Lon, r.dealerCap)
	default:
		return r.dealers.FindByCity(ctx, loc.City, r.dealerCap)
	}
}

func renderDealers(dealers []entity.Dealer) string {
	var b strings.Builder
	b.WriteString("Here are the nearest Horizon Tyres dealers:\n")
	for i, d := range dealers {
		b.WriteString(fmt.Sprintf("%d. %s, %s", i+1, d.Name, d.Address))
		if d.Phone != "" {
			b.WriteString(" (Ph: " + d.Phone + ")")
		}
		b.WriteString("\n")
	}
	b.WriteString(constant.DealerListPrompt)
	return b.String()
}

func (r *Router) handleGenerated(ctx context.Context, turn Turn, nq *normalize.NormalizedQuery, emit TurnEmitter) {
	structured := nq.Structured
	if nq.SafeDefault {
		structured = relational.StructuredQuery{}
	}

	contextBlob := ""
	if nq.Category != constant.CategoryDealerLocator {
		contextBlob = r.retriever.BuildContext(ctx, nq.Text, structured)
	}

	prior := r.sessions.Recent(turn.UserId, 0)
	full, err := r.generator.Stream(ctx, nq.Category, nq.Text, contextBlob, prior, emit.Chunk)
	if err != nil {
		if emitErr := emit.Error(constant.GenerationErrorMessage); emitErr != nil {
			r.log.Warn("router", "emit Error failed", map[string]interface{}{
				"user_id": turn.UserId,
				"error":   emitErr.Error(),
			})
		}
		if full == "" {
			full = constant.GenerationErrorMessage
		}
	}
	r.finish(turn, full, emit)
}
