package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tyrechat-be/internal/constant"
	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/pkg/logger"
	"tyrechat-be/pkg/llm"
	"tyrechat-be/pkg/retrieval/relational"
)

// Location is a side channel extracted during normalization. Any of the
// fields may be set; HasCoords marks lat/lon as meaningful.
type Location struct {
	Pincode   string
	City      string
	Lat       float64
	Lon       float64
	HasCoords bool
}

func (l *Location) IsZero() bool {
	return l == nil || (l.Pincode == "" && l.City == "" && !l.HasCoords)
}

// NormalizedQuery is the full outcome of one normalization pass. Category is
// always a member of the closed set; CannedReply is set only when the safe
// default fired.
type NormalizedQuery struct {
	Category        string
	Text            string
	CannedReply     string
	SafeDefault     bool
	ContextUpdate   *string // nil preserves the prior working context
	Location        *Location
	CompetitorBrand string
	Structured      relational.StructuredQuery
	LeadFields      map[string]interface{}
	Instruction     string
}

// llmResult mirrors the strict JSON the prompt demands.
type llmResult struct {
	Category        string   `json:"category"`
	NormalizedQuery string   `json:"normalized_query"`
	WorkingContext  *string  `json:"working_context"`
	CompetitorBrand string   `json:"competitor_brand"`
	Instruction     string   `json:"instruction"`
	Location        struct {
		Pincode string   `json:"pincode"`
		City    string   `json:"city"`
		Lat     *float64 `json:"lat"`
		Lon     *float64 `json:"lon"`
	} `json:"location"`
	Structured struct {
		ModelName   string  `json:"model_name"`
		Dimension   string  `json:"dimension"`
		VehicleType string  `json:"vehicle_type"`
		Segment     string  `json:"segment"`
		MaxPrice    float64 `json:"max_price"`
	} `json:"structured"`
	Lead map[string]interface{} `json:"lead"`
}

// Normalizer classifies a raw turn into the closed category set and expands
// follow-ups into standalone queries. It never returns an error: every
// failure path degrades to the safe default.
type Normalizer struct {
	llmProvider llm.LLMProvider
	depth       int
	log         logger.ILogger
}

func NewNormalizer(llmProvider llm.LLMProvider, depth int, log logger.ILogger) *Normalizer {
	if depth <= 0 {
		depth = 5
	}
	return &Normalizer{
		llmProvider: llmProvider,
		depth:       depth,
		log:         log,
	}
}

// Normalize runs the canonical pre-pass, then the LLM classification.
// pendingInstruction, when non-empty, is appended to the canonical text so a
// recorded one-shot directive shapes this turn.
func (n *Normalizer) Normalize(
	ctx context.Context,
	rawText string,
	history []entity.ChatTurn,
	priorContext string,
	pendingInstruction string,
) *NormalizedQuery {
	canonical := Canonicalize(rawText)
	if pendingInstruction != "" {
		canonical = canonical + " (" + pendingInstruction + ")"
	}

	prompt := n.buildPrompt(canonical, history, priorContext)

	response, err := n.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		n.log.Warn("normalize", "classification call failed, using safe default", map[string]interface{}{
			"error": err.Error(),
		})
		return safeDefault(canonical)
	}

	result, err := parseResult(response)
	if err != nil {
		n.log.Warn("normalize", "classification parse failed, using safe default", map[string]interface{}{
			"error": err.Error(),
		})
		return safeDefault(canonical)
	}

	return n.toNormalized(canonical, result)
}

func (n *Normalizer) toNormalized(canonical string, res *llmResult) *NormalizedQuery {
	category := strings.ToLower(strings.TrimSpace(res.Category))
	if !constant.IsValidCategory(category) {
		return safeDefault(canonical)
	}

	text := strings.TrimSpace(res.NormalizedQuery)
	if text == "" {
		text = canonical
	}

	out := &NormalizedQuery{
		Category:        category,
		Text:            text,
		ContextUpdate:   res.WorkingContext,
		CompetitorBrand: strings.TrimSpace(res.CompetitorBrand),
		Instruction:     strings.TrimSpace(res.Instruction),
		LeadFields:      res.Lead,
		Structured: relational.StructuredQuery{
			ModelName:   res.Structured.ModelName,
			Dimension:   res.Structured.Dimension,
			VehicleType: res.Structured.VehicleType,
			Segment:     res.Structured.Segment,
			MaxPrice:    res.Structured.MaxPrice,
		},
	}

	loc := &Location{
		Pincode: strings.TrimSpace(res.Location.Pincode),
		City:    strings.TrimSpace(res.Location.City),
	}
	if res.Location.Lat != nil && res.Location.Lon != nil {
		loc.Lat = *res.Location.Lat
		loc.Lon = *res.Location.Lon
		loc.HasCoords = true
	}
	if !loc.IsZero() {
		out.Location = loc
	}

	return out
}

// safeDefault is the only outcome of a failed normalization: greet, offer
// examples, touch nothing in the session context.
func safeDefault(canonical string) *NormalizedQuery {
	return &NormalizedQuery{
		Category:    constant.CategoryGreeting,
		Text:        canonical,
		CannedReply: constant.GreetingHelpMessage,
		SafeDefault: true,
	}
}

func (n *Normalizer) buildPrompt(canonical string, history []entity.ChatTurn, priorContext string) string {
	var b strings.Builder

	b.WriteString("You classify tyre-shop customer messages. Respond with EXACTLY one JSON object and nothing else.\n\n")

	b.WriteString("Categories (choose exactly one):\n")
	b.WriteString("- product_info: price/MRP, size, spec or availability of a specific tyre\n")
	b.WriteString("- recommendations: which tyre suits a vehicle or usage\n")
	b.WriteString("- dealer_locator: where to buy, nearest shop/dealer\n")
	b.WriteString("- contact_support: wants a phone number, email, human help\n")
	b.WriteString("- lead_capture: asks for a callback or shares contact details for follow-up\n")
	b.WriteString("- warranty: warranty terms, claims, coverage\n")
	b.WriteString("- greeting_clarification: greeting, thanks, or message too vague to act on\n")
	b.WriteString("- unrelated: not about tyres, vehicles or this shop\n")
	b.WriteString("- contextual_query: follow-up that only makes sense with the prior turns\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- Rewrite follow-ups into a standalone query in normalized_query using the history.\n")
	b.WriteString("- working_context: a one-line summary of what the customer is shopping for; omit the key to keep the previous one.\n")
	b.WriteString("- location: fill pincode/city/lat+lon only when the customer states them.\n")
	b.WriteString("- competitor_brand: set when the customer names a non-Horizon brand.\n")
	b.WriteString("- instruction: set when the customer gives a standing directive (e.g. reply briefly).\n")
	b.WriteString("- structured: catalogue filters (model_name, dimension like \"205/55 R16\", vehicle_type, segment, max_price) when stated.\n")
	b.WriteString("- lead: contact fields (name, phone, preferred_time) for lead_capture turns.\n\n")

	if priorContext != "" {
		b.WriteString("Working context so far: ")
		b.WriteString(priorContext)
		b.WriteString("\n\n")
	}

	recent := history
	if len(recent) > n.depth {
		recent = recent[len(recent)-n.depth:]
	}
	if len(recent) > 0 {
		b.WriteString("Recent turns (oldest first):\n")
		for _, t := range recent {
			b.WriteString(fmt.Sprintf("%s: %s\n", t.Role, t.Text))
		}
		b.WriteString("\n")
	}

	b.WriteString("Customer message: ")
	b.WriteString(canonical)
	b.WriteString("\n\nJSON shape: {\"category\": \"...\", \"normalized_query\": \"...\", \"working_context\": \"...\", \"location\": {\"pincode\": \"\", \"city\": \"\", \"lat\": null, \"lon\": null}, \"competitor_brand\": \"\", \"instruction\": \"\", \"structured\": {\"model_name\": \"\", \"dimension\": \"\", \"vehicle_type\": \"\", \"segment\": \"\", \"max_price\": 0}, \"lead\": {}}\n")

	return b.String()
}

func parseResult(response string) (*llmResult, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var result llmResult
	if err := json.Unmarshal([]byte(jsonContent), &result); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	if strings.TrimSpace(result.Category) == "" {
		return nil, fmt.Errorf("empty category in response")
	}
	return &result, nil
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
