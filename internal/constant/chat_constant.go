package constant

// Closed category set for a classified turn. Every inbound message maps to
// exactly one of these; there is no "none" outcome.
const (
	CategoryProductInfo     = "product_info"
	CategoryRecommendations = "recommendations"
	CategoryDealerLocator   = "dealer_locator"
	CategoryContactSupport  = "contact_support"
	CategoryLeadCapture     = "lead_capture"
	CategoryWarranty        = "warranty"
	CategoryGreeting        = "greeting_clarification"
	CategoryUnrelated       = "unrelated"
	CategoryContextual      = "contextual_query"
)

// Categories lists every valid category. Used to validate classifier output.
var Categories = []string{
	CategoryProductInfo,
	CategoryRecommendations,
	CategoryDealerLocator,
	CategoryContactSupport,
	CategoryLeadCapture,
	CategoryWarranty,
	CategoryGreeting,
	CategoryUnrelated,
	CategoryContextual,
}

// IsValidCategory reports whether c is a member of the closed category set.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// GuestIDPrefix marks non-authenticated session identities. Guest sessions get
// identical in-memory treatment; the prefix only matters to callers that care
// about account linkage.
const GuestIDPrefix = "guest"

// Support contact details surfaced in canned replies and fallbacks.
const (
	SupportTollFree = "1800-209-5858"
	SupportEmail    = "care@horizontyres.com"
)

// Canned copy. The greeting doubles as the safe-default reply when
// classification fails outright.
const (
	GreetingHelpMessage = "Hello! I'm your Horizon Tyres assistant. I can help with sizes, prices (MRP), specs, recommendations, nearby dealers, and warranty. For example: \"MRP of TrailMax 185/70 R15\", \"Best tyre for Swift city use\", or \"Nearest dealer in 122002\"."

	ContactSupportMessage = "You can reach Horizon Tyres Customer Care at " + SupportTollFree + " (toll-free) or " + SupportEmail + "."

	LeadThanksMessage = "Thank you! Our team will reach out to you shortly. For anything urgent, call " + SupportTollFree + "."

	InstructionAckMessage = "Noted. I'll keep that in mind for the rest of our conversation."

	DealerLookupFallback = "I couldn't fetch dealer details right now. Please share your pincode or city and I'll try again, or call " + SupportTollFree + " for immediate assistance."

	DealerNoneFoundMessage = "I couldn't find dealers for that location. Please share your pincode or city and I'll try again. You can also call " + SupportTollFree + " for immediate help."

	GenerationErrorMessage = "Sorry, I ran into a problem answering that. Please try again in a moment."

	UnrelatedMessage = "I'm here to help with tyres: sizes, prices (MRP), recommendations, dealers, and warranty. Is there anything tyre-related I can help you with?"

	DealerListPrompt = "Would you like directions to any of these, or help checking stock? You can also call " + SupportTollFree + "."
)
