package models

// QueryIntent is the routing decision taken for a single message.
type QueryIntent string

const (
	IntentNearby            QueryIntent = "nearby"
	IntentTicket            QueryIntent = "ticket"
	IntentHours             QueryIntent = "hours"
	IntentClosure           QueryIntent = "closure"
	IntentTransport         QueryIntent = "transport"
	IntentRules             QueryIntent = "rules"
	IntentItinerary         QueryIntent = "itinerary"
	IntentCourseByDate      QueryIntent = "course_by_date"
	IntentCourseUnavailable QueryIntent = "course_unavailable"
	IntentOpenEnded         QueryIntent = "open_ended"
)

// InterestLabel is the coarse engagement signal attached to a reply.
type InterestLabel string

const (
	InterestHigh  InterestLabel = "high_interest"
	InterestMaybe InterestLabel = "maybe_interest"
	InterestLow   InterestLabel = "low_interest"
	InterestNone  InterestLabel = ""
)

// ParseInterestLabel accepts only the three defined tokens.
func ParseInterestLabel(s string) (InterestLabel, bool) {
	switch InterestLabel(s) {
	case InterestHigh, InterestMaybe, InterestLow:
		return InterestLabel(s), true
	}
	return InterestNone, false
}

// RouteResult is the outcome of routing one message.
type RouteResult struct {
	Reply    string        `json:"reply"`
	Interest InterestLabel `json:"interest,omitempty"`
	Intent   QueryIntent   `json:"intent"`
}
