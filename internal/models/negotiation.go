// ABOUTME: Negotiation state machine types: state, round responses, tactics
// ABOUTME: Terminal ultimatum and normal rounds share one response shape
package models

// MaxRounds caps the negotiation at five offer/counter-offer exchanges
const MaxRounds = 5

// MoveClass classifies an opponent counter-offer relative to our last offer
type MoveClass string

const (
	MoveOpening        MoveClass = "opening"
	MoveExtremeLowball MoveClass = "extreme_lowball"
	MoveAggressive     MoveClass = "aggressive"
	MoveModerate       MoveClass = "moderate"
	MoveCooperative    MoveClass = "cooperative"
)

// Tactic is the named negotiation posture for a round
type Tactic struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// GapAnalysis compares the opponent's latest offer against ours
type GapAnalysis struct {
	Absolute   int64   `json:"absolute"`
	Percentage float64 `json:"percentage"`
	Assessment string  `json:"assessment"`
}

// NextMove is one suggested follow-up action for the caller
type NextMove struct {
	Action      string `json:"action"`
	Description string `json:"description"`
	Risk        string `json:"risk"`
	Reward      string `json:"reward"`
}

// NegotiationState is the mutable per-session negotiation record. It is
// owned exclusively by one session; the session store serializes access.
type NegotiationState struct {
	RoundNum          int         `json:"round_num"`
	Final             bool        `json:"final"`
	CaseFacts         CaseFacts   `json:"case_facts"`
	Probability       Probability `json:"probability"`
	LastOpponentOffer int64       `json:"last_opponent_offer,omitempty"`
	LastOurOffer      int64       `json:"last_our_offer,omitempty"`
	ConcessionPattern []MoveClass `json:"concession_pattern"`
}

// RoundResponse is the per-round output of the negotiation engine.
// Ultimatum responses set Ultimatum and carry the fixed escalation fields;
// all other fields keep their normal meaning.
type RoundResponse struct {
	Round             int              `json:"round"`
	OurOffer          int64            `json:"our_offer"`
	OfferPercentage   float64          `json:"offer_percentage"`
	Tactic            Tactic           `json:"tactic"`
	Rationale         string           `json:"rationale"`
	PolishedMessage   string           `json:"polished_message"`
	GapAnalysis       *GapAnalysis     `json:"gap_analysis,omitempty"`
	NextMoves         []NextMove       `json:"next_moves"`
	State             NegotiationState `json:"state"`
	IsFinalRound      bool             `json:"is_final_round"`
	EscalationWarning bool             `json:"escalation_warning"`
	Ultimatum         bool             `json:"ultimatum,omitempty"`
	EscalationPath    string           `json:"escalation_path,omitempty"`
	Timeline          string           `json:"timeline,omitempty"`
	SessionID         string           `json:"session_id,omitempty"`
}
