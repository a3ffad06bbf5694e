// ABOUTME: Deterministic multi-round negotiation engine, rounds 1-5 plus ultimatum
// ABOUTME: All tactics rule-based; the LLM only polishes the round-1 opener
package negotiation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/settleflow/settleflow/internal/models"
	"github.com/settleflow/settleflow/internal/statute"
	"github.com/settleflow/settleflow/internal/util"
)

// ErrInvalidOffer indicates a non-positive opponent counter-offer
var ErrInvalidOffer = errors.New("invalid opponent offer amount")

// Opening base ratios by settlement-probability tier
const (
	aggressiveOpening = 0.92 // probability >= 0.75
	strongOpening     = 0.85 // probability >= 0.60
	balancedOpening   = 0.78 // probability >= 0.40
	defensiveOpening  = 0.68 // everything weaker
)

// ultimatumRatio is the hard floor for the final take-it-or-leave-it offer
const ultimatumRatio = 0.70

// concessionSchedule maps round number to the reduction applied to the
// opening base. Round 1 concedes nothing.
var concessionSchedule = map[int]float64{
	1: 0.00,
	2: 0.03,
	3: 0.07,
	4: 0.12,
	5: 0.15,
}

// tactics is the fixed psychological playbook by round
var tactics = map[int]models.Tactic{
	1: {Name: "Anchor High", Desc: "Set aggressive baseline"},
	2: {Name: "Justify Position", Desc: "Cite statutory provisions"},
	3: {Name: "Limited Concession", Desc: "Small move, demand reciprocity"},
	4: {Name: "Final Offer Setup", Desc: "Create urgency"},
	5: {Name: "Walk-Away Threat", Desc: "MSEFC escalation warning"},
}

// Advisor rewrites the round-1 opener. A failed or slow call degrades to the
// rule-based rationale; implementations must bound their own runtime.
type Advisor interface {
	PolishOpener(ctx context.Context, facts models.CaseFacts, tactic models.Tactic, offer int64, rationale string) (string, error)
}

// Engine generates per-round offers and advisory text. Stateless: every
// method is a pure function of its inputs plus the optional advisor call.
type Engine struct {
	advisor Advisor
}

// NewEngine creates an engine. advisor may be nil, disabling polish.
func NewEngine(advisor Advisor) *Engine {
	return &Engine{advisor: advisor}
}

// Start opens a negotiation at round 1 with the probability-tiered anchor.
func (e *Engine) Start(ctx context.Context, facts models.CaseFacts, prob models.Probability) (models.NegotiationState, *models.RoundResponse, error) {
	facts = facts.Normalized()
	if err := facts.Validate(); err != nil {
		return models.NegotiationState{}, nil, err
	}
	if facts.ClaimAmount == 0 {
		return models.NegotiationState{}, nil, fmt.Errorf("%w: claim_amount must be positive to negotiate", models.ErrInvalidInput)
	}

	state := models.NegotiationState{
		RoundNum:          1,
		CaseFacts:         facts,
		Probability:       prob,
		ConcessionPattern: []models.MoveClass{},
	}

	resp := e.roundResponse(ctx, &state)
	return state, resp, nil
}

// Continue advances the negotiation by one round on an opponent counter-offer.
// Once the round cap is exceeded the state turns terminal and every further
// call re-returns the identical ultimatum without advancing state.
func (e *Engine) Continue(ctx context.Context, state models.NegotiationState, opponentOffer int64, message string) (models.NegotiationState, *models.RoundResponse, error) {
	if opponentOffer <= 0 {
		return state, nil, fmt.Errorf("%w: got %d", ErrInvalidOffer, opponentOffer)
	}
	if state.Final {
		return state, finalUltimatum(&state), nil
	}

	next := state.RoundNum + 1
	if next > models.MaxRounds {
		state.Final = true
		state.LastOurOffer = ourOffer(state.CaseFacts.ClaimAmount, ultimatumRatio)
		return state, finalUltimatum(&state), nil
	}

	state.ConcessionPattern = append(state.ConcessionPattern, classifyMove(state.LastOurOffer, opponentOffer))
	state.RoundNum = next
	state.LastOpponentOffer = opponentOffer

	resp := e.roundResponse(ctx, &state)
	return state, resp, nil
}

// classifyMove buckets the opponent's counter by its ratio to our last offer.
// The very first counter has no reference offer and classifies as opening.
func classifyMove(lastOurOffer, offer int64) models.MoveClass {
	if lastOurOffer <= 0 {
		return models.MoveOpening
	}
	ratio := float64(offer) / float64(lastOurOffer)
	switch {
	case ratio < 0.50:
		return models.MoveExtremeLowball
	case ratio < 0.75:
		return models.MoveAggressive
	case ratio < 0.90:
		return models.MoveModerate
	default:
		return models.MoveCooperative
	}
}

// openingBase selects the anchor ratio for the case's probability tier
func openingBase(prob models.Probability) float64 {
	switch {
	case prob >= 0.75:
		return aggressiveOpening
	case prob >= 0.60:
		return strongOpening
	case prob >= 0.40:
		return balancedOpening
	default:
		return defensiveOpening
	}
}

// ourOffer truncates claim x ratio to whole minor units
func ourOffer(claim int64, ratio float64) int64 {
	return int64(float64(claim) * ratio)
}

func (e *Engine) roundResponse(ctx context.Context, state *models.NegotiationState) *models.RoundResponse {
	base := openingBase(state.Probability)
	concession, ok := concessionSchedule[state.RoundNum]
	if !ok {
		concession = concessionSchedule[models.MaxRounds]
	}

	offerPct := base - concession
	state.LastOurOffer = ourOffer(state.CaseFacts.ClaimAmount, offerPct)

	tactic, ok := tactics[state.RoundNum]
	if !ok {
		tactic = tactics[models.MaxRounds]
	}

	var gap *models.GapAnalysis
	if state.LastOpponentOffer > 0 {
		gap = analyzeGap(state.LastOpponentOffer, state.LastOurOffer, state.CaseFacts.ClaimAmount)
	}

	rationale := buildRationale(state, tactic, gap)

	resp := &models.RoundResponse{
		Round:             state.RoundNum,
		OurOffer:          state.LastOurOffer,
		OfferPercentage:   round1(offerPct * 100),
		Tactic:            tactic,
		Rationale:         rationale,
		PolishedMessage:   rationale,
		GapAnalysis:       gap,
		NextMoves:         suggestNextMoves(state, gap),
		State:             *state,
		IsFinalRound:      state.RoundNum == models.MaxRounds,
		EscalationWarning: state.RoundNum >= 4,
	}

	// Round 1 only: one best-effort polish attempt, never fatal
	if e.advisor != nil && state.RoundNum == 1 {
		polished, err := e.advisor.PolishOpener(ctx, state.CaseFacts, tactic, state.LastOurOffer, rationale)
		if err != nil {
			log.Printf("Warning: opener polish unavailable, using rule-based text: %v", err)
		} else if polished != "" {
			resp.PolishedMessage = polished
		}
	}

	return resp
}

// analyzeGap compares the opponent's offer against ours and the full claim
func analyzeGap(opponent, ours, claim int64) *models.GapAnalysis {
	absolute := opponent - ours
	return &models.GapAnalysis{
		Absolute:   absolute,
		Percentage: round1(float64(absolute) / float64(opponent) * 100),
		Assessment: assessGap(opponent, claim),
	}
}

func assessGap(opponent, claim int64) string {
	ratio := float64(opponent) / float64(claim)
	switch {
	case ratio < 0.50:
		return "Extreme lowball - reject and cite statutory minimums"
	case ratio < 0.70:
		return "Below reasonable range - demand justification"
	case ratio < 0.85:
		return "Entering negotiation zone - conditional acceptance possible"
	default:
		return "Within acceptable range - push for final close"
	}
}

func buildRationale(state *models.NegotiationState, tactic models.Tactic, gap *models.GapAnalysis) string {
	var parts []string

	if state.RoundNum == 1 {
		parts = append(parts, fmt.Sprintf(
			"ROUND 1 - ANCHOR HIGH: Opening at ₹%s (%s). "+
				"Based on %d-day delay and %d supporting documents, statutory claim is strong. "+
				"Settlement probability: %.0f%%.",
			util.Rupees(state.LastOurOffer), tactic.Desc,
			state.CaseFacts.DelayDays, state.CaseFacts.DocumentCount,
			state.Probability.Percent()))
	} else if gap != nil {
		direction := "below"
		if gap.Absolute > 0 {
			direction = "above"
		}
		parts = append(parts, fmt.Sprintf(
			"ROUND %d - %s: Opponent offered ₹%s. Our position: ₹%s (%.1f%% %s their offer). Assessment: %s.",
			state.RoundNum, strings.ToUpper(tactic.Name),
			util.Rupees(state.LastOpponentOffer), util.Rupees(state.LastOurOffer),
			math.Abs(gap.Percentage), direction, gap.Assessment))

		if len(state.ConcessionPattern) >= 2 {
			recent := state.ConcessionPattern[len(state.ConcessionPattern)-2:]
			if containsMove(recent, models.MoveAggressive) {
				parts = append(parts, "Opponent showing resistance. Hold firm.")
			} else if containsMove(recent, models.MoveCooperative) {
				parts = append(parts, "Opponent cooperative. Small concession justified.")
			}
		}
	}

	if state.RoundNum >= 3 {
		parts = append(parts, fmt.Sprintf(
			"Reminder: MSME Act Section 16 mandates %.0f%% interest. MSEFC escalation remains option.",
			statute.ReminderRatePercent(state.CaseFacts.DelayDays)))
	}

	return strings.Join(parts, " | ")
}

// suggestNextMoves returns at most three ordered follow-up options
func suggestNextMoves(state *models.NegotiationState, gap *models.GapAnalysis) []models.NextMove {
	var moves []models.NextMove

	if state.RoundNum < 3 {
		moves = append(moves, models.NextMove{
			Action:      "hold_firm",
			Description: "Reject counter, restate statutory position",
			Risk:        "May stall negotiation",
			Reward:      "Maintains anchor point",
		})
	}

	if gap != nil && gap.Percentage < 15 {
		moves = append(moves, models.NextMove{
			Action:      "conditional_accept",
			Description: fmt.Sprintf("Accept ₹%s with immediate payment clause", util.Rupees(state.LastOpponentOffer)),
			Risk:        "May leave money on table",
			Reward:      "Certain closure",
		})
	}

	if state.RoundNum >= 3 {
		moves = append(moves, models.NextMove{
			Action:      "escalate_threat",
			Description: "Warn of MSEFC reference",
			Risk:        "May harden opponent position",
			Reward:      "Creates deadline pressure",
		})
	}

	if len(moves) > 3 {
		moves = moves[:3]
	}
	return moves
}

// finalUltimatum builds the fixed 70%-of-claim terminal response. It reads
// the already-terminal state and never mutates it, so repeated calls are
// idempotent.
func finalUltimatum(state *models.NegotiationState) *models.RoundResponse {
	finalOffer := ourOffer(state.CaseFacts.ClaimAmount, ultimatumRatio)

	rationale := fmt.Sprintf(
		"FINAL ROUND: Last offer ₹%s (70%% of claim). "+
			"If rejected, proceeding to MSEFC under Section 18. "+
			"Statutory interest continues accruing at %.0f%%.",
		util.Rupees(finalOffer),
		statute.ReminderRatePercent(state.CaseFacts.DelayDays))

	return &models.RoundResponse{
		Round:             models.MaxRounds,
		OurOffer:          finalOffer,
		OfferPercentage:   70.0,
		Tactic:            models.Tactic{Name: "Final Offer", Desc: "Take it or MSEFC"},
		Rationale:         rationale,
		PolishedMessage:   rationale,
		State:             *state,
		Ultimatum:         true,
		EscalationWarning: true,
		EscalationPath:    "MSEFC → Arbitration → Civil Court",
		Timeline:          "90 days conciliation + 90 days arbitration",
	}
}

func containsMove(moves []models.MoveClass, want models.MoveClass) bool {
	for _, m := range moves {
		if m == want {
			return true
		}
	}
	return false
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
