// ABOUTME: Legal argumentation engine: statutes, defenses, rebuttals, risk
// ABOUTME: Evidence-weighted escalation model; no invented penalties
package statute

import (
	"fmt"
	"strings"

	"github.com/settleflow/settleflow/internal/models"
	"github.com/settleflow/settleflow/internal/util"
)

// Statute is one provision of the governing act
type Statute struct {
	Section        string `json:"section"`
	Title          string `json:"title"`
	Text           string `json:"text,omitempty"`
	StrategicValue string `json:"strategic_value,omitempty"`
}

// statutes is the fixed provision registry
var statutes = map[string]Statute{
	"15": {
		Section: "15",
		Title:   "Time limit for payment",
		Text:    "Buyer must pay within agreed period (max 45 days) or 15 days if no agreement.",
	},
	"16": {
		Section: "16",
		Title:   "Interest on delayed payment",
		Text:    "Compound interest monthly at 3 times RBI bank rate.",
	},
	"18": {
		Section: "18",
		Title:   "Reference to MSEFC",
		Text:    "Either party may refer dispute to MSEFC for conciliation/arbitration.",
	},
}

// counterArgument pairs an expected defense with its rebuttal key
type counterArgument struct {
	Defense  string
	Rebuttal string
}

// counterArguments maps dispute type to the defenses the opponent is likely
// to raise, most common first
var counterArguments = map[models.DisputeType][]counterArgument{
	models.DisputeGoodsRejection: {
		{Defense: "Goods quality below specification", Rebuttal: "section_9"},
		{Defense: "Delivery delayed causing losses", Rebuttal: "force_majeure_check"},
		{Defense: "Payment terms not agreed", Rebuttal: "po_terms_binding"},
	},
	models.DisputeServiceNonPayment: {
		{Defense: "Service incomplete/defective", Rebuttal: "acceptance_criteria"},
		{Defense: "SLA breaches", Rebuttal: "penalty_clause_limitation"},
		{Defense: "Work not authorized", Rebuttal: "implied_authority_doctrine"},
	},
	models.DisputeInvoiceNonPayment: {
		{Defense: "Invoice discrepancies", Rebuttal: "interest_independent"},
		{Defense: "Cash flow issues", Rebuttal: "not_statutory_defense"},
		{Defense: "Set-off for other claims", Rebuttal: "independent_obligation"},
	},
}

// Evidence flags the documentary proof available for a claim
type Evidence struct {
	SignedPO             bool `json:"signed_po"`
	DeliveryProof        bool `json:"delivery_proof"`
	AcknowledgementEmail bool `json:"acknowledgement_email"`
	InvoiceCopy          bool `json:"invoice_copy"`
	LedgerStatement      bool `json:"ledger_statement"`
}

// Score returns the weighted evidence strength in [0,1]
func (e Evidence) Score() float64 {
	score := 0.0
	if e.SignedPO {
		score += 0.30
	}
	if e.DeliveryProof {
		score += 0.25
	}
	if e.AcknowledgementEmail {
		score += 0.20
	}
	if e.InvoiceCopy {
		score += 0.15
	}
	if e.LedgerStatement {
		score += 0.10
	}
	if score > 1 {
		score = 1
	}
	return score
}

// EscalationRisk is the assessed outcome of escalating past negotiation
type EscalationRisk struct {
	EvidenceStrength          string  `json:"evidence_strength"`
	EstimatedAwardProbability float64 `json:"estimated_award_probability"`
	EstimatedRecovery         string  `json:"estimated_recovery"`
	EscalationPath            string  `json:"escalation_path"`
	TimelineIfEscalated       string  `json:"timeline_if_escalated"`
	Recommendation            string  `json:"recommendation"`
}

// Argumentation is the full legal-argumentation payload for a case
type Argumentation struct {
	LegalArgument        string                      `json:"legal_argument"`
	StatutoryBreakdown   models.StatutoryEntitlement `json:"statutory_breakdown"`
	ApplicableStatutes   []Statute                   `json:"applicable_statutes"`
	OpponentArguments    []string                    `json:"opponent_counter_arguments"`
	RebuttalStrategy     string                      `json:"rebuttal_strategy"`
	NegotiationScript    string                      `json:"negotiation_script"`
	EscalationAssessment EscalationRisk              `json:"escalation_risk_assessment"`
}

// BuildArgumentation assembles the statutory argument, expected defenses,
// rebuttals, a negotiation script, and an escalation risk assessment for the
// given case.
func (c *Calculator) BuildArgumentation(facts models.CaseFacts, evidence Evidence, prob models.Probability) (*Argumentation, error) {
	facts = facts.Normalized()
	if err := facts.Validate(); err != nil {
		return nil, err
	}

	entitlement, err := c.Compute(facts.ClaimAmount, facts.DelayDays, facts.AgreedPaymentDays)
	if err != nil {
		return nil, err
	}

	opponent := predictDefenses(facts.DisputeType)
	defenses := make([]string, len(opponent))
	for i, arg := range opponent {
		defenses[i] = arg.Defense
	}

	return &Argumentation{
		LegalArgument:        formatLegalArgument(entitlement),
		StatutoryBreakdown:   entitlement.Rounded(),
		ApplicableStatutes:   identifyStatutes(facts.DelayDays),
		OpponentArguments:    defenses,
		RebuttalStrategy:     buildRebuttals(opponent),
		NegotiationScript:    negotiationScript(entitlement, prob, facts.DelayDays),
		EscalationAssessment: assessEscalationRisk(evidence, entitlement),
	}, nil
}

func identifyStatutes(delayDays int) []Statute {
	var out []Statute
	if delayDays > 0 {
		out = append(out, Statute{Section: "15", Title: statutes["15"].Title})
	}
	if delayDays > DefaultGraceDays {
		out = append(out, Statute{Section: "16", Title: statutes["16"].Title})
	}
	out = append(out, Statute{
		Section:        "18",
		Title:          statutes["18"].Title,
		StrategicValue: "Escalation leverage via statutory conciliation/arbitration",
	})
	return out
}

func predictDefenses(dt models.DisputeType) []counterArgument {
	args, ok := counterArguments[dt]
	if !ok {
		args = counterArguments[models.DisputeInvoiceNonPayment]
	}
	if len(args) > 3 {
		args = args[:3]
	}
	return args
}

func buildRebuttals(opponent []counterArgument) string {
	parts := make([]string, 0, len(opponent))
	for _, arg := range opponent {
		switch arg.Rebuttal {
		case "interest_independent":
			parts = append(parts, fmt.Sprintf(
				"Against '%s': Interest liability under Section 16 is independent of invoice disputes.", arg.Defense))
		case "section_9":
			parts = append(parts, fmt.Sprintf(
				"Against '%s': Written objection required within statutory period. Silence implies acceptance.", arg.Defense))
		default:
			parts = append(parts, fmt.Sprintf(
				"Against '%s': Demand documentary proof and challenge factual basis.", arg.Defense))
		}
	}
	return strings.Join(parts, " | ")
}

func negotiationScript(e models.StatutoryEntitlement, prob models.Probability, delayDays int) string {
	var offer float64
	switch {
	case prob >= 0.75:
		offer = e.Total * 0.95
	case prob >= 0.60:
		offer = e.Total * 0.90
	default:
		offer = e.Total * 0.85
	}

	applicable := identifyStatutes(delayDays)
	sections := make([]string, len(applicable))
	for i, s := range applicable {
		sections[i] = "Section " + s.Section
	}

	return fmt.Sprintf(
		"Our statutory position under MSME Act 2006 is clear. Principal: ₹%s. "+
			"Applicable provisions: %s. Total statutory liability: ₹%s. "+
			"We propose settlement at ₹%s to avoid escalation before MSEFC.",
		util.Rupees(e.Principal),
		strings.Join(sections, ", "),
		util.Rupees(int64(e.Total)),
		util.Rupees(int64(offer)),
	)
}

func assessEscalationRisk(evidence Evidence, e models.StatutoryEntitlement) EscalationRisk {
	score := evidence.Score()
	winProbability := 0.65 + score*0.30

	recommendation := "Negotiate firmly"
	if winProbability > 0.80 {
		recommendation = "Settle immediately"
	}

	return EscalationRisk{
		EvidenceStrength:          fmt.Sprintf("%.0f%%", score*100),
		EstimatedAwardProbability: models.Round2(winProbability),
		EstimatedRecovery:         "₹" + util.Rupees(int64(e.Total*winProbability)),
		EscalationPath:            "MSEFC → Arbitration → Civil Court",
		TimelineIfEscalated:       "6–18 months",
		Recommendation:            recommendation,
	}
}

func formatLegalArgument(e models.StatutoryEntitlement) string {
	if !e.CompoundingApplied {
		return "Payment within statutory period. No interest liability triggered."
	}
	return fmt.Sprintf(
		"Under Section 16 MSME Act 2006, claimant entitled to compound interest at %.2f%% per annum. "+
			"Total statutory claim: ₹%s (Principal: ₹%s, Interest: ₹%s).",
		e.AnnualRatePercent,
		util.Rupees(int64(e.Total)),
		util.Rupees(e.Principal),
		util.Rupees(int64(e.Interest)),
	)
}
