// ABOUTME: Settlement draft compiler: terms, payment tiers, flattened text
// ABOUTME: One StatutoryEntitlement value is the single source for all figures
package draft

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/settleflow/settleflow/internal/models"
	"github.com/settleflow/settleflow/internal/statute"
	"github.com/settleflow/settleflow/internal/util"
)

const (
	documentType = "SETTLEMENT PROPOSAL"
	governingLaw = "MSME Act, 2006 & Arbitration and Conciliation Act, 1996"
	disclaimer   = "This draft is AI-assisted decision support. Final execution subject to legal review."

	lineWidth = 80
)

// Payment structure tier boundaries, in minor currency units
const (
	singlePaymentMax   = 100000
	twoInstallmentsMax = 500000
)

// Advisor produces the optional formal recital. Best-effort: any error means
// no recital, never a failed draft.
type Advisor interface {
	DraftRecital(ctx context.Context, principal, settlement int64, prob models.Probability) (string, error)
}

// Result is the full draft-generation payload returned to callers
type Result struct {
	Success              bool                   `json:"success"`
	SettlementAmount     int64                  `json:"settlement_amount"`
	StatutoryEntitlement float64                `json:"statutory_entitlement"`
	InterestComponent    float64                `json:"interest_component"`
	AnnualInterestRate   float64                `json:"annual_interest_rate"`
	ConcessionValue      float64                `json:"concession_value"`
	Draft                models.SettlementDraft `json:"structured_draft"`
	FullText             string                 `json:"full_text"`
}

// Compiler builds settlement drafts from case facts and entitlements
type Compiler struct {
	calc    *statute.Calculator
	advisor Advisor
	now     func() time.Time
}

// NewCompiler creates a compiler. advisor may be nil, disabling the recital.
func NewCompiler(calc *statute.Calculator, advisor Advisor) *Compiler {
	return &Compiler{
		calc:    calc,
		advisor: advisor,
		now:     time.Now,
	}
}

// Generate compiles a settlement draft. finalOffer == 0 means "no negotiated
// offer": the amount is derived from the entitlement by probability tier.
func (c *Compiler) Generate(ctx context.Context, facts models.CaseFacts, prob models.Probability, finalOffer int64) (*Result, error) {
	facts = facts.Normalized()
	if err := facts.Validate(); err != nil {
		return nil, err
	}

	entitlement, err := c.calc.Compute(facts.ClaimAmount, facts.DelayDays, facts.AgreedPaymentDays)
	if err != nil {
		return nil, err
	}

	amount := finalOffer
	if amount == 0 {
		amount = settlementAmount(entitlement.Total, prob)
	}

	// Negative concession means an offer above entitlement; surfaced, not rejected
	concession := entitlement.Total - float64(amount)

	doc := models.SettlementDraft{
		Metadata: models.DraftMetadata{
			DocumentType:  documentType,
			GeneratedOn:   c.now(),
			CaseReference: caseReference(facts),
			GoverningLaw:  governingLaw,
		},
		StatutoryBasis: legalBasisText(entitlement),
		Terms: models.SettlementTerms{
			SettlementAmount:     amount,
			StatutoryEntitlement: models.Round2(entitlement.Total),
			Concession:           models.Round2(concession),
		},
		PaymentTerms: paymentStructure(amount),
		Recital:      c.recital(ctx, entitlement.Principal, amount, prob),
		Disclaimer:   disclaimer,
	}

	return &Result{
		Success:              true,
		SettlementAmount:     amount,
		StatutoryEntitlement: models.Round2(entitlement.Total),
		InterestComponent:    models.Round2(entitlement.Interest),
		AnnualInterestRate:   models.Round2(entitlement.AnnualRatePercent),
		ConcessionValue:      models.Round2(concession),
		Draft:                doc,
		FullText:             CompileText(doc),
	}, nil
}

// settlementAmount selects the probability-tiered fraction of the statutory
// total, truncated to whole minor units
func settlementAmount(statutoryTotal float64, prob models.Probability) int64 {
	var ratio float64
	switch {
	case prob >= 0.75:
		ratio = 0.95
	case prob >= 0.60:
		ratio = 0.90
	case prob >= 0.40:
		ratio = 0.85
	default:
		ratio = 0.75
	}
	return int64(statutoryTotal * ratio)
}

func caseReference(facts models.CaseFacts) string {
	if facts.CaseID != "" {
		return facts.CaseID
	}
	return "N/A"
}

// legalBasisText grounds the draft in the grace trigger or the compounding
// provision, formatting figures from the entitlement itself
func legalBasisText(e models.StatutoryEntitlement) string {
	if !e.CompoundingApplied {
		return "Payment within statutory period under Section 15. No interest liability triggered."
	}
	return "Under Section 15 read with Section 16 of MSME Act 2006, " +
		"buyer liable to pay compound interest at " + formatRate(e.AnnualRatePercent) + "% per annum " +
		"(3× RBI bank rate). " +
		"Total statutory entitlement: ₹" + util.RupeesFixed(e.Total) + " " +
		"(Principal ₹" + util.RupeesFixed(float64(e.Principal)) + " " +
		"+ Interest ₹" + util.RupeesFixed(e.Interest) + ")."
}

// paymentStructure tiers the schedule by settlement amount. Boundaries are
// inclusive: 100000 pays single, 500000 pays two installments.
func paymentStructure(amount int64) models.PaymentPlan {
	switch {
	case amount <= singlePaymentMax:
		return models.PaymentPlan{
			Mode:     "Single Payment",
			Timeline: "Within 7 days",
			Amount:   amount,
		}
	case amount <= twoInstallmentsMax:
		return models.PaymentPlan{
			Mode: "Two Installments",
			Installments: []models.Installment{
				{Due: "15 days", Amount: share(amount, 0.6)},
				{Due: "45 days", Amount: share(amount, 0.4)},
			},
			DefaultClause: "Default revives full statutory claim including interest.",
		}
	default:
		return models.PaymentPlan{
			Mode: "Three Installments",
			Installments: []models.Installment{
				{Due: "Immediate", Amount: share(amount, 0.4)},
				{Due: "30 days", Amount: share(amount, 0.35)},
				{Due: "60 days", Amount: share(amount, 0.25)},
			},
			DefaultClause: "Default revokes concession; full statutory entitlement becomes payable.",
		}
	}
}

func share(amount int64, fraction float64) int64 {
	return int64(float64(amount) * fraction)
}

func (c *Compiler) recital(ctx context.Context, principal, settlement int64, prob models.Probability) string {
	if c.advisor == nil {
		return ""
	}
	text, err := c.advisor.DraftRecital(ctx, principal, settlement, prob)
	if err != nil {
		log.Printf("Warning: recital unavailable, omitting: %v", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// CompileText flattens a draft in the fixed section order the downstream
// renderer expects: header, legal basis, terms, payment lines, recital,
// disclaimer.
func CompileText(d models.SettlementDraft) string {
	var lines []string

	rule := strings.Repeat("=", lineWidth)
	lines = append(lines, rule)
	lines = append(lines, center(d.Metadata.DocumentType, lineWidth))
	lines = append(lines, rule)
	lines = append(lines, "Generated On: "+d.Metadata.GeneratedOn.Format(time.RFC3339))
	lines = append(lines, "Case Ref: "+d.Metadata.CaseReference)
	lines = append(lines, "")
	lines = append(lines, d.StatutoryBasis)
	lines = append(lines, "")
	lines = append(lines, "Proposed Settlement Amount: ₹"+util.Rupees(d.Terms.SettlementAmount))
	lines = append(lines, "Concession Granted: ₹"+util.RupeesFixed(d.Terms.Concession))
	lines = append(lines, "")
	lines = append(lines, "PAYMENT TERMS")
	lines = append(lines, strings.Repeat("-", lineWidth))

	if len(d.PaymentTerms.Installments) > 0 {
		for _, inst := range d.PaymentTerms.Installments {
			lines = append(lines, "• ₹"+util.Rupees(inst.Amount)+" due "+inst.Due)
		}
	} else {
		lines = append(lines, "• ₹"+util.Rupees(d.PaymentTerms.Amount)+" payable "+strings.ToLower(d.PaymentTerms.Timeline))
	}

	lines = append(lines, "")
	lines = append(lines, d.Recital)
	lines = append(lines, "")
	lines = append(lines, d.Disclaimer)

	return strings.Join(lines, "\n")
}

// formatRate prints a percentage without trailing zeros (25.5, not 25.50)
func formatRate(v float64) string {
	return strconv.FormatFloat(models.Round2(v), 'f', -1, 64)
}

func center(s string, width int) string {
	pad := width - len([]rune(s))
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad/2) + s
}
