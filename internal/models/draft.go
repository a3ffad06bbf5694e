// ABOUTME: SettlementDraft is the structured settlement proposal document
// ABOUTME: Built once per request, never mutated; FullText is presentation-only
package models

import "time"

// DraftMetadata identifies the generated document
type DraftMetadata struct {
	DocumentType  string    `json:"document_type"`
	GeneratedOn   time.Time `json:"generated_on"`
	CaseReference string    `json:"case_reference"`
	GoverningLaw  string    `json:"governing_law"`
}

// SettlementTerms carries the proposed amount against the statutory claim.
// Concession may be negative when the offer exceeds the entitlement; that is
// surfaced, not rejected.
type SettlementTerms struct {
	SettlementAmount     int64   `json:"settlement_amount"`
	StatutoryEntitlement float64 `json:"statutory_entitlement"`
	Concession           float64 `json:"concession"`
}

// Installment is a single scheduled payment
type Installment struct {
	Due    string `json:"due"`
	Amount int64  `json:"amount"`
}

// PaymentPlan is the tiered payment structure for a settlement amount
type PaymentPlan struct {
	Mode          string        `json:"mode"`
	Timeline      string        `json:"timeline,omitempty"`
	Amount        int64         `json:"amount,omitempty"`
	Installments  []Installment `json:"installments,omitempty"`
	DefaultClause string        `json:"default_clause,omitempty"`
}

// SettlementDraft is the compiled settlement proposal
type SettlementDraft struct {
	Metadata       DraftMetadata   `json:"metadata"`
	StatutoryBasis string          `json:"statutory_basis"`
	Terms          SettlementTerms `json:"settlement_terms"`
	PaymentTerms   PaymentPlan     `json:"payment_terms"`
	Recital        string          `json:"recital"`
	Disclaimer     string          `json:"disclaimer"`
}
