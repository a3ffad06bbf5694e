// ABOUTME: CaseFacts captures the immutable facts of a delayed-payment claim
// ABOUTME: Monetary amounts are int64 minor units (paise), never floats
package models

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a negative or otherwise malformed case field.
// Rejected before any computation runs.
var ErrInvalidInput = errors.New("invalid input")

// DisputeType classifies the underlying payment dispute
type DisputeType string

const (
	DisputeInvoiceNonPayment DisputeType = "invoice_non_payment"
	DisputeGoodsRejection    DisputeType = "goods_rejection"
	DisputeServiceNonPayment DisputeType = "service_non_payment"
	DisputeOther             DisputeType = "others"
)

// DefaultDisputeType is used when intake supplies no dispute category
const DefaultDisputeType = DisputeInvoiceNonPayment

// CaseFacts holds the facts of a claim. Treated as immutable after intake.
type CaseFacts struct {
	ClaimAmount       int64       `json:"claim_amount"`
	DelayDays         int         `json:"delay_days"`
	DocumentCount     int         `json:"document_count"`
	DisputeType       DisputeType `json:"dispute_type"`
	Jurisdiction      string      `json:"jurisdiction,omitempty"`
	AgreedPaymentDays int         `json:"agreed_payment_days,omitempty"` // 0 = no contractual term
	CaseID            string      `json:"case_id,omitempty"`
}

// Validate rejects negative monetary and day fields before computation
func (f CaseFacts) Validate() error {
	if f.ClaimAmount < 0 {
		return fmt.Errorf("%w: claim_amount must be non-negative, got %d", ErrInvalidInput, f.ClaimAmount)
	}
	if f.DelayDays < 0 {
		return fmt.Errorf("%w: delay_days must be non-negative, got %d", ErrInvalidInput, f.DelayDays)
	}
	if f.DocumentCount < 0 {
		return fmt.Errorf("%w: document_count must be non-negative, got %d", ErrInvalidInput, f.DocumentCount)
	}
	if f.AgreedPaymentDays < 0 {
		return fmt.Errorf("%w: agreed_payment_days must be positive when set, got %d", ErrInvalidInput, f.AgreedPaymentDays)
	}
	return nil
}

// Normalized returns a copy with defaults applied for optional fields
func (f CaseFacts) Normalized() CaseFacts {
	if f.DisputeType == "" {
		f.DisputeType = DefaultDisputeType
	}
	return f
}
