// ABOUTME: MCP tool handler implementations for the settlement engine
// ABOUTME: Caller mistakes come back as tool error results, never Go errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/settleflow/settleflow/internal/archive"
	"github.com/settleflow/settleflow/internal/draft"
	"github.com/settleflow/settleflow/internal/models"
	"github.com/settleflow/settleflow/internal/negotiation"
	"github.com/settleflow/settleflow/internal/statute"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	sessions *negotiation.Store
	compiler *draft.Compiler
	calc     *statute.Calculator
	archive  *archive.Store // nil when archiving is disabled
}

// StartNegotiation handles the start_negotiation tool
func (h *Handlers) StartNegotiation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	claim, err := request.RequireFloat("claim_amount")
	if err != nil {
		return mcp.NewToolResultError("claim_amount argument is required and must be a number"), nil
	}
	delay, err := request.RequireFloat("delay_days")
	if err != nil {
		return mcp.NewToolResultError("delay_days argument is required and must be a number"), nil
	}
	probRaw, err := request.RequireFloat("probability")
	if err != nil {
		return mcp.NewToolResultError("probability argument is required and must be a number"), nil
	}

	facts := models.CaseFacts{
		ClaimAmount:   int64(claim),
		DelayDays:     int(delay),
		DocumentCount: request.GetInt("document_count", 1),
		DisputeType:   models.DisputeType(request.GetString("dispute_type", string(models.DefaultDisputeType))),
	}

	sessionID := uuid.New().String()[:8]
	resp, err := h.sessions.Create(ctx, sessionID, facts, models.NormalizeProbability(probRaw))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("negotiation start failed: %v", err)), nil
	}

	h.archiveRound(sessionID, resp)
	return jsonResult(resp)
}

// ContinueNegotiation handles the continue_negotiation tool
func (h *Handlers) ContinueNegotiation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}
	offer, err := request.RequireFloat("opponent_offer")
	if err != nil {
		return mcp.NewToolResultError("opponent_offer argument is required and must be a number"), nil
	}
	message := request.GetString("message", "")

	resp, err := h.sessions.Advance(ctx, sessionID, int64(offer), message)
	switch {
	case errors.Is(err, negotiation.ErrSessionNotFound):
		return mcp.NewToolResultError("Session not found"), nil
	case errors.Is(err, negotiation.ErrInvalidOffer):
		return mcp.NewToolResultError("Invalid opponent offer amount"), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("negotiation continue failed: %v", err)), nil
	}

	h.archiveRound(sessionID, resp)
	return jsonResult(resp)
}

// GetNegotiation handles the get_negotiation tool
func (h *Handlers) GetNegotiation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	state, ok := h.sessions.Get(sessionID)
	if !ok {
		return mcp.NewToolResultError("Session not found"), nil
	}

	return jsonResult(map[string]interface{}{
		"session_id": sessionID,
		"state":      state,
	})
}

// ComputeEntitlement handles the compute_entitlement tool
func (h *Handlers) ComputeEntitlement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	claim, err := request.RequireFloat("claim_amount")
	if err != nil {
		return mcp.NewToolResultError("claim_amount argument is required and must be a number"), nil
	}
	delay, err := request.RequireFloat("delay_days")
	if err != nil {
		return mcp.NewToolResultError("delay_days argument is required and must be a number"), nil
	}
	agreed := request.GetInt("agreed_payment_days", 0)

	entitlement, err := h.calc.Compute(int64(claim), int(delay), agreed)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("entitlement computation failed: %v", err)), nil
	}

	return jsonResult(entitlement.Rounded())
}

// GenerateDraft handles the generate_draft tool
func (h *Handlers) GenerateDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	caseData, _ := args["case_data"].(map[string]interface{})
	prediction, _ := args["prediction"].(map[string]interface{})

	// Compatibility: accept both nested and flat field layouts
	facts := models.CaseFacts{
		ClaimAmount:       int64(numberField(caseData, args, "claim_amount")),
		DelayDays:         int(numberField(caseData, args, "delay_days")),
		AgreedPaymentDays: int(numberField(caseData, args, "agreed_payment_days")),
		Jurisdiction:      stringField(caseData, args, "jurisdiction"),
		CaseID:            stringField(caseData, args, "case_id"),
	}

	probRaw, ok := lookupNumber(prediction, "probability")
	if !ok {
		probRaw, ok = lookupNumber(args, "probability")
	}
	if !ok {
		probRaw = 0.7
	}

	finalOffer := int64(0)
	if v, ok := lookupNumber(args, "final_offer"); ok {
		finalOffer = int64(v)
	}

	result, err := h.compiler.Generate(ctx, facts, models.NormalizeProbability(probRaw), finalOffer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("draft generation failed: %v", err)), nil
	}

	h.archiveDraft(result)
	return jsonResult(result)
}

// LegalArgumentation handles the legal_argumentation tool
func (h *Handlers) LegalArgumentation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	claim, err := request.RequireFloat("claim_amount")
	if err != nil {
		return mcp.NewToolResultError("claim_amount argument is required and must be a number"), nil
	}
	delay, err := request.RequireFloat("delay_days")
	if err != nil {
		return mcp.NewToolResultError("delay_days argument is required and must be a number"), nil
	}

	facts := models.CaseFacts{
		ClaimAmount:       int64(claim),
		DelayDays:         int(delay),
		DisputeType:       models.DisputeType(request.GetString("dispute_type", string(models.DefaultDisputeType))),
		AgreedPaymentDays: request.GetInt("agreed_payment_days", 0),
	}

	var evidence statute.Evidence
	if raw, ok := request.GetArguments()["evidence"].(map[string]interface{}); ok {
		evidence = statute.Evidence{
			SignedPO:             boolField(raw, "signed_po"),
			DeliveryProof:        boolField(raw, "delivery_proof"),
			AcknowledgementEmail: boolField(raw, "acknowledgement_email"),
			InvoiceCopy:          boolField(raw, "invoice_copy"),
			LedgerStatement:      boolField(raw, "ledger_statement"),
		}
	}

	prob := models.NormalizeProbability(request.GetFloat("probability", 0.5))

	arg, err := h.calc.BuildArgumentation(facts, evidence, prob)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("argumentation failed: %v", err)), nil
	}

	return jsonResult(arg)
}

// archiveRound persists a round best-effort; failures are logged only
func (h *Handlers) archiveRound(sessionID string, resp *models.RoundResponse) {
	if h.archive == nil {
		return
	}
	if _, err := h.archive.RecordRound(sessionID, resp); err != nil {
		log.Printf("Warning: failed to archive round for session %s: %v", sessionID, err)
	}
}

// archiveDraft persists a draft best-effort; failures are logged only
func (h *Handlers) archiveDraft(result *draft.Result) {
	if h.archive == nil {
		return
	}
	if _, err := h.archive.RecordDraft(result.Draft.Metadata.CaseReference, result.Draft); err != nil {
		log.Printf("Warning: failed to archive draft: %v", err)
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// numberField reads a numeric field from the nested map, falling back to the
// flat top-level arguments
func numberField(nested, flat map[string]interface{}, key string) float64 {
	if v, ok := lookupNumber(nested, key); ok {
		return v
	}
	if v, ok := lookupNumber(flat, key); ok {
		return v
	}
	return 0
}

func stringField(nested, flat map[string]interface{}, key string) string {
	if nested != nil {
		if s, ok := nested[key].(string); ok {
			return s
		}
	}
	if s, ok := flat[key].(string); ok {
		return s
	}
	return ""
}

func lookupNumber(m map[string]interface{}, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func boolField(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}
