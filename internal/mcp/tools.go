// ABOUTME: MCP tool definitions and registration for the settlement engine
// ABOUTME: Defines JSON schemas for all 6 tools: negotiation, entitlement, drafting
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/settleflow/settleflow/internal/archive"
	"github.com/settleflow/settleflow/internal/draft"
	"github.com/settleflow/settleflow/internal/negotiation"
	"github.com/settleflow/settleflow/internal/statute"
)

// RegisterTools registers all MCP tools with the server. archiveStore may be
// nil to disable the audit archive.
func RegisterTools(server *mcpserver.MCPServer, sessions *negotiation.Store, compiler *draft.Compiler, calc *statute.Calculator, archiveStore *archive.Store) *Handlers {
	handlers := &Handlers{
		sessions: sessions,
		compiler: compiler,
		calc:     calc,
		archive:  archiveStore,
	}

	// 1. start_negotiation - Open a multi-round negotiation at round 1
	server.AddTool(mcp.Tool{
		Name:        "start_negotiation",
		Description: "Start a multi-round settlement negotiation for a delayed-payment claim. Returns the round-1 anchor offer, tactic, and a session_id for subsequent rounds.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"claim_amount": map[string]interface{}{
					"type":        "number",
					"description": "Claim principal in minor currency units (paise)",
				},
				"delay_days": map[string]interface{}{
					"type":        "number",
					"description": "Days the payment is delayed",
				},
				"document_count": map[string]interface{}{
					"type":        "number",
					"description": "Number of supporting documents (default: 1)",
					"default":     1,
				},
				"dispute_type": map[string]interface{}{
					"type":        "string",
					"description": "Dispute category: invoice_non_payment, goods_rejection, service_non_payment, others",
				},
				"probability": map[string]interface{}{
					"type":        "number",
					"description": "Settlement probability, fraction (0.7) or percentage (70)",
				},
			},
			Required: []string{"claim_amount", "delay_days", "probability"},
		},
	}, handlers.StartNegotiation)

	// 2. continue_negotiation - Play one round against an opponent counter-offer
	server.AddTool(mcp.Tool{
		Name:        "continue_negotiation",
		Description: "Advance an existing negotiation by one round with the opponent's counter-offer. Returns the next offer and tactic, or the final ultimatum once the round cap is exceeded.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session id returned by start_negotiation",
				},
				"opponent_offer": map[string]interface{}{
					"type":        "number",
					"description": "Opponent's counter-offer in minor currency units",
				},
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Optional opponent message accompanying the offer",
				},
			},
			Required: []string{"session_id", "opponent_offer"},
		},
	}, handlers.ContinueNegotiation)

	// 3. get_negotiation - Inspect current session state
	server.AddTool(mcp.Tool{
		Name:        "get_negotiation",
		Description: "Get the current state snapshot of a negotiation session.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session id returned by start_negotiation",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.GetNegotiation)

	// 4. compute_entitlement - Statutory principal-plus-interest calculation
	server.AddTool(mcp.Tool{
		Name:        "compute_entitlement",
		Description: "Compute the statutory entitlement for a delayed payment: grace trigger, 3x-base-rate monthly compounding, and the principal/interest/total breakdown.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"claim_amount": map[string]interface{}{
					"type":        "number",
					"description": "Principal in minor currency units",
				},
				"delay_days": map[string]interface{}{
					"type":        "number",
					"description": "Days the payment is delayed",
				},
				"agreed_payment_days": map[string]interface{}{
					"type":        "number",
					"description": "Contractual payment term in days, if agreed (capped at 45)",
				},
			},
			Required: []string{"claim_amount", "delay_days"},
		},
	}, handlers.ComputeEntitlement)

	// 5. generate_draft - Compile a settlement proposal document
	server.AddTool(mcp.Tool{
		Name:        "generate_draft",
		Description: "Compile a structured settlement draft from case facts and a settlement probability, or from a negotiated final offer. Returns the structured draft and its flattened text.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"case_data": map[string]interface{}{
					"type":        "object",
					"description": "Case facts: claim_amount, delay_days, agreed_payment_days?, jurisdiction?, case_id?",
				},
				"prediction": map[string]interface{}{
					"type":        "object",
					"description": "Prediction object with a probability field",
				},
				"final_offer": map[string]interface{}{
					"type":        "number",
					"description": "Negotiated final offer; omit to derive the amount from the probability tier",
				},
			},
			Required: []string{"case_data"},
		},
	}, handlers.GenerateDraft)

	// 6. legal_argumentation - Statutes, defenses, rebuttals, escalation risk
	server.AddTool(mcp.Tool{
		Name:        "legal_argumentation",
		Description: "Build the legal argumentation for a claim: applicable statutes, the opponent's likely defenses with rebuttals, a negotiation script, and an evidence-weighted escalation risk assessment.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"claim_amount": map[string]interface{}{
					"type":        "number",
					"description": "Claim principal in minor currency units",
				},
				"delay_days": map[string]interface{}{
					"type":        "number",
					"description": "Days the payment is delayed",
				},
				"dispute_type": map[string]interface{}{
					"type":        "string",
					"description": "Dispute category (default: invoice_non_payment)",
				},
				"agreed_payment_days": map[string]interface{}{
					"type":        "number",
					"description": "Contractual payment term in days, if agreed",
				},
				"probability": map[string]interface{}{
					"type":        "number",
					"description": "Settlement probability (default: 0.5)",
				},
				"evidence": map[string]interface{}{
					"type":        "object",
					"description": "Available proof flags: signed_po, delivery_proof, acknowledgement_email, invoice_copy, ledger_statement",
				},
			},
			Required: []string{"claim_amount", "delay_days"},
		},
	}, handlers.LegalArgumentation)

	return handlers
}
