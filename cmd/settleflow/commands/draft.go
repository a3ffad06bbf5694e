// ABOUTME: CLI command to compile a settlement draft document
// ABOUTME: Optional LLM recital and legal argumentation; prints or writes text
package commands

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/settleflow/settleflow/internal/config"
	"github.com/settleflow/settleflow/internal/draft"
	"github.com/settleflow/settleflow/internal/llm"
	"github.com/settleflow/settleflow/internal/models"
	"github.com/settleflow/settleflow/internal/statute"
)

var (
	draftClaim        string
	draftDelayDays    int
	draftAgreedDays   int
	draftProbability  float64
	draftFinalOffer   string
	draftCaseID       string
	draftJurisdiction string
	draftOut          string
	draftWithArgument bool
)

// NewDraftCmd creates the draft command
func NewDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Compile a settlement draft for a claim",
		Long: `Compile a structured settlement draft for a delayed-payment claim.

The settlement amount comes from the negotiated final offer when given,
otherwise from the settlement-probability tier applied to the statutory
entitlement. With OPENAI_API_KEY set, an advisory recital is added
best-effort; the draft is complete without it.

Examples:
  settleflow draft --claim 1000000 --delay 120 --probability 0.8
  settleflow draft --claim 500000 --delay 60 --probability 70 --offer 400000 --out draft.txt`,
		RunE: runDraft,
	}

	cmd.Flags().StringVar(&draftClaim, "claim", "", "Claim principal in minor currency units (required)")
	cmd.Flags().IntVar(&draftDelayDays, "delay", 0, "Payment delay in days (required)")
	cmd.Flags().IntVar(&draftAgreedDays, "agreed-days", 0, "Agreed contractual payment term in days")
	cmd.Flags().Float64Var(&draftProbability, "probability", 0.7, "Settlement probability, fraction or percentage")
	cmd.Flags().StringVar(&draftFinalOffer, "offer", "", "Negotiated final offer; omit to derive from probability")
	cmd.Flags().StringVar(&draftCaseID, "case-id", "", "Case reference for the draft header")
	cmd.Flags().StringVar(&draftJurisdiction, "jurisdiction", "", "Jurisdiction label")
	cmd.Flags().StringVar(&draftOut, "out", "", "Write the flattened draft to a file instead of stdout")
	cmd.Flags().BoolVar(&draftWithArgument, "with-argument", false, "Also print the legal argumentation summary")
	_ = cmd.MarkFlagRequired("claim")
	_ = cmd.MarkFlagRequired("delay")

	return cmd
}

func runDraft(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	claim, err := parseAmount(draftClaim)
	if err != nil {
		return err
	}

	var finalOffer int64
	if draftFinalOffer != "" {
		finalOffer, err = parseAmount(draftFinalOffer)
		if err != nil {
			return err
		}
	}

	facts := models.CaseFacts{
		ClaimAmount:       claim,
		DelayDays:         draftDelayDays,
		AgreedPaymentDays: draftAgreedDays,
		Jurisdiction:      draftJurisdiction,
		CaseID:            draftCaseID,
	}
	prob := models.NormalizeProbability(draftProbability)

	calc := statute.NewCalculator(cfg.BaseRate)
	var advisor draft.Advisor
	if client := newAdvisor(cfg); client != nil {
		advisor = client
	}
	compiler := draft.NewCompiler(calc, advisor)

	result, err := compiler.Generate(cmd.Context(), facts, prob, finalOffer)
	if err != nil {
		return fmt.Errorf("generating draft: %w", err)
	}

	out := cmd.OutOrStdout()
	if draftOut != "" {
		if err := os.WriteFile(draftOut, []byte(result.FullText+"\n"), 0644); err != nil {
			return fmt.Errorf("writing draft: %w", err)
		}
		if !quiet {
			fmt.Fprintf(out, "Draft written to %s (settlement ₹%d, concession ₹%.2f)\n",
				draftOut, result.SettlementAmount, result.ConcessionValue)
		}
	} else {
		fmt.Fprintln(out, result.FullText)
	}

	if draftWithArgument {
		arg, err := calc.BuildArgumentation(facts, statute.Evidence{}, prob)
		if err != nil {
			return fmt.Errorf("building argumentation: %w", err)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "LEGAL ARGUMENT")
		fmt.Fprintln(out, arg.LegalArgument)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "REBUTTAL STRATEGY")
		fmt.Fprintln(out, arg.RebuttalStrategy)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "NEGOTIATION SCRIPT")
		fmt.Fprintln(out, arg.NegotiationScript)
	}

	return nil
}

// newAdvisor builds the advisory LLM client, or nil when no key is configured
func newAdvisor(cfg *config.Config) *llm.Client {
	if cfg.OpenAIKey == "" {
		return nil
	}
	client, err := llm.NewClientWithConfig(&llm.ClientConfig{
		APIKey:    cfg.OpenAIKey,
		BaseURL:   cfg.BaseURL,
		ChatModel: cfg.ChatModel,
		Timeout:   cfg.AdvisoryTimeout,
	})
	if err != nil {
		log.Printf("Warning: advisory client unavailable: %v", err)
		return nil
	}
	return client
}
