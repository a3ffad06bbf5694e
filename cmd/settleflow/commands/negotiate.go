// ABOUTME: Interactive multi-round negotiation loop on stdin
// ABOUTME: Start from flags, feed opponent counters until the ultimatum
package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/settleflow/settleflow/internal/config"
	"github.com/settleflow/settleflow/internal/models"
	"github.com/settleflow/settleflow/internal/negotiation"
	"github.com/settleflow/settleflow/internal/util"
)

var (
	negClaim       string
	negDelayDays   int
	negDocuments   int
	negDisputeType string
	negProbability float64
)

// NewNegotiateCmd creates the negotiate command
func NewNegotiateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "negotiate",
		Short: "Run an interactive multi-round negotiation",
		Long: `Run an interactive multi-round negotiation for a delayed-payment claim.

Round 1 opens with the probability-tiered anchor. Each line you enter is
read as the opponent's counter-offer and advances one round, up to the
round cap, after which the fixed 70% ultimatum is issued. Enter a blank
line or "q" to stop early.

Example:
  settleflow negotiate --claim 500000 --delay 90 --probability 0.8`,
		RunE: runNegotiate,
	}

	cmd.Flags().StringVar(&negClaim, "claim", "", "Claim principal in minor currency units (required)")
	cmd.Flags().IntVar(&negDelayDays, "delay", 0, "Payment delay in days (required)")
	cmd.Flags().IntVar(&negDocuments, "documents", 1, "Number of supporting documents")
	cmd.Flags().StringVar(&negDisputeType, "dispute-type", string(models.DefaultDisputeType), "Dispute category")
	cmd.Flags().Float64Var(&negProbability, "probability", 0.7, "Settlement probability, fraction or percentage")
	_ = cmd.MarkFlagRequired("claim")
	_ = cmd.MarkFlagRequired("delay")

	return cmd
}

func runNegotiate(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	claim, err := parseAmount(negClaim)
	if err != nil {
		return err
	}

	facts := models.CaseFacts{
		ClaimAmount:   claim,
		DelayDays:     negDelayDays,
		DocumentCount: negDocuments,
		DisputeType:   models.DisputeType(negDisputeType),
	}
	prob := models.NormalizeProbability(negProbability)

	var advisor negotiation.Advisor
	if client := newAdvisor(cfg); client != nil {
		advisor = client
	}

	store := negotiation.NewStore(negotiation.NewEngine(advisor), negotiation.StoreOptions{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.SessionLimit,
	})
	defer store.Close()

	sessionID := uuid.New().String()[:8]
	out := cmd.OutOrStdout()

	resp, err := store.Create(cmd.Context(), sessionID, facts, prob)
	if err != nil {
		return fmt.Errorf("starting negotiation: %w", err)
	}
	printRound(out, resp)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "\nOpponent counter-offer (blank or q to stop): ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "q" {
			break
		}

		offer, err := parseAmount(line)
		if err != nil {
			fmt.Fprintf(out, "Could not read that offer: %v\n", err)
			continue
		}

		resp, err = store.Advance(cmd.Context(), sessionID, offer, "")
		if err != nil {
			fmt.Fprintf(out, "Round failed: %v\n", err)
			continue
		}
		printRound(out, resp)

		if resp.Ultimatum {
			break
		}
	}

	return scanner.Err()
}

func printRound(out io.Writer, resp *models.RoundResponse) {
	if resp.Ultimatum {
		fmt.Fprintf(out, "\n=== FINAL ULTIMATUM ===\n")
	} else {
		fmt.Fprintf(out, "\n=== ROUND %d: %s ===\n", resp.Round, resp.Tactic.Name)
	}
	fmt.Fprintf(out, "Our offer: ₹%s (%.1f%% of claim)\n", util.Rupees(resp.OurOffer), resp.OfferPercentage)
	fmt.Fprintln(out, resp.PolishedMessage)
	if resp.GapAnalysis != nil {
		fmt.Fprintf(out, "Gap: ₹%s (%.1f%%): %s\n",
			util.Rupees(resp.GapAnalysis.Absolute), resp.GapAnalysis.Percentage, resp.GapAnalysis.Assessment)
	}
	for _, move := range resp.NextMoves {
		fmt.Fprintf(out, "  → %s: %s\n", move.Action, move.Description)
	}
	if resp.Ultimatum {
		fmt.Fprintf(out, "Escalation path: %s (%s)\n", resp.EscalationPath, resp.Timeline)
	}
}
