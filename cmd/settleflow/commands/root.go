// ABOUTME: Root CLI command wiring all settleflow subcommands
// ABOUTME: Holds global flags shared across commands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	quiet bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settleflow",
		Short: "Settlement negotiation engine for delayed-payment claims",
		Long: `███████╗███████╗████████╗████████╗██╗     ███████╗
██╔════╝██╔════╝╚══██╔══╝╚══██╔══╝██║     ██╔════╝
███████╗█████╗     ██║      ██║   ██║     █████╗
╚════██║██╔══╝     ██║      ██║   ██║     ██╔══╝
███████║███████╗   ██║      ██║   ███████╗███████╗
╚══════╝╚══════╝   ╚═╝      ╚═╝   ╚══════╝╚══════╝

Dispute-settlement decision support for delayed-payment claims under the
MSME Act: statutory entitlement calculation, deterministic multi-round
negotiation, and settlement draft compilation.

Outputs are advisory decision support only, not legal advice.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")

	cmd.AddCommand(NewEntitlementCmd())
	cmd.AddCommand(NewDraftCmd())
	cmd.AddCommand(NewNegotiateCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
