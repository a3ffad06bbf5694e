// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to negotiate and draft settlements via stdio
package commands

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/settleflow/settleflow/internal/archive"
	"github.com/settleflow/settleflow/internal/config"
	"github.com/settleflow/settleflow/internal/draft"
	settlemcp "github.com/settleflow/settleflow/internal/mcp"
	"github.com/settleflow/settleflow/internal/negotiation"
	"github.com/settleflow/settleflow/internal/statute"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the settlement engine as an MCP (Model Context Protocol) server over
stdio, exposing negotiation, entitlement, and drafting tools to LLM agents.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by an agent host)
  settleflow mcp

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "settleflow": {
  #       "command": "settleflow",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.OpenAIKey == "" && !quiet {
		log.Println("Warning: OPENAI_API_KEY not set - advisory text polish will be skipped")
	}

	calc := statute.NewCalculator(cfg.BaseRate)

	client := newAdvisor(cfg)
	var negAdvisor negotiation.Advisor
	var draftAdvisor draft.Advisor
	if client != nil {
		negAdvisor = client
		draftAdvisor = client
	}

	sessions := negotiation.NewStore(negotiation.NewEngine(negAdvisor), negotiation.StoreOptions{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.SessionLimit,
	})
	defer sessions.Close()

	compiler := draft.NewCompiler(calc, draftAdvisor)

	var archiveStore *archive.Store
	if cfg.ArchiveEnabled {
		archiveStore, err = archive.Open(&archive.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			log.Printf("Warning: archive unavailable, continuing without it: %v", err)
		} else {
			defer archiveStore.Close()
		}
	}

	server := mcpserver.NewMCPServer(
		"Settleflow Settlement Engine",
		versionInfo.Version,
	)
	settlemcp.RegisterTools(server, sessions, compiler, calc, archiveStore)

	if !quiet {
		log.Println("Settleflow MCP server starting on stdio...")
	}
	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
