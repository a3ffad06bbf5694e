// ABOUTME: Main entry point for the settlement MCP server with stdio transport
// ABOUTME: Initializes calculator, session store, compiler, and all tools
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/settleflow/settleflow/internal/archive"
	"github.com/settleflow/settleflow/internal/config"
	"github.com/settleflow/settleflow/internal/draft"
	"github.com/settleflow/settleflow/internal/llm"
	settlemcp "github.com/settleflow/settleflow/internal/mcp"
	"github.com/settleflow/settleflow/internal/negotiation"
	"github.com/settleflow/settleflow/internal/statute"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - advisory text polish will be skipped")
	}

	calc := statute.NewCalculator(cfg.BaseRate)

	var negAdvisor negotiation.Advisor
	var draftAdvisor draft.Advisor
	if cfg.OpenAIKey != "" {
		client, err := llm.NewClientWithConfig(&llm.ClientConfig{
			APIKey:    cfg.OpenAIKey,
			BaseURL:   cfg.BaseURL,
			ChatModel: cfg.ChatModel,
			Timeout:   cfg.AdvisoryTimeout,
		})
		if err != nil {
			log.Printf("Warning: advisory client unavailable: %v", err)
		} else {
			negAdvisor = client
			draftAdvisor = client
		}
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
		"0.1.0",
	)
	settlemcp.RegisterTools(server, sessions, compiler, calc, archiveStore)

	log.Println("Settleflow MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
