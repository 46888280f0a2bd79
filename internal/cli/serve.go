package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencatalog/researchd/internal/config"
	"github.com/opencatalog/researchd/internal/orchestrator"
	"github.com/opencatalog/researchd/internal/registry"
	"github.com/opencatalog/researchd/internal/service"
	transport "github.com/opencatalog/researchd/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the research engine HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting researchd...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Agent Command: %s", cfg.AgentCommand)
	log.Printf("Research Timeout: %s", cfg.ResearchTimeout)

	// Composition root: the registry is the single shared mutable resource,
	// constructed here and handed to everything that needs it.
	reg := registry.New()
	orch := orchestrator.New(reg, orchestrator.Config{
		Command: cfg.AgentCommand,
		Timeout: cfg.ResearchTimeout,
	})
	svc := service.New(reg, orch, cfg)

	server := transport.NewServer(svc)

	// Retention sweep bounds registry memory for long-lived processes.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go reg.RunSweeper(sweepCtx, cfg.SweepInterval, cfg.RetentionWindow)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Research API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down researchd...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("researchd stopped")
	return nil
}
