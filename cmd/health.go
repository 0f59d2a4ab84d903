package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/protoweb/protoweb/internal/config"
	"github.com/protoweb/protoweb/internal/gateway"
	"github.com/protoweb/protoweb/internal/orchestrator"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check gateway connectivity for the active profile",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if !cfg.IsValid() {
			log.Fatalf("No API key configured; run 'protoweb profile add' first")
		}

		orch := orchestrator.New(gateway.NewOpenAIClient(cfg.GetAPIKey(), cfg.GetBaseURL(), cfg.GetModel()))
		health := orch.HealthCheck(context.Background())

		fmt.Printf("Profile: %s\n", cfg.ActiveProfile)
		fmt.Printf("Status:  %s\n", health.Status)
		fmt.Printf("Details: %s\n", health.Details)
		if health.Status != "healthy" {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
