package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/protoweb/protoweb/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "protoweb",
	Short: "Prompt-to-prototype web builder",
	Long:  `ProtoWeb turns a natural-language description into a runnable web prototype and lets you refine it with follow-up edits.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the interactive builder
		application, err := app.NewApplication()
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(profileCmd)
}
