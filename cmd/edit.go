package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protoweb/protoweb/internal/classify"
	"github.com/protoweb/protoweb/internal/config"
	"github.com/protoweb/protoweb/internal/core"
	"github.com/protoweb/protoweb/internal/gateway"
	"github.com/protoweb/protoweb/internal/locator"
	"github.com/protoweb/protoweb/internal/orchestrator"
	"github.com/protoweb/protoweb/internal/patch"
)

var (
	editFile    string
	editElement string
	editDryRun  bool
)

var editCmd = &cobra.Command{
	Use:   "edit [instruction]",
	Short: "Apply a surgical edit to a generated document",
	Long: `Classify the instruction and, when it describes a small change, patch
the matching element in place. Instructions that need structural work
exit with status 2 so callers can rerun 'generate' instead.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		instruction := strings.Join(args, " ")

		decision := classify.Classify(instruction)
		if decision.Route == classify.RouteRegenerate {
			fmt.Println("This edit needs regeneration; rerun 'protoweb generate' with the updated prompt")
			os.Exit(2)
		}

		raw, err := os.ReadFile(editFile)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", editFile, err)
		}
		document := string(raw)

		target := editElement
		if target == "" {
			target = core.FindEditTarget(instruction, document)
		}
		if target == "" {
			fmt.Println("Could not match the instruction to an element; rerun 'protoweb generate' with the updated prompt")
			os.Exit(2)
		}

		span, err := locator.Locate(document, target)
		if err != nil {
			log.Fatalf("Element %q not found: %v", target, err)
		}
		oldContent, _ := locator.SliceLines(document, span)

		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if !cfg.IsValid() {
			log.Fatalf("No API key configured; run 'protoweb profile add' first")
		}
		orch := orchestrator.New(gateway.NewOpenAIClient(cfg.GetAPIKey(), cfg.GetBaseURL(), cfg.GetModel()))

		newContent, err := orch.GenerateElementEdit(context.Background(), oldContent, instruction)
		if err != nil {
			fmt.Printf("Gateway could not produce the edit (%v); rerun 'protoweb generate' instead\n", err)
			os.Exit(2)
		}

		engine := patch.NewEngine()
		preview := engine.GeneratePreviewPatch(oldContent, newContent)
		fmt.Printf("Changes to %s (+%d -%d ~%d):\n%s\n",
			target, preview.Stats.Additions, preview.Stats.Deletions, preview.Stats.Modifications, preview.Preview)

		if editDryRun {
			return
		}

		result := engine.ApplyElementPatch(target, oldContent, newContent, document)
		if !result.Success {
			log.Fatalf("Patch did not apply: %s", result.Error)
		}

		if err := os.WriteFile(editFile, []byte(result.UpdatedContent), 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", editFile, err)
		}
		fmt.Printf("Updated %s (lines %d-%d)\n",
			editFile, result.AffectedLines[0], result.AffectedLines[len(result.AffectedLines)-1])
	},
}

func init() {
	editCmd.Flags().StringVarP(&editFile, "file", "f", "prototype/index.html", "document to edit")
	editCmd.Flags().StringVar(&editElement, "element", "", "target element id or data-element name")
	editCmd.Flags().BoolVar(&editDryRun, "dry-run", false, "show the diff without writing")
	rootCmd.AddCommand(editCmd)
}
