package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/protoweb/protoweb/internal/config"
	"github.com/protoweb/protoweb/internal/core"
	"github.com/protoweb/protoweb/internal/export"
	"github.com/protoweb/protoweb/internal/gateway"
	"github.com/protoweb/protoweb/internal/models"
	"github.com/protoweb/protoweb/internal/orchestrator"
)

var (
	generateOutDir  string
	generateStyling string
	generateNoDocs  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate a prototype without the interactive UI",
	Long: `Run the full build pipeline once for the given prompt and write the
resulting prototype to an output directory.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if !cfg.IsValid() {
			log.Fatalf("No API key configured; run 'protoweb profile add' first")
		}

		prompt := strings.Join(args, " ")
		prefs := cfg.GetPreferences()
		if generateStyling != "" {
			prefs.Styling = generateStyling
		}
		if generateNoDocs {
			prefs.IncludeDocs = false
		}

		orch := orchestrator.New(gateway.NewOpenAIClient(cfg.GetAPIKey(), cfg.GetBaseURL(), cfg.GetModel()))
		ctx := context.Background()

		fmt.Println("Planning...")
		planResult := orch.GeneratePlan(ctx, prompt, prefs)
		if planResult.Degraded {
			fmt.Println("Gateway unavailable for planning; using the fallback plan")
		}
		plan := planResult.Plan
		fmt.Printf("Plan: %d components, ~%d min\n", len(plan.Components), plan.Timeline.TotalMinutes)

		sections := make([]models.CodeSection, 0, len(plan.Components)+2)
		for _, name := range headlessSectionNames(plan) {
			fmt.Printf("Generating %s...\n", name)
			section, degraded := consumeSection(ctx, orch, plan, name, prefs)
			if degraded {
				fmt.Printf("  %s came back degraded\n", name)
			}
			sections = append(sections, section)
		}

		if prefs.IncludeDocs {
			for i := range sections {
				if sections[i].Type != models.SectionHTML {
					continue
				}
				fmt.Printf("Documenting %s...\n", sections[i].Name)
				doc := orch.GenerateDocumentation(ctx, sections[i].Content, sections[i].Name, prefs)
				sections[i].Documentation = doc.Documentation
			}
		}

		document := core.AssembleDocument(plan, sections, prefs)
		if err := export.WriteBuild(generateOutDir, document, sections); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Wrote prototype to %s\n", generateOutDir)
	},
}

func consumeSection(ctx context.Context, orch *orchestrator.Service, plan models.GenerationPlan, name string, prefs models.Preferences) (models.CodeSection, bool) {
	stream := orch.GenerateCodeStream(ctx, plan, name, prefs)
	defer stream.Close()

	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The stream layer degrades instead of erroring; treat
			// anything else as end of section.
			break
		}
		sb.WriteString(chunk)
	}

	return models.CodeSection{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     orchestrator.SectionTypeFor(name),
		Content:  sb.String(),
		Degraded: stream.Degraded(),
	}, stream.Degraded()
}

func headlessSectionNames(plan models.GenerationPlan) []string {
	names := make([]string, 0, len(plan.Components)+2)
	for _, c := range plan.Components {
		names = append(names, c.Name)
	}
	return append(names, orchestrator.StyleSectionName, orchestrator.ScriptSectionName)
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutDir, "out", "o", "prototype", "output directory")
	generateCmd.Flags().StringVar(&generateStyling, "styling", "", "styling mode (tailwind or css)")
	generateCmd.Flags().BoolVar(&generateNoDocs, "no-docs", false, "skip documentation generation")
	rootCmd.AddCommand(generateCmd)
}
