package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/protoweb/protoweb/internal/config"
	"github.com/protoweb/protoweb/internal/eventbus"
	"github.com/protoweb/protoweb/internal/gateway"
	"github.com/protoweb/protoweb/internal/models"
	"github.com/protoweb/protoweb/internal/orchestrator"
	"github.com/protoweb/protoweb/internal/patch"
)

// BuildService drives the generation pipeline and the edit paths behind
// the event bus. It owns the output accumulator exclusively; sections
// are appended monotonically and never mutated concurrently.
type BuildService struct {
	orch     *orchestrator.Service
	engine   *patch.Engine
	prefs    models.Preferences
	config   *config.Config
	state    *BuildState
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewBuildService creates a BuildService regardless of config validity.
// This ensures we always have a service to manage state.
func NewBuildService(cfg *config.Config, eb *eventbus.EventBus) (*BuildService, error) {
	var orch *orchestrator.Service

	// Only create a gateway client if config is valid
	if cfg.IsValid() {
		client := gateway.NewOpenAIClient(cfg.GetAPIKey(), cfg.GetBaseURL(), cfg.GetModel())
		orch = orchestrator.New(client)
	}

	state := NewBuildState()
	ctx, cancel := context.WithCancel(context.Background())

	service := &BuildService{
		orch:     orch, // May be nil if config invalid
		engine:   patch.NewEngine(),
		prefs:    cfg.GetPreferences(),
		config:   cfg,
		state:    state,
		eventBus: eb,
		ctx:      ctx,
		cancel:   cancel,
	}

	service.addWelcomeMessages(cfg)

	return service, nil
}

// Start runs the core logic in a goroutine
func (bs *BuildService) Start() {
	bs.pushStateToUI()
	go bs.eventLoop()
}

func (bs *BuildService) Stop() {
	bs.cancel()
}

func (bs *BuildService) IsReady() bool {
	return bs.orch != nil
}

// State exposes the build state for headless callers.
func (bs *BuildService) State() *BuildState {
	return bs.state
}

func (bs *BuildService) eventLoop() {
	for {
		select {
		case <-bs.ctx.Done():
			return
		case event, ok := <-bs.eventBus.UIToCore():
			if !ok {
				return
			}
			bs.handleUIEvent(event)
		}
	}
}

func (bs *BuildService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.GenerateRequestEvent:
		bs.RunPipeline(e.Prompt)
	case eventbus.EditRequestEvent:
		bs.HandleEdit(e.Instruction, e.Document)
	}
}

// RunPipeline executes Plan → Generate (per section) → Document for one
// prompt. Every phase has a guaranteed fallback, so the pipeline always
// terminates in IdleComplete with a usable document.
func (bs *BuildService) RunPipeline(prompt string) {
	if bs.orch == nil {
		bs.state.FinishWithError(fmt.Errorf("gateway not configured"))
		bs.pushStateToUI()
		return
	}

	bs.state.StartBuild(prompt)
	bs.pushStateToUI()

	// Plan phase
	planResult := bs.orch.GeneratePlan(bs.ctx, prompt, bs.prefs)
	plan := planResult.Plan
	plan.Approved = true
	bs.state.SetPlan(plan)
	if planResult.Degraded {
		bs.state.AddNotice("Gateway unavailable for planning; using the built-in fallback plan")
	}
	bs.state.AddStepMessage(fmt.Sprintf("Planned %d components", len(plan.Components)), "")

	sections := sectionNames(plan)
	tracker := newProgressTracker(plan, len(sections), bs.prefs.IncludeDocs)
	bs.reportProgress(tracker.completed("plan"))

	// Generate phase: one isolated stream per section. A failure or
	// fallback in one section never aborts another.
	for _, name := range sections {
		bs.generateSection(plan, name, tracker)
	}

	// Document phase
	if bs.prefs.IncludeDocs {
		bs.state.EnterDocumenting()
		bs.pushStateToUI()
		for _, section := range bs.state.Sections() {
			if section.Type != models.SectionHTML {
				continue
			}
			doc := bs.orch.GenerateDocumentation(bs.ctx, section.Content, section.Name, bs.prefs)
			bs.state.AttachDocumentation(section.Name, doc.Documentation)
		}
		bs.reportProgress(tracker.completed("document"))
	}

	document := AssembleDocument(plan, bs.state.Sections(), bs.prefs)
	bs.state.CompleteBuild(document)
	bs.reportProgress(tracker.finished())

	degraded := planResult.Degraded
	for _, s := range bs.state.Sections() {
		degraded = degraded || s.Degraded
	}
	bs.eventBus.SendToUI(eventbus.DocumentReadyEvent{
		Document: document,
		Sections: bs.state.Sections(),
		Degraded: degraded,
	})
	bs.pushStateToUI()
}

func (bs *BuildService) generateSection(plan models.GenerationPlan, name string, tracker *progressTracker) {
	bs.state.AddStepMessage("Generating "+name, name)
	bs.reportProgress(tracker.snapshot("generate " + name))

	stream := bs.orch.GenerateCodeStream(bs.ctx, plan, name, bs.prefs)
	defer stream.Close()

	var content []byte
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			// SectionStream converges to fallback synthesis internally;
			// any other error here is a programming error worth surfacing.
			bs.state.AddNotice(fmt.Sprintf("Section %s stream ended unexpectedly: %v", name, err))
			break
		}
		content = append(content, chunk...)
		bs.eventBus.SendToUI(eventbus.StreamChunkEvent{Section: name, Chunk: chunk})
	}

	section := models.CodeSection{
		ID:       uuid.New().String(),
		Name:     name,
		Type:     orchestrator.SectionTypeFor(name),
		Content:  string(content),
		Degraded: stream.Degraded(),
	}
	bs.state.AppendSection(section)
	if section.Degraded {
		bs.state.AddNotice("Section " + name + " was synthesized from the fallback template")
	}
	bs.reportProgress(tracker.completed("generate " + name))
	bs.pushStateToUI()
}

// sectionNames lists the sections a plan produces: one markup section
// per planned component, then the style and script sections.
func sectionNames(plan models.GenerationPlan) []string {
	names := make([]string, 0, len(plan.Components)+2)
	for _, c := range plan.Components {
		names = append(names, c.Name)
	}
	names = append(names, orchestrator.StyleSectionName, orchestrator.ScriptSectionName)
	return names
}

func (bs *BuildService) reportProgress(progress models.GenerationProgress) {
	bs.state.SetProgress(progress)
	bs.pushStateToUI()
}

func (bs *BuildService) pushStateToUI() {
	if err := bs.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Messages:     bs.state.GetMessages(),
		Progress:     bs.state.Progress(),
		IsProcessing: bs.state.IsProcessing(),
		HasDocument:  bs.state.HasDocument(),
		Error:        bs.state.LastError(),
	}); err != nil {
		// The bus is backpressured or open; the next push carries the
		// full snapshot, so dropping this one loses nothing durable.
		return
	}
}

func (bs *BuildService) addWelcomeMessages(cfg *config.Config) {
	bs.state.AddProgramMessage("-- PROTOWEB --")

	if cfg.IsValid() {
		bs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [OK]", cfg.ActiveProfile))
		bs.state.AddProgramMessage("Describe the prototype you want and press Enter")
	} else {
		bs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [NOT CONFIGURED]", cfg.ActiveProfile))
		bs.state.AddProgramMessage("Configure your profile to start generating:")
		bs.state.AddProgramMessage("• Run: protoweb profile add <name>")
		bs.state.AddProgramMessage("• Or edit: ~/.protoweb/config.json")
	}

	bs.state.AddProgramMessage("Controls: Ctrl+C to exit")
	bs.state.AddProgramMessage("")
}

// progressTracker derives GenerationProgress snapshots from completed
// pipeline steps. Step weights are equal; the remaining-time estimate
// scales the plan's timeline by the unfinished fraction.
type progressTracker struct {
	totalSteps     int
	completedSteps []string
	totalSeconds   int
	startedAt      time.Time
}

func newProgressTracker(plan models.GenerationPlan, sectionCount int, includeDocs bool) *progressTracker {
	total := 1 + sectionCount // plan + sections
	if includeDocs {
		total++
	}
	return &progressTracker{
		totalSteps:   total,
		totalSeconds: plan.Timeline.TotalMinutes * 60,
		startedAt:    time.Now(),
	}
}

func (pt *progressTracker) snapshot(current string) models.GenerationProgress {
	return pt.build(current)
}

func (pt *progressTracker) completed(step string) models.GenerationProgress {
	pt.completedSteps = append(pt.completedSteps, step)
	return pt.build(step)
}

func (pt *progressTracker) finished() models.GenerationProgress {
	p := pt.build("complete")
	p.Percentage = 100
	p.EstimatedTimeRemaining = 0
	return p
}

func (pt *progressTracker) build(current string) models.GenerationProgress {
	done := len(pt.completedSteps)
	percentage := 0
	if pt.totalSteps > 0 {
		percentage = done * 100 / pt.totalSteps
	}
	remaining := 0
	if pt.totalSteps > 0 {
		remaining = pt.totalSeconds * (pt.totalSteps - done) / pt.totalSteps
	}
	return models.GenerationProgress{
		CurrentStep:            current,
		CompletedSteps:         append([]string(nil), pt.completedSteps...),
		Percentage:             percentage,
		EstimatedTimeRemaining: remaining,
	}
}
