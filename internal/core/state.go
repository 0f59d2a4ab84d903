package core

import (
	"sync"

	"github.com/protoweb/protoweb/internal/models"
)

// Phase is the pipeline's position in the build state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlanning
	PhaseGenerating
	PhaseDocumenting
	PhaseIdleComplete
	PhaseSurgicalEdit
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlanning:
		return "planning"
	case PhaseGenerating:
		return "generating"
	case PhaseDocumenting:
		return "documenting"
	case PhaseIdleComplete:
		return "complete"
	case PhaseSurgicalEdit:
		return "editing"
	default:
		return "unknown"
	}
}

// BuildState manages the build state for the event-driven architecture.
// It is the single source of truth the UI snapshots are derived from.
type BuildState struct {
	mu         sync.RWMutex
	phase      Phase
	prompt     string
	plan       *models.GenerationPlan
	sections   []models.CodeSection // append-only; insertion order = completion order
	document   string
	progress   models.GenerationProgress
	messages   []models.Message
	lastError  error
	processing bool
}

func NewBuildState() *BuildState {
	return &BuildState{
		phase:    PhaseIdle,
		messages: make([]models.Message, 0),
		sections: make([]models.CodeSection, 0),
	}
}

func (bs *BuildState) Phase() Phase {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.phase
}

func (bs *BuildState) setPhaseLocked(p Phase) {
	bs.phase = p
	bs.progress.CurrentStep = p.String()
}

// StartBuild atomically resets the build output and enters Planning. A
// plan created by a previous build is discarded here, never mutated.
func (bs *BuildState) StartBuild(prompt string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	bs.prompt = prompt
	bs.plan = nil
	bs.sections = bs.sections[:0]
	bs.document = ""
	bs.progress = models.GenerationProgress{}
	bs.processing = true
	bs.lastError = nil
	bs.setPhaseLocked(PhasePlanning)
	bs.messages = append(bs.messages, models.Message{Content: prompt, Type: models.User})
}

func (bs *BuildState) Prompt() string {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.prompt
}

// SetPlan records the approved plan and moves to Generating.
func (bs *BuildState) SetPlan(plan models.GenerationPlan) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.plan = &plan
	bs.setPhaseLocked(PhaseGenerating)
}

func (bs *BuildState) Plan() *models.GenerationPlan {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.plan
}

// AppendSection adds a completed section. Sections accumulate; they are
// never removed or reordered.
func (bs *BuildState) AppendSection(section models.CodeSection) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.sections = append(bs.sections, section)
}

func (bs *BuildState) Sections() []models.CodeSection {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	result := make([]models.CodeSection, len(bs.sections))
	copy(result, bs.sections)
	return result
}

// AttachDocumentation adds documentation to an already-appended section.
func (bs *BuildState) AttachDocumentation(sectionName, documentation string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	for i := range bs.sections {
		if bs.sections[i].Name == sectionName {
			bs.sections[i].Documentation = documentation
			return
		}
	}
}

func (bs *BuildState) EnterDocumenting() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.setPhaseLocked(PhaseDocumenting)
}

// CompleteBuild stores the assembled document and parks the machine in
// IdleComplete, the state edits depart from.
func (bs *BuildState) CompleteBuild(document string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.document = document
	bs.processing = false
	bs.lastError = nil
	bs.setPhaseLocked(PhaseIdleComplete)
}

func (bs *BuildState) Document() string {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.document
}

func (bs *BuildState) HasDocument() bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.document != ""
}

// StartEdit enters the one-shot surgical edit state.
func (bs *BuildState) StartEdit() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.processing = true
	bs.lastError = nil
	bs.setPhaseLocked(PhaseSurgicalEdit)
}

// FinishEdit returns to IdleComplete, recording the (possibly updated)
// document.
func (bs *BuildState) FinishEdit(document string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if document != "" {
		bs.document = document
	}
	bs.processing = false
	bs.setPhaseLocked(PhaseIdleComplete)
}

func (bs *BuildState) SetProgress(progress models.GenerationProgress) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.progress = progress
}

func (bs *BuildState) Progress() models.GenerationProgress {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	p := bs.progress
	p.CompletedSteps = append([]string(nil), bs.progress.CompletedSteps...)
	return p
}

func (bs *BuildState) IsProcessing() bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.processing
}

func (bs *BuildState) FinishWithError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.processing = false
	bs.lastError = err
	bs.setPhaseLocked(PhaseIdle)
}

func (bs *BuildState) LastError() error {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError
}

// AddProgramMessage adds a program message (welcome, status notices).
func (bs *BuildState) AddProgramMessage(content string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.messages = append(bs.messages, models.Message{Content: content, Type: models.Program})
}

// AddStepMessage adds a pipeline step line tied to a section.
func (bs *BuildState) AddStepMessage(content, section string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.messages = append(bs.messages, models.Message{Content: content, Type: models.Step, Section: section})
}

// AddNotice adds an outcome line (edit applied, fallback taken).
func (bs *BuildState) AddNotice(content string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.messages = append(bs.messages, models.Message{Content: content, Type: models.Notice})
}

func (bs *BuildState) GetMessages() []models.Message {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	result := make([]models.Message, len(bs.messages))
	copy(result, bs.messages)
	return result
}
