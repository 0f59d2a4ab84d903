package models

import "errors"

// Plan validation errors. The orchestrator treats any of these as a
// malformed gateway response and retries.
var (
	ErrPlanMissingID           = errors.New("plan is missing an id")
	ErrPlanMissingComponents   = errors.New("plan has no components")
	ErrPlanMissingArchitecture = errors.New("plan is missing an architecture descriptor")
	ErrPlanMissingTimeline     = errors.New("plan is missing a timeline estimate")
)

// SectionType tags a generated code section.
type SectionType string

const (
	SectionHTML SectionType = "html"
	SectionCSS  SectionType = "css"
	SectionJS   SectionType = "js"
)

// CodeSection is a named, typed chunk of generated output. Sections are
// appended to the build output as each generation phase completes and are
// never removed.
type CodeSection struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Type          SectionType `json:"type"`
	Content       string      `json:"content"`
	Documentation string      `json:"documentation,omitempty"`
	Degraded      bool        `json:"degraded,omitempty"`
}

// GenerationProgress is pushed to the progress sink as the pipeline runs.
// CompletedSteps insertion order is completion order.
type GenerationProgress struct {
	CurrentStep            string   `json:"currentStep"`
	CompletedSteps         []string `json:"completedSteps"`
	Percentage             int      `json:"percentage"`             // 0..100
	EstimatedTimeRemaining int      `json:"estimatedTimeRemaining"` // seconds
	Explanation            string   `json:"explanation,omitempty"`
}
