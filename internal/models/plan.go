package models

import "time"

// ComponentType categorizes a planned component.
type ComponentType string

const (
	ComponentLayout    ComponentType = "layout"
	ComponentComponent ComponentType = "component"
	ComponentFeature   ComponentType = "feature"
	ComponentUtility   ComponentType = "utility"
)

// Complexity is the planner's effort estimate for a component.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ComponentPlan describes one component the generator will produce.
type ComponentPlan struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Type                ComponentType `json:"type"`
	Description         string        `json:"description"`
	Features            []string      `json:"features"`
	EstimatedComplexity Complexity    `json:"estimatedComplexity"`
}

// Architecture describes the overall shape of the generated prototype.
type Architecture struct {
	Structure    string `json:"structure"`
	Styling      string `json:"styling"`
	Interactions string `json:"interactions"`
	Responsive   bool   `json:"responsive"`
}

// Timeline is the planner's time estimate.
type Timeline struct {
	TotalMinutes int               `json:"totalMinutes"`
	Phases       map[string]string `json:"phases"`
}

// GenerationPlan is the structured breakdown of a generation request.
// Once approved, Components and Architecture are only changed through an
// explicit modification action, never implicitly during generation.
type GenerationPlan struct {
	ID           string          `json:"id"`
	Components   []ComponentPlan `json:"components"`
	Architecture Architecture    `json:"architecture"`
	Timeline     Timeline        `json:"timeline"`
	Dependencies []string        `json:"dependencies"`
	Approved     bool            `json:"approved"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Validate checks the plan schema contract: a plan parsed from the gateway
// must carry an id, at least one component, and an architecture descriptor.
func (p *GenerationPlan) Validate() error {
	if p.ID == "" {
		return ErrPlanMissingID
	}
	if len(p.Components) == 0 {
		return ErrPlanMissingComponents
	}
	if p.Architecture.Structure == "" {
		return ErrPlanMissingArchitecture
	}
	if p.Timeline.TotalMinutes <= 0 {
		return ErrPlanMissingTimeline
	}
	return nil
}

// Preferences carries user-tunable generation settings.
type Preferences struct {
	Styling     string  `json:"styling"` // "tailwind" or "css"
	Responsive  bool    `json:"responsive"`
	IncludeDocs bool    `json:"include_docs"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultPreferences returns the settings used when a profile carries none.
func DefaultPreferences() Preferences {
	return Preferences{
		Styling:     "tailwind",
		Responsive:  true,
		IncludeDocs: true,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}
