package models

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages     []Message          // Activity log lines
	Input        string             // User input field
	Status       string             // Status bar text
	Loading      bool               // Loading state from core
	LoadingDots  int                // Animation counter for loading dots
	Width        int                // Terminal width
	Height       int                // Terminal height
	ServiceReady bool               // Whether the build service is available
	Progress     GenerationProgress // Latest progress snapshot from core
	StreamTail   string             // Tail of the section currently streaming
	HasDocument  bool               // A completed document exists; input is treated as an edit instruction
}
