package patch

import "time"

// ElementPatch records one surgical edit against a markup element. It is
// ephemeral: produced and applied within a single edit request. History
// and undo storage belong to external collaborators.
type ElementPatch struct {
	ElementSelector string    `json:"elementSelector"`
	PatchData       string    `json:"patchData"` // serialized patch set
	OldContent      string    `json:"oldContent"`
	NewContent      string    `json:"newContent"`
	Timestamp       time.Time `json:"timestamp"`
}

// PatchResult is returned, never thrown, by every engine entry point.
// AffectedLines are 1-based line numbers in the PRE-patch document; the
// same convention applies to element-scoped and section-scoped patches.
type PatchResult struct {
	Success        bool   `json:"success"`
	UpdatedContent string `json:"updatedContent,omitempty"`
	PatchData      string `json:"patchData,omitempty"`
	AffectedLines  []int  `json:"affectedLines,omitempty"`
	ElementID      string `json:"elementId,omitempty"`
	SectionName    string `json:"sectionName,omitempty"`
	Error          string `json:"error,omitempty"`
}

// PatchFailure names one patch that did not apply during a batch.
type PatchFailure struct {
	Selector string `json:"selector"`
	Reason   string `json:"reason"`
}

// BatchResult reports a sequential multi-patch application. Failures are
// isolated per patch: Content reflects every patch that applied cleanly,
// in original order, with failing patches skipped.
type BatchResult struct {
	Success bool           `json:"success"`
	Content string         `json:"content"`
	Applied []string       `json:"applied"` // selectors, in application order
	Errors  []PatchFailure `json:"errors,omitempty"`
}
