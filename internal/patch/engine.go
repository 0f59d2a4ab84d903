// Package patch computes, serializes, and applies text diffs against
// generated documents. Entry points return structured results instead of
// errors: a failed patch is an expected outcome the caller routes to full
// regeneration, not an exception.
package patch

import (
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/protoweb/protoweb/internal/locator"
)

// Engine wraps the diff primitive. It is synchronous and holds no locks;
// at most one concurrent patch per document is a caller obligation.
type Engine struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

func NewEngine() *Engine {
	return &Engine{dmp: diffmatchpatch.New()}
}

// Diff computes the ordered insert/delete/equal operation list between
// two text states, cleaned up for human-meaningful boundaries.
func (e *Engine) Diff(old, new string) []diffmatchpatch.Diff {
	diffs := e.dmp.DiffMain(old, new, false)
	return e.dmp.DiffCleanupSemantic(diffs)
}

// MakePatch serializes the diff between old and new into a transportable
// patch-set string. The byte format is the diff library's; the contract
// is round-trip equivalence, not a specific layout.
func (e *Engine) MakePatch(old, new string) string {
	patches := e.dmp.PatchMake(old, new)
	return e.dmp.PatchToText(patches)
}

// ParsePatch parses a serialized patch set back to an operation list that
// applies identically to the one it was serialized from.
func (e *Engine) ParsePatch(text string) ([]diffmatchpatch.Patch, error) {
	patches, err := e.dmp.PatchFromText(text)
	if err != nil {
		return nil, fmt.Errorf("invalid patch set: %w", err)
	}
	return patches, nil
}

// Apply applies a serialized patch set to content. All-or-nothing: if any
// hunk fails to land, the whole application is an error and the partial
// output is discarded.
func (e *Engine) Apply(patchText, content string) (string, error) {
	patches, err := e.ParsePatch(patchText)
	if err != nil {
		return "", err
	}
	result, applied := e.dmp.PatchApply(patches, content)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("hunk %d of %d did not apply; content has drifted from the patch base", i+1, len(applied))
		}
	}
	return result, nil
}

// NewElementPatch builds the ephemeral record for one surgical edit.
func (e *Engine) NewElementPatch(selector, oldContent, newContent string) ElementPatch {
	return ElementPatch{
		ElementSelector: selector,
		PatchData:       e.MakePatch(oldContent, newContent),
		OldContent:      oldContent,
		NewContent:      newContent,
		Timestamp:       time.Now(),
	}
}

// ApplyElementPatch computes the patch for oldContent→newContent, locates
// elementID in fullDocument, applies the patch to the element's current
// text slice, and splices the result back into the document.
func (e *Engine) ApplyElementPatch(elementID, oldContent, newContent, fullDocument string) PatchResult {
	patchText := e.MakePatch(oldContent, newContent)

	span, err := locator.Locate(fullDocument, elementID)
	if err != nil {
		return PatchResult{
			Success:   false,
			ElementID: elementID,
			Error:     err.Error(),
		}
	}

	slice, lines := locator.SliceLines(fullDocument, span)
	patched, err := e.Apply(patchText, slice)
	if err != nil {
		return PatchResult{
			Success:   false,
			ElementID: elementID,
			Error:     fmt.Sprintf("patch did not apply to element %q: %v", elementID, err),
		}
	}

	updated := make([]string, 0, len(lines))
	updated = append(updated, lines[:span.StartLine-1]...)
	updated = append(updated, strings.Split(patched, "\n")...)
	updated = append(updated, lines[span.EndLine:]...)

	affected := make([]int, 0, span.EndLine-span.StartLine+1)
	for n := span.StartLine; n <= span.EndLine; n++ {
		affected = append(affected, n)
	}

	return PatchResult{
		Success:        true,
		UpdatedContent: strings.Join(updated, "\n"),
		PatchData:      patchText,
		AffectedLines:  affected,
		ElementID:      elementID,
	}
}

// ApplySectionPatch applies oldSection→newContent directly against a
// named section's stored content, with no locate step. All-or-nothing:
// callers must discard the result on failure rather than use partial
// output.
func (e *Engine) ApplySectionPatch(sectionName, oldSection, newContent string) PatchResult {
	patchText := e.MakePatch(oldSection, newContent)

	patched, err := e.Apply(patchText, oldSection)
	if err != nil {
		return PatchResult{
			Success:     false,
			SectionName: sectionName,
			Error:       fmt.Sprintf("patch did not apply to section %q: %v", sectionName, err),
		}
	}

	affected := make([]int, 0)
	for n := 1; n <= strings.Count(oldSection, "\n")+1; n++ {
		affected = append(affected, n)
	}

	return PatchResult{
		Success:        true,
		UpdatedContent: patched,
		PatchData:      patchText,
		AffectedLines:  affected,
		SectionName:    sectionName,
	}
}

// ApplyMultiplePatches applies serialized element patches sequentially
// against an evolving buffer. Failures are isolated: a failing patch is
// recorded by selector and skipped, the buffer keeps every successful
// patch, and processing continues. This asymmetry with ApplySectionPatch
// is deliberate: batches of independent element edits must survive one
// bad entry, while a single structural patch must never half-apply.
func (e *Engine) ApplyMultiplePatches(baseContent string, patches []ElementPatch) BatchResult {
	result := BatchResult{Content: baseContent}

	for _, p := range patches {
		span, err := locator.Locate(result.Content, p.ElementSelector)
		if err != nil {
			result.Errors = append(result.Errors, PatchFailure{
				Selector: p.ElementSelector,
				Reason:   err.Error(),
			})
			continue
		}

		slice, lines := locator.SliceLines(result.Content, span)
		patched, err := e.Apply(p.PatchData, slice)
		if err != nil {
			result.Errors = append(result.Errors, PatchFailure{
				Selector: p.ElementSelector,
				Reason:   err.Error(),
			})
			continue
		}

		updated := make([]string, 0, len(lines))
		updated = append(updated, lines[:span.StartLine-1]...)
		updated = append(updated, strings.Split(patched, "\n")...)
		updated = append(updated, lines[span.EndLine:]...)
		result.Content = strings.Join(updated, "\n")
		result.Applied = append(result.Applied, p.ElementSelector)
	}

	result.Success = len(result.Errors) == 0
	return result
}
