package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/protoweb/protoweb/internal/classify"
	"github.com/protoweb/protoweb/internal/eventbus"
	"github.com/protoweb/protoweb/internal/locator"
)

// HandleEdit routes a free-form instruction: surgical edits go through
// the patch engine, everything else (including any surgical-path
// failure) falls back to a full regeneration pass. A failed surgical
// edit never leaves a half-patched document visible.
func (bs *BuildService) HandleEdit(instruction, document string) {
	if document == "" {
		document = bs.state.Document()
	}

	decision := classify.Classify(instruction)
	if decision.Route == classify.RouteSurgical {
		if bs.applySurgicalEdit(instruction, document) {
			return
		}
		bs.state.AddNotice("Surgical edit was not possible; regenerating instead")
		bs.eventBus.SendToUI(eventbus.EditAppliedEvent{FellBack: true})
	}

	bs.regenerateWithEdit(instruction)
}

// applySurgicalEdit attempts the patch path end to end. Reports whether
// the edit landed; any failure leaves the stored document untouched.
func (bs *BuildService) applySurgicalEdit(instruction, document string) bool {
	if bs.orch == nil || document == "" {
		return false
	}

	bs.state.StartEdit()
	bs.pushStateToUI()

	target := FindEditTarget(instruction, document)
	if target == "" {
		bs.state.FinishEdit("")
		return false
	}

	span, err := locator.Locate(document, target)
	if err != nil {
		bs.state.FinishEdit("")
		return false
	}
	oldContent, _ := locator.SliceLines(document, span)

	newContent, err := bs.orch.GenerateElementEdit(bs.ctx, oldContent, instruction)
	if err != nil || strings.TrimSpace(newContent) == "" {
		bs.state.FinishEdit("")
		return false
	}

	result := bs.engine.ApplyElementPatch(target, oldContent, newContent, document)
	if !result.Success {
		bs.state.FinishEdit("")
		return false
	}

	bs.state.FinishEdit(result.UpdatedContent)
	bs.state.AddNotice(fmt.Sprintf("Applied edit to %s (lines %d-%d)",
		target, result.AffectedLines[0], result.AffectedLines[len(result.AffectedLines)-1]))
	bs.eventBus.SendToUI(eventbus.EditAppliedEvent{
		ElementID:     target,
		AffectedLines: result.AffectedLines,
		Document:      result.UpdatedContent,
	})
	bs.pushStateToUI()
	return true
}

// regenerateWithEdit folds the instruction into the original prompt and
// runs the full pipeline again.
func (bs *BuildService) regenerateWithEdit(instruction string) {
	prompt := bs.state.Prompt()
	if prompt == "" {
		prompt = instruction
	} else {
		prompt = prompt + "\n\nAdditionally: " + instruction
	}
	bs.RunPipeline(prompt)
}

var elementAttrRe = regexp.MustCompile(`(?:data-element|id)\s*=\s*["']([^"']+)["']`)

// FindEditTarget picks the document element the instruction refers to:
// the first id/data-element name that appears, as a word, inside the
// instruction text. Empty when nothing matches, which sends the edit to
// regeneration.
func FindEditTarget(instruction, document string) string {
	lower := strings.ToLower(instruction)
	seen := map[string]bool{}

	for _, m := range elementAttrRe.FindAllStringSubmatch(document, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		if containsWord(lower, strings.ToLower(name)) {
			return name
		}
		// Names like "contact-form" are usually spoken as "contact form".
		spoken := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(name))
		if spoken != strings.ToLower(name) && strings.Contains(lower, spoken) {
			return name
		}
	}
	return ""
}

func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
