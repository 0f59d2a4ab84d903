package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/protoweb/protoweb/internal/eventbus"
	"github.com/protoweb/protoweb/internal/models"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus. The
// input line is a prompt until a document exists, then an edit
// instruction.
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus, serviceReady bool) tea.Cmd {
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "enter":
		input := strings.TrimSpace(appModel.Input)
		if input == "" {
			return nil
		}
		if !serviceReady {
			appModel.Input = ""
			appModel.Status = "Build service not available"
			return nil
		}

		var event eventbus.UIEvent
		if appModel.HasDocument {
			event = eventbus.EditRequestEvent{Instruction: input}
		} else {
			event = eventbus.GenerateRequestEvent{Prompt: input}
		}
		if err := eb.SendToCore(event); err != nil {
			appModel.Status = "Error sending request: " + err.Error()
			return nil
		}

		// Only manage local UI state - clear input
		appModel.Input = ""
		return nil
	case "backspace":
		if len(appModel.Input) > 0 {
			appModel.Input = appModel.Input[:len(appModel.Input)-1]
		}
	default:
		if len(keyMsg.String()) == 1 {
			appModel.Input += keyMsg.String()
		}
	}
	return nil
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		appModel.Messages = event.Messages
		appModel.Progress = event.Progress
		appModel.Loading = event.IsProcessing
		appModel.HasDocument = event.HasDocument

		if event.Error != nil {
			appModel.Status = "Error: " + event.Error.Error()
		} else if event.IsProcessing {
			appModel.Status = "Working: " + event.Progress.CurrentStep
		} else if event.HasDocument {
			appModel.Status = "Ready - type an edit instruction"
		} else {
			appModel.Status = "Ready"
		}
	case eventbus.StreamChunkEvent:
		appModel.StreamTail = tail(appModel.StreamTail+event.Chunk, 2000)
	case eventbus.DocumentReadyEvent:
		appModel.StreamTail = ""
		appModel.HasDocument = true
	case eventbus.EditAppliedEvent:
		if event.FellBack {
			appModel.Status = "Edit needs regeneration - rebuilding"
		} else {
			appModel.Status = "Edit applied to " + event.ElementID
		}
	}

	return nil
}

// tail keeps the last n bytes of the streaming pane buffer.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
