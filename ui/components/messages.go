package components

import (
	"strings"

	"github.com/protoweb/protoweb/internal/models"
	"github.com/protoweb/protoweb/ui/styles"
)

func RenderMessages(messages []models.Message) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	stepStyle := styles.StepStyle()
	programStyle := styles.ProgramStyle()
	noticeStyle := styles.NoticeStyle()

	for _, msg := range messages {
		switch msg.Type {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.Step:
			b.WriteString(stepStyle.Render("• "+msg.Content) + "\n")
		case models.Program:
			b.WriteString(programStyle.Render(msg.Content) + "\n\n")
		case models.Notice:
			b.WriteString(noticeStyle.Render(msg.Content) + "\n")
		}
	}

	return b.String()
}
