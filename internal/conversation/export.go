package conversation

import (
	"strings"

	"github.com/cinematen/wabliefteru/internal/models"
)

// ExportMarkdown formats messages as a Markdown transcript with one section per turn
func ExportMarkdown(title string, messages []models.Message) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	for i, msg := range messages {
		role := "Vraag"
		if msg.Role == models.RoleAssistant {
			role = "Antwoord"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		// Separator between messages (except last)
		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}
