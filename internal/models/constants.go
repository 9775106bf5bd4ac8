// Package models contains data types and constants for the Wabliefteru chat client.
package models

// DefaultWebhookURL is the question-answering endpoint used when nothing overrides it
const DefaultWebhookURL = "https://n8n.cinematen.be/webhook/wabliefteru-chatbot"

// Localized texts shown in the conversation
const (
	// WelcomeText is the first seeded assistant message
	WelcomeText = "Stel een vraag over de Wabliefteru Podcast!"

	// ScopeReminderText is the second seeded assistant message
	ScopeReminderText = "Vraag enkel over de inhoud van de afleveringen!"

	// EmptyReplyText replaces a successful but empty reply
	EmptyReplyText = "(Leeg antwoord)"

	// FailureText is appended whenever a dispatch fails for any reason
	FailureText = "Oei! Er ging iets mis... Jammer! Maar bekijk het langs de positieve kant: ge hebt ten minste nog een job 😅"

	// SearchingText is shown while a dispatch is pending
	SearchingText = "Ik ga op zoek…"

	// InputPlaceholder is the hint shown in the empty input field
	InputPlaceholder = "Typ hier je vraag"

	// AppTitle is the chat window title
	AppTitle = "Wabliefteru Chatbot"
)

// SeedMessages returns the assistant messages every new conversation starts with
func SeedMessages() []Message {
	return []Message{
		{ID: 1, Role: RoleAssistant, Content: WelcomeText},
		{ID: 2, Role: RoleAssistant, Content: ScopeReminderText},
	}
}

// RequestHeaders returns the headers sent with every webhook request
func RequestHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json, text/plain, */*",
	}
}
