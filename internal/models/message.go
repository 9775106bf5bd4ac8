package models

// Role identifies who authored a message in the conversation
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// Message is one turn in the conversation thread.
// Messages are created once and never mutated afterwards.
type Message struct {
	ID      int    // monotonic, unique within a session
	Role    Role   // RoleUser or RoleAssistant
	Content string // plain text or markdown source
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant reports whether the message came from the webhook side
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}
