package domain

// Chat message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage represents a single message in a provider conversation.
type ChatMessage struct {
	// Role is one of RoleSystem or RoleUser.
	Role string

	// Content is the message text.
	Content string
}

// ApproxTokens estimates the token count of a text as len/4, with a
// minimum of one. This is a deliberate simplification: cost figures
// derived from it are estimates, never billed truth.
func ApproxTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		return 1
	}
	return n
}

// ApproxMessageTokens estimates the total token count of a conversation.
func ApproxMessageTokens(messages []ChatMessage) int {
	total := 0
	for _, m := range messages {
		total += ApproxTokens(m.Content)
	}
	if total < 1 {
		return 1
	}
	return total
}
