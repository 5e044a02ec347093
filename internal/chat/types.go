package chat

// Message roles accepted on the inbound request and forwarded upstream.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Model tiers recognised by the token budget table.
const (
	TierStandard = "standard"
	TierPremium  = "premium"
)

// DefaultSystemPrompt is used when the caller does not supply one.
const DefaultSystemPrompt = "You are a helpful assistant. Follow the user's instructions carefully. Respond using Markdown."

// Request is the inbound body of POST /api/chat.
type Request struct {
	Model    Model     `json:"model"`
	Messages []Message `json:"messages"`
	// Key, when present, overrides the server-side API key for the
	// embedding and completion calls.
	Key string `json:"key,omitempty"`
	// Prompt, when present, overrides DefaultSystemPrompt.
	Prompt string `json:"prompt,omitempty"`
}

// Model identifies the upstream completion model and its budget tier.
type Model struct {
	ID   string `json:"id"`
	Tier string `json:"tier"`
}

// Message is a single chat turn. Order is chronological; roles repeat.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LastUserMessage returns the index of the most recent user message, or -1
// when the conversation contains none.
func LastUserMessage(msgs []Message) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return i
		}
	}
	return -1
}
