package openai

// Message is a single role-tagged chat message on the completion wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is sent to POST /v1/chat/completions. The relay always
// streams with deterministic sampling and a bounded answer length.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

// StreamChunk is one SSE data object in the completion stream.
type StreamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice is a single choice delta in a stream chunk.
type StreamChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta carries incremental content in a stream chunk.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// StreamEvent is one decoded event from the completion stream.
// Exactly one of Done and Err is set on the final event of a stream.
type StreamEvent struct {
	// Delta is the text fragment carried by a content event. May be empty.
	Delta string
	// Done is set when the [DONE] sentinel is observed. No further events
	// follow.
	Done bool
	// Err is set when the stream is malformed or the connection failed.
	// No further events follow.
	Err error
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}
