// Package tokenizer wraps the tiktoken BPE tokenizer used for token-budget
// accounting. The encoding table is loaded once at process start; a load
// failure means no request can be budgeted and is fatal to the caller.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding matches the cl100k_base vocabulary used by the chat and
// embedding models this service talks to.
const DefaultEncoding = "cl100k_base"

// Tokenizer counts model tokens. Safe for concurrent use; read-only after New.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New loads the named encoding table.
func New(encoding string) (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encoding, err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}
