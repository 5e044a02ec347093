package chat

// TokenCounter reports the model token count of a text. Implemented by
// tokenizer.Tokenizer; tests substitute cheaper counters.
type TokenCounter interface {
	Count(text string) int
}

var tokenBudgets = map[string]int{
	TierStandard: 3000,
	TierPremium:  6000,
}

const defaultTokenBudget = 3000

// BudgetFor returns the token budget for a model tier. Unknown tiers fall
// back to the standard budget.
func BudgetFor(tier string) int {
	if b, ok := tokenBudgets[tier]; ok {
		return b
	}
	return defaultTokenBudget
}

// Window selects the trailing run of messages that fits under budget
// together with the instruction prompt. The scan walks from the newest
// message backwards and stops at the first message that would overflow;
// messages are never truncated, a message either fully fits or is fully
// excluded. When the prompt alone exceeds the budget the window is empty.
func Window(tc TokenCounter, prompt string, msgs []Message, budget int) []Message {
	total := tc.Count(prompt)

	start := len(msgs)
	for i := len(msgs) - 1; i >= 0; i-- {
		n := tc.Count(msgs[i].Content)
		if total+n > budget {
			break
		}
		total += n
		start = i
	}
	return msgs[start:]
}
