package metrics

// TokenUsage captures LLM token counts used to satisfy a request.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// Estimate builds a usage record from prompt and completion texts.
func Estimate(counter TokenCounter, prompt []string, completion string) TokenUsage {
	if counter == nil {
		counter = WordCounter{}
	}
	usage := TokenUsage{CompletionTokens: counter.Count(completion)}
	for _, p := range prompt {
		usage.PromptTokens += counter.Count(p)
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	return usage
}
