package server

// ValidationRequest is the body of POST /validate.
type ValidationRequest struct {
	Qpl string `json:"qpl"`
}

// ValidationResult is the tagged-union response of POST /validate: either
// {"tag":"valid"} or {"tag":"invalid","reason":"..."}.
type ValidationResult struct {
	Tag    string `json:"tag"`
	Reason string `json:"reason,omitempty"`
}

func validResult() ValidationResult {
	return ValidationResult{Tag: "valid"}
}

func invalidResult(reason string) ValidationResult {
	return ValidationResult{Tag: "invalid", Reason: reason}
}

// FeedResult is the tagged-union outcome of feeding one more token into a
// partial parse: complete, partial, or a failure carrying a message.
type FeedResult struct {
	Tag     string `json:"tag"`
	Message string `json:"message,omitempty"`
}

func completeResult() FeedResult { return FeedResult{Tag: "complete"} }
func partialResult() FeedResult  { return FeedResult{Tag: "partial"} }
func failureResult(msg string) FeedResult {
	return FeedResult{Tag: "failure", Message: msg}
}

// BatchFeedResult reports one (batch element, candidate next token) feed
// outcome, the shape POST /parse returns for every top-token candidate of
// every batch element it was given.
type BatchFeedResult struct {
	BatchID    int        `json:"batch_id"`
	TopToken   int        `json:"top_token"`
	FeedResult FeedResult `json:"feed_result"`
}

// ParseRequest is the body of POST /parse: one token-id prefix per batch
// element, and the candidate next tokens to test against each.
type ParseRequest struct {
	InputIDs  [][]int `json:"input_ids"`
	TopTokens [][]int `json:"top_tokens"`
}
