package ports

import "context"

// Interpreter asks the LLM for a tarot reading of the user's text and returns
// the raw response body. Transport failures and non-2xx statuses are errors.
type Interpreter interface {
	Interpret(ctx context.Context, userText string) ([]byte, error)
}
