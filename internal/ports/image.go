package ports

import "context"

// Illustrator asks the image-generation API for a picture and returns the raw
// response body. Transport failures and non-2xx statuses are errors.
type Illustrator interface {
	Illustrate(ctx context.Context, prompt string) ([]byte, error)
}
