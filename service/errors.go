package service

import "errors"

var (
	ErrNoProvider       = errors.New("no provider configured")
	ErrInvalidImage     = errors.New("invalid or empty user image")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrQuotaExhausted   = errors.New("usage limit reached")
	ErrGenerationFailed = errors.New("image generation failed")
	ErrCancelled        = errors.New("request cancelled")
)

var userMessages = []struct {
	err error
	msg string
}{
	{ErrNoProvider, "no provider configured"},
	{ErrInvalidImage, "Invalid or empty user image. Please try capturing again."},
	{ErrRateLimited, "Rate limit exceeded, please try again later."},
	{ErrQuotaExhausted, "Usage limit reached. Please add credits to continue."},
	{ErrGenerationFailed, "Image generation failed. Please try again."},
	{ErrCancelled, "Request was cancelled."},
}

// UserMessage returns text that is safe to show to the shopper. Provider
// details never leak through it.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Something went wrong. Please try again."
}
