package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

func classifyStatus(provider Name, status int, body string) AttemptResult {
	err := fmt.Errorf("%s: http %d: %s", provider, status, truncate(body, 512))

	switch status {
	case http.StatusTooManyRequests:
		return Failed(RateLimited, err)
	case http.StatusPaymentRequired:
		return Failed(QuotaExhausted, err)
	}
	return Failed(MalformedResponse, err)
}

// classifyError turns a transport level error into an attempt result. The
// chain is aborted only when the caller's own context is done.
func classifyError(ctx context.Context, provider Name, err error) AttemptResult {
	err = fmt.Errorf("%s: %w", provider, err)
	if errors.Is(ctx.Err(), context.Canceled) {
		return Aborted(err)
	}
	return Failed(TransportError, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
